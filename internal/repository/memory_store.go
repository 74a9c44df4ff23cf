package repository

import (
	"pest_marketplace/internal/models"
	"sync"
)

// MemoryOrderStore is an in-memory OrderStore used by tests and local
// development without Redis.
type MemoryOrderStore struct {
	mu     sync.Mutex
	orders []models.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{}
}

func (s *MemoryOrderStore) Load() ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)
	return orders, nil
}

func (s *MemoryOrderStore) Save(orders []models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = make([]models.Order, len(orders))
	copy(s.orders, orders)
	return nil
}

// MemoryNotificationStore is an in-memory NotificationStore counterpart.
type MemoryNotificationStore struct {
	mu    sync.Mutex
	lists map[string][]models.Notification
}

func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{lists: make(map[string][]models.Notification)}
}

func (s *MemoryNotificationStore) Load(email string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Notification, len(s.lists[email]))
	copy(list, s.lists[email])
	return list, nil
}

func (s *MemoryNotificationStore) Save(email string, notifications []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Notification, len(notifications))
	copy(list, notifications)
	s.lists[email] = list
	return nil
}

func (s *MemoryNotificationStore) Clear(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, email)
	return nil
}
