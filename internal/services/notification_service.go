package services

import (
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/repository"
	"time"
)

type NotificationService interface {
	Notify(email string, ntype models.NotificationType, message, link string) error
	GetNotifications(email string) ([]models.Notification, error)
	MarkAsRead(email string, id int64) error
	MarkAllAsRead(email string) error
	ClearAll(email string) error
	UnreadCount(email string) (int, error)
}

type notificationService struct {
	store repository.NotificationStore
}

func NewNotificationService(store repository.NotificationStore) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) Notify(email string, ntype models.NotificationType, message, link string) error {
	notifications, err := s.store.Load(email)
	if err != nil {
		return err
	}

	notification := models.Notification{
		ID:        nextID(notifications),
		Type:      string(ntype),
		Message:   message,
		Read:      false,
		Timestamp: time.Now(),
		Link:      link,
	}

	notifications = append(notifications, notification)
	return s.store.Save(email, notifications)
}

func (s *notificationService) GetNotifications(email string) ([]models.Notification, error) {
	notifications, err := s.store.Load(email)
	if err != nil {
		return nil, err
	}

	// Newest first
	for i, j := 0, len(notifications)-1; i < j; i, j = i+1, j-1 {
		notifications[i], notifications[j] = notifications[j], notifications[i]
	}
	return notifications, nil
}

func (s *notificationService) MarkAsRead(email string, id int64) error {
	notifications, err := s.store.Load(email)
	if err != nil {
		return err
	}

	for i := range notifications {
		if notifications[i].ID == id {
			notifications[i].Read = true
		}
	}
	return s.store.Save(email, notifications)
}

func (s *notificationService) MarkAllAsRead(email string) error {
	notifications, err := s.store.Load(email)
	if err != nil {
		return err
	}

	for i := range notifications {
		notifications[i].Read = true
	}
	return s.store.Save(email, notifications)
}

func (s *notificationService) ClearAll(email string) error {
	return s.store.Clear(email)
}

func (s *notificationService) UnreadCount(email string) (int, error) {
	notifications, err := s.store.Load(email)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// nextID derives a timestamp-based identifier, bumped past any existing ids
// so two appends within the same millisecond stay unique.
func nextID(notifications []models.Notification) int64 {
	id := time.Now().UnixMilli()
	for _, n := range notifications {
		if n.ID >= id {
			id = n.ID + 1
		}
	}
	return id
}
