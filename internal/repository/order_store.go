package repository

import (
	"log"
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/redis"
)

const ordersKey = "orders:all"

// OrderStore is the persistence boundary around the order collection. The
// collection is one serialized array under a single key: load everything,
// mutate in memory, save everything back. There are no partial writes and
// no versioning; interleaved writers are last-write-wins.
type OrderStore interface {
	Load() ([]models.Order, error)
	Save(orders []models.Order) error
}

type redisOrderStore struct {
	client *redis.Client
}

func NewOrderStore(client *redis.Client) OrderStore {
	return &redisOrderStore{client: client}
}

func (s *redisOrderStore) Load() ([]models.Order, error) {
	var stored []models.Order
	err := s.client.GetCollection(ordersKey, &stored)
	if err != nil {
		if err == redis.ErrNotFound {
			return []models.Order{}, nil
		}
		return nil, err
	}

	orders := make([]models.Order, 0, len(stored))
	for _, order := range stored {
		if _, err := models.ParseOrderStatus(string(order.Status)); err != nil {
			// Malformed records are excluded from the working set and
			// reported, not coerced to pending.
			log.Printf("Warning: dropping order %d with malformed status %q", order.ID, order.Status)
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (s *redisOrderStore) Save(orders []models.Order) error {
	return s.client.SetCollection(ordersKey, orders)
}
