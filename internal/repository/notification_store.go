package repository

import (
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/redis"
)

// NotificationStore persists each user's notification list under a per-user
// key, keyed by email.
type NotificationStore interface {
	Load(email string) ([]models.Notification, error)
	Save(email string, notifications []models.Notification) error
	Clear(email string) error
}

type redisNotificationStore struct {
	client *redis.Client
}

func NewNotificationStore(client *redis.Client) NotificationStore {
	return &redisNotificationStore{client: client}
}

func notificationsKey(email string) string {
	return "notifications:" + email
}

func (s *redisNotificationStore) Load(email string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.client.GetCollection(notificationsKey(email), &notifications)
	if err != nil {
		if err == redis.ErrNotFound {
			return []models.Notification{}, nil
		}
		return nil, err
	}
	return notifications, nil
}

func (s *redisNotificationStore) Save(email string, notifications []models.Notification) error {
	return s.client.SetCollection(notificationsKey(email), notifications)
}

func (s *redisNotificationStore) Clear(email string) error {
	return s.client.DeleteKey(notificationsKey(email))
}
