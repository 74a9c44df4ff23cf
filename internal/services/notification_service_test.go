package services

import (
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotificationService() (NotificationService, *repository.MemoryNotificationStore) {
	store := repository.NewMemoryNotificationStore()
	return NewNotificationService(store), store
}

func TestNotify_AppendsUnreadNotification(t *testing.T) {
	svc, store := newTestNotificationService()

	err := svc.Notify("a@x.com", models.NotifySuccess, "Your order for Crop Spraying Service has been confirmed.", "/orders/1")
	require.NoError(t, err)

	notifications, err := store.Load("a@x.com")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "success", notifications[0].Type)
	assert.False(t, notifications[0].Read)
	assert.NotZero(t, notifications[0].ID)
	assert.Equal(t, "/orders/1", notifications[0].Link)
}

func TestNotify_IDsStayUnique(t *testing.T) {
	svc, store := newTestNotificationService()

	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "first", ""))
	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "second", ""))
	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "third", ""))

	notifications, err := store.Load("a@x.com")
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	seen := make(map[int64]bool)
	for _, n := range notifications {
		assert.False(t, seen[n.ID])
		seen[n.ID] = true
	}
}

func TestUnreadCount(t *testing.T) {
	svc, _ := newTestNotificationService()

	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "first", ""))
	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "second", ""))
	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "third", ""))

	notifications, err := svc.GetNotifications("a@x.com")
	require.NoError(t, err)
	require.Len(t, notifications, 3)

	require.NoError(t, svc.MarkAsRead("a@x.com", notifications[0].ID))

	count, err := svc.UnreadCount("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.MarkAllAsRead("a@x.com"))

	count, err = svc.UnreadCount("a@x.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetNotifications_NewestFirst(t *testing.T) {
	svc, _ := newTestNotificationService()

	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "first", ""))
	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "second", ""))

	notifications, err := svc.GetNotifications("a@x.com")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "second", notifications[0].Message)
	assert.Equal(t, "first", notifications[1].Message)
}

func TestClearAll(t *testing.T) {
	svc, _ := newTestNotificationService()

	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "first", ""))
	require.NoError(t, svc.ClearAll("a@x.com"))

	notifications, err := svc.GetNotifications("a@x.com")
	require.NoError(t, err)
	assert.Empty(t, notifications)

	count, err := svc.UnreadCount("a@x.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotifications_ScopedPerUser(t *testing.T) {
	svc, _ := newTestNotificationService()

	require.NoError(t, svc.Notify("a@x.com", models.NotifyInfo, "for a", ""))
	require.NoError(t, svc.Notify("b@x.com", models.NotifyInfo, "for b", ""))

	notifications, err := svc.GetNotifications("a@x.com")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "for a", notifications[0].Message)
}
