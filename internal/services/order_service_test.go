package services

import (
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCounter implements PendingCounter for testing
type mockCounter struct {
	count int
	sets  int
}

func (m *mockCounter) SetPendingCount(count int) error {
	m.count = count
	m.sets++
	return nil
}

func (m *mockCounter) GetPendingCount() (int, error) {
	return m.count, nil
}

func newTestOrderService(orders []models.Order) (OrderService, *repository.MemoryOrderStore, *repository.MemoryNotificationStore, *mockCounter) {
	store := repository.NewMemoryOrderStore()
	if orders != nil {
		store.Save(orders)
	}
	notifStore := repository.NewMemoryNotificationStore()
	counter := &mockCounter{}
	svc := NewOrderService(store, counter, NewNotificationService(notifStore))
	return svc, store, notifStore, counter
}

func testFarmer() *models.User {
	return &models.User{
		ID:      7,
		Name:    "Ana Diaz",
		Email:   "a@x.com",
		Phone:   "0800111222",
		Address: "3 Orchard Lane",
		Role:    string(models.RoleFarmer),
	}
}

func pendingOrder(id int64, farmerEmail string) models.Order {
	return models.Order{
		ID:           id,
		FarmerName:   "Ana Diaz",
		FarmerEmail:  farmerEmail,
		ServiceTitle: "Crop Spraying Service",
		CompanyName:  "GreenShield Pest Control",
		OrderDate:    time.Now(),
		Status:       models.OrderPending,
		TotalAmount:  150,
	}
}

func TestPlaceOrder_ServiceTotalIgnoresQuantity(t *testing.T) {
	svc, _, _, counter := newTestOrderService(nil)
	price := 150.0
	listing := &models.Listing{Title: "Crop Spraying Service", Price: &price, ListingType: string(models.ListingService)}

	order, err := svc.PlaceOrder(testFarmer(), listing, "GreenShield Pest Control", 5, nil, "")
	require.NoError(t, err)

	assert.Equal(t, 150.0, order.TotalAmount)
	assert.Zero(t, order.Quantity)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "a@x.com", order.FarmerEmail)
	assert.Equal(t, 1, counter.count)
}

func TestPlaceOrder_ProductTotalIsUnitPriceTimesQuantity(t *testing.T) {
	svc, _, _, _ := newTestOrderService(nil)
	price := 25.5
	listing := &models.Listing{Title: "Pheromone Trap Pack", Price: &price, ListingType: string(models.ListingProduct)}

	order, err := svc.PlaceOrder(testFarmer(), listing, "GreenShield Pest Control", 3, nil, "")
	require.NoError(t, err)

	assert.Equal(t, 76.5, order.TotalAmount)
	assert.Equal(t, 3, order.Quantity)
}

func TestPlaceOrder_ProductRequiresQuantity(t *testing.T) {
	svc, _, _, _ := newTestOrderService(nil)
	price := 25.5
	listing := &models.Listing{Title: "Pheromone Trap Pack", Price: &price, ListingType: string(models.ListingProduct)}

	_, err := svc.PlaceOrder(testFarmer(), listing, "GreenShield Pest Control", 0, nil, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPlaceOrder_PriceOnRequest(t *testing.T) {
	svc, _, _, _ := newTestOrderService(nil)
	listing := &models.Listing{Title: "Custom Fumigation", ListingType: string(models.ListingService)}

	order, err := svc.PlaceOrder(testFarmer(), listing, "GreenShield Pest Control", 0, nil, "")
	require.NoError(t, err)
	assert.Zero(t, order.TotalAmount)
}

func TestPlaceOrder_IDsAreUniqueAndMonotonic(t *testing.T) {
	svc, _, _, _ := newTestOrderService(nil)
	price := 10.0
	listing := &models.Listing{Title: "Spot Treatment", Price: &price, ListingType: string(models.ListingService)}

	first, err := svc.PlaceOrder(testFarmer(), listing, "GreenShield Pest Control", 0, nil, "")
	require.NoError(t, err)
	second, err := svc.PlaceOrder(testFarmer(), listing, "GreenShield Pest Control", 0, nil, "")
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
}

func TestTransition_CompanyConfirmsPendingOrder(t *testing.T) {
	before := pendingOrder(1, "a@x.com")
	svc, store, notifStore, counter := newTestOrderService([]models.Order{before})

	order, err := svc.Transition(1, models.OrderConfirmed, models.RoleCompany, "ops@greenshield.local")
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, order.Status)

	// No field other than status changes
	after := *order
	after.Status = before.Status
	assert.Equal(t, before, after)

	// Persisted back
	saved, err := store.Load()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, models.OrderConfirmed, saved[0].Status)

	// Pending count recomputed
	assert.Equal(t, 0, counter.count)
	assert.Equal(t, 1, counter.sets)

	// Notification appended to the farmer's list
	notifications, err := notifStore.Load("a@x.com")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "has been confirmed.")
	assert.False(t, notifications[0].Read)
}

func TestTransition_FarmerCancelsOwnPendingOrder(t *testing.T) {
	svc, _, _, _ := newTestOrderService([]models.Order{pendingOrder(1, "a@x.com")})

	order, err := svc.Transition(1, models.OrderCancelled, models.RoleFarmer, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, order.Status)

	// Repeating the request is rejected and the state unchanged
	_, err = svc.Transition(1, models.OrderCancelled, models.RoleFarmer, "a@x.com")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	view, err := svc.GetOrder(1, models.RoleFarmer, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, view.Status)
}

func TestTransition_FarmerCannotCancelNonPending(t *testing.T) {
	order := pendingOrder(1, "a@x.com")
	order.Status = models.OrderConfirmed
	svc, _, _, _ := newTestOrderService([]models.Order{order})

	_, err := svc.Transition(1, models.OrderCancelled, models.RoleFarmer, "a@x.com")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_FarmerCannotTouchOthersOrder(t *testing.T) {
	svc, _, _, _ := newTestOrderService([]models.Order{pendingOrder(1, "a@x.com")})

	_, err := svc.Transition(1, models.OrderCancelled, models.RoleFarmer, "b@x.com")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTransition_CompanyCannotSkipStates(t *testing.T) {
	svc, store, _, _ := newTestOrderService([]models.Order{pendingOrder(1, "a@x.com")})

	_, err := svc.Transition(1, models.OrderCompleted, models.RoleCompany, "ops@greenshield.local")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, saved[0].Status)
}

func TestTransition_AdminOverridesTerminalState(t *testing.T) {
	order := pendingOrder(1, "a@x.com")
	order.Status = models.OrderCancelled
	svc, _, _, _ := newTestOrderService([]models.Order{order})

	updated, err := svc.Transition(1, models.OrderPending, models.RoleAdmin, "admin@pestmarket.local")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, updated.Status)
}

func TestTransition_OrderNotFound(t *testing.T) {
	svc, _, _, _ := newTestOrderService(nil)

	_, err := svc.Transition(99, models.OrderConfirmed, models.RoleCompany, "ops@greenshield.local")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVisibleOrders_FarmerSeesOnlyOwnOrders(t *testing.T) {
	svc, _, _, _ := newTestOrderService([]models.Order{
		pendingOrder(1, "a@x.com"),
		pendingOrder(2, "b@x.com"),
		pendingOrder(3, "a@x.com"),
	})

	views, err := svc.VisibleOrders(models.RoleFarmer, "a@x.com", OrderQuery{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, view := range views {
		assert.Equal(t, "a@x.com", view.FarmerEmail)
		assert.Equal(t, []models.OrderStatus{models.OrderCancelled}, view.Actions)
	}
}

func TestVisibleOrders_CompanyHidesCompletedByDefault(t *testing.T) {
	completed := pendingOrder(2, "a@x.com")
	completed.Status = models.OrderCompleted
	svc, _, _, _ := newTestOrderService([]models.Order{pendingOrder(1, "a@x.com"), completed})

	views, err := svc.VisibleOrders(models.RoleCompany, "ops@greenshield.local", OrderQuery{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), views[0].ID)

	history, err := svc.VisibleOrders(models.RoleCompany, "ops@greenshield.local", OrderQuery{IncludeHistory: true})
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestVisibleOrders_AdminSeesEverything(t *testing.T) {
	completed := pendingOrder(2, "b@x.com")
	completed.Status = models.OrderCompleted
	svc, _, _, _ := newTestOrderService([]models.Order{pendingOrder(1, "a@x.com"), completed})

	views, err := svc.VisibleOrders(models.RoleAdmin, "admin@pestmarket.local", OrderQuery{})
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestVisibleOrders_MissingIdentityYieldsNothing(t *testing.T) {
	svc, _, _, _ := newTestOrderService([]models.Order{pendingOrder(1, "a@x.com")})

	views, err := svc.VisibleOrders(models.RoleFarmer, "", OrderQuery{})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestVisibleOrders_SearchAndStatusFilter(t *testing.T) {
	other := pendingOrder(2, "a@x.com")
	other.ServiceTitle = "Rodent Baiting"
	other.Status = models.OrderConfirmed
	svc, _, _, _ := newTestOrderService([]models.Order{pendingOrder(1, "a@x.com"), other})

	views, err := svc.VisibleOrders(models.RoleAdmin, "admin@pestmarket.local", OrderQuery{Search: "RODENT"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(2), views[0].ID)

	views, err = svc.VisibleOrders(models.RoleAdmin, "admin@pestmarket.local", OrderQuery{Status: models.OrderConfirmed})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(2), views[0].ID)
}

func TestPurge_FarmerRemovesTerminalOrderOnly(t *testing.T) {
	cancelled := pendingOrder(1, "a@x.com")
	cancelled.Status = models.OrderCancelled
	svc, store, _, _ := newTestOrderService([]models.Order{cancelled, pendingOrder(2, "a@x.com")})

	require.NoError(t, svc.Purge(1, models.RoleFarmer, "a@x.com", ""))

	err := svc.Purge(2, models.RoleFarmer, "a@x.com", "")
	assert.ErrorIs(t, err, ErrNotTerminal)

	saved, err := store.Load()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, int64(2), saved[0].ID)
}

func TestPurge_FarmerCannotRemoveOthersOrder(t *testing.T) {
	cancelled := pendingOrder(1, "b@x.com")
	cancelled.Status = models.OrderCancelled
	svc, _, _, _ := newTestOrderService([]models.Order{cancelled})

	err := svc.Purge(1, models.RoleFarmer, "a@x.com", "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPurge_CompanyRemovesOwnTerminalOrder(t *testing.T) {
	completed := pendingOrder(1, "a@x.com")
	completed.Status = models.OrderCompleted
	svc, store, _, _ := newTestOrderService([]models.Order{completed})

	require.NoError(t, svc.Purge(1, models.RoleCompany, "ops@greenshield.com", "GreenShield Pest Control"))

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestPurge_CompanyCannotRemoveOthersOrders(t *testing.T) {
	completed := pendingOrder(1, "a@x.com")
	completed.Status = models.OrderCompleted
	svc, store, _, _ := newTestOrderService([]models.Order{completed})

	err := svc.Purge(1, models.RoleCompany, "ops@pestaway.com", "PestAway Ltd")
	assert.ErrorIs(t, err, ErrForbidden)

	saved, err := store.Load()
	require.NoError(t, err)
	require.Len(t, saved, 1)
}

func TestPurge_AdminRemovesAnyOrder(t *testing.T) {
	svc, store, _, _ := newTestOrderService([]models.Order{pendingOrder(1, "a@x.com")})

	require.NoError(t, svc.Purge(1, models.RoleAdmin, "admin@pestmarket.local", ""))

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestBuildReport(t *testing.T) {
	completed := pendingOrder(2, "b@x.com")
	completed.Status = models.OrderCompleted
	completed.TotalAmount = 76.5
	completed.CompanyName = "PestAway Ltd"
	svc, _, _, _ := newTestOrderService([]models.Order{pendingOrder(1, "a@x.com"), completed})

	report, err := svc.BuildReport()
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalOrders)
	assert.Equal(t, 1, report.StatusCounts[models.OrderPending])
	assert.Equal(t, 1, report.StatusCounts[models.OrderCompleted])
	assert.Equal(t, 76.5, report.CompletedRevenue)
	assert.Equal(t, 1, report.CompanyCounts["PestAway Ltd"])
}
