package services

import (
	"fmt"
	"log"
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/repository"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PendingCounter holds the denormalized count of pending orders shown in
// sidebar badges. Satisfied by the Redis client.
type PendingCounter interface {
	SetPendingCount(count int) error
	GetPendingCount() (int, error)
}

// OrderQuery is client-local view state: a case-insensitive substring search
// and an exact status filter. Neither is persisted.
type OrderQuery struct {
	Search         string
	Status         models.OrderStatus
	IncludeHistory bool
}

// OrderView pairs an order with the status transitions the viewing role may
// request on it.
type OrderView struct {
	models.Order
	Actions []models.OrderStatus `json:"actions"`
}

type OrderReport struct {
	TotalOrders      int                        `json:"total_orders"`
	StatusCounts     map[models.OrderStatus]int `json:"status_counts"`
	CompletedRevenue float64                    `json:"completed_revenue"`
	CompanyCounts    map[string]int             `json:"company_counts"`
}

type OrderService interface {
	PlaceOrder(farmer *models.User, listing *models.Listing, companyName string, quantity int, serviceDate *time.Time, notes string) (*models.Order, error)
	GetOrder(id int64, role models.UserRole, email string) (*OrderView, error)
	VisibleOrders(role models.UserRole, email string, query OrderQuery) ([]OrderView, error)
	Transition(id int64, requested models.OrderStatus, role models.UserRole, email string) (*models.Order, error)
	Purge(id int64, role models.UserRole, email, companyName string) error
	PendingCount() (int, error)
	BuildReport() (*OrderReport, error)
}

type orderService struct {
	store         repository.OrderStore
	counter       PendingCounter
	notifications NotificationService
}

func NewOrderService(store repository.OrderStore, counter PendingCounter, notifications NotificationService) OrderService {
	return &orderService{store: store, counter: counter, notifications: notifications}
}

func (s *orderService) PlaceOrder(farmer *models.User, listing *models.Listing, companyName string, quantity int, serviceDate *time.Time, notes string) (*models.Order, error) {
	if listing.ListingType == string(models.ListingProduct) && quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if listing.ListingType != string(models.ListingProduct) {
		quantity = 0
	}

	orders, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	order := models.Order{
		ID:            nextOrderID(orders),
		FarmerName:    farmer.Name,
		FarmerEmail:   farmer.Email,
		FarmerPhone:   farmer.Phone,
		FarmerAddress: farmer.Address,
		ServiceTitle:  listing.Title,
		CompanyName:   companyName,
		OrderDate:     time.Now(),
		ServiceDate:   serviceDate,
		Status:        models.OrderPending,
		Quantity:      quantity,
		TotalAmount:   computeTotal(listing.Price, listing.ListingType, quantity),
		Notes:         notes,
	}

	orders = append(orders, order)
	if err := s.store.Save(orders); err != nil {
		return nil, err
	}

	s.recomputePendingCount(orders)
	return &order, nil
}

func (s *orderService) GetOrder(id int64, role models.UserRole, email string) (*OrderView, error) {
	orders, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		if order.ID != id {
			continue
		}
		if role == models.RoleFarmer && order.FarmerEmail != email {
			return nil, ErrForbidden
		}
		return &OrderView{Order: order, Actions: models.AllowedTargets(role, order.Status)}, nil
	}
	return nil, ErrOrderNotFound
}

func (s *orderService) VisibleOrders(role models.UserRole, email string, query OrderQuery) ([]OrderView, error) {
	if email == "" {
		return []OrderView{}, nil
	}

	orders, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		switch role {
		case models.RoleFarmer:
			if order.FarmerEmail != email {
				continue
			}
		case models.RoleCompany:
			// Completed orders are hidden from the default company view
			// and only surface in the history projection.
			if order.Status == models.OrderCompleted && !query.IncludeHistory {
				continue
			}
		case models.RoleAdmin:
			// sees everything
		default:
			continue
		}

		if query.Status != "" && order.Status != query.Status {
			continue
		}
		if !matchesSearch(order, query.Search) {
			continue
		}

		views = append(views, OrderView{Order: order, Actions: models.AllowedTargets(role, order.Status)})
	}

	// Newest first
	for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
		views[i], views[j] = views[j], views[i]
	}
	return views, nil
}

// Transition is the single validated path for status changes. It consults
// the role transition table; nothing else in the codebase overwrites Status.
func (s *orderService) Transition(id int64, requested models.OrderStatus, role models.UserRole, email string) (*models.Order, error) {
	orders, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrOrderNotFound
	}

	order := &orders[idx]
	if role == models.RoleFarmer && order.FarmerEmail != email {
		return nil, ErrForbidden
	}
	if !models.CanTransition(role, order.Status, requested) {
		return nil, ErrInvalidTransition
	}

	order.Status = requested
	if err := s.store.Save(orders); err != nil {
		return nil, err
	}

	s.recomputePendingCount(orders)
	s.notifyFarmer(order)

	result := *order
	return &result, nil
}

func (s *orderService) Purge(id int64, role models.UserRole, email, companyName string) error {
	orders, err := s.store.Load()
	if err != nil {
		return err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}
		if role != models.RoleAdmin {
			if role == models.RoleFarmer && orders[i].FarmerEmail != email {
				return ErrForbidden
			}
			if role == models.RoleCompany && orders[i].CompanyName != companyName {
				return ErrForbidden
			}
			if !orders[i].Status.IsTerminal() {
				return ErrNotTerminal
			}
		}

		orders = append(orders[:i], orders[i+1:]...)
		if err := s.store.Save(orders); err != nil {
			return err
		}
		s.recomputePendingCount(orders)
		return nil
	}
	return ErrOrderNotFound
}

func (s *orderService) PendingCount() (int, error) {
	return s.counter.GetPendingCount()
}

func (s *orderService) BuildReport() (*OrderReport, error) {
	orders, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	report := &OrderReport{
		TotalOrders:   len(orders),
		StatusCounts:  make(map[models.OrderStatus]int),
		CompanyCounts: make(map[string]int),
	}

	revenue := decimal.Zero
	for _, order := range orders {
		report.StatusCounts[order.Status]++
		report.CompanyCounts[order.CompanyName]++
		if order.Status == models.OrderCompleted {
			revenue = revenue.Add(decimal.NewFromFloat(order.TotalAmount))
		}
	}
	report.CompletedRevenue = revenue.InexactFloat64()

	return report, nil
}

var statusPhrases = map[models.OrderStatus]string{
	models.OrderConfirmed:      "has been confirmed",
	models.OrderPreparing:      "is being prepared",
	models.OrderOutForDelivery: "is out for delivery",
	models.OrderCompleted:      "has been completed",
	models.OrderCancelled:      "has been cancelled",
}

var statusNotifyTypes = map[models.OrderStatus]models.NotificationType{
	models.OrderConfirmed:      models.NotifySuccess,
	models.OrderPreparing:      models.NotifyInfo,
	models.OrderOutForDelivery: models.NotifyInfo,
	models.OrderCompleted:      models.NotifySuccess,
	models.OrderCancelled:      models.NotifyWarning,
}

// notifyFarmer appends a human-readable message to the farmer's notification
// list. Delivery is fire-and-forget; a failed append never rolls back the
// transition.
func (s *orderService) notifyFarmer(order *models.Order) {
	phrase, ok := statusPhrases[order.Status]
	if !ok {
		return
	}

	message := fmt.Sprintf("Your order for %s %s.", order.ServiceTitle, phrase)
	link := fmt.Sprintf("/orders/%d", order.ID)
	if err := s.notifications.Notify(order.FarmerEmail, statusNotifyTypes[order.Status], message, link); err != nil {
		log.Printf("Warning: failed to notify %s about order %d: %v", order.FarmerEmail, order.ID, err)
	}
}

func (s *orderService) recomputePendingCount(orders []models.Order) {
	count := 0
	for _, order := range orders {
		if order.Status == models.OrderPending {
			count++
		}
	}
	if err := s.counter.SetPendingCount(count); err != nil {
		log.Printf("Warning: failed to update pending order count: %v", err)
	}
}

// nextOrderID derives a monotonic id from the creation timestamp, bumped
// past any existing id so ids stay unique within the collection.
func nextOrderID(orders []models.Order) int64 {
	id := time.Now().UnixMilli()
	for _, order := range orders {
		if order.ID >= id {
			id = order.ID + 1
		}
	}
	return id
}

// computeTotal freezes the amount at creation: unit price times quantity for
// product orders, the unit price alone for services. A nil price (price on
// request) yields zero.
func computeTotal(price *float64, listingType string, quantity int) float64 {
	if price == nil {
		return 0
	}
	if listingType == string(models.ListingProduct) {
		total := decimal.NewFromFloat(*price).Mul(decimal.NewFromInt(int64(quantity)))
		return total.InexactFloat64()
	}
	return *price
}

func matchesSearch(order models.Order, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(order.FarmerName), needle) ||
		strings.Contains(strings.ToLower(order.ServiceTitle), needle) ||
		strings.Contains(strings.ToLower(order.CompanyName), needle)
}
