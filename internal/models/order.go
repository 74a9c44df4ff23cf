package models

import (
	"fmt"
	"time"
)

// Order is a farmer's request for a company's service or product. Contact
// and pricing fields are snapshots taken at creation time and never track
// later profile or listing changes. Only Status may change after creation.
type Order struct {
	ID            int64       `json:"id"`
	FarmerName    string      `json:"farmer_name"`
	FarmerEmail   string      `json:"farmer_email"`
	FarmerPhone   string      `json:"farmer_phone"`
	FarmerAddress string      `json:"farmer_address"`
	ServiceTitle  string      `json:"service_title"`
	CompanyName   string      `json:"company_name"`
	OrderDate     time.Time   `json:"order_date"`
	ServiceDate   *time.Time  `json:"service_date,omitempty"`
	Status        OrderStatus `json:"status"`
	Quantity      int         `json:"quantity,omitempty"`
	TotalAmount   float64     `json:"total_amount"`
	Notes         string      `json:"notes,omitempty"`
}

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderCompleted      OrderStatus = "completed"
	OrderCancelled      OrderStatus = "cancelled"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderOutForDelivery, OrderCompleted, OrderCancelled:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown order status: %s", s)
	}
}

// IsTerminal reports whether no further actor-initiated transition exists.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Transition tables per role. Companies move orders forward along the
// fulfilment chain and may cancel anything not yet out for delivery.
// Farmers may only cancel an order that is still pending.
var companyTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:        {OrderConfirmed: true, OrderCancelled: true},
	OrderConfirmed:      {OrderPreparing: true, OrderCancelled: true},
	OrderPreparing:      {OrderOutForDelivery: true, OrderCancelled: true},
	OrderOutForDelivery: {OrderCompleted: true},
}

var farmerTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderPending: {OrderCancelled: true},
}

// CanTransition reports whether the given role may move an order from one
// status to another. Admins may force any transition, terminal states
// included.
func CanTransition(role UserRole, from, to OrderStatus) bool {
	if from == to {
		return false
	}
	if role == RoleAdmin {
		return true
	}
	var table map[OrderStatus]map[OrderStatus]bool
	switch role {
	case RoleCompany:
		table = companyTransitions
	case RoleFarmer:
		table = farmerTransitions
	default:
		return false
	}
	m, ok := table[from]
	if !ok {
		return false
	}
	return m[to]
}

// AllowedTargets returns the statuses a role may move an order to from its
// current status, in lifecycle order.
func AllowedTargets(role UserRole, from OrderStatus) []OrderStatus {
	ordered := []OrderStatus{OrderConfirmed, OrderPreparing, OrderOutForDelivery, OrderCompleted, OrderCancelled}
	if role == RoleAdmin {
		ordered = append([]OrderStatus{OrderPending}, ordered...)
	}
	var targets []OrderStatus
	for _, to := range ordered {
		if CanTransition(role, from, to) {
			targets = append(targets, to)
		}
	}
	return targets
}
