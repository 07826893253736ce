package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the status of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusValidated  OrderStatus = "VALIDATED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderEvent is an action that moves an order through its lifecycle.
type OrderEvent string

const (
	OrderEventValidate OrderEvent = "validate"
	OrderEventProcess  OrderEvent = "process"
	OrderEventShip     OrderEvent = "ship"
	OrderEventDeliver  OrderEvent = "deliver"
	OrderEventCancel   OrderEvent = "cancel"
)

// ErrInvalidTransition is returned when an event is not allowed from the
// order's current status.
var ErrInvalidTransition = errors.New("invalid order status transition")

// orderTransitions is the full state machine: single forward path with
// cancellation reachable from any non-terminal state. Anything absent from
// this table is rejected.
var orderTransitions = map[OrderStatus]map[OrderEvent]OrderStatus{
	OrderStatusPending: {
		OrderEventValidate: OrderStatusValidated,
		OrderEventCancel:   OrderStatusCancelled,
	},
	OrderStatusValidated: {
		OrderEventProcess: OrderStatusProcessing,
		OrderEventCancel:  OrderStatusCancelled,
	},
	OrderStatusProcessing: {
		OrderEventShip:   OrderStatusShipped,
		OrderEventCancel: OrderStatusCancelled,
	},
	OrderStatusShipped: {
		OrderEventDeliver: OrderStatusDelivered,
		OrderEventCancel:  OrderStatusCancelled,
	},
}

// Next returns the status reached by applying event from s.
func (s OrderStatus) Next(event OrderEvent) (OrderStatus, error) {
	if targets, ok := orderTransitions[s]; ok {
		if next, ok := targets[event]; ok {
			return next, nil
		}
	}
	return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, event)
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Order represents a customer or partner order.
type Order struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the user who placed the order.
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// PartnerID is set when the order was placed on behalf of a partner
	// organization (bookstore, distributor).
	PartnerID *uint    `gorm:"index" json:"partner_id,omitempty"`
	Partner   *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`

	// RepresentantID is the sales representative who originated the order and
	// earns commission once it is validated.
	RepresentantID *uint `gorm:"index" json:"representant_id,omitempty"`

	Status OrderStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	// TotalAmount is always the sum of the items' line totals, in FCFA.
	TotalAmount int64 `gorm:"not null" json:"total_amount"`

	// IdempotencyKey deduplicates checkout submissions. Unique when present.
	IdempotencyKey *string `gorm:"size:64;uniqueIndex" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// GetUserID implements the Ownable interface for authorization.
func (o *Order) GetUserID() uint {
	return o.UserID
}

// ComputeTotal sums the line totals of the loaded items.
func (o *Order) ComputeTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.LineTotal()
	}
	return total
}

// OrderItem is one line of an order with a price snapshot taken at
// submission time.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID uint   `gorm:"index;not null" json:"order_id"`
	Order   *Order `gorm:"foreignKey:OrderID" json:"-"`

	WorkID uint  `gorm:"index;not null" json:"work_id"`
	Work   *Work `gorm:"foreignKey:WorkID" json:"work,omitempty"`

	Quantity  int   `gorm:"not null" json:"quantity"`
	UnitPrice int64 `gorm:"not null" json:"unit_price"`
}

// LineTotal is the price snapshot times the quantity.
func (item *OrderItem) LineTotal() int64 {
	return item.UnitPrice * int64(item.Quantity)
}
