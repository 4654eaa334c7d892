package entities

import (
	"time"

	"restaurant_payments/internal/domain/money"
)

// OrderStatus is the kitchen/service workflow status of an order.
//
// Domain notes:
//   - Workflow transitions are driven by the kitchen/service collaborators.
//   - The only transition triggered by payment is served -> completed.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady,
		OrderStatusServed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further workflow transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// OrderPaymentStatus is derived from the order's completed payments and is
// never set directly by a client.
type OrderPaymentStatus string

const (
	OrderPaymentUnpaid  OrderPaymentStatus = "unpaid"
	OrderPaymentPartial OrderPaymentStatus = "partial"
	OrderPaymentPaid    OrderPaymentStatus = "paid"
)

// Order is the restaurant order as seen by the payment engine.
//
// Storage model:
//   - DynamoDB: PK id
//   - Postgres: orders.id
//
// Version is bumped on every write and guards commits against lost updates.
type Order struct {
	ID            string             `json:"id"`
	TotalAmount   money.Money        `json:"total_amount"`
	Status        OrderStatus        `json:"status"`
	PaymentStatus OrderPaymentStatus `json:"payment_status"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	Version       int64              `json:"-"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func (o Order) Exists() bool {
	return o.ID != ""
}
