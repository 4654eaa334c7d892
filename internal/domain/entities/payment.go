package entities

import (
	"time"

	"restaurant_payments/internal/domain/money"
)

// PaymentMethod is how the guest settled a share of the bill.
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCard          PaymentMethod = "card"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodDigitalWallet:
		return true
	}
	return false
}

// PaymentStatus represents the settlement state of a payment.
//
// Payments are settled synchronously, so the engine creates them already
// completed. pending/processing/failed are kept for gateway callbacks.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment is one settlement record against an order.
//
// Storage model (DynamoDB):
//   - PK: order_id
//   - SK: id (UUIDv7, so key order is creation order)
//
// Details is opaque metadata (cash tendered, card brand/last4, notes). It is
// persisted as-is and never checked against business rules.
type Payment struct {
	ID                string         `json:"id"`
	OrderID           string         `json:"order_id"`
	Amount            money.Money    `json:"amount"`
	Method            PaymentMethod  `json:"payment_method"`
	Status            PaymentStatus  `json:"status"`
	ExternalReference string         `json:"transaction_id,omitempty"`
	Details           map[string]any `json:"payment_details,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	RefundedAt        *time.Time     `json:"refunded_at,omitempty"`
}

func (p Payment) Completed() bool {
	return p.Status == PaymentStatusCompleted
}
