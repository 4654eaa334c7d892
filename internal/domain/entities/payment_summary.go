package entities

import "restaurant_payments/internal/domain/money"

// PaymentSummary is the derived ledger view of an order. It is never stored.
type PaymentSummary struct {
	OrderTotal      money.Money `json:"order_total"`
	TotalPaid       money.Money `json:"total_paid"`
	RemainingAmount money.Money `json:"remaining_amount"`
	IsFullyPaid     bool        `json:"is_fully_paid"`
	Payments        []Payment   `json:"payments"`
}
