package response

import (
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
)

type OrderResponse struct {
	ID            string      `json:"id"`
	TotalAmount   money.Money `json:"total_amount" swaggertype:"number"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func FromOrder(o entities.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		TotalAmount:   o.TotalAmount,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
