package request

import (
	"strings"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
)

// CreateOrderRequest is accepted from the order-taking collaborator. The
// total is fixed at creation.
type CreateOrderRequest struct {
	TotalAmount money.Money `json:"total_amount" swaggertype:"number" example:"114.97"`
	Status      string      `json:"status,omitempty" example:"confirmed"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"served"`
}

func (r CreateOrderRequest) OrderStatus() entities.OrderStatus {
	return normalizeStatus(r.Status)
}

func (r UpdateOrderStatusRequest) OrderStatus() entities.OrderStatus {
	return normalizeStatus(r.Status)
}

func normalizeStatus(s string) entities.OrderStatus {
	return entities.OrderStatus(strings.ToLower(strings.TrimSpace(s)))
}
