package interfaces

import (
	"context"
	"restaurant_payments/internal/domain/entities"
)

// IOrderRepository abstracts persistence for the order aggregate.
//
// Orders are created by the order-creation collaborator with a fixed total.
// Derived payment fields and workflow status changes go through
// IReconciliationStore so they are serialized per order.
// GetByID returns the zero Order when the id is unknown.

type IOrderRepository interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
}
