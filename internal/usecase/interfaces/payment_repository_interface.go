package interfaces

import (
	"context"
	"restaurant_payments/internal/domain/entities"
)

// IPaymentRepository is the read side of the payment ledger.
// Payments are only written through IReconciliationStore.

type IPaymentRepository interface {
	GetPayment(ctx context.Context, orderID, paymentID string) (entities.Payment, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error)
}
