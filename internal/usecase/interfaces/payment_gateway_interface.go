package interfaces

import (
	"context"
	"encoding/json"

	"restaurant_payments/internal/domain/money"
)

// GatewayConfirmation is what an external provider reports for a charge.
type GatewayConfirmation struct {
	ProviderPaymentID string
	Status            string
	Amount            money.Money
	Raw               json.RawMessage
}

// IPaymentGateway looks up a charge made on an external provider (e.g. Mercado Pago).
//
// It is consulted before the per-order scope is opened, never inside it.
// expected is the amount the caller submitted; a real provider reports its
// own amount, a mock gateway approves expected as-is.
type IPaymentGateway interface {
	ConfirmPayment(ctx context.Context, transactionID string, expected money.Money) (GatewayConfirmation, error)
}
