package request

import (
	"strings"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
)

// CreatePaymentRequest is the body of POST /orders/{id}/payments.
//
// amount accepts a JSON number or a decimal string with at most two
// decimals. payment_details is stored as-is.
type CreatePaymentRequest struct {
	Amount         money.Money    `json:"amount" swaggertype:"number" example:"46.60"`
	PaymentMethod  string         `json:"payment_method" example:"card"`
	TransactionID  string         `json:"transaction_id,omitempty" example:"1319482356"`
	PaymentDetails map[string]any `json:"payment_details,omitempty"`
}

func (r CreatePaymentRequest) Method() entities.PaymentMethod {
	return normalizeMethod(r.PaymentMethod)
}

// ValidatePaymentRequest is the body of POST /orders/{id}/validate-payment.
type ValidatePaymentRequest struct {
	Amount money.Money `json:"amount" swaggertype:"number" example:"56.60"`
}

// SplitPaymentRequest is the body of POST /orders/{id}/split-payment.
// number_of_payers is used by "equal", split_amounts by "custom".
type SplitPaymentRequest struct {
	SplitType      string         `json:"split_type" binding:"required" example:"equal"`
	NumberOfPayers int            `json:"number_of_payers,omitempty" example:"3"`
	SplitAmounts   []money.Money  `json:"split_amounts,omitempty" swaggertype:"array,number"`
	PaymentMethod  string         `json:"payment_method" example:"cash"`
	PaymentDetails map[string]any `json:"payment_details,omitempty"`
}

func (r SplitPaymentRequest) Method() entities.PaymentMethod {
	return normalizeMethod(r.PaymentMethod)
}

func (r SplitPaymentRequest) Type() string {
	return strings.ToLower(strings.TrimSpace(r.SplitType))
}

func normalizeMethod(m string) entities.PaymentMethod {
	return entities.PaymentMethod(strings.ToLower(strings.TrimSpace(m)))
}
