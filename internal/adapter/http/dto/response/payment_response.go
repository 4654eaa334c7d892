package response

import (
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/domain/reconciliation"
	"restaurant_payments/internal/usecase"
)

type PaymentResponse struct {
	ID             string         `json:"id"`
	OrderID        string         `json:"order_id"`
	Amount         money.Money    `json:"amount" swaggertype:"number"`
	PaymentMethod  string         `json:"payment_method"`
	Status         string         `json:"status"`
	TransactionID  string         `json:"transaction_id,omitempty"`
	PaymentDetails map[string]any `json:"payment_details,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	RefundedAt     *time.Time     `json:"refunded_at,omitempty"`
}

type WarningResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaymentSummaryResponse struct {
	OrderTotal      money.Money       `json:"order_total" swaggertype:"number"`
	TotalPaid       money.Money       `json:"total_paid" swaggertype:"number"`
	RemainingAmount money.Money       `json:"remaining_amount" swaggertype:"number"`
	IsFullyPaid     bool              `json:"is_fully_paid"`
	Payments        []PaymentResponse `json:"payments"`
}

// PaymentResultResponse is returned by payment creation and refund.
type PaymentResultResponse struct {
	Payment        PaymentResponse        `json:"payment"`
	OrderUpdated   bool                   `json:"order_updated"`
	Warnings       []WarningResponse      `json:"warnings,omitempty"`
	PaymentSummary PaymentSummaryResponse `json:"payment_summary"`
}

type SplitPaymentResponse struct {
	Payments       []PaymentResponse      `json:"payments"`
	OrderUpdated   bool                   `json:"order_updated"`
	PaymentSummary PaymentSummaryResponse `json:"payment_summary"`
}

type ValidationResponse struct {
	IsValid         bool              `json:"is_valid"`
	Errors          []string          `json:"errors"`
	Warnings        []WarningResponse `json:"warnings"`
	RemainingAmount money.Money       `json:"remaining_amount" swaggertype:"number"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		OrderID:        p.OrderID,
		Amount:         p.Amount,
		PaymentMethod:  string(p.Method),
		Status:         string(p.Status),
		TransactionID:  p.ExternalReference,
		PaymentDetails: p.Details,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		RefundedAt:     p.RefundedAt,
	}
}

func FromPayments(ps []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromPayment(p))
	}
	return out
}

func FromSummary(s entities.PaymentSummary) PaymentSummaryResponse {
	return PaymentSummaryResponse{
		OrderTotal:      s.OrderTotal,
		TotalPaid:       s.TotalPaid,
		RemainingAmount: s.RemainingAmount,
		IsFullyPaid:     s.IsFullyPaid,
		Payments:        FromPayments(s.Payments),
	}
}

func FromWarnings(ws []reconciliation.Warning) []WarningResponse {
	out := make([]WarningResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, WarningResponse{Code: string(w.Code), Message: w.Message})
	}
	return out
}

func FromPaymentResult(r usecase.PaymentResult) PaymentResultResponse {
	res := PaymentResultResponse{
		Payment:        FromPayment(r.Payment),
		OrderUpdated:   r.OrderUpdated,
		PaymentSummary: FromSummary(r.Summary),
	}
	if len(r.Warnings) > 0 {
		res.Warnings = FromWarnings(r.Warnings)
	}
	return res
}

func FromSplitResult(r usecase.SplitResult) SplitPaymentResponse {
	return SplitPaymentResponse{
		Payments:       FromPayments(r.Payments),
		OrderUpdated:   r.OrderUpdated,
		PaymentSummary: FromSummary(r.Summary),
	}
}

func FromValidation(v reconciliation.ValidationResult) ValidationResponse {
	errs := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		errs = append(errs, string(e))
	}
	return ValidationResponse{
		IsValid:         v.Valid,
		Errors:          errs,
		Warnings:        FromWarnings(v.Warnings),
		RemainingAmount: v.RemainingAmount,
	}
}
