package reconciliation

import (
	"errors"
	"fmt"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
)

// ErrorKind is a blocking validation outcome.
type ErrorKind string

const (
	ErrorInvalidAmount    ErrorKind = "INVALID_AMOUNT"
	ErrorOrderAlreadyPaid ErrorKind = "ORDER_ALREADY_PAID"
	ErrorOrderCancelled   ErrorKind = "ORDER_CANCELLED"
)

// WarningKind is a non-blocking validation outcome.
type WarningKind string

const (
	WarningOverpayment WarningKind = "OVERPAYMENT"
)

var (
	ErrInvalidAmount    = errors.New("invalid payment amount")
	ErrOrderAlreadyPaid = errors.New("order already paid")
	ErrOrderCancelled   = errors.New("order cancelled")
)

type Warning struct {
	Code    WarningKind `json:"code"`
	Message string      `json:"message"`
}

// ValidationResult is the decision for one candidate payment.
type ValidationResult struct {
	Valid           bool        `json:"is_valid"`
	Errors          []ErrorKind `json:"errors"`
	Warnings        []Warning   `json:"warnings"`
	RemainingAmount money.Money `json:"remaining_amount"`
}

// Validate classifies a candidate payment against a ledger snapshot.
//
// An amount above the remaining balance is only a warning: cash tendered may
// exceed the bill. A settled order is always an error, so duplicate
// submissions are blocked. The two risks never share a code path.
func Validate(order entities.Order, summary entities.PaymentSummary, amount money.Money) ValidationResult {
	res := ValidationResult{
		Errors:          []ErrorKind{},
		Warnings:        []Warning{},
		RemainingAmount: summary.RemainingAmount,
	}

	if !amount.IsPositive() {
		res.Errors = append(res.Errors, ErrorInvalidAmount)
	}
	if order.PaymentStatus == entities.OrderPaymentPaid || summary.IsFullyPaid {
		res.Errors = append(res.Errors, ErrorOrderAlreadyPaid)
	} else if order.Status == entities.OrderStatusCancelled {
		res.Errors = append(res.Errors, ErrorOrderCancelled)
	}

	if len(res.Errors) == 0 && amount > summary.RemainingAmount {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarningOverpayment,
			Message: fmt.Sprintf("payment of %s exceeds remaining amount %s by %s", amount, summary.RemainingAmount, amount.Sub(summary.RemainingAmount)),
		})
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// Err converts the first blocking error into its sentinel, or nil.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	switch r.Errors[0] {
	case ErrorInvalidAmount:
		return ErrInvalidAmount
	case ErrorOrderAlreadyPaid:
		return ErrOrderAlreadyPaid
	case ErrorOrderCancelled:
		return ErrOrderCancelled
	default:
		return fmt.Errorf("payment rejected: %s", r.Errors[0])
	}
}

// HasWarning reports whether code was raised.
func (r ValidationResult) HasWarning(code WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
