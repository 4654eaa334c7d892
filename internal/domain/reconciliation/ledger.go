// Package reconciliation holds the pure rules of the payment engine: the
// ledger aggregate, the payment validator, the split allocator and the
// payment-driven order status rule. Nothing here performs I/O; the usecase
// layer runs these functions inside the per-order serialized scope.
package reconciliation

import (
	"sort"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
)

// Aggregate computes the ledger view of an order. Only completed payments
// count toward TotalPaid; refunded, failed and pending ones are listed but
// ignored. Payments are returned in creation order.
func Aggregate(order entities.Order, payments []entities.Payment) entities.PaymentSummary {
	ordered := SortByCreation(payments)

	var paid money.Money
	for _, p := range ordered {
		if p.Completed() {
			paid = paid.Add(p.Amount)
		}
	}

	remaining := money.Max(order.TotalAmount.Sub(paid), money.Zero)
	return entities.PaymentSummary{
		OrderTotal:      order.TotalAmount,
		TotalPaid:       paid,
		RemainingAmount: remaining,
		IsFullyPaid:     remaining <= money.Tolerance,
		Payments:        ordered,
	}
}

// DerivePaymentStatus maps a ledger summary to the order's payment status.
func DerivePaymentStatus(summary entities.PaymentSummary) entities.OrderPaymentStatus {
	switch {
	case summary.IsFullyPaid:
		return entities.OrderPaymentPaid
	case summary.TotalPaid.IsPositive():
		return entities.OrderPaymentPartial
	default:
		return entities.OrderPaymentUnpaid
	}
}

// SortByCreation returns a copy ordered by CreatedAt, then ID.
func SortByCreation(payments []entities.Payment) []entities.Payment {
	out := make([]entities.Payment, len(payments))
	copy(out, payments)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindByExternalReference returns the completed payment carrying ref.
func FindByExternalReference(payments []entities.Payment, ref string) (entities.Payment, bool) {
	if ref == "" {
		return entities.Payment{}, false
	}
	for _, p := range payments {
		if p.Completed() && p.ExternalReference == ref {
			return p, true
		}
	}
	return entities.Payment{}, false
}
