package reconciliation

import (
	"time"

	"restaurant_payments/internal/domain/entities"
)

// Outcome is the order after its derived payment fields were refreshed.
type Outcome struct {
	Order         entities.Order
	StatusChanged bool
	NewlyPaid     bool
}

// ApplyLedger re-derives payment_status from summary, stamps paid_at the
// first time the order becomes paid and advances a served order to completed.
func ApplyLedger(order entities.Order, summary entities.PaymentSummary, now time.Time) Outcome {
	out := Outcome{Order: order}
	prev := order.PaymentStatus

	out.Order.PaymentStatus = DerivePaymentStatus(summary)
	if out.Order.PaymentStatus == entities.OrderPaymentPaid && prev != entities.OrderPaymentPaid {
		out.NewlyPaid = true
		if out.Order.PaidAt == nil {
			paidAt := now
			out.Order.PaidAt = &paidAt
		}
	}

	out.Order, out.StatusChanged = CompleteIfServedAndPaid(out.Order)
	if out.StatusChanged || out.Order.PaymentStatus != prev || out.NewlyPaid {
		out.Order.UpdatedAt = now
	}
	return out
}

// CompleteIfServedAndPaid is the only payment-driven status transition:
// a paid order that has been served is completed. Orders in any other status
// stay where the kitchen/service workflow put them.
func CompleteIfServedAndPaid(order entities.Order) (entities.Order, bool) {
	if order.PaymentStatus == entities.OrderPaymentPaid && order.Status == entities.OrderStatusServed {
		order.Status = entities.OrderStatusCompleted
		return order, true
	}
	return order, false
}
