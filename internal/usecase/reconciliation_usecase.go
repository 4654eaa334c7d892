package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/domain/reconciliation"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrInvalidOrderID       = errors.New("invalid order_id")
	ErrInvalidPaymentID     = errors.New("invalid payment_id")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidSplitType     = errors.New("invalid split type")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentNotRefundable = errors.New("payment is not refundable")
	ErrPaymentNotConfirmed  = errors.New("payment not confirmed by gateway")

	ErrInvalidAmount     = reconciliation.ErrInvalidAmount
	ErrOrderAlreadyPaid  = reconciliation.ErrOrderAlreadyPaid
	ErrOrderCancelled    = reconciliation.ErrOrderCancelled
	ErrSplitMismatch     = reconciliation.ErrSplitMismatch
	ErrInvalidSplitCount = reconciliation.ErrInvalidSplitCount
)

// SplitType selects the split allocation mode.
type SplitType string

const (
	SplitTypeEqual  SplitType = "equal"
	SplitTypeCustom SplitType = "custom"
)

// gatewayApprovedStatus is the provider status accepted as a settled charge.
const gatewayApprovedStatus = "approved"

type SubmitPaymentCommand struct {
	OrderID           string
	Amount            money.Money
	Method            entities.PaymentMethod
	ExternalReference string
	Details           map[string]any
}

type SplitPaymentCommand struct {
	OrderID        string
	SplitType      SplitType
	NumberOfPayers int
	SplitAmounts   []money.Money
	Method         entities.PaymentMethod
	Details        map[string]any
}

// PaymentResult is returned by a committed single-payment reconciliation.
// OrderUpdated reports whether the order's workflow status changed as a side
// effect. Duplicate is set when the submission matched an already recorded
// external reference and nothing was written.
type PaymentResult struct {
	Payment      entities.Payment
	Summary      entities.PaymentSummary
	OrderUpdated bool
	Warnings     []reconciliation.Warning
	Duplicate    bool
}

type SplitResult struct {
	Payments     []entities.Payment
	Summary      entities.PaymentSummary
	OrderUpdated bool
}

// IReconciliationUseCase is the order-payment reconciliation engine.
//
// Every write runs inside IReconciliationStore.WithOrderLock: read ledger,
// validate, persist payment(s), re-derive order fields, commit.

type IReconciliationUseCase interface {
	SubmitPayment(ctx context.Context, cmd SubmitPaymentCommand) (PaymentResult, error)
	SplitPayment(ctx context.Context, cmd SplitPaymentCommand) (SplitResult, error)
	RefundPayment(ctx context.Context, orderID, paymentID string) (PaymentResult, error)
	ValidatePayment(ctx context.Context, orderID string, amount money.Money) (reconciliation.ValidationResult, error)
	GetPaymentSummary(ctx context.Context, orderID string) (entities.PaymentSummary, error)
	ListPayments(ctx context.Context, orderID string) ([]entities.Payment, error)
	GetPayment(ctx context.Context, orderID, paymentID string) (entities.Payment, error)
}

type ReconciliationUseCase struct {
	store       interfaces.IReconciliationStore
	orderRepo   interfaces.IOrderRepository
	paymentRepo interfaces.IPaymentRepository
	gateway     interfaces.IPaymentGateway
	now         func() time.Time
}

var _ IReconciliationUseCase = (*ReconciliationUseCase)(nil)

// NewReconciliationUseCase wires the engine. gateway may be nil, in which case
// external references are recorded without being looked up.
func NewReconciliationUseCase(store interfaces.IReconciliationStore, orderRepo interfaces.IOrderRepository, paymentRepo interfaces.IPaymentRepository, gateway interfaces.IPaymentGateway) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		store:       store,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (u *ReconciliationUseCase) SubmitPayment(ctx context.Context, cmd SubmitPaymentCommand) (PaymentResult, error) {
	cmd.OrderID = strings.TrimSpace(cmd.OrderID)
	cmd.ExternalReference = strings.TrimSpace(cmd.ExternalReference)
	log.Printf("[reconcile][usecase] submit start order_id=%q amount=%s method=%s ref=%q", cmd.OrderID, cmd.Amount, cmd.Method, cmd.ExternalReference)

	if cmd.OrderID == "" {
		return PaymentResult{}, ErrInvalidOrderID
	}
	if !cmd.Method.Valid() {
		return PaymentResult{}, ErrInvalidPaymentMethod
	}
	if !cmd.Amount.IsPositive() {
		log.Printf("[reconcile][usecase] rejected order_id=%s reason=%s", cmd.OrderID, reconciliation.ErrorInvalidAmount)
		return PaymentResult{}, ErrInvalidAmount
	}
	if err := u.confirmWithGateway(ctx, cmd); err != nil {
		return PaymentResult{}, err
	}

	var result PaymentResult
	err := u.store.WithOrderLock(ctx, cmd.OrderID, func(ctx context.Context, state interfaces.LedgerState) (*interfaces.LedgerChange, error) {
		if !state.Order.Exists() {
			return nil, ErrOrderNotFound
		}
		summary := reconciliation.Aggregate(state.Order, state.Payments)

		if original, ok := reconciliation.FindByExternalReference(state.Payments, cmd.ExternalReference); ok {
			log.Printf("[reconcile][usecase] duplicate submission order_id=%s ref=%s payment_id=%s", cmd.OrderID, cmd.ExternalReference, original.ID)
			result = PaymentResult{Payment: original, Summary: summary, Duplicate: true}
			return nil, nil
		}

		decision := reconciliation.Validate(state.Order, summary, cmd.Amount)
		if err := decision.Err(); err != nil {
			log.Printf("[reconcile][usecase] rejected order_id=%s errors=%v remaining=%s", cmd.OrderID, decision.Errors, decision.RemainingAmount)
			return nil, err
		}
		if decision.HasWarning(reconciliation.WarningOverpayment) {
			log.Printf("[reconcile][usecase] overpayment accepted order_id=%s amount=%s remaining=%s", cmd.OrderID, cmd.Amount, summary.RemainingAmount)
		}

		now := u.clock()
		p := newCompletedPayment(cmd.OrderID, cmd.Amount, cmd.Method, cmd.ExternalReference, cmd.Details, now)

		payments := append(append([]entities.Payment{}, state.Payments...), p)
		after := reconciliation.Aggregate(state.Order, payments)
		outcome := reconciliation.ApplyLedger(state.Order, after, now)

		result = PaymentResult{
			Payment:      p,
			Summary:      after,
			OrderUpdated: outcome.StatusChanged,
			Warnings:     decision.Warnings,
		}
		return &interfaces.LedgerChange{Order: outcome.Order, NewPayments: []entities.Payment{p}}, nil
	})
	if err != nil {
		log.Printf("[reconcile][usecase] submit failed order_id=%s err=%v", cmd.OrderID, err)
		return PaymentResult{}, err
	}

	log.Printf("[reconcile][usecase] submit committed order_id=%s payment_id=%s total_paid=%s remaining=%s order_updated=%t duplicate=%t",
		cmd.OrderID, result.Payment.ID, result.Summary.TotalPaid, result.Summary.RemainingAmount, result.OrderUpdated, result.Duplicate)
	return result, nil
}

func (u *ReconciliationUseCase) SplitPayment(ctx context.Context, cmd SplitPaymentCommand) (SplitResult, error) {
	cmd.OrderID = strings.TrimSpace(cmd.OrderID)
	log.Printf("[reconcile][usecase] split start order_id=%q type=%s payers=%d shares=%d method=%s", cmd.OrderID, cmd.SplitType, cmd.NumberOfPayers, len(cmd.SplitAmounts), cmd.Method)

	if cmd.OrderID == "" {
		return SplitResult{}, ErrInvalidOrderID
	}
	if !cmd.Method.Valid() {
		return SplitResult{}, ErrInvalidPaymentMethod
	}
	if cmd.SplitType != SplitTypeEqual && cmd.SplitType != SplitTypeCustom {
		return SplitResult{}, ErrInvalidSplitType
	}

	var result SplitResult
	err := u.store.WithOrderLock(ctx, cmd.OrderID, func(ctx context.Context, state interfaces.LedgerState) (*interfaces.LedgerChange, error) {
		if !state.Order.Exists() {
			return nil, ErrOrderNotFound
		}
		summary := reconciliation.Aggregate(state.Order, state.Payments)
		if state.Order.PaymentStatus == entities.OrderPaymentPaid || summary.IsFullyPaid {
			return nil, ErrOrderAlreadyPaid
		}
		if state.Order.Status == entities.OrderStatusCancelled {
			return nil, ErrOrderCancelled
		}

		shares, err := allocate(cmd, summary.RemainingAmount)
		if err != nil {
			log.Printf("[reconcile][usecase] split rejected order_id=%s remaining=%s err=%v", cmd.OrderID, summary.RemainingAmount, err)
			return nil, err
		}

		now := u.clock()
		order := state.Order
		payments := append([]entities.Payment{}, state.Payments...)
		created := make([]entities.Payment, 0, len(shares))
		for i, amount := range shares {
			running := reconciliation.Aggregate(order, payments)
			if err := reconciliation.Validate(order, running, amount).Err(); err != nil {
				return nil, fmt.Errorf("share %d of %d: %w", i+1, len(shares), err)
			}
			// Distinct timestamps keep creation order stable in every store.
			p := newCompletedPayment(cmd.OrderID, amount, cmd.Method, "", cmd.Details, now.Add(time.Duration(i)*time.Microsecond))
			payments = append(payments, p)
			created = append(created, p)
			order = reconciliation.ApplyLedger(order, reconciliation.Aggregate(order, payments), now).Order
		}

		result = SplitResult{
			Payments:     created,
			Summary:      reconciliation.Aggregate(order, payments),
			OrderUpdated: order.Status != state.Order.Status,
		}
		return &interfaces.LedgerChange{Order: order, NewPayments: created}, nil
	})
	if err != nil {
		log.Printf("[reconcile][usecase] split failed order_id=%s err=%v", cmd.OrderID, err)
		return SplitResult{}, err
	}

	log.Printf("[reconcile][usecase] split committed order_id=%s payments=%d total_paid=%s remaining=%s order_updated=%t",
		cmd.OrderID, len(result.Payments), result.Summary.TotalPaid, result.Summary.RemainingAmount, result.OrderUpdated)
	return result, nil
}

func allocate(cmd SplitPaymentCommand, remaining money.Money) ([]money.Money, error) {
	if cmd.SplitType == SplitTypeEqual {
		return reconciliation.EqualSplit(remaining, cmd.NumberOfPayers)
	}
	return reconciliation.CustomSplit(remaining, cmd.SplitAmounts)
}

// RefundPayment records completed -> refunded and re-derives the order's
// payment status. paid_at keeps the first time the order was paid.
func (u *ReconciliationUseCase) RefundPayment(ctx context.Context, orderID, paymentID string) (PaymentResult, error) {
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	log.Printf("[reconcile][usecase] refund start order_id=%q payment_id=%q", orderID, paymentID)
	if orderID == "" {
		return PaymentResult{}, ErrInvalidOrderID
	}
	if paymentID == "" {
		return PaymentResult{}, ErrInvalidPaymentID
	}

	var result PaymentResult
	err := u.store.WithOrderLock(ctx, orderID, func(ctx context.Context, state interfaces.LedgerState) (*interfaces.LedgerChange, error) {
		if !state.Order.Exists() {
			return nil, ErrOrderNotFound
		}

		idx := -1
		for i, p := range state.Payments {
			if p.ID == paymentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, ErrPaymentNotFound
		}
		if !state.Payments[idx].Completed() {
			return nil, fmt.Errorf("%w: status is %s", ErrPaymentNotRefundable, state.Payments[idx].Status)
		}

		now := u.clock()
		refunded := state.Payments[idx]
		refunded.Status = entities.PaymentStatusRefunded
		refunded.RefundedAt = &now
		refunded.UpdatedAt = now

		payments := append([]entities.Payment{}, state.Payments...)
		payments[idx] = refunded
		after := reconciliation.Aggregate(state.Order, payments)
		outcome := reconciliation.ApplyLedger(state.Order, after, now)

		result = PaymentResult{Payment: refunded, Summary: after, OrderUpdated: outcome.StatusChanged}
		return &interfaces.LedgerChange{Order: outcome.Order, UpdatedPayments: []entities.Payment{refunded}}, nil
	})
	if err != nil {
		log.Printf("[reconcile][usecase] refund failed order_id=%s payment_id=%s err=%v", orderID, paymentID, err)
		return PaymentResult{}, err
	}
	log.Printf("[reconcile][usecase] refund committed order_id=%s payment_id=%s total_paid=%s", orderID, paymentID, result.Summary.TotalPaid)
	return result, nil
}

// ValidatePayment is advisory: it reads a consistent snapshot without taking
// the order lock, so a concurrent submission may still change the outcome.
func (u *ReconciliationUseCase) ValidatePayment(ctx context.Context, orderID string, amount money.Money) (reconciliation.ValidationResult, error) {
	state, err := u.snapshot(ctx, orderID)
	if err != nil {
		return reconciliation.ValidationResult{}, err
	}
	summary := reconciliation.Aggregate(state.Order, state.Payments)
	return reconciliation.Validate(state.Order, summary, amount), nil
}

func (u *ReconciliationUseCase) GetPaymentSummary(ctx context.Context, orderID string) (entities.PaymentSummary, error) {
	state, err := u.snapshot(ctx, orderID)
	if err != nil {
		return entities.PaymentSummary{}, err
	}
	return reconciliation.Aggregate(state.Order, state.Payments), nil
}

func (u *ReconciliationUseCase) ListPayments(ctx context.Context, orderID string) ([]entities.Payment, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Exists() {
		return nil, ErrOrderNotFound
	}

	payments, err := u.paymentRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return reconciliation.SortByCreation(payments), nil
}

func (u *ReconciliationUseCase) GetPayment(ctx context.Context, orderID, paymentID string) (entities.Payment, error) {
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	if orderID == "" {
		return entities.Payment{}, ErrInvalidOrderID
	}
	if paymentID == "" {
		return entities.Payment{}, ErrInvalidPaymentID
	}

	p, err := u.paymentRepo.GetPayment(ctx, orderID, paymentID)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (u *ReconciliationUseCase) snapshot(ctx context.Context, orderID string) (interfaces.LedgerState, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return interfaces.LedgerState{}, ErrInvalidOrderID
	}
	state, err := u.store.Snapshot(ctx, orderID)
	if err != nil {
		return interfaces.LedgerState{}, err
	}
	if !state.Order.Exists() {
		return interfaces.LedgerState{}, ErrOrderNotFound
	}
	return state, nil
}

// confirmWithGateway checks a card charge against the provider before the
// order scope is opened, so the lock is never held across a network call.
func (u *ReconciliationUseCase) confirmWithGateway(ctx context.Context, cmd SubmitPaymentCommand) error {
	if u.gateway == nil || cmd.Method != entities.PaymentMethodCard || cmd.ExternalReference == "" {
		return nil
	}

	log.Printf("[reconcile][usecase] confirming with gateway order_id=%s ref=%s", cmd.OrderID, cmd.ExternalReference)
	conf, err := u.gateway.ConfirmPayment(ctx, cmd.ExternalReference, cmd.Amount)
	if err != nil {
		log.Printf("[reconcile][usecase] gateway lookup failed order_id=%s ref=%s err=%v", cmd.OrderID, cmd.ExternalReference, err)
		return fmt.Errorf("%w: %v", ErrPaymentNotConfirmed, err)
	}
	if !strings.EqualFold(conf.Status, gatewayApprovedStatus) {
		log.Printf("[reconcile][usecase] gateway status not approved order_id=%s ref=%s status=%s", cmd.OrderID, cmd.ExternalReference, conf.Status)
		return fmt.Errorf("%w: provider status %s", ErrPaymentNotConfirmed, conf.Status)
	}
	if conf.Amount != cmd.Amount {
		log.Printf("[reconcile][usecase] gateway amount mismatch order_id=%s ref=%s provider=%s submitted=%s", cmd.OrderID, cmd.ExternalReference, conf.Amount, cmd.Amount)
		return fmt.Errorf("%w: provider amount %s differs from %s", ErrPaymentNotConfirmed, conf.Amount, cmd.Amount)
	}
	return nil
}

func (u *ReconciliationUseCase) clock() time.Time {
	return u.now().Truncate(time.Microsecond)
}

func newCompletedPayment(orderID string, amount money.Money, method entities.PaymentMethod, ref string, details map[string]any, now time.Time) entities.Payment {
	return entities.Payment{
		ID:                newID(),
		OrderID:           orderID,
		Amount:            amount,
		Method:            method,
		Status:            entities.PaymentStatusCompleted,
		ExternalReference: ref,
		Details:           details,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// newID returns a time-ordered UUID so storage key order follows creation.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
