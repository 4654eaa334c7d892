package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/domain/reconciliation"
	"restaurant_payments/internal/usecase/interfaces"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidOrderTotal       = errors.New("invalid order total")
	ErrInvalidOrderStatus      = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// IOrderUseCase is the collaborator surface around the payment engine:
// order creation with a fixed total and kitchen/service status updates.

type IOrderUseCase interface {
	CreateOrder(ctx context.Context, total money.Money, status entities.OrderStatus) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) (entities.Order, error)
}

type OrderUseCase struct {
	repo  interfaces.IOrderRepository
	store interfaces.IReconciliationStore
	now   func() time.Time
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(repo interfaces.IOrderRepository, store interfaces.IReconciliationStore) *OrderUseCase {
	return &OrderUseCase{repo: repo, store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (u *OrderUseCase) CreateOrder(ctx context.Context, total money.Money, status entities.OrderStatus) (entities.Order, error) {
	if !total.IsPositive() {
		return entities.Order{}, ErrInvalidOrderTotal
	}
	if status == "" {
		status = entities.OrderStatusConfirmed
	}
	if !status.Valid() || status.Terminal() {
		return entities.Order{}, ErrInvalidOrderStatus
	}

	now := u.now().Truncate(time.Microsecond)
	o := entities.Order{
		ID:            newID(),
		TotalAmount:   total,
		Status:        status,
		PaymentStatus: entities.OrderPaymentUnpaid,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := u.repo.Create(ctx, o)
	if err != nil {
		log.Printf("[order][usecase] create failed err=%v", err)
		return entities.Order{}, err
	}
	log.Printf("[order][usecase] created order_id=%s total=%s status=%s", created.ID, created.TotalAmount, created.Status)
	return created, nil
}

func (u *OrderUseCase) GetByID(ctx context.Context, id string) (entities.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Order{}, ErrInvalidOrderID
	}

	o, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	if !o.Exists() {
		return entities.Order{}, ErrOrderNotFound
	}
	return o, nil
}

// UpdateStatus applies a workflow transition under the same per-order scope
// as payments, so it cannot interleave with a reconciliation. completed and
// cancelled are terminal. A paid order moved to served completes at once.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) (entities.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	if !status.Valid() {
		return entities.Order{}, ErrInvalidOrderStatus
	}

	var updated entities.Order
	err := u.store.WithOrderLock(ctx, id, func(ctx context.Context, state interfaces.LedgerState) (*interfaces.LedgerChange, error) {
		o := state.Order
		if !o.Exists() {
			return nil, ErrOrderNotFound
		}
		if o.Status == status {
			updated = o
			return nil, nil
		}
		if o.Status.Terminal() {
			return nil, ErrInvalidStatusTransition
		}
		if status == entities.OrderStatusCompleted && o.PaymentStatus != entities.OrderPaymentPaid {
			return nil, ErrInvalidStatusTransition
		}

		o.Status = status
		o, _ = reconciliation.CompleteIfServedAndPaid(o)
		o.UpdatedAt = u.now().Truncate(time.Microsecond)
		updated = o
		return &interfaces.LedgerChange{Order: o}, nil
	})
	if err != nil {
		log.Printf("[order][usecase] status update failed order_id=%s status=%s err=%v", id, status, err)
		return entities.Order{}, err
	}
	log.Printf("[order][usecase] status updated order_id=%s status=%s", id, updated.Status)
	return updated, nil
}
