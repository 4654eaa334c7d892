// Package memory is a single-process implementation of the order/payment
// stores, used for local runs (STORAGE_DRIVER=memory) and engine tests.
// Its per-order lock only serializes callers inside one process.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase/interfaces"
)

var ErrOrderExists = errors.New("order already exists")

type Store struct {
	mu          sync.Mutex
	orders      map[string]entities.Order
	payments    map[string][]entities.Payment
	locks       map[string]*orderLock
	lockTimeout time.Duration
}

// orderLock is a one-slot semaphore; refs counts holders and waiters so the
// entry is dropped once nobody uses it.
type orderLock struct {
	slot chan struct{}
	refs int
}

var (
	_ interfaces.IOrderRepository      = (*Store)(nil)
	_ interfaces.IPaymentRepository    = (*Store)(nil)
	_ interfaces.IReconciliationStore = (*Store)(nil)
)

func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		orders:      map[string]entities.Order{},
		payments:    map[string][]entities.Payment{},
		locks:       map[string]*orderLock{},
		lockTimeout: lockTimeout,
	}
}

func (s *Store) Create(_ context.Context, o entities.Order) (entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; ok {
		return entities.Order{}, ErrOrderExists
	}
	s.orders[o.ID] = o
	return o, nil
}

func (s *Store) GetByID(_ context.Context, id string) (entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id], nil
}

func (s *Store) ListByOrderID(_ context.Context, orderID string) ([]entities.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Payment{}, s.payments[orderID]...), nil
}

func (s *Store) GetPayment(_ context.Context, orderID, paymentID string) (entities.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments[orderID] {
		if p.ID == paymentID {
			return p, nil
		}
	}
	return entities.Payment{}, nil
}

func (s *Store) Snapshot(_ context.Context, orderID string) (interfaces.LedgerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(orderID), nil
}

func (s *Store) WithOrderLock(ctx context.Context, orderID string, fn interfaces.ReconcileFunc) error {
	lock := s.retainLock(orderID)
	defer s.releaseLock(orderID, lock)

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case lock.slot <- struct{}{}:
	case <-timer.C:
		return fmt.Errorf("%w: order_id=%s after %s", interfaces.ErrOrderLockTimeout, orderID, s.lockTimeout)
	case <-ctx.Done():
		return fmt.Errorf("%w: order_id=%s: %w", interfaces.ErrOrderLockTimeout, orderID, ctx.Err())
	}
	defer func() { <-lock.slot }()

	s.mu.Lock()
	state := s.stateLocked(orderID)
	s.mu.Unlock()

	change, err := fn(ctx, state)
	if err != nil || change == nil {
		return err
	}
	return s.apply(orderID, change)
}

func (s *Store) retainLock(orderID string) *orderLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[orderID]
	if !ok {
		l = &orderLock{slot: make(chan struct{}, 1)}
		s.locks[orderID] = l
	}
	l.refs++
	return l
}

func (s *Store) releaseLock(orderID string, l *orderLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, orderID)
	}
}

func (s *Store) stateLocked(orderID string) interfaces.LedgerState {
	return interfaces.LedgerState{
		Order:    s.orders[orderID],
		Payments: append([]entities.Payment{}, s.payments[orderID]...),
	}
}

func (s *Store) apply(orderID string, change *interfaces.LedgerChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[orderID]
	if !ok || current.Version != change.Order.Version {
		return fmt.Errorf("%w: order_id=%s", interfaces.ErrConcurrentModification, orderID)
	}

	payments := append([]entities.Payment{}, s.payments[orderID]...)
	for _, up := range change.UpdatedPayments {
		found := false
		for i := range payments {
			if payments[i].ID == up.ID {
				payments[i] = up
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("update payment %s: not found", up.ID)
		}
	}
	s.payments[orderID] = append(payments, change.NewPayments...)

	o := change.Order
	o.Version = current.Version + 1
	s.orders[orderID] = o
	return nil
}
