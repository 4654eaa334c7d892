package interfaces

import (
	"context"
	"errors"

	"restaurant_payments/internal/domain/entities"
)

// Transient storage failures. Both are safe for the caller to retry; the
// engine never retries on its own.
var (
	ErrOrderLockTimeout       = errors.New("timed out waiting for order lock")
	ErrConcurrentModification = errors.New("order was modified concurrently")
)

// LedgerState is the order and all of its payments read from one snapshot.
// Order is the zero value when the order does not exist.
type LedgerState struct {
	Order    entities.Order
	Payments []entities.Payment
}

// LedgerChange is everything one reconciliation writes. Order carries the
// Version that was read; the store commits only if it is still current and
// then bumps it.
type LedgerChange struct {
	Order           entities.Order
	NewPayments     []entities.Payment
	UpdatedPayments []entities.Payment
}

// ReconcileFunc runs inside the per-order scope. Returning an error aborts
// the scope without writes; returning a nil change commits nothing.
type ReconcileFunc func(ctx context.Context, state LedgerState) (*LedgerChange, error)

// IReconciliationStore provides the storage-level serialization primitive:
// every WithOrderLock call for the same order id runs mutually exclusive
// with every other, across processes, from the read of the state to the
// commit of the change. Acquisition waits at most the configured lock
// timeout and then fails with ErrOrderLockTimeout.

type IReconciliationStore interface {
	WithOrderLock(ctx context.Context, orderID string, fn ReconcileFunc) error
	Snapshot(ctx context.Context, orderID string) (LedgerState, error)
}
