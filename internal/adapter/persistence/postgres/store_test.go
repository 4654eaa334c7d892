package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/infrastructure/database"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MapError(t *testing.T) {
	s := NewStore(nil, 250*time.Millisecond)

	assert.NoError(t, s.mapError("ord-1", nil))
	assert.ErrorIs(t, s.mapError("ord-1", &pgconn.PgError{Code: pgLockNotAvailable}), interfaces.ErrOrderLockTimeout)
	assert.ErrorIs(t, s.mapError("ord-1", &pgconn.PgError{Code: pgSerializationFailure}), interfaces.ErrConcurrentModification)
	assert.ErrorIs(t, s.mapError("ord-1", &pgconn.PgError{Code: pgDeadlockDetected}), interfaces.ErrConcurrentModification)
	assert.ErrorIs(t, s.mapError("ord-1", interfaces.ErrConcurrentModification), interfaces.ErrConcurrentModification)

	other := errors.New("connection reset")
	assert.Equal(t, other, s.mapError("ord-1", other))
}

// newTestStore needs a disposable database in TEST_DATABASE_URI.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("TEST_DATABASE_URI")
	if uri == "" {
		t.Skip("TEST_DATABASE_URI not set")
	}
	pool, err := database.ConnectPostgres(context.Background(), uri)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewStore(pool, 200*time.Millisecond)
}

func createOrder(t *testing.T, s *Store, total string) entities.Order {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	o, err := s.Create(context.Background(), entities.Order{
		ID: uuid.NewString(), TotalAmount: money.MustParse(total), Status: entities.OrderStatusServed,
		PaymentStatus: entities.OrderPaymentUnpaid, Version: 1, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return o
}

func TestStore_WithOrderLock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	o := createOrder(t, s, "46.60")

	_, err := s.Create(ctx, o)
	require.ErrorIs(t, err, ErrOrderExists)

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := entities.Payment{
		ID: uuid.NewString(), OrderID: o.ID, Amount: money.MustParse("20.00"),
		Method: entities.PaymentMethodCard, Status: entities.PaymentStatusCompleted,
		ExternalReference: "tx-1", Details: map[string]any{"last4": "4242"},
		CreatedAt: now, UpdatedAt: now,
	}
	err = s.WithOrderLock(ctx, o.ID, func(_ context.Context, state interfaces.LedgerState) (*interfaces.LedgerChange, error) {
		require.Equal(t, int64(1), state.Order.Version)
		require.Empty(t, state.Payments)
		next := state.Order
		next.PaymentStatus = entities.OrderPaymentPartial
		return &interfaces.LedgerChange{Order: next, NewPayments: []entities.Payment{p}}, nil
	})
	require.NoError(t, err)

	state, err := s.Snapshot(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.Order.Version)
	assert.Equal(t, entities.OrderPaymentPartial, state.Order.PaymentStatus)
	require.Len(t, state.Payments, 1)
	assert.Equal(t, p.Amount, state.Payments[0].Amount)
	assert.Equal(t, "tx-1", state.Payments[0].ExternalReference)
	assert.Equal(t, "4242", state.Payments[0].Details["last4"])

	got, err := s.GetPayment(ctx, o.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	stale := state.Order
	stale.Version = 1
	err = s.WithOrderLock(ctx, o.ID, func(context.Context, interfaces.LedgerState) (*interfaces.LedgerChange, error) {
		return &interfaces.LedgerChange{Order: stale}, nil
	})
	require.ErrorIs(t, err, interfaces.ErrConcurrentModification)
}

func TestStore_WithOrderLock_Serializes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	o := createOrder(t, s, "10.00")

	held := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.WithOrderLock(ctx, o.ID, func(context.Context, interfaces.LedgerState) (*interfaces.LedgerChange, error) {
			close(held)
			<-release
			return nil, nil
		})
	}()
	<-held

	err := s.WithOrderLock(ctx, o.ID, func(context.Context, interfaces.LedgerState) (*interfaces.LedgerChange, error) {
		return nil, nil
	})
	close(release)
	wg.Wait()
	require.ErrorIs(t, err, interfaces.ErrOrderLockTimeout)
}
