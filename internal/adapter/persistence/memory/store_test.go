package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/usecase/interfaces"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(time.Second)
	_, err := s.Create(context.Background(), entities.Order{
		ID:            "ord-1",
		TotalAmount:   money.MustParse("10.00"),
		Status:        entities.OrderStatusServed,
		PaymentStatus: entities.OrderPaymentUnpaid,
		Version:       1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return s
}

func lockCount(s *Store) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

func TestStore_WithOrderLock_ContextDoneIsLockTimeout(t *testing.T) {
	s := seededStore(t)

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.WithOrderLock(context.Background(), "ord-1", func(context.Context, interfaces.LedgerState) (*interfaces.LedgerChange, error) {
			close(held)
			<-release
			return nil, nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	called := false
	err := s.WithOrderLock(ctx, "ord-1", func(context.Context, interfaces.LedgerState) (*interfaces.LedgerChange, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, interfaces.ErrOrderLockTimeout) {
		t.Fatalf("expected ErrOrderLockTimeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the context error to be kept, got %v", err)
	}
	if called {
		t.Fatalf("callback must not run without the lock")
	}
}

func TestStore_WithOrderLock_DropsIdleLocks(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	for _, id := range []string{"ord-1", "missing-1", "missing-2"} {
		if err := s.WithOrderLock(ctx, id, func(context.Context, interfaces.LedgerState) (*interfaces.LedgerChange, error) {
			return nil, nil
		}); err != nil {
			t.Fatalf("lock %s: %v", id, err)
		}
	}
	if n := lockCount(s); n != 0 {
		t.Fatalf("expected no idle locks, got %d", n)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithOrderLock(ctx, "ord-1", func(_ context.Context, state interfaces.LedgerState) (*interfaces.LedgerChange, error) {
				return &interfaces.LedgerChange{Order: state.Order}, nil
			})
		}()
	}
	wg.Wait()

	if n := lockCount(s); n != 0 {
		t.Fatalf("expected no idle locks after contention, got %d", n)
	}
	o, _ := s.GetByID(ctx, "ord-1")
	if o.Version != 9 {
		t.Fatalf("expected 8 serialized commits (version 9), got %d", o.Version)
	}
}
