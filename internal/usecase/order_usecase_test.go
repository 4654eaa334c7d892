package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant_payments/internal/adapter/persistence/memory"
	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/usecase/interfaces"
	mock_interfaces "restaurant_payments/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestOrderUseCase_CreateOrder(t *testing.T) {
	t.Run("invalid total", func(t *testing.T) {
		uc := NewOrderUseCase(nil, nil)
		_, err := uc.CreateOrder(context.Background(), 0, entities.OrderStatusConfirmed)
		if !errors.Is(err, ErrInvalidOrderTotal) {
			t.Fatalf("expected ErrInvalidOrderTotal, got %v", err)
		}
	})

	t.Run("terminal status rejected", func(t *testing.T) {
		uc := NewOrderUseCase(nil, nil)
		_, err := uc.CreateOrder(context.Background(), 1000, entities.OrderStatusCompleted)
		if !errors.Is(err, ErrInvalidOrderStatus) {
			t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		uc := NewOrderUseCase(nil, nil)
		_, err := uc.CreateOrder(context.Background(), 1000, "eaten")
		if !errors.Is(err, ErrInvalidOrderStatus) {
			t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewOrderUseCase(repo, nil)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Order{}, errors.New("db"))

		_, err := uc.CreateOrder(context.Background(), 1000, "")
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("success defaults to confirmed and unpaid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewOrderUseCase(repo, nil)
		uc.now = func() time.Time { return fixedNow }

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o entities.Order) (entities.Order, error) {
			return o, nil
		})

		o, err := uc.CreateOrder(context.Background(), money.MustParse("46.60"), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.ID == "" || o.Status != entities.OrderStatusConfirmed || o.PaymentStatus != entities.OrderPaymentUnpaid {
			t.Fatalf("unexpected order: %+v", o)
		}
		if o.Version != 1 || o.PaidAt != nil || !o.CreatedAt.Equal(fixedNow) {
			t.Fatalf("unexpected order metadata: %+v", o)
		}
	})
}

func TestOrderUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewOrderUseCase(nil, nil)
		_, err := uc.GetByID(context.Background(), "  ")
		if !errors.Is(err, ErrInvalidOrderID) {
			t.Fatalf("expected ErrInvalidOrderID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "ord-1").Return(entities.Order{}, nil)

		_, err := uc.GetByID(context.Background(), "ord-1")
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "ord-1").Return(servedOrder("10.00"), nil)

		o, err := uc.GetByID(context.Background(), " ord-1 ")
		if err != nil || o.ID != "ord-1" {
			t.Fatalf("unexpected result: %+v err=%v", o, err)
		}
	})
}

func TestOrderUseCase_UpdateStatus(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		uc := NewOrderUseCase(nil, nil)
		_, err := uc.UpdateStatus(context.Background(), "ord-1", "eaten")
		if !errors.Is(err, ErrInvalidOrderStatus) {
			t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
		}
	})

	cases := []struct {
		name       string
		current    entities.Order
		target     entities.OrderStatus
		wantErr    error
		wantStatus entities.OrderStatus
		wantWrite  bool
	}{
		{
			name:    "missing order",
			target:  entities.OrderStatusReady,
			wantErr: ErrOrderNotFound,
		},
		{
			name:    "terminal order cannot move",
			current: entities.Order{ID: "ord-1", Status: entities.OrderStatusCancelled, Version: 2},
			target:  entities.OrderStatusServed,
			wantErr: ErrInvalidStatusTransition,
		},
		{
			name:    "completed requires payment",
			current: entities.Order{ID: "ord-1", Status: entities.OrderStatusServed, PaymentStatus: entities.OrderPaymentPartial, Version: 2},
			target:  entities.OrderStatusCompleted,
			wantErr: ErrInvalidStatusTransition,
		},
		{
			name:       "same status is a no-op",
			current:    entities.Order{ID: "ord-1", Status: entities.OrderStatusReady, Version: 2},
			target:     entities.OrderStatusReady,
			wantStatus: entities.OrderStatusReady,
		},
		{
			name:       "unpaid order is served",
			current:    entities.Order{ID: "ord-1", Status: entities.OrderStatusReady, PaymentStatus: entities.OrderPaymentUnpaid, Version: 2},
			target:     entities.OrderStatusServed,
			wantStatus: entities.OrderStatusServed,
			wantWrite:  true,
		},
		{
			name:       "paid order served completes",
			current:    entities.Order{ID: "ord-1", Status: entities.OrderStatusReady, PaymentStatus: entities.OrderPaymentPaid, Version: 2},
			target:     entities.OrderStatusServed,
			wantStatus: entities.OrderStatusCompleted,
			wantWrite:  true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			store := mock_interfaces.NewMockIReconciliationStore(ctrl)
			uc := NewOrderUseCase(nil, store)

			var change *interfaces.LedgerChange
			store.EXPECT().WithOrderLock(gomock.Any(), "ord-1", gomock.Any()).DoAndReturn(runLocked(interfaces.LedgerState{Order: tc.current}, &change))

			o, err := uc.UpdateStatus(context.Background(), "ord-1", tc.target)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.Status != tc.wantStatus {
				t.Fatalf("expected status %s, got %s", tc.wantStatus, o.Status)
			}
			if (change != nil) != tc.wantWrite {
				t.Fatalf("expected write=%t, got change %+v", tc.wantWrite, change)
			}
			if change != nil && change.Order.Version != tc.current.Version {
				t.Fatalf("change must carry version %d, got %d", tc.current.Version, change.Order.Version)
			}
		})
	}

	t.Run("paid preparing order completes once served", func(t *testing.T) {
		ctx := context.Background()
		store := memory.NewStore(time.Second)
		orders := NewOrderUseCase(store, store)
		payments := NewReconciliationUseCase(store, store, store, nil)

		o, err := orders.CreateOrder(ctx, money.MustParse("30.00"), entities.OrderStatusPreparing)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := payments.SubmitPayment(ctx, SubmitPaymentCommand{OrderID: o.ID, Amount: money.MustParse("30.00"), Method: entities.PaymentMethodCash}); err != nil {
			t.Fatalf("payment: %v", err)
		}

		o, err = orders.UpdateStatus(ctx, o.ID, entities.OrderStatusServed)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if o.Status != entities.OrderStatusCompleted {
			t.Fatalf("expected completed, got %s", o.Status)
		}

		stored, _ := store.GetByID(ctx, o.ID)
		if stored.Status != entities.OrderStatusCompleted || stored.PaymentStatus != entities.OrderPaymentPaid || stored.Version != 3 {
			t.Fatalf("unexpected stored order: %+v", stored)
		}
	})

	t.Run("cancelled order rejects payments", func(t *testing.T) {
		ctx := context.Background()
		store := memory.NewStore(time.Second)
		orders := NewOrderUseCase(store, store)
		payments := NewReconciliationUseCase(store, store, store, nil)

		o, err := orders.CreateOrder(ctx, money.MustParse("30.00"), "")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := orders.UpdateStatus(ctx, o.ID, entities.OrderStatusCancelled); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		_, err = payments.SubmitPayment(ctx, SubmitPaymentCommand{OrderID: o.ID, Amount: money.MustParse("30.00"), Method: entities.PaymentMethodCash})
		if !errors.Is(err, ErrOrderCancelled) {
			t.Fatalf("expected ErrOrderCancelled, got %v", err)
		}
	})
}
