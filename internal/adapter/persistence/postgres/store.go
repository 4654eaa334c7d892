// Package postgres stores orders and payments in PostgreSQL.
//
// The per-order scope is a transaction holding SELECT ... FOR UPDATE on the
// order row; lock_timeout bounds how long a caller waits for it.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgLockNotAvailable     = "55P03"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

var ErrOrderExists = errors.New("order already exists")

const (
	selectOrder = `SELECT id, total_cents, status, payment_status, paid_at, version, created_at, updated_at
		FROM orders WHERE id = $1`
	selectPayments = `SELECT id, order_id, amount_cents, payment_method, status, COALESCE(transaction_id, ''),
		payment_details, created_at, updated_at, refunded_at
		FROM payments WHERE order_id = $1 ORDER BY created_at, id`
)

type Store struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

var (
	_ interfaces.IOrderRepository     = (*Store)(nil)
	_ interfaces.IPaymentRepository   = (*Store)(nil)
	_ interfaces.IReconciliationStore = (*Store)(nil)
)

func NewStore(pool *pgxpool.Pool, lockTimeout time.Duration) *Store {
	return &Store{pool: pool, lockTimeout: lockTimeout}
}

func (s *Store) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	_, err := s.pool.Exec(ctx, `INSERT INTO orders (id, total_cents, status, payment_status, paid_at, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.TotalAmount.Cents(), o.Status, o.PaymentStatus, o.PaidAt, o.Version, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return entities.Order{}, ErrOrderExists
		}
		return entities.Order{}, err
	}
	return o, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (entities.Order, error) {
	return scanOrder(s.pool.QueryRow(ctx, selectOrder, id))
}

func (s *Store) GetPayment(ctx context.Context, orderID, paymentID string) (entities.Payment, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, order_id, amount_cents, payment_method, status, COALESCE(transaction_id, ''),
		payment_details, created_at, updated_at, refunded_at
		FROM payments WHERE order_id = $1 AND id = $2`, orderID, paymentID)
	if err != nil {
		return entities.Payment{}, err
	}
	payments, err := scanPayments(rows)
	if err != nil || len(payments) == 0 {
		return entities.Payment{}, err
	}
	return payments[0], nil
}

func (s *Store) ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error) {
	rows, err := s.pool.Query(ctx, selectPayments, orderID)
	if err != nil {
		return nil, err
	}
	return scanPayments(rows)
}

func (s *Store) Snapshot(ctx context.Context, orderID string) (interfaces.LedgerState, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return interfaces.LedgerState{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	state, err := readState(ctx, tx, selectOrder, orderID)
	if err != nil {
		return interfaces.LedgerState{}, err
	}
	return state, tx.Commit(ctx)
}

func (s *Store) WithOrderLock(ctx context.Context, orderID string, fn interfaces.ReconcileFunc) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())); err != nil {
		return err
	}

	state, err := readState(ctx, tx, selectOrder+" FOR UPDATE", orderID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: order_id=%s: %w", interfaces.ErrOrderLockTimeout, orderID, ctxErr)
		}
		return s.mapError(orderID, err)
	}

	change, err := fn(ctx, state)
	if err != nil || change == nil {
		return err
	}

	if err := s.apply(ctx, tx, orderID, change); err != nil {
		return s.mapError(orderID, err)
	}
	return s.mapError(orderID, tx.Commit(ctx))
}

func (s *Store) apply(ctx context.Context, tx pgx.Tx, orderID string, change *interfaces.LedgerChange) error {
	batch := &pgx.Batch{}
	for _, p := range change.NewPayments {
		details, err := marshalDetails(p.Details)
		if err != nil {
			return err
		}
		batch.Queue(`INSERT INTO payments (id, order_id, amount_cents, payment_method, status, transaction_id, payment_details, created_at, updated_at, refunded_at)
			VALUES ($1,$2,$3,$4,$5,NULLIF($6, ''),$7,$8,$9,$10)`,
			p.ID, p.OrderID, p.Amount.Cents(), p.Method, p.Status, p.ExternalReference, details, p.CreatedAt, p.UpdatedAt, p.RefundedAt)
	}
	for _, p := range change.UpdatedPayments {
		batch.Queue(`UPDATE payments SET status=$3, updated_at=$4, refunded_at=$5 WHERE order_id=$1 AND id=$2`,
			p.OrderID, p.ID, p.Status, p.UpdatedAt, p.RefundedAt)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}

	o := change.Order
	ct, err := tx.Exec(ctx, `UPDATE orders SET status=$3, payment_status=$4, paid_at=$5, updated_at=$6, version=version+1
		WHERE id=$1 AND version=$2`,
		orderID, o.Version, o.Status, o.PaymentStatus, o.PaidAt, o.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return interfaces.ErrConcurrentModification
	}
	return nil
}

func (s *Store) mapError(orderID string, err error) error {
	if err == nil || errors.Is(err, interfaces.ErrConcurrentModification) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable:
			return fmt.Errorf("%w: order_id=%s after %s", interfaces.ErrOrderLockTimeout, orderID, s.lockTimeout)
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: order_id=%s: %s", interfaces.ErrConcurrentModification, orderID, pgErr.Message)
		}
	}
	return err
}

func readState(ctx context.Context, tx pgx.Tx, orderQuery, orderID string) (interfaces.LedgerState, error) {
	order, err := scanOrder(tx.QueryRow(ctx, orderQuery, orderID))
	if err != nil || !order.Exists() {
		return interfaces.LedgerState{}, err
	}
	rows, err := tx.Query(ctx, selectPayments, orderID)
	if err != nil {
		return interfaces.LedgerState{}, err
	}
	payments, err := scanPayments(rows)
	if err != nil {
		return interfaces.LedgerState{}, err
	}
	return interfaces.LedgerState{Order: order, Payments: payments}, nil
}

func scanOrder(row pgx.Row) (entities.Order, error) {
	var (
		o     entities.Order
		cents int64
	)
	err := row.Scan(&o.ID, &cents, &o.Status, &o.PaymentStatus, &o.PaidAt, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.Order{}, nil
	}
	if err != nil {
		return entities.Order{}, err
	}
	o.TotalAmount = money.FromCents(cents)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	if o.PaidAt != nil {
		t := o.PaidAt.UTC()
		o.PaidAt = &t
	}
	return o, nil
}

func scanPayments(rows pgx.Rows) ([]entities.Payment, error) {
	defer rows.Close()

	payments := []entities.Payment{}
	for rows.Next() {
		var (
			p       entities.Payment
			cents   int64
			details []byte
		)
		if err := rows.Scan(&p.ID, &p.OrderID, &cents, &p.Method, &p.Status, &p.ExternalReference,
			&details, &p.CreatedAt, &p.UpdatedAt, &p.RefundedAt); err != nil {
			return nil, err
		}
		p.Amount = money.FromCents(cents)
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		if len(details) > 0 {
			if err := json.Unmarshal(details, &p.Details); err != nil {
				return nil, err
			}
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func marshalDetails(details map[string]any) ([]byte, error) {
	if len(details) == 0 {
		return nil, nil
	}
	return json.Marshal(details)
}
