package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const (
	defaultOrderLocksTableName = "order_locks"

	lockRetryMin       = 20 * time.Millisecond
	lockRetryMax       = 250 * time.Millisecond
	snapshotMaxRetries = 3
)

type orderLockItem struct {
	OrderID   string `dynamodbav:"order_id"`
	Owner     string `dynamodbav:"owner"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
}

// ReconciliationDynamoStore serializes reconciliations per order across
// replicas with a lease item in the order_locks table.
//
// Table requirements:
//   - order_locks PK: order_id (string); TTL on expires_at is optional
//   - orders and payments as in OrderDynamoRepository / PaymentDynamoRepository
//
// A commit is a single TransactWriteItems that also checks the lease is still
// ours and that the order version is the one read, so an expired lease can
// never produce a lost update.

type ReconciliationDynamoStore struct {
	ddb           dynamoAPI
	ordersTable   string
	paymentsTable string
	locksTable    string
	lockTimeout   time.Duration
	lockLease     time.Duration
	now           func() time.Time
}

var _ interfaces.IReconciliationStore = (*ReconciliationDynamoStore)(nil)

func NewReconciliationDynamoStore(ddb *dynamodb.Client, tables DynamoTables, lockTimeout, lockLease time.Duration) *ReconciliationDynamoStore {
	return newReconciliationDynamoStore(ddb, tables, lockTimeout, lockLease)
}

func newReconciliationDynamoStore(ddb dynamoAPI, tables DynamoTables, lockTimeout, lockLease time.Duration) *ReconciliationDynamoStore {
	tables = tables.withDefaults()
	return &ReconciliationDynamoStore{
		ddb:           ddb,
		ordersTable:   tables.Orders,
		paymentsTable: tables.Payments,
		locksTable:    tables.OrderLocks,
		lockTimeout:   lockTimeout,
		lockLease:     lockLease,
		now:           time.Now,
	}
}

func (s *ReconciliationDynamoStore) WithOrderLock(ctx context.Context, orderID string, fn interfaces.ReconcileFunc) error {
	owner := uuid.NewString()
	if err := s.acquire(ctx, orderID, owner); err != nil {
		return err
	}
	defer s.release(orderID, owner)

	state, err := s.read(ctx, orderID)
	if err != nil {
		return err
	}

	change, err := fn(ctx, state)
	if err != nil || change == nil {
		return err
	}
	return s.commit(ctx, orderID, owner, change)
}

// Snapshot reads the order, then its payments, then the order again; the pair
// is consistent when the version did not move in between.
func (s *ReconciliationDynamoStore) Snapshot(ctx context.Context, orderID string) (interfaces.LedgerState, error) {
	for attempt := 0; attempt < snapshotMaxRetries; attempt++ {
		state, err := s.read(ctx, orderID)
		if err != nil {
			return interfaces.LedgerState{}, err
		}
		if !state.Order.Exists() {
			return state, nil
		}
		again, err := getOrder(ctx, s.ddb, s.ordersTable, orderID)
		if err != nil {
			return interfaces.LedgerState{}, err
		}
		if again.Version == state.Order.Version {
			return state, nil
		}
	}
	return interfaces.LedgerState{}, fmt.Errorf("%w: order_id=%s snapshot kept moving", interfaces.ErrConcurrentModification, orderID)
}

func (s *ReconciliationDynamoStore) read(ctx context.Context, orderID string) (interfaces.LedgerState, error) {
	order, err := getOrder(ctx, s.ddb, s.ordersTable, orderID)
	if err != nil {
		return interfaces.LedgerState{}, err
	}
	if !order.Exists() {
		return interfaces.LedgerState{}, nil
	}
	payments, err := listPayments(ctx, s.ddb, s.paymentsTable, orderID)
	if err != nil {
		return interfaces.LedgerState{}, err
	}
	return interfaces.LedgerState{Order: order, Payments: payments}, nil
}

func (s *ReconciliationDynamoStore) acquire(ctx context.Context, orderID, owner string) error {
	deadline := s.now().Add(s.lockTimeout)
	wait := lockRetryMin

	for {
		now := s.now()
		av, err := attributevalue.MarshalMap(orderLockItem{
			OrderID:   orderID,
			Owner:     owner,
			ExpiresAt: now.Add(s.lockLease).UnixMilli(),
		})
		if err != nil {
			return err
		}

		_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(s.locksTable),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(#order_id) OR #expires_at < :now"),
			ExpressionAttributeNames: map[string]string{
				"#order_id":   "order_id",
				"#expires_at": "expires_at",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.UnixMilli(), 10)},
			},
		})
		if err == nil {
			return nil
		}
		var cfe *types.ConditionalCheckFailedException
		if !errors.As(err, &cfe) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("%w: order_id=%s: %w", interfaces.ErrOrderLockTimeout, orderID, ctxErr)
			}
			return err
		}

		if !s.now().Add(wait).Before(deadline) {
			log.Printf("[reconcile][store] lock timeout order_id=%s after=%s", orderID, s.lockTimeout)
			return fmt.Errorf("%w: order_id=%s after %s", interfaces.ErrOrderLockTimeout, orderID, s.lockTimeout)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: order_id=%s: %w", interfaces.ErrOrderLockTimeout, orderID, ctx.Err())
		case <-timer.C:
		}
		wait *= 2
		if wait > lockRetryMax {
			wait = lockRetryMax
		}
	}
}

// release runs on a fresh context so a cancelled request still frees the
// lease instead of holding it until expiry.
func (s *ReconciliationDynamoStore) release(orderID, owner string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.locksTable),
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		ConditionExpression:      aws.String("#owner = :owner"),
		ExpressionAttributeNames: map[string]string{"#owner": "owner"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: owner},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			log.Printf("[reconcile][store] lease lost before release order_id=%s", orderID)
			return
		}
		log.Printf("[reconcile][store] lock release failed order_id=%s err=%v", orderID, err)
	}
}

func (s *ReconciliationDynamoStore) commit(ctx context.Context, orderID, owner string, change *interfaces.LedgerChange) error {
	items, err := s.transactItems(orderID, owner, change)
	if err != nil {
		return err
	}

	_, err = s.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			log.Printf("[reconcile][store] commit cancelled order_id=%s reasons=%s", orderID, cancellationCodes(tce))
			return fmt.Errorf("%w: order_id=%s", interfaces.ErrConcurrentModification, orderID)
		}
		return err
	}
	return nil
}

func (s *ReconciliationDynamoStore) transactItems(orderID, owner string, change *interfaces.LedgerChange) ([]types.TransactWriteItem, error) {
	items := make([]types.TransactWriteItem, 0, len(change.NewPayments)+len(change.UpdatedPayments)+2)

	items = append(items, types.TransactWriteItem{
		ConditionCheck: &types.ConditionCheck{
			TableName: aws.String(s.locksTable),
			Key: map[string]types.AttributeValue{
				"order_id": &types.AttributeValueMemberS{Value: orderID},
			},
			ConditionExpression:      aws.String("#owner = :owner"),
			ExpressionAttributeNames: map[string]string{"#owner": "owner"},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":owner": &types.AttributeValueMemberS{Value: owner},
			},
		},
	})

	for _, p := range change.NewPayments {
		put, err := s.paymentPut(p, "attribute_not_exists(#id)")
		if err != nil {
			return nil, err
		}
		items = append(items, put)
	}
	for _, p := range change.UpdatedPayments {
		put, err := s.paymentPut(p, "attribute_exists(#id)")
		if err != nil {
			return nil, err
		}
		items = append(items, put)
	}

	order := change.Order
	expected := order.Version
	order.Version = expected + 1
	av, err := attributevalue.MarshalMap(toOrderItem(order))
	if err != nil {
		return nil, err
	}
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.ordersTable),
			Item:                av,
			ConditionExpression: aws.String("#version = :expected"),
			ExpressionAttributeNames: map[string]string{
				"#version": "version",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
			},
		},
	})
	return items, nil
}

func (s *ReconciliationDynamoStore) paymentPut(p entities.Payment, condition string) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName:                aws.String(s.paymentsTable),
			Item:                     av,
			ConditionExpression:      aws.String(condition),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		},
	}, nil
}

func cancellationCodes(tce *types.TransactionCanceledException) []string {
	codes := make([]string, 0, len(tce.CancellationReasons))
	for _, r := range tce.CancellationReasons {
		codes = append(codes, aws.ToString(r.Code))
	}
	return codes
}
