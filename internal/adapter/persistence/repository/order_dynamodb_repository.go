package repository

import (
	"context"
	"errors"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultOrdersTableName = "orders"

var ErrOrderExists = errors.New("order already exists")

type orderItem struct {
	ID            string `dynamodbav:"id"`
	TotalCents    int64  `dynamodbav:"total_cents"`
	Status        string `dynamodbav:"status"`
	PaymentStatus string `dynamodbav:"payment_status"`
	PaidAt        string `dynamodbav:"paid_at,omitempty"`
	Version       int64  `dynamodbav:"version"`
	CreatedAt     string `dynamodbav:"created_at"`
	UpdatedAt     string `dynamodbav:"updated_at"`
}

// OrderDynamoRepository persists Order entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Only creation goes through here. Payment-derived fields and status
// changes are written by ReconciliationDynamoStore under the order lock.

type OrderDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client, tableName string) *OrderDynamoRepository {
	if tableName == "" {
		tableName = defaultOrdersTableName
	}
	return &OrderDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *OrderDynamoRepository) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Order{}, ErrOrderExists
		}
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	return getOrder(ctx, r.ddb, r.tableName, id)
}

func getOrder(ctx context.Context, ddb dynamoAPI, table, id string) (entities.Order, error) {
	out, err := ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func toOrderItem(o entities.Order) orderItem {
	return orderItem{
		ID:            o.ID,
		TotalCents:    o.TotalAmount.Cents(),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaidAt:        formatTimePtr(o.PaidAt),
		Version:       o.Version,
		CreatedAt:     formatTime(o.CreatedAt),
		UpdatedAt:     formatTime(o.UpdatedAt),
	}
}

func fromOrderItem(it orderItem) entities.Order {
	return entities.Order{
		ID:            it.ID,
		TotalAmount:   money.FromCents(it.TotalCents),
		Status:        entities.OrderStatus(it.Status),
		PaymentStatus: entities.OrderPaymentStatus(it.PaymentStatus),
		PaidAt:        parseTimePtr(it.PaidAt),
		Version:       it.Version,
		CreatedAt:     parseTime(it.CreatedAt),
		UpdatedAt:     parseTime(it.UpdatedAt),
	}
}
