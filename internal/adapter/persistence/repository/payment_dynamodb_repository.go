package repository

import (
	"context"

	"restaurant_payments/internal/domain/entities"
	"restaurant_payments/internal/domain/money"
	"restaurant_payments/internal/domain/reconciliation"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultPaymentsTableName = "payments"

type paymentItem struct {
	OrderID       string                 `dynamodbav:"order_id"`
	ID            string                 `dynamodbav:"id"`
	AmountCents   int64                  `dynamodbav:"amount_cents"`
	Method        string                 `dynamodbav:"payment_method"`
	Status        string                 `dynamodbav:"status"`
	TransactionID string                 `dynamodbav:"transaction_id,omitempty"`
	Details       map[string]interface{} `dynamodbav:"payment_details,omitempty"`
	CreatedAt     string                 `dynamodbav:"created_at"`
	UpdatedAt     string                 `dynamodbav:"updated_at"`
	RefundedAt    string                 `dynamodbav:"refunded_at,omitempty"`
}

// PaymentDynamoRepository reads Payment entities from DynamoDB.
//
// Table requirements:
//   - PK: order_id (string)
//   - SK: id (string)
//
// Keying by order keeps the whole ledger of an order in one partition, so it
// is read with a single strongly consistent Query.

type PaymentDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb *dynamodb.Client, tableName string) *PaymentDynamoRepository {
	if tableName == "" {
		tableName = defaultPaymentsTableName
	}
	return &PaymentDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *PaymentDynamoRepository) GetPayment(ctx context.Context, orderID, paymentID string) (entities.Payment, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
			"id":       &types.AttributeValueMemberS{Value: paymentID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Item) == 0 {
		return entities.Payment{}, nil
	}

	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func (r *PaymentDynamoRepository) ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error) {
	return listPayments(ctx, r.ddb, r.tableName, orderID)
}

func listPayments(ctx context.Context, ddb dynamoAPI, table, orderID string) ([]entities.Payment, error) {
	p := dynamodb.NewQueryPaginator(ddb, &dynamodb.QueryInput{
		TableName:              aws.String(table),
		KeyConditionExpression: aws.String("order_id = :oid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":oid": &types.AttributeValueMemberS{Value: orderID},
		},
		ConsistentRead: aws.Bool(true),
	})

	items := []entities.Payment{}
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it paymentItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromPaymentItem(it))
		}
	}
	return reconciliation.SortByCreation(items), nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	return paymentItem{
		OrderID:       p.OrderID,
		ID:            p.ID,
		AmountCents:   p.Amount.Cents(),
		Method:        string(p.Method),
		Status:        string(p.Status),
		TransactionID: p.ExternalReference,
		Details:       p.Details,
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
		RefundedAt:    formatTimePtr(p.RefundedAt),
	}
}

func fromPaymentItem(it paymentItem) entities.Payment {
	return entities.Payment{
		ID:                it.ID,
		OrderID:           it.OrderID,
		Amount:            money.FromCents(it.AmountCents),
		Method:            entities.PaymentMethod(it.Method),
		Status:            entities.PaymentStatus(it.Status),
		ExternalReference: it.TransactionID,
		Details:           it.Details,
		CreatedAt:         parseTime(it.CreatedAt),
		UpdatedAt:         parseTime(it.UpdatedAt),
		RefundedAt:        parseTimePtr(it.RefundedAt),
	}
}
