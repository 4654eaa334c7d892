package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBSettings configures the client. Endpoint is only set for local
// DynamoDB (e.g. http://dynamodb:8000).
type DynamoDBSettings struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

// TableSpec names a table and its key schema for EnsureTables.
type TableSpec struct {
	Name    string
	HashKey string
	SortKey string
}

func ConnectDynamoDB(ctx context.Context, s DynamoDBSettings) (*dynamodb.Client, error) {
	// Local DynamoDB does not validate credentials, but the AWS SDK requires them.
	creds := credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, "")

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamodb config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
		}
	})
	log.Printf("[database][dynamodb] client ready region=%s endpoint=%q", s.Region, s.Endpoint)
	return client, nil
}

// EnsureTables creates the missing tables with on-demand billing. It is meant
// for local runs; production tables are provisioned outside the service.
func EnsureTables(ctx context.Context, client *dynamodb.Client, specs ...TableSpec) error {
	for _, spec := range specs {
		_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.Name)})
		if err == nil {
			continue
		}
		var nf *types.ResourceNotFoundException
		if !errors.As(err, &nf) {
			return err
		}

		attrs := []types.AttributeDefinition{{AttributeName: aws.String(spec.HashKey), AttributeType: types.ScalarAttributeTypeS}}
		keys := []types.KeySchemaElement{{AttributeName: aws.String(spec.HashKey), KeyType: types.KeyTypeHash}}
		if spec.SortKey != "" {
			attrs = append(attrs, types.AttributeDefinition{AttributeName: aws.String(spec.SortKey), AttributeType: types.ScalarAttributeTypeS})
			keys = append(keys, types.KeySchemaElement{AttributeName: aws.String(spec.SortKey), KeyType: types.KeyTypeRange})
		}

		_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName:            aws.String(spec.Name),
			AttributeDefinitions: attrs,
			KeySchema:            keys,
			BillingMode:          types.BillingModePayPerRequest,
		})
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return fmt.Errorf("create table %s: %w", spec.Name, err)
		}
		log.Printf("[database][dynamodb] created table=%s", spec.Name)
	}
	return nil
}
