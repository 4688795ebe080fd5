// Package dynamodb implements the repository ports on a single DynamoDB table.
//
// Key layout:
//
//	USER#<id>       PROFILE               user profile
//	EMAIL#<email>   EMAIL                 email uniqueness guard
//	CONTENT#<id>    METADATA              knowledge pill (GSI1PK=CONTENT, GSI1SK=<createdAt>#<id>)
//	USER#<id>       STRESS#<ts>#<id>      stress indicator
//	USER#<id>       HEALTH#<ts>#<id>      health metric
//	USER#<id>       CIPHER#<id>           cipher
//	USER#<id>       CIPHERKEY#<keyName>   cipher key uniqueness guard
//	USER#<id>       DONE#<contentId>      content completion
//	LOCK#<name>     LOCK                  lease held by DistributedLock
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"techknowledgepills/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// timeLayout is fixed width so sort keys order chronologically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const (
	gsi1Name = "GSI1"

	// DynamoDB limits batch writes to 25 items
	batchSize  = 25
	maxRetries = 3
)

// API is the subset of the DynamoDB client the repositories use
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

var _ API = (*dynamodb.Client)(nil)

// Store hands out the repository ports backed by one table
type Store struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewStore creates a store over the given table
func NewStore(client API, tableName string, logger *zap.Logger) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Ping implements ports.HealthChecker
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", s.tableName, err)
	}
	return nil
}

func (s *Store) Users() ports.UserRepository { return &userRepository{s} }

func (s *Store) Contents() ports.ContentRepository { return &contentRepository{s} }

func (s *Store) StressIndicators() ports.StressIndicatorRepository {
	return &stressRepository{s}
}

func (s *Store) HealthMetrics() ports.HealthMetricRepository { return &healthRepository{s} }

func (s *Store) Ciphers() ports.CipherRepository { return &cipherRepository{s} }

func (s *Store) Interactions() ports.InteractionRepository {
	return &interactionRepository{s}
}

// queryAll follows LastEvaluatedKey until the result set is exhausted
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// batchPut writes items in chunks of 25 and retries unprocessed items with backoff
func (s *Store) batchPut(ctx context.Context, items []map[string]types.AttributeValue) error {
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))

		requests := make([]types.WriteRequest, 0, end-i)
		for _, item := range items[i:end] {
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		unprocessed := requests
		for retry := 0; retry < maxRetries && len(unprocessed) > 0; retry++ {
			result, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{s.tableName: unprocessed},
			})
			if err == nil {
				unprocessed = result.UnprocessedItems[s.tableName]
				if len(unprocessed) == 0 {
					break
				}
			}

			backoff := time.Duration(retry*retry+1) * 100 * time.Millisecond
			s.logger.Warn("Batch write incomplete, retrying",
				zap.Error(err),
				zap.Int("unprocessed", len(unprocessed)),
				zap.Int("retry", retry+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if len(unprocessed) > 0 {
			return fmt.Errorf("batch write: %d items unprocessed after %d retries", len(unprocessed), maxRetries)
		}
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func isTransactionCanceled(err error) bool {
	var tce *types.TransactionCanceledException
	return errors.As(err, &tce)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func userPK(userID string) string { return "USER#" + userID }

func stringKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}
