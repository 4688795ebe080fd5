package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"techknowledgepills/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DistributedLock is a lease stored as LOCK#<resource> / LOCK in the store's table.
// An expired lease can be taken over by any caller.
type DistributedLock struct {
	store *Store
	now   func() time.Time
}

var _ ports.Locker = (*DistributedLock)(nil)

// Locker returns a lock backed by the store's table
func (s *Store) Locker() ports.Locker {
	return &DistributedLock{store: s, now: time.Now}
}

// TryLock makes a single attempt to take the lease. It returns ports.ErrLockHeld
// when a live lease belongs to someone else.
func (l *DistributedLock) TryLock(ctx context.Context, resource string, ttl time.Duration) (func(context.Context) error, error) {
	owner := uuid.NewString()
	now := l.now()
	key := lockKey(resource)

	_, err := l.store.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.store.tableName),
		Item: map[string]types.AttributeValue{
			"PK":        key["PK"],
			"SK":        key["SK"],
			"Owner":     &types.AttributeValueMemberS{Value: owner},
			"ExpiresAt": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(ttl).Unix(), 10)},
			"TTL":       &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(ttl).Unix(), 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(PK) OR ExpiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ports.ErrLockHeld
		}
		return nil, fmt.Errorf("acquire lock %s: %w", resource, err)
	}

	l.store.logger.Debug("Lock acquired",
		zap.String("resource", resource),
		zap.String("owner", owner),
		zap.Duration("ttl", ttl))

	return func(ctx context.Context) error {
		return l.release(ctx, resource, owner)
	}, nil
}

func (l *DistributedLock) release(ctx context.Context, resource, owner string) error {
	_, err := l.store.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(l.store.tableName),
		Key:                 lockKey(resource),
		ConditionExpression: aws.String("Owner = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: owner},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// lease expired and was taken over
			l.store.logger.Warn("Lock was no longer ours on release", zap.String("resource", resource))
			return nil
		}
		return fmt.Errorf("release lock %s: %w", resource, err)
	}
	return nil
}

func lockKey(resource string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "LOCK#" + resource},
		"SK": &types.AttributeValueMemberS{Value: "LOCK"},
	}
}
