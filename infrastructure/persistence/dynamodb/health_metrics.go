package dynamodb

import (
	"context"
	"fmt"
	"time"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	pkgerrors "techknowledgepills/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

const healthPrefix = "HEALTH#"

type healthItem struct {
	PK                   string   `dynamodbav:"PK"`
	SK                   string   `dynamodbav:"SK"`
	EntityType           string   `dynamodbav:"EntityType"`
	MetricID             string   `dynamodbav:"MetricID"`
	UserID               string   `dynamodbav:"UserID"`
	Timestamp            string   `dynamodbav:"Timestamp"`
	HeartRate            *int     `dynamodbav:"HeartRate,omitempty"`
	Steps                *int     `dynamodbav:"Steps,omitempty"`
	SleepHours           *float64 `dynamodbav:"SleepHours,omitempty"`
	HeartRateVariability *int     `dynamodbav:"HeartRateVariability,omitempty"`
	BodyTemperature      *float64 `dynamodbav:"BodyTemperature,omitempty"`
	DeviceID             *string  `dynamodbav:"DeviceID,omitempty"`
	DeviceType           string   `dynamodbav:"DeviceType"`
}

func toHealthItem(m *entities.HealthMetric) healthItem {
	ts := formatTime(m.Timestamp)
	return healthItem{
		PK:                   userPK(m.UserID),
		SK:                   healthPrefix + ts + "#" + m.ID,
		EntityType:           "HEALTH_METRIC",
		MetricID:             m.ID,
		UserID:               m.UserID,
		Timestamp:            ts,
		HeartRate:            m.HeartRate,
		Steps:                m.Steps,
		SleepHours:           m.SleepHours,
		HeartRateVariability: m.HeartRateVariability,
		BodyTemperature:      m.BodyTemperature,
		DeviceID:             m.DeviceID,
		DeviceType:           m.DeviceType,
	}
}

func (it healthItem) toEntity() (*entities.HealthMetric, error) {
	ts, err := parseTime(it.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("health metric %s timestamp: %w", it.MetricID, err)
	}
	return &entities.HealthMetric{
		ID:                   it.MetricID,
		UserID:               it.UserID,
		Timestamp:            ts,
		HeartRate:            it.HeartRate,
		Steps:                it.Steps,
		SleepHours:           it.SleepHours,
		HeartRateVariability: it.HeartRateVariability,
		BodyTemperature:      it.BodyTemperature,
		DeviceID:             it.DeviceID,
		DeviceType:           it.DeviceType,
	}, nil
}

// healthRange returns inclusive sort key bounds for an optional time window.
// '$' sorts right after '#' and '~' after every id character.
func healthRange(from, to *time.Time) (string, string) {
	lower, upper := healthPrefix, "HEALTH$"
	if from != nil {
		lower = healthPrefix + formatTime(*from)
	}
	if to != nil {
		upper = healthPrefix + formatTime(*to) + "#~"
	}
	return lower, upper
}

type healthRepository struct {
	*Store
}

var _ ports.HealthMetricRepository = (*healthRepository)(nil)

func (r *healthRepository) Save(ctx context.Context, m *entities.HealthMetric) error {
	av, err := attributevalue.MarshalMap(toHealthItem(m))
	if err != nil {
		return fmt.Errorf("failed to marshal health metric: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save health metric", err)
	}
	return nil
}

func (r *healthRepository) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]*entities.HealthMetric, error) {
	return r.query(ctx, userID, from, to, 0)
}

func (r *healthRepository) LatestByUser(ctx context.Context, userID string) (*entities.HealthMetric, error) {
	list, err := r.query(ctx, userID, nil, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, pkgerrors.ErrHealthMetricNotFound
	}
	return list[0], nil
}

func (r *healthRepository) query(ctx context.Context, userID string, from, to *time.Time, limit int32) ([]*entities.HealthMetric, error) {
	lower, upper := healthRange(from, to)
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").Between(expression.Value(lower), expression.Value(upper)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	var out []*entities.HealthMetric
	for {
		page, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query health metrics", err)
		}
		for _, item := range page.Items {
			var it healthItem
			if err := attributevalue.UnmarshalMap(item, &it); err != nil {
				r.logger.Warn("Failed to parse health item", zap.Error(err))
				continue
			}
			m, err := it.toEntity()
			if err != nil {
				r.logger.Warn("Failed to parse health item", zap.Error(err))
				continue
			}
			out = append(out, m)
		}
		if limit > 0 || len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}
	if out == nil {
		out = []*entities.HealthMetric{}
	}
	return out, nil
}
