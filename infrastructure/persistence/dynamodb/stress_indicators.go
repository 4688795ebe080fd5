package dynamodb

import (
	"context"
	"fmt"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
	pkgerrors "techknowledgepills/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const stressPrefix = "STRESS#"

type stressItem struct {
	PK          string  `dynamodbav:"PK"`
	SK          string  `dynamodbav:"SK"`
	EntityType  string  `dynamodbav:"EntityType"`
	IndicatorID string  `dynamodbav:"IndicatorID"`
	UserID      string  `dynamodbav:"UserID"`
	Level       int     `dynamodbav:"Level"`
	Timestamp   string  `dynamodbav:"Timestamp"`
	Notes       *string `dynamodbav:"Notes,omitempty"`
	Source      string  `dynamodbav:"Source"`
}

func toStressItem(s *entities.StressIndicator) stressItem {
	ts := formatTime(s.Timestamp)
	return stressItem{
		PK:          userPK(s.UserID),
		SK:          stressPrefix + ts + "#" + s.ID,
		EntityType:  "STRESS_INDICATOR",
		IndicatorID: s.ID,
		UserID:      s.UserID,
		Level:       int(s.Level),
		Timestamp:   ts,
		Notes:       s.Notes,
		Source:      string(s.Source),
	}
}

func (it stressItem) toEntity() (*entities.StressIndicator, error) {
	ts, err := parseTime(it.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("stress indicator %s timestamp: %w", it.IndicatorID, err)
	}
	return &entities.StressIndicator{
		ID:        it.IndicatorID,
		UserID:    it.UserID,
		Level:     valueobjects.StressLevel(it.Level),
		Timestamp: ts,
		Notes:     it.Notes,
		Source:    entities.StressSource(it.Source),
	}, nil
}

type stressRepository struct {
	*Store
}

var _ ports.StressIndicatorRepository = (*stressRepository)(nil)

func (r *stressRepository) Save(ctx context.Context, s *entities.StressIndicator) error {
	av, err := attributevalue.MarshalMap(toStressItem(s))
	if err != nil {
		return fmt.Errorf("failed to marshal stress indicator: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save stress indicator", err)
	}
	return nil
}

func (r *stressRepository) SaveBatch(ctx context.Context, indicators []*entities.StressIndicator) error {
	items := make([]map[string]types.AttributeValue, 0, len(indicators))
	for _, s := range indicators {
		av, err := attributevalue.MarshalMap(toStressItem(s))
		if err != nil {
			return fmt.Errorf("failed to marshal stress indicator: %w", err)
		}
		items = append(items, av)
	}
	if err := r.batchPut(ctx, items); err != nil {
		return pkgerrors.NewDatabaseError("save stress indicators", err)
	}
	return nil
}

func (r *stressRepository) ListByUser(ctx context.Context, userID string) ([]*entities.StressIndicator, error) {
	return r.query(ctx, userID, 0)
}

func (r *stressRepository) LatestByUser(ctx context.Context, userID string) (*entities.StressIndicator, error) {
	list, err := r.query(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, pkgerrors.ErrStressIndicatorNotFound
	}
	return list[0], nil
}

// query returns readings newest first; limit 0 means all
func (r *stressRepository) query(ctx context.Context, userID string, limit int32) ([]*entities.StressIndicator, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(stressPrefix))
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

	var items []map[string]types.AttributeValue
	if limit > 0 {
		input.Limit = aws.Int32(limit)
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query stress indicators", err)
		}
		items = out.Items
	} else if items, err = r.queryAll(ctx, input); err != nil {
		return nil, pkgerrors.NewDatabaseError("query stress indicators", err)
	}

	out := make([]*entities.StressIndicator, 0, len(items))
	for _, item := range items {
		var it stressItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			r.logger.Warn("Failed to parse stress item", zap.Error(err))
			continue
		}
		s, err := it.toEntity()
		if err != nil {
			r.logger.Warn("Failed to parse stress item", zap.Error(err))
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
