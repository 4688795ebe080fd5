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

const contentIndexPK = "CONTENT"

type contentItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	GSI1PK     string   `dynamodbav:"GSI1PK"`
	GSI1SK     string   `dynamodbav:"GSI1SK"`
	EntityType string   `dynamodbav:"EntityType"`
	ContentID  string   `dynamodbav:"ContentID"`
	Title      string   `dynamodbav:"Title"`
	Type       int      `dynamodbav:"Type"`
	Body       string   `dynamodbav:"Body,omitempty"`
	VideoURL   string   `dynamodbav:"VideoURL,omitempty"`
	QuizData   string   `dynamodbav:"QuizData,omitempty"`
	Tags       []string `dynamodbav:"Tags,omitempty"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
	UpdatedAt  string   `dynamodbav:"UpdatedAt"`
}

func contentPK(id string) string { return "CONTENT#" + id }

func toContentItem(c *entities.Content) contentItem {
	createdAt := formatTime(c.CreatedAt)
	return contentItem{
		PK:         contentPK(c.ID),
		SK:         "METADATA",
		GSI1PK:     contentIndexPK,
		GSI1SK:     createdAt + "#" + c.ID,
		EntityType: "CONTENT",
		ContentID:  c.ID,
		Title:      c.Title,
		Type:       int(c.Type),
		Body:       c.Body,
		VideoURL:   c.VideoURL,
		QuizData:   c.QuizData,
		Tags:       c.Tags,
		CreatedAt:  createdAt,
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

func (it contentItem) toEntity() (*entities.Content, error) {
	createdAt, err := parseTime(it.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("content %s created at: %w", it.ContentID, err)
	}
	updatedAt, err := parseTime(it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("content %s updated at: %w", it.ContentID, err)
	}
	return &entities.Content{
		ID:        it.ContentID,
		Title:     it.Title,
		Type:      valueobjects.ContentType(it.Type),
		Body:      it.Body,
		VideoURL:  it.VideoURL,
		QuizData:  it.QuizData,
		Tags:      it.Tags,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

type contentRepository struct {
	*Store
}

var _ ports.ContentRepository = (*contentRepository)(nil)

func (r *contentRepository) Save(ctx context.Context, c *entities.Content) error {
	av, err := attributevalue.MarshalMap(toContentItem(c))
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("Failed to save content", zap.Error(err), zap.String("contentID", c.ID))
		return pkgerrors.NewDatabaseError("save content", err)
	}
	return nil
}

func (r *contentRepository) SaveBatch(ctx context.Context, contents []*entities.Content) error {
	items := make([]map[string]types.AttributeValue, 0, len(contents))
	for _, c := range contents {
		av, err := attributevalue.MarshalMap(toContentItem(c))
		if err != nil {
			return fmt.Errorf("failed to marshal content: %w", err)
		}
		items = append(items, av)
	}
	if err := r.batchPut(ctx, items); err != nil {
		return pkgerrors.NewDatabaseError("save content batch", err)
	}
	return nil
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*entities.Content, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey(contentPK(id), "METADATA"),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get content", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.ErrContentNotFound
	}

	var it contentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content: %w", err)
	}
	return it.toEntity()
}

func (r *contentRepository) List(ctx context.Context) ([]*entities.Content, error) {
	return r.list(ctx, nil)
}

func (r *contentRepository) ListByType(ctx context.Context, t valueobjects.ContentType) ([]*entities.Content, error) {
	filter := expression.Name("Type").Equal(expression.Value(int(t)))
	return r.list(ctx, &filter)
}

func (r *contentRepository) list(ctx context.Context, filter *expression.ConditionBuilder) ([]*entities.Content, error) {
	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI1PK").Equal(expression.Value(contentIndexPK)))
	if filter != nil {
		builder = builder.WithFilter(*filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	items, err := r.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(gsi1Name),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query content", err)
	}

	out := make([]*entities.Content, 0, len(items))
	for _, item := range items {
		var it contentItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			r.logger.Warn("Failed to parse content item", zap.Error(err))
			continue
		}
		c, err := it.toEntity()
		if err != nil {
			r.logger.Warn("Failed to parse content item", zap.Error(err))
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *contentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey(contentPK(id), "METADATA"),
	}); err != nil {
		return pkgerrors.NewDatabaseError("delete content", err)
	}
	return nil
}

func (r *contentRepository) Count(ctx context.Context) (int, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI1PK").Equal(expression.Value(contentIndexPK))).
		Build()
	if err != nil {
		return 0, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(gsi1Name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Select:                    types.SelectCount,
	}
	total := 0
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return 0, pkgerrors.NewDatabaseError("count content", err)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}
