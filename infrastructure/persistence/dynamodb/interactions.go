package dynamodb

import (
	"context"
	"fmt"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	pkgerrors "techknowledgepills/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const donePrefix = "DONE#"

type interactionItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	EntityType    string `dynamodbav:"EntityType"`
	InteractionID string `dynamodbav:"InteractionID"`
	UserID        string `dynamodbav:"UserID"`
	ContentID     string `dynamodbav:"ContentID"`
	Rating        *int   `dynamodbav:"Rating,omitempty"`
	CompletedAt   string `dynamodbav:"CompletedAt"`
}

// The sort key is the content id, so completing twice overwrites
func toInteractionItem(i *entities.Interaction) interactionItem {
	return interactionItem{
		PK:            userPK(i.UserID),
		SK:            donePrefix + i.ContentID,
		EntityType:    "INTERACTION",
		InteractionID: i.ID,
		UserID:        i.UserID,
		ContentID:     i.ContentID,
		Rating:        i.Rating,
		CompletedAt:   formatTime(i.CompletedAt),
	}
}

type interactionRepository struct {
	*Store
}

var _ ports.InteractionRepository = (*interactionRepository)(nil)

func (r *interactionRepository) Save(ctx context.Context, i *entities.Interaction) error {
	av, err := attributevalue.MarshalMap(toInteractionItem(i))
	if err != nil {
		return fmt.Errorf("failed to marshal interaction: %w", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save interaction", err)
	}
	return nil
}

func (r *interactionRepository) CompletedContentIDs(ctx context.Context, userID string) (map[string]bool, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(donePrefix))
	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithProjection(expression.NamesList(expression.Name("ContentID"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	items, err := r.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query interactions", err)
	}

	done := make(map[string]bool, len(items))
	for _, item := range items {
		var it interactionItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interaction: %w", err)
		}
		done[it.ContentID] = true
	}
	return done, nil
}
