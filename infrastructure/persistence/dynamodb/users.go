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
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

type userItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	UserID       string `dynamodbav:"UserID"`
	Email        string `dynamodbav:"Email"`
	PasswordHash string `dynamodbav:"PasswordHash"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
	LastLogin    string `dynamodbav:"LastLogin,omitempty"`
}

type emailItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	UserID     string `dynamodbav:"UserID"`
}

func toUserItem(u *entities.User) userItem {
	return userItem{
		PK:           userPK(u.ID),
		SK:           "PROFILE",
		EntityType:   "USER",
		UserID:       u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    formatTime(u.CreatedAt),
		LastLogin:    formatOptionalTime(u.LastLogin),
	}
}

func (it userItem) toEntity() (*entities.User, error) {
	createdAt, err := parseTime(it.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("user %s created at: %w", it.UserID, err)
	}
	lastLogin, err := parseOptionalTime(it.LastLogin)
	if err != nil {
		return nil, fmt.Errorf("user %s last login: %w", it.UserID, err)
	}
	return &entities.User{
		ID:           it.UserID,
		Email:        it.Email,
		PasswordHash: it.PasswordHash,
		CreatedAt:    createdAt,
		LastLogin:    lastLogin,
	}, nil
}

func emailPK(email string) string { return "EMAIL#" + entities.NormalizeEmail(email) }

type userRepository struct {
	*Store
}

var _ ports.UserRepository = (*userRepository)(nil)

// Create writes the profile and the email guard in one transaction
func (r *userRepository) Create(ctx context.Context, u *entities.User) error {
	profile, err := attributevalue.MarshalMap(toUserItem(u))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	guard, err := attributevalue.MarshalMap(emailItem{
		PK:         emailPK(u.Email),
		SK:         "EMAIL",
		EntityType: "EMAIL",
		UserID:     u.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email guard: %w", err)
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeNotExists()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	put := func(item map[string]types.AttributeValue) types.TransactWriteItem {
		return types.TransactWriteItem{Put: &types.Put{
			TableName:                 aws.String(r.tableName),
			Item:                      item,
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		}}
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{put(guard), put(profile)},
	})
	if isTransactionCanceled(err) {
		return pkgerrors.ErrEmailTaken
	}
	if err != nil {
		return pkgerrors.NewDatabaseError("create user", err)
	}

	r.logger.Debug("User created", zap.String("userID", u.ID))
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey(userPK(id), "PROFILE"),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.ErrUserNotFound
	}

	var it userItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return it.toEntity()
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey(emailPK(email), "EMAIL"),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get user by email", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.ErrUserNotFound
	}

	var guard emailItem
	if err := attributevalue.UnmarshalMap(out.Item, &guard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal email guard: %w", err)
	}
	return r.GetByID(ctx, guard.UserID)
}

func (r *userRepository) Update(ctx context.Context, u *entities.User) error {
	update := expression.Set(expression.Name("PasswordHash"), expression.Value(u.PasswordHash))
	if u.LastLogin != nil {
		update = update.Set(expression.Name("LastLogin"), expression.Value(formatTime(*u.LastLogin)))
	}
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.Name("PK").AttributeExists()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       stringKey(userPK(u.ID), "PROFILE"),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if isConditionFailed(err) {
		return pkgerrors.ErrUserNotFound
	}
	if err != nil {
		return pkgerrors.NewDatabaseError("update user", err)
	}
	return nil
}
