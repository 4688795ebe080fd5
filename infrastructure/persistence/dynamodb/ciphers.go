package dynamodb

import (
	"context"
	"fmt"
	"sort"

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

const (
	cipherPrefix    = "CIPHER#"
	cipherKeyPrefix = "CIPHERKEY#"
)

type cipherItem struct {
	PK            string  `dynamodbav:"PK"`
	SK            string  `dynamodbav:"SK"`
	EntityType    string  `dynamodbav:"EntityType"`
	CipherID      string  `dynamodbav:"CipherID"`
	UserID        string  `dynamodbav:"UserID"`
	KeyName       string  `dynamodbav:"KeyName"`
	EncryptedData string  `dynamodbav:"EncryptedData"`
	Description   *string `dynamodbav:"Description,omitempty"`
	Algorithm     string  `dynamodbav:"Algorithm"`
	IsActive      bool    `dynamodbav:"IsActive"`
	CreatedAt     string  `dynamodbav:"CreatedAt"`
	UpdatedAt     string  `dynamodbav:"UpdatedAt,omitempty"`
}

// cipherKeyItem guards key name uniqueness within a user partition
type cipherKeyItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	CipherID   string `dynamodbav:"CipherID"`
}

func toCipherItem(c *entities.Cipher) cipherItem {
	return cipherItem{
		PK:            userPK(c.UserID),
		SK:            cipherPrefix + c.ID,
		EntityType:    "CIPHER",
		CipherID:      c.ID,
		UserID:        c.UserID,
		KeyName:       c.KeyName,
		EncryptedData: c.EncryptedData,
		Description:   c.Description,
		Algorithm:     c.Algorithm,
		IsActive:      c.IsActive,
		CreatedAt:     formatTime(c.CreatedAt),
		UpdatedAt:     formatOptionalTime(c.UpdatedAt),
	}
}

func (it cipherItem) toEntity() (*entities.Cipher, error) {
	createdAt, err := parseTime(it.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("cipher %s created at: %w", it.CipherID, err)
	}
	updatedAt, err := parseOptionalTime(it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("cipher %s updated at: %w", it.CipherID, err)
	}
	return &entities.Cipher{
		ID:            it.CipherID,
		UserID:        it.UserID,
		KeyName:       it.KeyName,
		EncryptedData: it.EncryptedData,
		Description:   it.Description,
		Algorithm:     it.Algorithm,
		IsActive:      it.IsActive,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

type cipherRepository struct {
	*Store
}

var _ ports.CipherRepository = (*cipherRepository)(nil)

// Save writes the cipher and keeps its key guard in step. A rename moves the
// guard inside the same transaction.
func (r *cipherRepository) Save(ctx context.Context, c *entities.Cipher) error {
	existing, err := r.GetByID(ctx, c.UserID, c.ID)
	if err != nil && !pkgerrors.IsNotFound(err) {
		return err
	}

	av, err := attributevalue.MarshalMap(toCipherItem(c))
	if err != nil {
		return fmt.Errorf("failed to marshal cipher: %w", err)
	}
	writes := []types.TransactWriteItem{{Put: &types.Put{
		TableName: aws.String(r.tableName),
		Item:      av,
	}}}

	if existing == nil || existing.KeyName != c.KeyName {
		guard, err := r.guardPut(c)
		if err != nil {
			return err
		}
		writes = append(writes, guard)
	}
	if existing != nil && existing.KeyName != c.KeyName {
		writes = append(writes, types.TransactWriteItem{Delete: &types.Delete{
			TableName: aws.String(r.tableName),
			Key:       stringKey(userPK(c.UserID), cipherKeyPrefix+existing.KeyName),
		}})
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
	if isTransactionCanceled(err) {
		return pkgerrors.ErrDuplicateCipher
	}
	if err != nil {
		r.logger.Error("Failed to save cipher", zap.Error(err), zap.String("cipherID", c.ID))
		return pkgerrors.NewDatabaseError("save cipher", err)
	}
	return nil
}

func (r *cipherRepository) guardPut(c *entities.Cipher) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(cipherKeyItem{
		PK:         userPK(c.UserID),
		SK:         cipherKeyPrefix + c.KeyName,
		EntityType: "CIPHER_KEY",
		CipherID:   c.ID,
	})
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal cipher key: %w", err)
	}
	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeNotExists()).
		Build()
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to build expression: %w", err)
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:                 aws.String(r.tableName),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}}, nil
}

func (r *cipherRepository) GetByID(ctx context.Context, userID, id string) (*entities.Cipher, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey(userPK(userID), cipherPrefix+id),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get cipher", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.ErrCipherNotFound
	}

	var it cipherItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cipher: %w", err)
	}
	return it.toEntity()
}

func (r *cipherRepository) GetByKeyName(ctx context.Context, userID, keyName string) (*entities.Cipher, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       stringKey(userPK(userID), cipherKeyPrefix+keyName),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get cipher key", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.ErrCipherNotFound
	}

	var guard cipherKeyItem
	if err := attributevalue.UnmarshalMap(out.Item, &guard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cipher key: %w", err)
	}
	return r.GetByID(ctx, userID, guard.CipherID)
}

func (r *cipherRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Cipher, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userPK(userID))).
		And(expression.Key("SK").BeginsWith(cipherPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	items, err := r.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query ciphers", err)
	}

	out := make([]*entities.Cipher, 0, len(items))
	for _, item := range items {
		var it cipherItem
		if err := attributevalue.UnmarshalMap(item, &it); err != nil {
			r.logger.Warn("Failed to parse cipher item", zap.Error(err))
			continue
		}
		c, err := it.toEntity()
		if err != nil {
			r.logger.Warn("Failed to parse cipher item", zap.Error(err))
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *cipherRepository) Delete(ctx context.Context, userID, id string) error {
	existing, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       stringKey(userPK(userID), cipherPrefix+id),
			}},
			{Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       stringKey(userPK(userID), cipherKeyPrefix+existing.KeyName),
			}},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("delete cipher", err)
	}
	return nil
}
