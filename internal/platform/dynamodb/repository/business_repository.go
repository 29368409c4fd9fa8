package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/accountech/financeos/backend/internal/domain/business"
	commonErrors "github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/platform/dynamodb/client"
)

// DynamoDBBusinessRepository implements the business.Repository interface
type DynamoDBBusinessRepository struct {
	client client.Client
	table  string
}

// NewDynamoDBBusinessRepository creates a new DynamoDBBusinessRepository
func NewDynamoDBBusinessRepository(client client.Client, table string) *DynamoDBBusinessRepository {
	return &DynamoDBBusinessRepository{
		client: client,
		table:  table,
	}
}

type businessRecord struct {
	PK               string    `dynamodbav:"PK"`
	SK               string    `dynamodbav:"SK"`
	Type             string    `dynamodbav:"Type"`
	BusinessID       string    `dynamodbav:"BusinessID"`
	Name             string    `dynamodbav:"Name"`
	Tier             string    `dynamodbav:"Tier"`
	Currency         string    `dynamodbav:"Currency"`
	TransactionCount int64     `dynamodbav:"TransactionCount"`
	CreatedAt        time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt        time.Time `dynamodbav:"UpdatedAt"`
}

func (rec *businessRecord) toDomain() *business.Business {
	return &business.Business{
		BusinessID:       rec.BusinessID,
		Name:             rec.Name,
		Tier:             business.Tier(rec.Tier),
		Currency:         rec.Currency,
		TransactionCount: rec.TransactionCount,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

// CreateBusiness stores a new business together with its entry-number counter
func (r *DynamoDBBusinessRepository) CreateBusiness(ctx context.Context, biz *business.Business) (*business.Business, error) {
	rec := businessRecord{
		PK:               businessPK(biz.BusinessID),
		SK:               metaSK,
		Type:             itemTypeBusiness,
		BusinessID:       biz.BusinessID,
		Name:             biz.Name,
		Tier:             string(biz.Tier),
		Currency:         biz.Currency,
		TransactionCount: biz.TransactionCount,
		CreatedAt:        biz.CreatedAt,
		UpdatedAt:        biz.UpdatedAt,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal business", err)
	}

	counterItem := map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: rec.PK},
		"SK":           &types.AttributeValueMemberS{Value: entryCounterSK},
		"EntryCounter": &types.AttributeValueMemberN{Value: "0"},
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.table),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			{Put: &types.Put{
				TableName: aws.String(r.table),
				Item:      counterItem,
			}},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return nil, commonErrors.NewConflictError("business already exists")
		}
		return nil, commonErrors.NewInternalError("failed to create business", err)
	}

	return biz, nil
}

// GetBusiness retrieves a business by ID
func (r *DynamoDBBusinessRepository) GetBusiness(ctx context.Context, businessID string) (*business.Business, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: metaSK},
		},
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to get business", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("business not found")
	}

	var rec businessRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal business", err)
	}
	return rec.toDomain(), nil
}

// UpdateTier changes the subscription tier
func (r *DynamoDBBusinessRepository) UpdateTier(ctx context.Context, businessID string, tier business.Tier) error {
	update := expression.Set(expression.Name("Tier"), expression.Value(string(tier))).
		Set(expression.Name("UpdatedAt"), expression.Value(time.Now().UTC().Format(time.RFC3339Nano)))
	cond := expression.AttributeExists(expression.Name("PK"))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return commonErrors.NewInternalError("failed to build expression", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: metaSK},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("business not found")
		}
		return commonErrors.NewInternalError("failed to update tier", err)
	}
	return nil
}
