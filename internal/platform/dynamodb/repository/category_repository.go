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

	"github.com/accountech/financeos/backend/internal/domain/category"
	commonErrors "github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/platform/dynamodb/client"
)

// DynamoDBCategoryRepository implements the category.Repository interface
type DynamoDBCategoryRepository struct {
	client client.Client
	table  string
}

// NewDynamoDBCategoryRepository creates a new DynamoDBCategoryRepository
func NewDynamoDBCategoryRepository(client client.Client, table string) *DynamoDBCategoryRepository {
	return &DynamoDBCategoryRepository{
		client: client,
		table:  table,
	}
}

type categoryRecord struct {
	PK               string    `dynamodbav:"PK"`
	SK               string    `dynamodbav:"SK"`
	Type             string    `dynamodbav:"Type"`
	BusinessID       string    `dynamodbav:"BusinessID"`
	CategoryID       string    `dynamodbav:"CategoryID"`
	Name             string    `dynamodbav:"Name"`
	CategoryType     string    `dynamodbav:"CategoryType"`
	ParentID         string    `dynamodbav:"ParentID,omitempty"`
	Active           bool      `dynamodbav:"Active"`
	TransactionCount int64     `dynamodbav:"TransactionCount"`
	CreatedAt        time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt        time.Time `dynamodbav:"UpdatedAt"`
}

func (rec *categoryRecord) toDomain() *category.Category {
	return &category.Category{
		BusinessID:       rec.BusinessID,
		CategoryID:       rec.CategoryID,
		Name:             rec.Name,
		Type:             category.CategoryType(rec.CategoryType),
		ParentID:         rec.ParentID,
		Active:           rec.Active,
		TransactionCount: rec.TransactionCount,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

// CreateCategory stores a new category
func (r *DynamoDBCategoryRepository) CreateCategory(ctx context.Context, cat *category.Category) (*category.Category, error) {
	rec := categoryRecord{
		PK:               businessPK(cat.BusinessID),
		SK:               categorySK(cat.CategoryID),
		Type:             itemTypeCategory,
		BusinessID:       cat.BusinessID,
		CategoryID:       cat.CategoryID,
		Name:             cat.Name,
		CategoryType:     string(cat.Type),
		ParentID:         cat.ParentID,
		Active:           cat.Active,
		TransactionCount: cat.TransactionCount,
		CreatedAt:        cat.CreatedAt,
		UpdatedAt:        cat.UpdatedAt,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal category", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return nil, commonErrors.NewConflictError("category already exists")
		}
		return nil, commonErrors.NewInternalError("failed to create category", err)
	}

	return cat, nil
}

// GetCategory retrieves a category by ID
func (r *DynamoDBCategoryRepository) GetCategory(ctx context.Context, businessID string, categoryID string) (*category.Category, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: categorySK(categoryID)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to get category", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("category not found")
	}

	var rec categoryRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal category", err)
	}
	return rec.toDomain(), nil
}

// GetCategories retrieves all categories for a business
func (r *DynamoDBCategoryRepository) GetCategories(ctx context.Context, businessID string) ([]*category.Category, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(businessPK(businessID))).
		And(expression.Key("SK").BeginsWith("CATEGORY#"))
	filterExpr := expression.Name("Type").Equal(expression.Value(itemTypeCategory))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).WithFilter(filterExpr).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	var categories []*category.Category
	var lastEvaluatedKey map[string]types.AttributeValue
	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(r.table),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Limit:                     aws.Int32(100),
		}
		if lastEvaluatedKey != nil {
			input.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, commonErrors.NewInternalError("failed to query categories", err)
		}

		var page []categoryRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, commonErrors.NewInternalError("failed to unmarshal categories", err)
		}
		for i := range page {
			categories = append(categories, page[i].toDomain())
		}

		lastEvaluatedKey = result.LastEvaluatedKey
		if len(lastEvaluatedKey) == 0 {
			break
		}
	}

	return categories, nil
}

// DeactivateCategory soft-deletes a category, keeping it for historical
// transactions
func (r *DynamoDBCategoryRepository) DeactivateCategory(ctx context.Context, businessID string, categoryID string) error {
	update := expression.Set(expression.Name("Active"), expression.Value(false)).
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
			"SK": &types.AttributeValueMemberS{Value: categorySK(categoryID)},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("category not found")
		}
		return commonErrors.NewInternalError("failed to deactivate category", err)
	}
	return nil
}

// DeleteCategory removes a category permanently. The service layer guards
// against deleting referenced categories; the condition here only prevents
// deleting a row that never existed.
func (r *DynamoDBCategoryRepository) DeleteCategory(ctx context.Context, businessID string, categoryID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: categorySK(categoryID)},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("category not found")
		}
		return commonErrors.NewInternalError("failed to delete category", err)
	}
	return nil
}

// HasChildren reports whether any category names this one as its parent
func (r *DynamoDBCategoryRepository) HasChildren(ctx context.Context, businessID string, categoryID string) (bool, error) {
	categories, err := r.GetCategories(ctx, businessID)
	if err != nil {
		return false, err
	}
	for _, cat := range categories {
		if cat.ParentID == categoryID {
			return true, nil
		}
	}
	return false, nil
}
