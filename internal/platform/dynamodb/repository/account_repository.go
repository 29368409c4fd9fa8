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

	"github.com/accountech/financeos/backend/internal/domain/account"
	commonErrors "github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/domain/money"
	"github.com/accountech/financeos/backend/internal/platform/dynamodb/client"
)

// DynamoDBAccountRepository implements the account.Repository interface
type DynamoDBAccountRepository struct {
	client client.Client
	table  string
}

// NewDynamoDBAccountRepository creates a new DynamoDBAccountRepository
func NewDynamoDBAccountRepository(client client.Client, table string) *DynamoDBAccountRepository {
	return &DynamoDBAccountRepository{
		client: client,
		table:  table,
	}
}

// accountRecord stores the balance in minor units so posting can adjust it
// with an atomic ADD instead of read-modify-write.
type accountRecord struct {
	PK            string    `dynamodbav:"PK"`
	SK            string    `dynamodbav:"SK"`
	Type          string    `dynamodbav:"Type"`
	BusinessID    string    `dynamodbav:"BusinessID"`
	AccountID     string    `dynamodbav:"AccountID"`
	Code          string    `dynamodbav:"Code"`
	Name          string    `dynamodbav:"Name"`
	AccountType   string    `dynamodbav:"AccountType"`
	NormalBalance string    `dynamodbav:"NormalBalance"`
	BalanceMinor  int64     `dynamodbav:"BalanceMinor"`
	Active        bool      `dynamodbav:"Active"`
	ParentCode    string    `dynamodbav:"ParentCode,omitempty"`
	CreatedAt     time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt     time.Time `dynamodbav:"UpdatedAt"`
}

func (rec *accountRecord) toDomain() *account.LedgerAccount {
	return &account.LedgerAccount{
		BusinessID:    rec.BusinessID,
		AccountID:     rec.AccountID,
		Code:          rec.Code,
		Name:          rec.Name,
		AccountType:   account.AccountType(rec.AccountType),
		NormalBalance: account.BalanceSide(rec.NormalBalance),
		Balance:       money.FromMinorUnits(rec.BalanceMinor),
		Active:        rec.Active,
		ParentCode:    rec.ParentCode,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

// CreateAccount stores a new account together with a code marker item. Both
// puts are conditional in one transact write, so a duplicate code fails the
// whole creation.
func (r *DynamoDBAccountRepository) CreateAccount(ctx context.Context, acc *account.LedgerAccount) (*account.LedgerAccount, error) {
	rec := accountRecord{
		PK:            businessPK(acc.BusinessID),
		SK:            accountSK(acc.AccountID),
		Type:          itemTypeAccount,
		BusinessID:    acc.BusinessID,
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   string(acc.AccountType),
		NormalBalance: string(acc.NormalBalance),
		BalanceMinor:  money.ToMinorUnits(acc.Balance),
		Active:        acc.Active,
		ParentCode:    acc.ParentCode,
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal account", err)
	}

	codeItem := map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: rec.PK},
		"SK":        &types.AttributeValueMemberS{Value: accountCodeSK(acc.Code)},
		"Type":      &types.AttributeValueMemberS{Value: itemTypeAccountCode},
		"AccountID": &types.AttributeValueMemberS{Value: acc.AccountID},
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.table),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.table),
				Item:                codeItem,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return nil, commonErrors.NewConflictError("account code already in use")
		}
		return nil, commonErrors.NewInternalError("failed to create account", err)
	}

	return acc, nil
}

// GetAccount retrieves an account by ID
func (r *DynamoDBAccountRepository) GetAccount(ctx context.Context, businessID string, accountID string) (*account.LedgerAccount, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: accountSK(accountID)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to get account", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("account not found")
	}

	var rec accountRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal account", err)
	}
	return rec.toDomain(), nil
}

// GetAccountByCode resolves the code marker item, then loads the account
func (r *DynamoDBAccountRepository) GetAccountByCode(ctx context.Context, businessID string, code string) (*account.LedgerAccount, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: accountCodeSK(code)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to get account code", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("account not found")
	}

	var marker struct {
		AccountID string `dynamodbav:"AccountID"`
	}
	if err := attributevalue.UnmarshalMap(result.Item, &marker); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal account code", err)
	}
	return r.GetAccount(ctx, businessID, marker.AccountID)
}

// GetAccounts retrieves accounts based on filter criteria, paginating through
// the whole partition
func (r *DynamoDBAccountRepository) GetAccounts(ctx context.Context, businessID string, filter *account.GetAccountsRequest) ([]*account.LedgerAccount, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(businessPK(businessID))).
		And(expression.Key("SK").BeginsWith("ACCOUNT#"))

	filterExpr := expression.Name("Type").Equal(expression.Value(itemTypeAccount))
	if filter != nil {
		if filter.AccountType != "" {
			filterExpr = filterExpr.And(expression.Name("AccountType").Equal(expression.Value(string(filter.AccountType))))
		}
		if !filter.IncludeClosed {
			filterExpr = filterExpr.And(expression.Name("Active").Equal(expression.Value(true)))
		}
	} else {
		filterExpr = filterExpr.And(expression.Name("Active").Equal(expression.Value(true)))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).WithFilter(filterExpr).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	var accounts []*account.LedgerAccount
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
			return nil, commonErrors.NewInternalError("failed to query accounts", err)
		}

		var page []accountRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, commonErrors.NewInternalError("failed to unmarshal accounts", err)
		}
		for i := range page {
			accounts = append(accounts, page[i].toDomain())
		}

		lastEvaluatedKey = result.LastEvaluatedKey
		if len(lastEvaluatedKey) == 0 {
			break
		}
	}

	return accounts, nil
}

// DeactivateAccount soft-deletes an account; the row and its history remain
func (r *DynamoDBAccountRepository) DeactivateAccount(ctx context.Context, businessID string, accountID string) error {
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
			"SK": &types.AttributeValueMemberS{Value: accountSK(accountID)},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("account not found")
		}
		return commonErrors.NewInternalError("failed to deactivate account", err)
	}
	return nil
}

// HasEntries reports whether any journal entries reference the account
func (r *DynamoDBAccountRepository) HasEntries(ctx context.Context, businessID string, accountID string) (bool, error) {
	keyCondition := expression.Key("GSI1PK").Equal(expression.Value(accountEntriesGSI1PK(businessID, accountID)))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return false, commonErrors.NewInternalError("failed to build expression", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String("GSI1"),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return false, commonErrors.NewInternalError("failed to query entries", err)
	}
	return len(result.Items) > 0, nil
}
