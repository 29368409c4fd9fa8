package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	commonErrors "github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/domain/ledger"
	"github.com/accountech/financeos/backend/internal/domain/money"
	"github.com/accountech/financeos/backend/internal/platform/dynamodb/client"
)

// DynamoDBLedgerRepository implements the ledger.Repository interface. All
// mutating operations go through TransactWriteItems so a transaction, its
// entries, the account balances and the counters change as one unit.
type DynamoDBLedgerRepository struct {
	client client.Client
	table  string
}

// NewDynamoDBLedgerRepository creates a new DynamoDBLedgerRepository
func NewDynamoDBLedgerRepository(client client.Client, table string) *DynamoDBLedgerRepository {
	return &DynamoDBLedgerRepository{
		client: client,
		table:  table,
	}
}

type transactionRecord struct {
	PK              string    `dynamodbav:"PK"`
	SK              string    `dynamodbav:"SK"`
	Type            string    `dynamodbav:"Type"`
	GSI1PK          string    `dynamodbav:"GSI1PK"`
	GSI1SK          string    `dynamodbav:"GSI1SK"`
	BusinessID      string    `dynamodbav:"BusinessID"`
	TransactionID   string    `dynamodbav:"TransactionID"`
	Date            string    `dynamodbav:"Date"`
	Description     string    `dynamodbav:"Description"`
	AmountMinor     int64     `dynamodbav:"AmountMinor"`
	TransactionType string    `dynamodbav:"TransactionType"`
	CategoryID      string    `dynamodbav:"CategoryID,omitempty"`
	AccountID       string    `dynamodbav:"AccountID"`
	Reconciled      bool      `dynamodbav:"Reconciled"`
	CreatedAt       time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt       time.Time `dynamodbav:"UpdatedAt"`
}

func newTransactionRecord(tx *ledger.Transaction) transactionRecord {
	return transactionRecord{
		PK:              businessPK(tx.BusinessID),
		SK:              transactionSK(tx.TransactionID),
		Type:            itemTypeTransaction,
		GSI1PK:          transactionsGSI1PK(tx.BusinessID),
		GSI1SK:          transactionGSI1SK(tx.Date, tx.TransactionID),
		BusinessID:      tx.BusinessID,
		TransactionID:   tx.TransactionID,
		Date:            tx.Date,
		Description:     tx.Description,
		AmountMinor:     money.ToMinorUnits(tx.Amount),
		TransactionType: string(tx.Type),
		CategoryID:      tx.CategoryID,
		AccountID:       tx.AccountID,
		Reconciled:      tx.Reconciled,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}

func (rec *transactionRecord) toDomain() *ledger.Transaction {
	return &ledger.Transaction{
		BusinessID:    rec.BusinessID,
		TransactionID: rec.TransactionID,
		Date:          rec.Date,
		Description:   rec.Description,
		Amount:        money.FromMinorUnits(rec.AmountMinor),
		Type:          ledger.TransactionType(rec.TransactionType),
		CategoryID:    rec.CategoryID,
		AccountID:     rec.AccountID,
		Reconciled:    rec.Reconciled,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

type entryRecord struct {
	PK            string    `dynamodbav:"PK"`
	SK            string    `dynamodbav:"SK"`
	Type          string    `dynamodbav:"Type"`
	GSI1PK        string    `dynamodbav:"GSI1PK"`
	GSI1SK        string    `dynamodbav:"GSI1SK"`
	EntryID       string    `dynamodbav:"EntryID"`
	TransactionID string    `dynamodbav:"TransactionID"`
	BusinessID    string    `dynamodbav:"BusinessID"`
	AccountID     string    `dynamodbav:"AccountID"`
	EntryNumber   int64     `dynamodbav:"EntryNumber"`
	Date          string    `dynamodbav:"Date"`
	DebitMinor    int64     `dynamodbav:"DebitMinor"`
	CreditMinor   int64     `dynamodbav:"CreditMinor"`
	CreatedAt     time.Time `dynamodbav:"CreatedAt"`
}

func newEntryRecord(e *ledger.JournalEntry) entryRecord {
	return entryRecord{
		PK:            businessPK(e.BusinessID),
		SK:            entrySK(e.TransactionID, e.EntryID),
		Type:          itemTypeEntry,
		GSI1PK:        accountEntriesGSI1PK(e.BusinessID, e.AccountID),
		GSI1SK:        entryGSI1SK(e.Date, e.EntryNumber),
		EntryID:       e.EntryID,
		TransactionID: e.TransactionID,
		BusinessID:    e.BusinessID,
		AccountID:     e.AccountID,
		EntryNumber:   e.EntryNumber,
		Date:          e.Date,
		DebitMinor:    money.ToMinorUnits(e.Debit),
		CreditMinor:   money.ToMinorUnits(e.Credit),
		CreatedAt:     e.CreatedAt,
	}
}

func (rec *entryRecord) toDomain() ledger.JournalEntry {
	return ledger.JournalEntry{
		EntryID:       rec.EntryID,
		TransactionID: rec.TransactionID,
		BusinessID:    rec.BusinessID,
		AccountID:     rec.AccountID,
		EntryNumber:   rec.EntryNumber,
		Date:          rec.Date,
		Debit:         money.FromMinorUnits(rec.DebitMinor),
		Credit:        money.FromMinorUnits(rec.CreditMinor),
		CreatedAt:     rec.CreatedAt,
	}
}

// NextEntryNumbers reserves a contiguous block of entry numbers with one
// atomic ADD on the business's counter item. Crashed postings leave gaps;
// numbers are never reused or reordered.
func (r *DynamoDBLedgerRepository) NextEntryNumbers(ctx context.Context, businessID string, count int) (int64, error) {
	if count <= 0 {
		return 0, commonErrors.NewInternalError("entry number count must be positive", nil)
	}

	result, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: entryCounterSK},
		},
		UpdateExpression: aws.String("ADD EntryCounter :n"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberN{Value: strconv.Itoa(count)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, commonErrors.NewInternalError("failed to reserve entry numbers", err)
	}

	counterAttr, ok := result.Attributes["EntryCounter"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, commonErrors.NewInternalError("entry counter missing from update result", nil)
	}
	last, err := strconv.ParseInt(counterAttr.Value, 10, 64)
	if err != nil {
		return 0, commonErrors.NewInternalError("failed to parse entry counter", err)
	}
	return last - int64(count) + 1, nil
}

// PostTransaction persists the transaction, its entries, the balance deltas
// and the business/category counters in one transact write. When quotaLimit
// is non-negative the business counter update carries a condition, so a
// concurrent posting that exhausts the quota cancels the whole write.
func (r *DynamoDBLedgerRepository) PostTransaction(ctx context.Context, tx *ledger.Transaction, deltas []ledger.BalanceDelta, quotaLimit int64) error {
	txItem, err := attributevalue.MarshalMap(newTransactionRecord(tx))
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal transaction", err)
	}

	items := []types.TransactWriteItem{{Put: &types.Put{
		TableName:           aws.String(r.table),
		Item:                txItem,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}}}

	for i := range tx.Entries {
		entryItem, err := attributevalue.MarshalMap(newEntryRecord(&tx.Entries[i]))
		if err != nil {
			return commonErrors.NewInternalError("failed to marshal journal entry", err)
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName: aws.String(r.table),
			Item:      entryItem,
		}})
	}

	items = append(items, r.balanceUpdates(tx.BusinessID, deltas)...)
	items = append(items, r.businessCountUpdate(tx.BusinessID, 1, quotaLimit))
	if tx.CategoryID != "" {
		items = append(items, r.categoryCountUpdate(tx.BusinessID, tx.CategoryID, 1))
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			// the business counter is the last-but-one item when no category is
			// involved, last-but-two otherwise
			counterIdx := len(items) - 1
			if tx.CategoryID != "" {
				counterIdx = len(items) - 2
			}
			for i, reason := range canceled.CancellationReasons {
				if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
					continue
				}
				switch i {
				case 0:
					return commonErrors.NewConflictError("transaction already exists")
				case counterIdx:
					if quotaLimit >= 0 {
						return commonErrors.NewLimitExceededError("transaction limit reached for current tier")
					}
				}
			}
			return commonErrors.NewConflictError("transaction could not be posted")
		}
		return commonErrors.NewInternalError("failed to post transaction", err)
	}
	return nil
}

// ReverseTransaction deletes the transaction and its entries while applying
// the inverse balance deltas, all in one transact write
func (r *DynamoDBLedgerRepository) ReverseTransaction(ctx context.Context, tx *ledger.Transaction, deltas []ledger.BalanceDelta) error {
	items := []types.TransactWriteItem{{Delete: &types.Delete{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(tx.BusinessID)},
			"SK": &types.AttributeValueMemberS{Value: transactionSK(tx.TransactionID)},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	}}}

	items = append(items, r.entryDeletes(tx)...)
	items = append(items, r.balanceUpdates(tx.BusinessID, deltas)...)
	items = append(items, r.businessCountUpdate(tx.BusinessID, -1, -1))
	if tx.CategoryID != "" {
		items = append(items, r.categoryCountUpdate(tx.BusinessID, tx.CategoryID, -1))
	}

	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return commonErrors.NewNotFoundError("transaction not found")
		}
		return commonErrors.NewInternalError("failed to reverse transaction", err)
	}
	return nil
}

// ReplaceTransaction swaps a transaction's entries for new ones and applies
// the combined balance deltas of the reversal and the re-posting
func (r *DynamoDBLedgerRepository) ReplaceTransaction(ctx context.Context, oldTx *ledger.Transaction, newTx *ledger.Transaction, deltas []ledger.BalanceDelta) error {
	txItem, err := attributevalue.MarshalMap(newTransactionRecord(newTx))
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal transaction", err)
	}

	items := r.entryDeletes(oldTx)
	items = append(items, types.TransactWriteItem{Put: &types.Put{
		TableName: aws.String(r.table),
		Item:      txItem,
	}})
	for i := range newTx.Entries {
		entryItem, err := attributevalue.MarshalMap(newEntryRecord(&newTx.Entries[i]))
		if err != nil {
			return commonErrors.NewInternalError("failed to marshal journal entry", err)
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{
			TableName: aws.String(r.table),
			Item:      entryItem,
		}})
	}
	items = append(items, r.balanceUpdates(newTx.BusinessID, deltas)...)

	// a category change moves one count from the old label to the new
	if oldTx.CategoryID != newTx.CategoryID {
		if oldTx.CategoryID != "" {
			items = append(items, r.categoryCountUpdate(oldTx.BusinessID, oldTx.CategoryID, -1))
		}
		if newTx.CategoryID != "" {
			items = append(items, r.categoryCountUpdate(newTx.BusinessID, newTx.CategoryID, 1))
		}
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			return commonErrors.NewConflictError("transaction could not be replaced")
		}
		return commonErrors.NewInternalError("failed to replace transaction", err)
	}
	return nil
}

// SetReconciled toggles the reconciliation flag; metadata only
func (r *DynamoDBLedgerRepository) SetReconciled(ctx context.Context, businessID string, transactionID string, reconciled bool) error {
	update := expression.Set(expression.Name("Reconciled"), expression.Value(reconciled)).
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
			"SK": &types.AttributeValueMemberS{Value: transactionSK(transactionID)},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("transaction not found")
		}
		return commonErrors.NewInternalError("failed to update reconciliation", err)
	}
	return nil
}

// GetTransaction retrieves a transaction with its journal entries
func (r *DynamoDBLedgerRepository) GetTransaction(ctx context.Context, businessID string, transactionID string) (*ledger.Transaction, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: transactionSK(transactionID)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to get transaction", err)
	}
	if len(result.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("transaction not found")
	}

	var rec transactionRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal transaction", err)
	}
	tx := rec.toDomain()

	entries, err := r.getEntriesByTransaction(ctx, businessID, transactionID)
	if err != nil {
		return nil, err
	}
	tx.Entries = entries
	return tx, nil
}

// GetTransactions retrieves transactions by criteria, date-ordered via GSI1.
// Journal entries are not attached to list results.
func (r *DynamoDBLedgerRepository) GetTransactions(ctx context.Context, businessID string, filter *ledger.TransactionFilter) ([]*ledger.Transaction, error) {
	if filter == nil {
		filter = &ledger.TransactionFilter{}
	}

	keyCondition := expression.Key("GSI1PK").Equal(expression.Value(transactionsGSI1PK(businessID)))
	switch {
	case filter.StartDate != "" && filter.EndDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI1SK").Between(
			expression.Value(fmt.Sprintf("DATE#%s", filter.StartDate)),
			expression.Value(fmt.Sprintf("DATE#%s\uFFFF", filter.EndDate)),
		))
	case filter.StartDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI1SK").GreaterThanEqual(
			expression.Value(fmt.Sprintf("DATE#%s", filter.StartDate)),
		))
	case filter.EndDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI1SK").LessThanEqual(
			expression.Value(fmt.Sprintf("DATE#%s\uFFFF", filter.EndDate)),
		))
	}

	filterExpr := expression.Name("Type").Equal(expression.Value(itemTypeTransaction))
	if filter.Type != "" {
		filterExpr = filterExpr.And(expression.Name("TransactionType").Equal(expression.Value(string(filter.Type))))
	}
	if filter.CategoryID != "" {
		filterExpr = filterExpr.And(expression.Name("CategoryID").Equal(expression.Value(filter.CategoryID)))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).WithFilter(filterExpr).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String("GSI1"),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(filter.SortAscending),
	}
	if filter.Limit > 0 {
		input.Limit = aws.Int32(int32(filter.Limit))
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query transactions", err)
	}

	var recs []transactionRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &recs); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal transactions", err)
	}

	transactions := make([]*ledger.Transaction, 0, len(recs))
	for i := range recs {
		transactions = append(transactions, recs[i].toDomain())
	}
	return transactions, nil
}

// GetEntriesByAccount retrieves one account's entries within a date range,
// ordered by (date, entryNumber) ascending via the GSI1 sort key
func (r *DynamoDBLedgerRepository) GetEntriesByAccount(ctx context.Context, businessID string, accountID string, startDate, endDate string) ([]ledger.JournalEntry, error) {
	keyCondition := expression.Key("GSI1PK").Equal(expression.Value(accountEntriesGSI1PK(businessID, accountID)))
	switch {
	case startDate != "" && endDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI1SK").Between(
			expression.Value(fmt.Sprintf("DATE#%s", startDate)),
			expression.Value(fmt.Sprintf("DATE#%s\uFFFF", endDate)),
		))
	case startDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI1SK").GreaterThanEqual(
			expression.Value(fmt.Sprintf("DATE#%s", startDate)),
		))
	case endDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI1SK").LessThanEqual(
			expression.Value(fmt.Sprintf("DATE#%s\uFFFF", endDate)),
		))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	var entries []ledger.JournalEntry
	var lastEvaluatedKey map[string]types.AttributeValue
	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(r.table),
			IndexName:                 aws.String("GSI1"),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(true),
		}
		if lastEvaluatedKey != nil {
			input.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, commonErrors.NewInternalError("failed to query entries", err)
		}

		var page []entryRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, commonErrors.NewInternalError("failed to unmarshal entries", err)
		}
		for i := range page {
			entries = append(entries, page[i].toDomain())
		}

		lastEvaluatedKey = result.LastEvaluatedKey
		if len(lastEvaluatedKey) == 0 {
			break
		}
	}

	return entries, nil
}

func (r *DynamoDBLedgerRepository) getEntriesByTransaction(ctx context.Context, businessID, transactionID string) ([]ledger.JournalEntry, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(businessPK(businessID))).
		And(expression.Key("SK").BeginsWith(entrySKPrefix(transactionID)))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query entries", err)
	}

	var recs []entryRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &recs); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal entries", err)
	}

	entries := make([]ledger.JournalEntry, 0, len(recs))
	for i := range recs {
		entries = append(entries, recs[i].toDomain())
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EntryNumber < entries[j].EntryNumber })
	return entries, nil
}

// balanceUpdates builds one atomic ADD per affected account, conditional on
// the account row existing
func (r *DynamoDBLedgerRepository) balanceUpdates(businessID string, deltas []ledger.BalanceDelta) []types.TransactWriteItem {
	items := make([]types.TransactWriteItem, 0, len(deltas))
	for _, d := range deltas {
		items = append(items, types.TransactWriteItem{Update: &types.Update{
			TableName: aws.String(r.table),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
				"SK": &types.AttributeValueMemberS{Value: accountSK(d.AccountID)},
			},
			UpdateExpression:    aws.String("ADD BalanceMinor :d"),
			ConditionExpression: aws.String("attribute_exists(PK)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":d": &types.AttributeValueMemberN{Value: strconv.FormatInt(money.ToMinorUnits(d.Delta), 10)},
			},
		}})
	}
	return items
}

// businessCountUpdate adjusts the business's transaction count. A
// non-negative quotaLimit adds the quota condition that makes concurrent
// postings beyond the limit fail atomically.
func (r *DynamoDBLedgerRepository) businessCountUpdate(businessID string, delta int64, quotaLimit int64) types.TransactWriteItem {
	update := &types.Update{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: metaSK},
		},
		UpdateExpression: aws.String("ADD TransactionCount :d"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta, 10)},
		},
	}
	if quotaLimit >= 0 {
		update.ConditionExpression = aws.String("attribute_exists(PK) AND TransactionCount < :limit")
		update.ExpressionAttributeValues[":limit"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(quotaLimit, 10)}
	} else {
		update.ConditionExpression = aws.String("attribute_exists(PK)")
	}
	return types.TransactWriteItem{Update: update}
}

func (r *DynamoDBLedgerRepository) categoryCountUpdate(businessID, categoryID string, delta int64) types.TransactWriteItem {
	return types.TransactWriteItem{Update: &types.Update{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: businessPK(businessID)},
			"SK": &types.AttributeValueMemberS{Value: categorySK(categoryID)},
		},
		UpdateExpression:    aws.String("ADD TransactionCount :d"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta, 10)},
		},
	}}
}

func (r *DynamoDBLedgerRepository) entryDeletes(tx *ledger.Transaction) []types.TransactWriteItem {
	items := make([]types.TransactWriteItem, 0, len(tx.Entries))
	for i := range tx.Entries {
		items = append(items, types.TransactWriteItem{Delete: &types.Delete{
			TableName: aws.String(r.table),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: businessPK(tx.BusinessID)},
				"SK": &types.AttributeValueMemberS{Value: entrySK(tx.TransactionID, tx.Entries[i].EntryID)},
			},
		}})
	}
	return items
}
