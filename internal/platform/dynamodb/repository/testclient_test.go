package repository

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TestClient is an in-memory implementation of the DynamoDB client interface
// for testing. It interprets the small subset of expressions the repositories
// actually use: conditional puts and deletes, SET and ADD updates, and key
// conditions with equality, begins_with, BETWEEN and range comparisons.
type TestClient struct {
	items map[string]map[string]types.AttributeValue
}

// NewTestClient creates a new test client with an empty items map
func NewTestClient() *TestClient {
	return &TestClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func itemKey(item map[string]types.AttributeValue) string {
	return strVal(item["PK"]) + "|" + strVal(item["SK"])
}

func keyOf(key map[string]types.AttributeValue) string {
	return strVal(key["PK"]) + "|" + strVal(key["SK"])
}

func strVal(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func numVal(av types.AttributeValue) int64 {
	if n, ok := av.(*types.AttributeValueMemberN); ok {
		v, _ := strconv.ParseInt(n.Value, 10, 64)
		return v
	}
	return 0
}

func avEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

// resolveNames substitutes expression attribute name placeholders. Longer
// placeholders go first so #10 is not clobbered by #1.
func resolveNames(expr string, names map[string]string) string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		expr = strings.ReplaceAll(expr, k, names[k])
	}
	return expr
}

var (
	eqRe      = regexp.MustCompile(`(\w+) = (:\w+)`)
	beginsRe  = regexp.MustCompile(`begins_with\s*\((\w+),\s*(:\w+)\)`)
	betweenRe = regexp.MustCompile(`(\w+) BETWEEN (:\w+) AND (:\w+)`)
	gteRe     = regexp.MustCompile(`(\w+) >= (:\w+)`)
	lteRe     = regexp.MustCompile(`(\w+) <= (:\w+)`)
	ltRe      = regexp.MustCompile(`(\w+) < (:\w+)`)
	addRe     = regexp.MustCompile(`ADD (\w+) (:\w+)`)
)

// checkCondition evaluates a condition expression against the stored item
// (nil when absent). It understands attribute_not_exists, attribute_exists
// and numeric less-than guards.
func (c *TestClient) checkCondition(cond string, names map[string]string, values map[string]types.AttributeValue, item map[string]types.AttributeValue) bool {
	if cond == "" {
		return true
	}
	cond = resolveNames(cond, names)
	if strings.Contains(cond, "attribute_not_exists") {
		return item == nil
	}
	if strings.Contains(cond, "attribute_exists") && item == nil {
		return false
	}
	if m := ltRe.FindStringSubmatch(cond); m != nil && !strings.Contains(cond, "<=") {
		if item == nil {
			return false
		}
		return numVal(item[m[1]]) < numVal(values[m[2]])
	}
	return true
}

// applyUpdate interprets SET and ADD update expressions in place
func (c *TestClient) applyUpdate(key map[string]types.AttributeValue, update string, names map[string]string, values map[string]types.AttributeValue) map[string]types.AttributeValue {
	k := keyOf(key)
	item, exists := c.items[k]
	if !exists {
		item = make(map[string]types.AttributeValue, len(key)+1)
		for attr, av := range key {
			item[attr] = av
		}
		c.items[k] = item
	}

	update = strings.TrimSpace(resolveNames(update, names))
	switch {
	case strings.HasPrefix(update, "SET"):
		for _, m := range eqRe.FindAllStringSubmatch(update, -1) {
			item[m[1]] = values[m[2]]
		}
	case strings.HasPrefix(update, "ADD"):
		for _, m := range addRe.FindAllStringSubmatch(update, -1) {
			sum := numVal(item[m[1]]) + numVal(values[m[2]])
			item[m[1]] = &types.AttributeValueMemberN{Value: strconv.FormatInt(sum, 10)}
		}
	}
	return item
}

// GetItem retrieves an item from the in-memory store
func (c *TestClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if item, exists := c.items[keyOf(params.Key)]; exists {
		return &dynamodb.GetItemOutput{Item: item}, nil
	}
	return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{}}, nil
}

// PutItem adds or updates an item, honoring attribute_not_exists conditions
func (c *TestClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	k := itemKey(params.Item)
	if params.ConditionExpression != nil {
		if !c.checkCondition(*params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, c.items[k]) {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	c.items[k] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

// UpdateItem applies SET and ADD expressions to the stored item
func (c *TestClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if params.ConditionExpression != nil {
		if !c.checkCondition(*params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, c.items[keyOf(params.Key)]) {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	item := c.applyUpdate(params.Key, aws.ToString(params.UpdateExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	return &dynamodb.UpdateItemOutput{Attributes: item}, nil
}

// DeleteItem removes an item from the store
func (c *TestClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	k := keyOf(params.Key)
	if params.ConditionExpression != nil {
		if !c.checkCondition(*params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, c.items[k]) {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	delete(c.items, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

// Query evaluates the key condition against every stored item. Only
// single-page results are returned; the repositories treat an empty
// LastEvaluatedKey as the final page.
func (c *TestClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	keyCond := resolveNames(aws.ToString(params.KeyConditionExpression), params.ExpressionAttributeNames)
	values := params.ExpressionAttributeValues

	sortAttr := "SK"
	if params.IndexName != nil {
		sortAttr = "GSI1SK"
	}

	var pkAttr, pkValue string
	for _, m := range eqRe.FindAllStringSubmatch(keyCond, -1) {
		if m[1] == "PK" || m[1] == "GSI1PK" {
			pkAttr, pkValue = m[1], strVal(values[m[2]])
		}
	}

	matchesSort := func(sk string) bool {
		if m := beginsRe.FindStringSubmatch(keyCond); m != nil {
			return strings.HasPrefix(sk, strVal(values[m[2]]))
		}
		if m := betweenRe.FindStringSubmatch(keyCond); m != nil {
			return sk >= strVal(values[m[2]]) && sk <= strVal(values[m[3]])
		}
		if m := gteRe.FindStringSubmatch(keyCond); m != nil {
			return sk >= strVal(values[m[2]])
		}
		if m := lteRe.FindStringSubmatch(keyCond); m != nil {
			return sk <= strVal(values[m[2]])
		}
		return true
	}

	filterCond := ""
	if params.FilterExpression != nil {
		filterCond = resolveNames(*params.FilterExpression, params.ExpressionAttributeNames)
	}
	matchesFilter := func(item map[string]types.AttributeValue) bool {
		for _, m := range eqRe.FindAllStringSubmatch(filterCond, -1) {
			if !avEqual(item[m[1]], values[m[2]]) {
				return false
			}
		}
		return true
	}

	var matched []map[string]types.AttributeValue
	for _, item := range c.items {
		if strVal(item[pkAttr]) != pkValue {
			continue
		}
		if !matchesSort(strVal(item[sortAttr])) {
			continue
		}
		if !matchesFilter(item) {
			continue
		}
		matched = append(matched, item)
	}

	sort.Slice(matched, func(i, j int) bool {
		return strVal(matched[i][sortAttr]) < strVal(matched[j][sortAttr])
	})
	if params.ScanIndexForward != nil && !*params.ScanIndexForward {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}
	if params.Limit != nil && int(*params.Limit) < len(matched) {
		matched = matched[:*params.Limit]
	}

	return &dynamodb.QueryOutput{Items: matched}, nil
}

// TransactWriteItems validates every condition first, then applies all
// writes, mirroring DynamoDB's all-or-nothing semantics
func (c *TestClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, ti := range params.TransactItems {
		ok := true
		switch {
		case ti.Put != nil:
			ok = c.checkCondition(aws.ToString(ti.Put.ConditionExpression), ti.Put.ExpressionAttributeNames, ti.Put.ExpressionAttributeValues, c.items[itemKey(ti.Put.Item)])
		case ti.Delete != nil:
			ok = c.checkCondition(aws.ToString(ti.Delete.ConditionExpression), ti.Delete.ExpressionAttributeNames, ti.Delete.ExpressionAttributeValues, c.items[keyOf(ti.Delete.Key)])
		case ti.Update != nil:
			ok = c.checkCondition(aws.ToString(ti.Update.ConditionExpression), ti.Update.ExpressionAttributeNames, ti.Update.ExpressionAttributeValues, c.items[keyOf(ti.Update.Key)])
		}
		if ok {
			reasons[i] = types.CancellationReason{Code: aws.String("None")}
		} else {
			reasons[i] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("transaction canceled"),
			CancellationReasons: reasons,
		}
	}

	for _, ti := range params.TransactItems {
		switch {
		case ti.Put != nil:
			c.items[itemKey(ti.Put.Item)] = ti.Put.Item
		case ti.Delete != nil:
			delete(c.items, keyOf(ti.Delete.Key))
		case ti.Update != nil:
			c.applyUpdate(ti.Update.Key, aws.ToString(ti.Update.UpdateExpression), ti.Update.ExpressionAttributeNames, ti.Update.ExpressionAttributeValues)
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

// BatchWriteItem applies put and delete requests without conditions
func (c *TestClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	for _, requests := range params.RequestItems {
		for _, req := range requests {
			if req.PutRequest != nil {
				c.items[itemKey(req.PutRequest.Item)] = req.PutRequest.Item
			}
			if req.DeleteRequest != nil {
				delete(c.items, keyOf(req.DeleteRequest.Key))
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}
