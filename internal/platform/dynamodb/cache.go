package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	commonErrors "github.com/accountech/financeos/backend/internal/domain/errors"
	"github.com/accountech/financeos/backend/internal/platform/dynamodb/client"
)

// Cache implements the simulation cache on the application table. Expiry
// rides on the table's TTL attribute; because DynamoDB deletes expired items
// lazily, reads re-check the deadline themselves.
type Cache struct {
	client client.Client
	table  string
	now    func() time.Time
}

// NewCache creates a DynamoDB-backed cache on the given table
func NewCache(client client.Client, table string) *Cache {
	return &Cache{
		client: client,
		table:  table,
		now:    time.Now,
	}
}

type cacheRecord struct {
	PK        string   `dynamodbav:"PK"`
	SK        string   `dynamodbav:"SK"`
	Value     []byte   `dynamodbav:"Value,omitempty"`
	List      []string `dynamodbav:"List,omitempty"`
	ExpiresAt int64    `dynamodbav:"ExpiresAt,omitempty"`
}

func cacheKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "CACHE#" + key},
		"SK": &types.AttributeValueMemberS{Value: "VALUE"},
	}
}

// Get returns the value for key, reporting whether it was present and fresh
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key:       cacheKey(key),
	})
	if err != nil {
		return nil, false, commonErrors.NewInternalError("failed to read cache entry", err)
	}
	if len(result.Item) == 0 {
		return nil, false, nil
	}

	var rec cacheRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, false, commonErrors.NewInternalError("failed to unmarshal cache entry", err)
	}
	if rec.ExpiresAt > 0 && c.now().Unix() >= rec.ExpiresAt {
		return nil, false, nil
	}
	return rec.Value, true, nil
}

// SetWithTTL stores value under key, expiring it after ttl
func (c *Cache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	rec := cacheRecord{
		PK:    "CACHE#" + key,
		SK:    "VALUE",
		Value: value,
	}
	if ttl > 0 {
		rec.ExpiresAt = c.now().Add(ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal cache entry", err)
	}

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return commonErrors.NewInternalError("failed to write cache entry", err)
	}
	return nil
}

// PushTrim prepends value to the list at key and trims it to max entries.
// Lists see one writer per business in practice, so read-modify-write is
// acceptable here where it would not be for balances.
func (c *Cache) PushTrim(ctx context.Context, key string, value string, max int) error {
	list, err := c.List(ctx, key)
	if err != nil {
		return err
	}

	list = append([]string{value}, list...)
	if max > 0 && len(list) > max {
		list = list[:max]
	}

	item, err := attributevalue.MarshalMap(cacheRecord{
		PK:   "CACHE#" + key,
		SK:   "VALUE",
		List: list,
	})
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal cache list", err)
	}

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return commonErrors.NewInternalError("failed to write cache list", err)
	}
	return nil
}

// List returns the list at key, newest first
func (c *Cache) List(ctx context.Context, key string) ([]string, error) {
	result, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key:       cacheKey(key),
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to read cache list", err)
	}
	if len(result.Item) == 0 {
		return nil, nil
	}

	var rec cacheRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal cache list", err)
	}
	return rec.List, nil
}
