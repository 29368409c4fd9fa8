package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountech/financeos/backend/internal/platform/dynamodb/client"
)

// mockStore backs the mock client with a single-item store keyed by PK
func mockStore() (*client.MockDynamoDBClient, map[string]map[string]types.AttributeValue) {
	items := make(map[string]map[string]types.AttributeValue)
	mock := client.NewMockDynamoDBClient()
	mock.GetItemFn = func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
		pk := params.Key["PK"].(*types.AttributeValueMemberS).Value
		return &dynamodb.GetItemOutput{Item: items[pk]}, nil
	}
	mock.PutItemFn = func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
		pk := params.Item["PK"].(*types.AttributeValueMemberS).Value
		items[pk] = params.Item
		return &dynamodb.PutItemOutput{}, nil
	}
	return mock, items
}

func TestCacheGetSet(t *testing.T) {
	t.Run("round trip under the cache key prefix", func(t *testing.T) {
		mock, items := mockStore()
		cache := NewCache(mock, "test-table")
		ctx := context.Background()

		require.NoError(t, cache.SetWithTTL(ctx, "reality:biz1", []byte("payload"), time.Hour))
		_, stored := items["CACHE#reality:biz1"]
		assert.True(t, stored)

		got, ok, err := cache.Get(ctx, "reality:biz1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("payload"), got)
	})

	t.Run("missing key", func(t *testing.T) {
		mock, _ := mockStore()
		cache := NewCache(mock, "test-table")

		_, ok, err := cache.Get(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired item reads as a miss", func(t *testing.T) {
		mock, _ := mockStore()
		cache := NewCache(mock, "test-table")
		ctx := context.Background()
		now := time.Now()
		cache.now = func() time.Time { return now }

		require.NoError(t, cache.SetWithTTL(ctx, "k", []byte("payload"), time.Minute))

		// DynamoDB TTL deletion lags, so the read must re-check the deadline
		cache.now = func() time.Time { return now.Add(2 * time.Minute) }
		_, ok, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCachePushTrim(t *testing.T) {
	mock, _ := mockStore()
	cache := NewCache(mock, "test-table")
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, cache.PushTrim(ctx, "history:biz1", id, 3))
	}

	list, err := cache.List(ctx, "history:biz1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b"}, list)

	empty, err := cache.List(ctx, "history:biz2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
