package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		_ = client.Close()
	})
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestIdempotencyStoreRoundTrip(t *testing.T) {
	store := NewIdempotencyStore(redisClient(t), time.Minute)
	ctx := context.Background()
	key := uuid.NewString()

	resp, err := store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, resp)

	ok, err := store.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Store(ctx, key, Response{Status: 200, ContentType: "application/json", Body: []byte(`{"id":2}`)}))
	require.NoError(t, store.Release(ctx, key))

	resp, err = store.Lookup(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 200, resp.Status)
	assert.JSONEq(t, `{"id":2}`, string(resp.Body))
}
