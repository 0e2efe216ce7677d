package snapshot

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	require.NoError(t, client.Ping(context.Background()).Err())

	store := NewRedisStoreWithClient(client, Key+"-test-"+t.Name())
	t.Cleanup(func() {
		_ = store.Clear(context.Background())
		_ = store.Close()
	})
	return store
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := sampleDocument()
	require.NoError(t, store.Save(ctx, want))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Corrupt(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.client.Set(ctx, store.key, "{ nope", 0).Err())

	_, err := store.Load(ctx)
	var corrupt *CorruptError
	require.ErrorAs(t, err, &corrupt)
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "http://not-redis")
	require.Error(t, err)
}
