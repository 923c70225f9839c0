package history

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

// Тест требует живой Redis: REDIS_TEST_ADDR=localhost:6379 go test ./internal/history/...
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis is not reachable: %v", err)
	}
	return client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	client := newTestRedis(t)
	store := NewRedisStore(client, time.Minute, 2)
	ctx := context.Background()
	session := uuid.NewString()
	t.Cleanup(func() { _ = store.Reset(context.Background(), session) })

	words, err := store.Words(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, words)

	for _, w := range []string{"Apfel", "Kaffee", "Auto"} {
		require.NoError(t, store.Add(ctx, session, w))
	}

	words, err = store.Words(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kaffee", "Auto"}, words)

	ttl, err := client.TTL(ctx, store.key(session)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Reset(ctx, session))
	words, err = store.Words(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestRedisStoreKey(t *testing.T) {
	store := NewRedisStore(nil, 0, 0)
	assert.Equal(t, "familytime:session:abc:words", store.key("abc"))
}
