package history

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAddAndWords(t *testing.T) {
	store := NewMemoryStore(time.Hour, 0)
	ctx := context.Background()

	words, err := store.Words(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, words)

	require.NoError(t, store.Add(ctx, "s1", "Apfel"))
	require.NoError(t, store.Add(ctx, "s1", "Kaffee"))
	require.NoError(t, store.Add(ctx, "s1", ""))
	require.NoError(t, store.Add(ctx, "s2", "Auto"))

	words, err = store.Words(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apfel", "Kaffee"}, words)

	// Изменение результата не должно менять хранилище.
	words[0] = "Birne"
	words, _ = store.Words(ctx, "s1")
	assert.Equal(t, "Apfel", words[0])
}

func TestMemoryStoreKeepsLastMaxWords(t *testing.T) {
	store := NewMemoryStore(0, 2)
	ctx := context.Background()

	for _, w := range []string{"a", "b", "c"} {
		require.NoError(t, store.Add(ctx, "s", w))
	}

	words, err := store.Words(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, words)
}

func TestMemoryStoreTTL(t *testing.T) {
	store := NewMemoryStore(time.Minute, 0)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "old", "Apfel"))
	now = now.Add(30 * time.Second)
	require.NoError(t, store.Add(ctx, "fresh", "Kaffee"))

	now = now.Add(45 * time.Second)
	words, err := store.Words(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, words, "expired session must be dropped lazily")

	words, err = store.Words(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kaffee"}, words)

	deleted, err := store.ClearExpired(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}

func TestMemoryStoreAddAfterExpiryStartsOver(t *testing.T) {
	store := NewMemoryStore(time.Minute, 0)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "s", "Apfel"))
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Add(ctx, "s", "Kaffee"))

	words, err := store.Words(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"Kaffee"}, words)
}

func TestMemoryStoreReset(t *testing.T) {
	store := NewMemoryStore(time.Hour, 0)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "s", "Apfel"))
	require.NoError(t, store.Reset(ctx, "s"))

	words, err := store.Words(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestMemoryStoreClearExpiredWithoutTTL(t *testing.T) {
	store := NewMemoryStore(0, 0)
	require.NoError(t, store.Add(context.Background(), "s", "Apfel"))

	deleted, err := store.ClearExpired(context.Background(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(time.Hour, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Add(ctx, "shared", fmt.Sprintf("w%d", i))
			_, _ = store.Words(ctx, "shared")
		}(i)
	}
	wg.Wait()

	words, err := store.Words(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, words, 50)
}
