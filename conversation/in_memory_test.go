package conversation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talecard/talecard/core"
)

// Interface compliance (compile-time assertion).
var _ Store = (*InMemoryStore)(nil)

func TestInMemoryStore_GetAbsentIsNotAnError(t *testing.T) {
	store := NewInMemoryStore()
	cc, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, cc)
}

func TestInMemoryStore_UpsertThenGet(t *testing.T) {
	store := NewInMemoryStore()
	cc := core.NewConversationContext("key-1", "card-1")
	cc.RecordTurn("hi", "hello", false)

	require.NoError(t, store.Upsert(context.Background(), cc))
	assert.Equal(t, uint64(1), cc.Version)

	got, err := store.Get(context.Background(), "key-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cc.Messages, got.Messages)
	assert.Equal(t, uint64(1), got.Version)
}

func TestInMemoryStore_VersionConflict(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	cc := core.NewConversationContext("key-1", "card-1")
	require.NoError(t, store.Upsert(ctx, cc))

	// Two turns read the same snapshot; the second write must lose.
	first, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	second, err := store.Get(ctx, "key-1")
	require.NoError(t, err)

	first.RecordTurn("a", "b", false)
	require.NoError(t, store.Upsert(ctx, first))

	second.RecordTurn("c", "d", false)
	assert.ErrorIs(t, store.Upsert(ctx, second), ErrVersionConflict)

	// The winning write is intact.
	got, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "a", got.Messages[0].Text)
}

func TestInMemoryStore_StaleFreshContextRejected(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	cc := core.NewConversationContext("key-1", "card-1")
	require.NoError(t, store.Upsert(ctx, cc))

	// A second "first turn" for an existing key carries Version 0 and must
	// not clobber the stored history.
	stale := core.NewConversationContext("key-1", "card-1")
	assert.ErrorIs(t, store.Upsert(ctx, stale), ErrVersionConflict)
}

func TestInMemoryStore_SnapshotsAreIsolated(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	cc := core.NewConversationContext("key-1", "card-1")
	cc.RecordTurn("a", "b", false)
	require.NoError(t, store.Upsert(ctx, cc))

	got, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	got.Messages[0].Text = "mutated"

	again, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Messages[0].Text)
}

func TestInMemoryStore_ConcurrentDistinctKeys(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%26))
			cc, err := store.Get(ctx, key)
			if !assert.NoError(t, err) {
				return
			}
			if cc == nil {
				cc = core.NewConversationContext(key, "card-1")
			}
			cc.RecordTurn("q", "r", false)
			// Conflicts are expected for colliding keys; only real errors fail.
			if err := store.Upsert(ctx, cc); err != nil {
				assert.ErrorIs(t, err, ErrVersionConflict)
			}
		}(i)
	}
	wg.Wait()
}
