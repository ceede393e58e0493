package query

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_SetGet(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	entry := &Entry{Value: []byte(`{"id":"1"}`), FetchedAt: time.Now(), StaleAfter: time.Minute}
	require.NoError(t, store.Set(ctx, "developer/42", entry, time.Minute))

	got, err := store.Get(ctx, "developer/42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(got.Value))
	assert.Equal(t, time.Minute, got.StaleAfter)
}

func TestRedisStore_Miss(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_GCWindowBecomesTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	entry := &Entry{Value: []byte(`1`), FetchedAt: time.Now()}
	require.NoError(t, store.Set(ctx, "payments/42", entry, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "payments/42")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_DeletePrefixSparesSiblingFamilies(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	entry := &Entry{Value: []byte(`1`), FetchedAt: time.Now()}
	require.NoError(t, store.Set(ctx, "plugin", entry, 0))
	require.NoError(t, store.Set(ctx, "plugin/9", entry, 0))
	require.NoError(t, store.Set(ctx, "plugins/newest", entry, 0))

	require.NoError(t, store.DeletePrefix(ctx, "plugin"))

	_, err := store.Get(ctx, "plugin")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "plugin/9")
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = store.Get(ctx, "plugins/newest")
	assert.NoError(t, err)
}
