package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, New(rdb)
}

func TestStore_AsideFetchesOnceThenHits(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 3, Name: "mira"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, store.Aside(ctx, "user", UserKey(3), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "mira", first.Name)
	assert.True(t, mr.Exists(UserKey(3)))

	var second cachedUser
	require.NoError(t, store.Aside(ctx, "user", UserKey(3), &second, UserTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestStore_AsidePropagatesFetchError(t *testing.T) {
	mr, store := newStore(t)
	boom := errors.New("boom")

	var dest cachedUser
	err := store.Aside(context.Background(), "user", UserKey(9), &dest, UserTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(UserKey(9)))
}

func TestStore_NilClientAlwaysFetches(t *testing.T) {
	store := New(nil)
	assert.False(t, store.Enabled())

	calls := 0
	var dest cachedUser
	for i := 0; i < 2; i++ {
		require.NoError(t, store.Aside(context.Background(), "user", UserKey(1), &dest, UserTTL, func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 2, calls)
	store.Invalidate(context.Background(), UserKey(1))
}

func TestStore_InvalidateGallery(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, GalleryKey("latest", 60), []int{1}, GalleryTTL))
	require.NoError(t, store.SetJSON(ctx, GalleryKey("featured", 60), []int{2}, GalleryTTL))
	require.NoError(t, store.SetJSON(ctx, UserKey(1), cachedUser{ID: 1}, UserTTL))

	store.InvalidateGallery(ctx)

	assert.False(t, mr.Exists(GalleryKey("latest", 60)))
	assert.False(t, mr.Exists(GalleryKey("featured", 60)))
	assert.True(t, mr.Exists(UserKey(1)))

	store.InvalidateUser(ctx, 1)
	assert.False(t, mr.Exists(UserKey(1)))
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client := InitRedis(context.Background(), mr.Addr())
	require.NotNil(t, client)
	_ = client.Close()

	client = InitRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NotNil(t, client)
	_ = client.Close()

	assert.Nil(t, InitRedis(context.Background(), ""))
	assert.Nil(t, InitRedis(context.Background(), "redis://%zz"))
}
