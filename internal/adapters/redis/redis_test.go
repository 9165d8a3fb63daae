package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "tourism_booking/internal/adapters/redis"
	"tourism_booking/internal/domain"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redisad.Cache, *redisad.Sessions) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return mr, redisad.New(c), redisad.NewSessions(c)
}

func TestCache_SetGetDel(t *testing.T) {
	_, cache, _ := newClient(t)
	ctx := context.Background()

	var out []domain.ServiceView
	ok, err := cache.Get(ctx, "catalog:services:en", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	in := []domain.ServiceView{{ID: 1, Slug: "car-rental", Title: "Car Rental"}}
	require.NoError(t, cache.Set(ctx, "catalog:services:en", in, 60))

	ok, err = cache.Get(ctx, "catalog:services:en", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	require.NoError(t, cache.Del(ctx, "catalog:services:en"))
	ok, _ = cache.Get(ctx, "catalog:services:en", &out)
	assert.False(t, ok)
}

func TestCache_DelPrefix(t *testing.T) {
	mr, cache, _ := newClient(t)
	ctx := context.Background()
	for _, k := range []string{"catalog:a", "catalog:b", "content:blog:x"} {
		require.NoError(t, cache.Set(ctx, k, 1, 60))
	}
	require.NoError(t, cache.DelPrefix(ctx, "catalog:"))
	assert.False(t, mr.Exists("catalog:a"))
	assert.False(t, mr.Exists("catalog:b"))
	assert.True(t, mr.Exists("content:blog:x"))
}

func TestSessions_Lifecycle(t *testing.T) {
	mr, _, s := newClient(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "jti-1", 42, time.Minute))
	id, err := s.Lookup(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	mr.FastForward(2 * time.Minute)
	_, err = s.Lookup(ctx, "jti-1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, s.Put(ctx, "jti-2", 7, time.Minute))
	require.NoError(t, s.Delete(ctx, "jti-2"))
	_, err = s.Lookup(ctx, "jti-2")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
