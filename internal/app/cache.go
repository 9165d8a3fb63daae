package app

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"tourism_booking/internal/domain"
)

// Cache key prefixes; writes drop a whole prefix.
const (
	prefixCatalog  = "catalog:"
	prefixContent  = "content:"
	prefixSettings = "settings:"
)

// NopCache never hits. Used when Redis is not configured and in tests.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any, int) error    { return nil }
func (NopCache) Del(context.Context, string) error              { return nil }
func (NopCache) DelPrefix(context.Context, string) error        { return nil }

// readThrough serves key from c, otherwise loads it once per key across
// concurrent callers and stores the result for ttl.
func readThrough[T any](ctx context.Context, c domain.Cache, sf *singleflight.Group, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var out T
	if ok, _ := c.Get(ctx, key, &out); ok {
		return out, nil
	}
	v, err, _ := sf.Do(key, func() (any, error) {
		x, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, x, int(ttl.Seconds()))
		return x, nil
	})
	if err != nil {
		return out, err
	}
	return v.(T), nil
}
