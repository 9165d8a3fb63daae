package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"tourism_booking/internal/domain"
)

// ContentQuery is what the public and admin list endpoints accept.
type ContentQuery struct {
	domain.ContentFilter
	Slug   string
	Locale string
}

// ContentService serves one flat-column content kind (campaigns, blog, ...).
type ContentService[T domain.ContentItem[T]] struct {
	kind     string
	repo     domain.ContentRepository[T]
	cache    domain.Cache
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewContentService[T domain.ContentItem[T]](kind string, r domain.ContentRepository[T], c domain.Cache, ttl time.Duration) *ContentService[T] {
	if c == nil {
		c = NopCache{}
	}
	return &ContentService[T]{kind: kind, repo: r, cache: c, cacheTTL: ttl}
}

func (s *ContentService[T]) Kind() string { return s.kind }

func (s *ContentService[T]) prefix() string { return prefixContent + s.kind + ":" }

// List returns visible items only unless q.IncludeHidden. A slug narrows the
// result to that one item (or none).
func (s *ContentService[T]) List(ctx context.Context, q ContentQuery) ([]T, error) {
	if q.Slug != "" {
		item, err := s.GetBySlug(ctx, q.Slug, q.Locale, q.IncludeHidden)
		if err != nil {
			if isNotFound(err) {
				return []T{}, nil
			}
			return nil, err
		}
		return []T{item}, nil
	}

	load := func(ctx context.Context) ([]T, error) { return s.repo.List(ctx, q.ContentFilter) }
	var items []T
	var err error
	if q.IncludeHidden {
		items, err = load(ctx)
	} else {
		key := fmt.Sprintf("%slist:%s:%d:%d", s.prefix(), featuredKey(q.Featured), q.ServiceID, q.Limit)
		items, err = readThrough(ctx, s.cache, &s.sf, key, s.cacheTTL, load)
	}
	if err != nil {
		return nil, err
	}
	return localize(items, q.Locale), nil
}

func featuredKey(f *bool) string {
	if f == nil {
		return "any"
	}
	if *f {
		return "yes"
	}
	return "no"
}

func localize[T domain.ContentItem[T]](items []T, locale string) []T {
	if locale == "" {
		return items
	}
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.WithLocale(locale)
	}
	return out
}

func (s *ContentService[T]) Get(ctx context.Context, id int64, locale string, includeHidden bool) (T, error) {
	item, err := s.repo.Get(ctx, id)
	return s.shape(item, err, locale, includeHidden)
}

func (s *ContentService[T]) GetBySlug(ctx context.Context, slug, locale string, includeHidden bool) (T, error) {
	item, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	return s.shape(item, err, locale, includeHidden)
}

func (s *ContentService[T]) shape(item T, err error, locale string, includeHidden bool) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if !includeHidden && !item.Visible() {
		return zero, domain.ErrNotFound
	}
	if locale != "" {
		item = item.WithLocale(locale)
	}
	return item, nil
}

func (s *ContentService[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := item.Validate(); err != nil {
		return zero, err
	}
	id, err := s.repo.Create(ctx, item)
	if err != nil {
		return zero, err
	}
	s.invalidate(ctx)
	return item.WithID(id), nil
}

func (s *ContentService[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	var zero T
	item = item.WithID(id)
	if err := item.Validate(); err != nil {
		return zero, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return zero, err
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *ContentService[T]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ContentService[T]) invalidate(ctx context.Context) {
	_ = s.cache.DelPrefix(ctx, s.prefix())
}
