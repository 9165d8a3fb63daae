package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism_booking/internal/app"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

type fakeCampaigns struct {
	items     []domain.Campaign
	listCalls int
}

func (f *fakeCampaigns) List(ctx context.Context, fl domain.ContentFilter) ([]domain.Campaign, error) {
	f.listCalls++
	out := []domain.Campaign{}
	for _, c := range f.items {
		if !fl.IncludeHidden && !c.Published {
			continue
		}
		if fl.Featured != nil && c.Featured != *fl.Featured {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
func (f *fakeCampaigns) Get(ctx context.Context, id int64) (domain.Campaign, error) {
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Campaign{}, domain.ErrNotFound
}
func (f *fakeCampaigns) GetBySlug(ctx context.Context, slug string) (domain.Campaign, error) {
	for _, c := range f.items {
		if c.Slug == slug {
			return c, nil
		}
	}
	return domain.Campaign{}, domain.ErrNotFound
}
func (f *fakeCampaigns) Create(ctx context.Context, c domain.Campaign) (int64, error) {
	c.ID = int64(len(f.items) + 1)
	f.items = append(f.items, c)
	return c.ID, nil
}
func (f *fakeCampaigns) Update(ctx context.Context, c domain.Campaign) error {
	for i := range f.items {
		if f.items[i].ID == c.ID {
			f.items[i] = c
			return nil
		}
	}
	return domain.ErrNotFound
}
func (f *fakeCampaigns) Delete(ctx context.Context, id int64) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func campaigns() *fakeCampaigns {
	return &fakeCampaigns{items: []domain.Campaign{
		{ID: 1, Slug: "spring", Published: true, Featured: true,
			Title: i18n.Text{TR: "Bahar", EN: "Spring"}},
		{ID: 2, Slug: "draft", Published: false,
			Title: i18n.Text{TR: "Taslak"}},
		{ID: 3, Slug: "summer", Published: true,
			Title: i18n.Text{TR: "Yaz"}},
	}}
}

func TestContentList_HidesUnpublishedForVisitors(t *testing.T) {
	s := app.NewContentService[domain.Campaign]("campaigns", campaigns(), nil, time.Minute)
	ctx := context.Background()

	pub, err := s.List(ctx, app.ContentQuery{Locale: "en"})
	require.NoError(t, err)
	require.Len(t, pub, 2)
	assert.Equal(t, "Spring", pub[0].Localized["title"])
	assert.Equal(t, "Yaz", pub[1].Localized["title"], "falls back to Turkish")

	all, err := s.List(ctx, app.ContentQuery{ContentFilter: domain.ContentFilter{IncludeHidden: true}})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Nil(t, all[0].Localized)
}

func TestContentList_FeaturedAndSlug(t *testing.T) {
	s := app.NewContentService[domain.Campaign]("campaigns", campaigns(), nil, time.Minute)
	ctx := context.Background()
	yes := true

	out, err := s.List(ctx, app.ContentQuery{ContentFilter: domain.ContentFilter{Featured: &yes}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "spring", out[0].Slug)

	out, err = s.List(ctx, app.ContentQuery{Slug: "summer", Locale: "ru"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Yaz", out[0].Localized["title"])

	out, err = s.List(ctx, app.ContentQuery{Slug: "draft"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestContentGet_HiddenIsNotFound(t *testing.T) {
	s := app.NewContentService[domain.Campaign]("campaigns", campaigns(), nil, time.Minute)
	ctx := context.Background()

	_, err := s.GetBySlug(ctx, "draft", "en", false)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	c, err := s.Get(ctx, 2, "", true)
	require.NoError(t, err)
	assert.Equal(t, "draft", c.Slug)
}

func TestContentWrites_ValidateAndInvalidate(t *testing.T) {
	repo := campaigns()
	cache := &fakeCache{}
	s := app.NewContentService[domain.Campaign]("campaigns", repo, cache, time.Minute)
	ctx := context.Background()

	_, err := s.List(ctx, app.ContentQuery{})
	require.NoError(t, err)
	_, err = s.List(ctx, app.ContentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	bad := 120.0
	_, err = s.Create(ctx, domain.Campaign{Slug: "x", Title: i18n.Text{TR: "X"}, DiscountPercent: &bad})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "discount_percent", ve.Field)

	_, err = s.Create(ctx, domain.Campaign{Slug: "autumn", Published: true, Title: i18n.Text{TR: "Sonbahar"}})
	require.NoError(t, err)
	assert.Contains(t, cache.dels, "content:campaigns:*")

	out, err := s.List(ctx, app.ContentQuery{})
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, 2, repo.listCalls)

	_, err = s.Update(ctx, 99, domain.Campaign{Slug: "x", Title: i18n.Text{TR: "X"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 99), domain.ErrNotFound)
}

type fakeSettings struct {
	raw map[string][]byte
}

func (f *fakeSettings) GetSetting(ctx context.Context, key string) ([]byte, error) {
	b, ok := f.raw[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}
func (f *fakeSettings) PutSetting(ctx context.Context, key string, value []byte) error {
	if f.raw == nil {
		f.raw = map[string][]byte{}
	}
	f.raw[key] = value
	return nil
}

func TestHero_DefaultsUntilStored(t *testing.T) {
	repo := &fakeSettings{}
	s := app.NewSettingsService(repo, &fakeCache{}, time.Minute)
	ctx := context.Background()

	h, err := s.Hero(ctx)
	require.NoError(t, err)
	assert.Equal(t, app.DefaultHero(), h)

	_, err = s.PutHero(ctx, domain.HeroSettings{Type: "image"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	want := domain.HeroSettings{Type: "image", ImageURL: "/x.jpg", OverlayOpacity: 0.2, Title: i18n.Text{TR: "Merhaba"}}
	_, err = s.PutHero(ctx, want)
	require.NoError(t, err)

	h, err = s.Hero(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, h)
}

func TestHero_UnreadableRowFallsBack(t *testing.T) {
	repo := &fakeSettings{raw: map[string][]byte{domain.SettingHero: []byte("{not json")}}
	s := app.NewSettingsService(repo, nil, time.Minute)

	h, err := s.Hero(context.Background())
	require.NoError(t, err)
	assert.Equal(t, app.DefaultHero(), h)

	b, _ := json.Marshal(app.DefaultHero())
	assert.Contains(t, string(b), `"overlay_opacity":0.4`)
}
