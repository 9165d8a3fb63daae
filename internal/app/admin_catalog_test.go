package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism_booking/internal/app"
	"tourism_booking/internal/catalog"
	"tourism_booking/internal/domain"
)

func newAdminCatalog(repo *fakeCatalog, store *fakeStore, cache *fakeCache) *app.AdminCatalogService {
	reads := app.NewCatalogService(repo, &fakeBooking{}, cache, 0, catalog.Default, store, nil)
	return app.NewAdminCatalogService(repo, app.NewMediaService(store, "listings", 0), catalog.Default, reads)
}

func listingIn(slug string) app.ListingInput {
	return app.ListingInput{Name: " Renault Clio ", Slug: " " + slug + " ", Active: true, PricePerDay: pfloat(40)}
}

func TestAdminCreate_SegmentOnlyForCars(t *testing.T) {
	repo := carCatalog()
	s := newAdminCatalog(repo, &fakeStore{}, &fakeCache{})
	ctx := context.Background()
	seg := int64(2)

	in := listingIn("Clio-2")
	in.SegmentID = &seg
	l, err := s.Create(ctx, "car", in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.ServiceID)
	assert.Equal(t, "clio-2", l.Slug)
	assert.Equal(t, "Renault Clio", l.Name)
	assert.NotNil(t, l.Images)

	_, err = s.Create(ctx, "boat", in)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "segment_id", ve.Field)

	_, err = s.Create(ctx, "car-rental", listingIn("clio-2"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Create(ctx, "spaceships", listingIn("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminCreate_Validation(t *testing.T) {
	s := newAdminCatalog(carCatalog(), &fakeStore{}, &fakeCache{})
	ctx := context.Background()

	cases := map[string]func(*app.ListingInput){
		"name":            func(in *app.ListingInput) { in.Name = "  " },
		"metadata":        func(in *app.ListingInput) { in.Metadata = json.RawMessage(`[1,2]`) },
		"price_range_max": func(in *app.ListingInput) { in.PriceRangeMin, in.PriceRangeMax = pfloat(10), pfloat(5) },
		"storage_bucket":  func(in *app.ListingInput) { in.StoragePaths = []string{"a.jpg"} },
		"price_per_day":   func(in *app.ListingInput) { in.PricePerDay = pfloat(-1) },
		"i18n[1].locale": func(in *app.ListingInput) {
			in.I18n = []domain.ListingI18n{{Locale: "en", Title: "A"}, {Locale: "EN", Title: "B"}}
		},
	}
	for field, mutate := range cases {
		in := listingIn("x")
		mutate(&in)
		_, err := s.Create(ctx, "car", in)
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve), field)
		assert.Equal(t, field, ve.Field)
	}
}

func TestAdminCreate_UnsupportedLocaleKeepsFallbackRow(t *testing.T) {
	repo := carCatalog()
	s := newAdminCatalog(repo, &fakeStore{}, &fakeCache{})

	in := listingIn("clio-de")
	in.I18n = []domain.ListingI18n{{Locale: "tr", Title: "Renault Clio"}, {Locale: "de", Title: "Deutscher Titel"}}
	_, err := s.Create(context.Background(), "car", in)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, "i18n[1].locale", ve.Field)
	assert.Empty(t, repo.created)

	in.I18n = []domain.ListingI18n{{Locale: " RU ", Title: "Рено Клио"}}
	l, err := s.Create(context.Background(), "car", in)
	require.NoError(t, err)
	require.Len(t, l.I18n, 1)
	assert.Equal(t, "ru", l.I18n[0].Locale)
}

func TestAdminGet_ChecksServiceOwnership(t *testing.T) {
	repo := carCatalog()
	repo.byID = map[int64]domain.Listing{10: {ID: 10, ServiceID: 1, Slug: "clio"}}
	s := newAdminCatalog(repo, &fakeStore{}, &fakeCache{})

	_, err := s.Get(context.Background(), "car", 10)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "boat", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminDelete_RemovesImagesAndInvalidates(t *testing.T) {
	repo := carCatalog()
	repo.byID = map[int64]domain.Listing{10: {
		ID: 10, ServiceID: 1, Slug: "clio",
		StorageBucket: "listings",
		StoragePaths:  []string{"cars/a.jpg", "https://cdn/storage/v1/object/public/listings/cars/b.jpg"},
	}}
	store := &fakeStore{base: "https://cdn"}
	cache := &fakeCache{}
	s := newAdminCatalog(repo, store, cache)

	require.NoError(t, s.Delete(context.Background(), "car", 10))
	assert.Equal(t, []int64{10}, repo.deleted)
	assert.Equal(t, []deleteCall{{bucket: "listings", paths: []string{"cars/a.jpg", "cars/b.jpg"}}}, store.deletes)
	assert.Contains(t, cache.dels, "catalog:*")
}

func TestAdminUpdate_KeepsIdentity(t *testing.T) {
	repo := carCatalog()
	repo.byID = map[int64]domain.Listing{10: {ID: 10, ServiceID: 1, Slug: "clio"}}
	s := newAdminCatalog(repo, &fakeStore{}, &fakeCache{})

	l, err := s.Update(context.Background(), "arac-kiralama", 10, listingIn("clio"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), l.ID)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, int64(1), repo.updated[0].ServiceID)
}

func TestSegments_RejectUnknownLocale(t *testing.T) {
	s := newAdminCatalog(carCatalog(), &fakeStore{}, &fakeCache{})
	ctx := context.Background()

	seg, err := s.CreateSegment(ctx, app.SegmentInput{Slug: " Premium ", Titles: map[string]string{"tr": " Premium ", "en": "Premium"}})
	require.NoError(t, err)
	assert.Equal(t, "premium", seg.Slug)
	assert.Equal(t, "Premium", seg.Titles["tr"])

	_, err = s.CreateSegment(ctx, app.SegmentInput{Slug: "x", Titles: map[string]string{"de": "X"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = s.UpdateSegment(ctx, 1, app.SegmentInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type fakeStats struct{}

func (f *fakeStats) CountListingsByService(ctx context.Context) (map[string]int, error) {
	return map[string]int{"car-rental": 4}, nil
}
func (f *fakeStats) CountReservationsByStatus(ctx context.Context) (map[string]int, error) {
	return map[string]int{"pending": 2, "confirmed": 1}, nil
}
func (f *fakeStats) CountUpcomingReservations(ctx context.Context, from domain.Date) (int, error) {
	return 3, nil
}
func (f *fakeStats) CountPublished(ctx context.Context, table string) (int, error) {
	switch table {
	case "blog_posts":
		return 5, nil
	case "campaigns":
		return 1, nil
	}
	return 0, domain.Invalid("table", table)
}

func TestDashboard(t *testing.T) {
	st, err := app.NewStatsService(&fakeStats{}, nil).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, st.ListingsByService["car-rental"])
	assert.Equal(t, 2, st.ReservationsByStatus["pending"])
	assert.Equal(t, 3, st.UpcomingReservations)
	assert.Equal(t, 5, st.PublishedBlogPosts)
	assert.Equal(t, 1, st.ActiveCampaigns)
}
