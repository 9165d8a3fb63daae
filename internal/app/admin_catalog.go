package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"tourism_booking/internal/catalog"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

// ListingInput is the full, current listing schema written in one statement.
type ListingInput struct {
	Name          string               `json:"name" validate:"required,max=255"`
	Slug          string               `json:"slug" validate:"required,max=191"`
	Description   string               `json:"description"`
	Location      string               `json:"location" validate:"max=255"`
	Images        []string             `json:"images" validate:"dive,required"`
	StoragePaths  []string             `json:"storage_paths" validate:"dive,required"`
	StorageBucket string               `json:"storage_bucket" validate:"max=100"`
	Features      []string             `json:"features"`
	Metadata      json.RawMessage      `json:"metadata,omitempty"`
	PricePerDay   *float64             `json:"price_per_day,omitempty" validate:"omitempty,gte=0"`
	PricePerWeek  *float64             `json:"price_per_week,omitempty" validate:"omitempty,gte=0"`
	PriceRangeMin *float64             `json:"price_range_min,omitempty" validate:"omitempty,gte=0"`
	PriceRangeMax *float64             `json:"price_range_max,omitempty" validate:"omitempty,gte=0"`
	Active        bool                 `json:"active"`
	SortOrder     int                  `json:"sort_order"`
	SegmentID     *int64               `json:"segment_id,omitempty"`
	I18n          []domain.ListingI18n `json:"i18n"`
}

type SegmentInput struct {
	Slug      string            `json:"slug" validate:"required,max=100"`
	SortOrder int               `json:"sort_order"`
	Titles    map[string]string `json:"titles"`
}

// AdminCatalogService backs the per-vertical admin listing screens.
type AdminCatalogService struct {
	repo    domain.CatalogRepository
	media   *MediaService
	aliases *catalog.Table
	reads   *CatalogService // cache to drop on writes
}

func NewAdminCatalogService(r domain.CatalogRepository, m *MediaService, aliases *catalog.Table, reads *CatalogService) *AdminCatalogService {
	if aliases == nil {
		aliases = catalog.Default
	}
	return &AdminCatalogService{repo: r, media: m, aliases: aliases, reads: reads}
}

// service resolves an admin key (apart, boat, car, ...) or any alias.
func (s *AdminCatalogService) service(ctx context.Context, key string) (domain.ServiceRecord, error) {
	canon, ok := s.aliases.Canonical(key)
	if !ok {
		return domain.ServiceRecord{}, fmt.Errorf("%w: service %q", domain.ErrNotFound, key)
	}
	return s.repo.GetServiceBySlug(ctx, canon, i18n.Default)
}

func (s *AdminCatalogService) List(ctx context.Context, serviceKey string) ([]domain.Listing, error) {
	svc, err := s.service(ctx, serviceKey)
	if err != nil {
		return nil, err
	}
	recs, err := s.repo.ListListings(ctx, svc.ID, i18n.Default, domain.ListingFilter{IncludeInactive: true})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Listing)
	}
	return out, nil
}

// Get returns the listing only when it belongs to serviceKey.
func (s *AdminCatalogService) Get(ctx context.Context, serviceKey string, id int64) (domain.Listing, error) {
	svc, err := s.service(ctx, serviceKey)
	if err != nil {
		return domain.Listing{}, err
	}
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if l.ServiceID != svc.ID {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, nil
}

func (s *AdminCatalogService) Create(ctx context.Context, serviceKey string, in ListingInput) (domain.Listing, error) {
	svc, err := s.service(ctx, serviceKey)
	if err != nil {
		return domain.Listing{}, err
	}
	l, err := s.build(svc, in)
	if err != nil {
		return domain.Listing{}, err
	}
	id, err := s.repo.CreateListing(ctx, l)
	if err != nil {
		return domain.Listing{}, err
	}
	l.ID = id
	s.invalidate(ctx)
	return l, nil
}

func (s *AdminCatalogService) Update(ctx context.Context, serviceKey string, id int64, in ListingInput) (domain.Listing, error) {
	cur, err := s.Get(ctx, serviceKey, id)
	if err != nil {
		return domain.Listing{}, err
	}
	svc := domain.ServiceRecord{Service: domain.Service{ID: cur.ServiceID, Slug: s.canonical(serviceKey)}}
	l, err := s.build(svc, in)
	if err != nil {
		return domain.Listing{}, err
	}
	l.ID = id
	l.CreatedAt = cur.CreatedAt
	if err := s.repo.UpdateListing(ctx, l); err != nil {
		return domain.Listing{}, err
	}
	s.invalidate(ctx)
	return l, nil
}

// Delete removes the listing, then its stored images on a best-effort basis.
func (s *AdminCatalogService) Delete(ctx context.Context, serviceKey string, id int64) error {
	l, err := s.Get(ctx, serviceKey, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteListing(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)

	if s.media != nil && len(l.StoragePaths) > 0 {
		if err := s.media.DeleteAll(ctx, l.StorageBucket, l.StoragePaths); err != nil {
			log.Warn().Err(err).Int64("listing_id", id).Msg("listing images not removed from storage")
		}
	}
	return nil
}

func (s *AdminCatalogService) canonical(key string) string {
	c, _ := s.aliases.Canonical(key)
	return c
}

func (s *AdminCatalogService) build(svc domain.ServiceRecord, in ListingInput) (domain.Listing, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if err := check(in); err != nil {
		return domain.Listing{}, err
	}
	if len(in.Metadata) > 0 {
		var obj map[string]any
		if err := json.Unmarshal(in.Metadata, &obj); err != nil {
			return domain.Listing{}, domain.Invalid("metadata", "must be a JSON object")
		}
	}
	if in.PriceRangeMin != nil && in.PriceRangeMax != nil && *in.PriceRangeMax < *in.PriceRangeMin {
		return domain.Listing{}, domain.Invalid("price_range_max", "must not be below price_range_min")
	}
	if len(in.StoragePaths) > 0 && in.StorageBucket == "" {
		return domain.Listing{}, domain.Invalid("storage_bucket", "required with storage_paths")
	}
	if in.SegmentID != nil && svc.Slug != "car-rental" {
		return domain.Listing{}, domain.Invalid("segment_id", "only car rental listings have segments")
	}
	seen := map[string]bool{}
	for i, t := range in.I18n {
		t.Locale = strings.ToLower(strings.TrimSpace(t.Locale))
		if !i18n.Supported(t.Locale) {
			return domain.Listing{}, domain.Invalid(fmt.Sprintf("i18n[%d].locale", i), "unsupported locale")
		}
		if seen[t.Locale] {
			return domain.Listing{}, domain.Invalid(fmt.Sprintf("i18n[%d].locale", i), "duplicate locale")
		}
		seen[t.Locale] = true
		if strings.TrimSpace(t.Title) == "" {
			return domain.Listing{}, domain.Invalid(fmt.Sprintf("i18n[%d].title", i), "required")
		}
		t.Slug = strings.ToLower(strings.TrimSpace(t.Slug))
		in.I18n[i] = t
	}

	l := domain.Listing{
		ServiceID:     svc.ID,
		SegmentID:     in.SegmentID,
		Slug:          in.Slug,
		Name:          in.Name,
		Description:   in.Description,
		Location:      strings.TrimSpace(in.Location),
		Images:        nonNil(in.Images),
		StoragePaths:  nonNil(in.StoragePaths),
		StorageBucket: in.StorageBucket,
		Features:      nonNil(in.Features),
		Metadata:      in.Metadata,
		PricePerDay:   in.PricePerDay,
		PricePerWeek:  in.PricePerWeek,
		PriceRangeMin: in.PriceRangeMin,
		PriceRangeMax: in.PriceRangeMax,
		Active:        in.Active,
		SortOrder:     in.SortOrder,
		I18n:          in.I18n,
	}
	if l.I18n == nil {
		l.I18n = []domain.ListingI18n{}
	}
	return l, nil
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

func (s *AdminCatalogService) invalidate(ctx context.Context) {
	if s.reads != nil {
		_ = s.reads.Invalidate(ctx)
	}
}

func (s *AdminCatalogService) ListSegments(ctx context.Context) ([]domain.CarSegment, error) {
	return s.repo.ListCarSegments(ctx)
}

func (s *AdminCatalogService) CreateSegment(ctx context.Context, in SegmentInput) (domain.CarSegment, error) {
	seg, err := segment(in)
	if err != nil {
		return domain.CarSegment{}, err
	}
	id, err := s.repo.CreateCarSegment(ctx, seg)
	if err != nil {
		return domain.CarSegment{}, err
	}
	seg.ID = id
	s.invalidate(ctx)
	return seg, nil
}

func (s *AdminCatalogService) UpdateSegment(ctx context.Context, id int64, in SegmentInput) (domain.CarSegment, error) {
	seg, err := segment(in)
	if err != nil {
		return domain.CarSegment{}, err
	}
	seg.ID = id
	if err := s.repo.UpdateCarSegment(ctx, seg); err != nil {
		return domain.CarSegment{}, err
	}
	s.invalidate(ctx)
	return seg, nil
}

func (s *AdminCatalogService) DeleteSegment(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCarSegment(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func segment(in SegmentInput) (domain.CarSegment, error) {
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if err := check(in); err != nil {
		return domain.CarSegment{}, err
	}
	titles := map[string]string{}
	for loc, t := range in.Titles {
		if !i18n.Supported(loc) {
			return domain.CarSegment{}, domain.Invalid("titles", fmt.Sprintf("unsupported locale %q", loc))
		}
		titles[loc] = strings.TrimSpace(t)
	}
	return domain.CarSegment{Slug: in.Slug, SortOrder: in.SortOrder, Titles: titles}, nil
}
