package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"tourism_booking/internal/catalog"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

// AvailabilityWindow is how far ahead listing details show availability.
const AvailabilityWindow = 90

// URLBuilder turns storage_paths into public URLs.
type URLBuilder interface {
	PublicURL(bucket, path string) string
}

type CatalogService struct {
	repo     domain.CatalogRepository
	booking  domain.BookingRepository
	cache    domain.Cache
	cacheTTL time.Duration
	aliases  *catalog.Table
	urls     URLBuilder
	loc      *time.Location
	now      func() time.Time
	sf       singleflight.Group
}

func NewCatalogService(r domain.CatalogRepository, b domain.BookingRepository, c domain.Cache, ttl time.Duration,
	aliases *catalog.Table, urls URLBuilder, loc *time.Location) *CatalogService {
	if c == nil {
		c = NopCache{}
	}
	if aliases == nil {
		aliases = catalog.Default
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CatalogService{repo: r, booking: b, cache: c, cacheTTL: ttl, aliases: aliases, urls: urls, loc: loc, now: time.Now}
}

func (s *CatalogService) Aliases() *catalog.Table { return s.aliases }

// ListServices returns active services that have a translation for locale.
func (s *CatalogService) ListServices(ctx context.Context, locale string) ([]domain.ServiceView, error) {
	key := fmt.Sprintf("%sservices:%s", prefixCatalog, locale)
	return readThrough(ctx, s.cache, &s.sf, key, s.cacheTTL, func(ctx context.Context) ([]domain.ServiceView, error) {
		recs, err := s.repo.ListServices(ctx, locale)
		if err != nil {
			return nil, err
		}
		out := []domain.ServiceView{}
		for _, r := range recs {
			if !r.Active || r.Localized == nil {
				continue
			}
			out = append(out, serviceView(r))
		}
		return out, nil
	})
}

// GetService resolves any alias; a missing translation falls back to the base name.
func (s *CatalogService) GetService(ctx context.Context, slug, locale string) (domain.ServiceView, error) {
	canon, ok := s.aliases.Canonical(slug)
	if !ok {
		return domain.ServiceView{}, domain.ErrNotFound
	}
	rec, err := s.repo.GetServiceBySlug(ctx, canon, locale)
	if err != nil {
		return domain.ServiceView{}, err
	}
	if !rec.Active {
		return domain.ServiceView{}, domain.ErrNotFound
	}
	return serviceView(rec), nil
}

func serviceView(r domain.ServiceRecord) domain.ServiceView {
	v := domain.ServiceView{ID: r.ID, Slug: r.Slug, Icon: r.Icon, SortOrder: r.SortOrder, Title: r.Name}
	if r.Localized != nil {
		v.Title = i18n.Or(&r.Localized.Title, r.Name)
		v.Summary = r.Localized.Summary
		v.Body = r.Localized.Body
	}
	return v
}

// ListListings returns the active listings of a service. Unknown or inactive
// services yield an empty list rather than an error.
func (s *CatalogService) ListListings(ctx context.Context, serviceSlug, locale, segment string) ([]domain.ListingView, error) {
	canon, ok := s.aliases.Canonical(serviceSlug)
	if !ok {
		return []domain.ListingView{}, nil
	}
	key := fmt.Sprintf("%slistings:%s:%s:%s", prefixCatalog, canon, locale, segment)
	return readThrough(ctx, s.cache, &s.sf, key, s.cacheTTL, func(ctx context.Context) ([]domain.ListingView, error) {
		svc, err := s.repo.GetServiceBySlug(ctx, canon, locale)
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.ListingView{}, nil
		}
		if err != nil {
			return nil, err
		}
		if !svc.Active {
			return []domain.ListingView{}, nil
		}
		recs, err := s.repo.ListListings(ctx, svc.ID, locale, domain.ListingFilter{Segment: segment})
		if err != nil {
			return nil, err
		}
		out := make([]domain.ListingView, 0, len(recs))
		for _, r := range recs {
			out = append(out, s.listingView(r, canon, locale))
		}
		return out, nil
	})
}

// GetListing returns one listing with its availability from today on.
func (s *CatalogService) GetListing(ctx context.Context, serviceSlug, slug, locale string) (domain.ListingDetail, error) {
	canon, ok := s.aliases.Canonical(serviceSlug)
	if !ok {
		return domain.ListingDetail{}, domain.ErrNotFound
	}
	key := fmt.Sprintf("%sdetail:%s:%s:%s", prefixCatalog, canon, slug, locale)
	return readThrough(ctx, s.cache, &s.sf, key, s.cacheTTL, func(ctx context.Context) (domain.ListingDetail, error) {
		svc, err := s.repo.GetServiceBySlug(ctx, canon, locale)
		if err != nil {
			return domain.ListingDetail{}, err
		}
		if !svc.Active {
			return domain.ListingDetail{}, domain.ErrNotFound
		}
		rec, err := s.repo.GetListingBySlug(ctx, svc.ID, slug, locale)
		if err != nil {
			return domain.ListingDetail{}, err
		}
		today := domain.DateOf(s.now().In(s.loc))
		av, err := s.booking.ListAvailability(ctx, rec.ID, today, today.AddDays(AvailabilityWindow))
		if err != nil {
			return domain.ListingDetail{}, err
		}
		return domain.ListingDetail{Listing: s.listingView(rec, canon, locale), Availability: av}, nil
	})
}

func (s *CatalogService) ListSegments(ctx context.Context, locale string) ([]domain.SegmentView, error) {
	key := fmt.Sprintf("%ssegments:%s", prefixCatalog, locale)
	return readThrough(ctx, s.cache, &s.sf, key, s.cacheTTL, func(ctx context.Context) ([]domain.SegmentView, error) {
		segs, err := s.repo.ListCarSegments(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]domain.SegmentView, 0, len(segs))
		for _, sg := range segs {
			out = append(out, domain.SegmentView{ID: sg.ID, Slug: sg.Slug, Title: segmentTitle(sg, locale)})
		}
		return out, nil
	})
}

func segmentTitle(sg domain.CarSegment, locale string) string {
	if t := sg.Titles[locale]; t != "" {
		return t
	}
	if t := sg.Titles[i18n.Default]; t != "" {
		return t
	}
	return sg.Slug
}

// Invalidate drops every cached catalog read.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cache.DelPrefix(ctx, prefixCatalog)
}

func (s *CatalogService) listingView(r domain.ListingRecord, service, locale string) domain.ListingView {
	v := domain.ListingView{
		ID:            r.ID,
		Service:       service,
		Slug:          r.Slug,
		Title:         r.Name,
		Description:   r.Description,
		Location:      r.Location,
		Images:        ImageURLs(r.Listing, s.urls),
		Features:      r.Features,
		Metadata:      r.Metadata,
		Segment:       r.SegmentSlug,
		PricePerDay:   r.PricePerDay,
		PricePerWeek:  r.PricePerWeek,
		PriceRangeMin: r.PriceRangeMin,
		PriceRangeMax: r.PriceRangeMax,
		SortOrder:     r.SortOrder,
		Locale:        locale,
	}
	if r.Localized != nil {
		v.Title = i18n.Or(&r.Localized.Title, r.Name)
		v.Description = i18n.Or(&r.Localized.Description, r.Description)
		if r.Localized.Slug != "" {
			v.Slug = r.Localized.Slug
		}
	}
	if v.Features == nil {
		v.Features = []string{}
	}
	return v
}

// ImageURLs lists storage-backed images first, then any plain URLs not
// already covered.
func ImageURLs(l domain.Listing, urls URLBuilder) []string {
	out := make([]string, 0, len(l.StoragePaths)+len(l.Images))
	seen := map[string]bool{}
	if urls != nil && l.StorageBucket != "" {
		for _, p := range l.StoragePaths {
			u := urls.PublicURL(l.StorageBucket, p)
			if u != "" && !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
	}
	for _, u := range l.Images {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
