package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourism_booking/internal/domain"
)

const (
	defaultReservationLimit = 200
	maxReservationLimit     = 1000
	maxAvailabilitySpan     = 366
	maxStayNights           = maxAvailabilitySpan
)

// ReservationInput is the public booking form / JSON body.
type ReservationInput struct {
	ListingID       int64       `json:"listing_id" validate:"required,gt=0"`
	CustomerName    string      `json:"customer_name" validate:"required,max=255"`
	CustomerEmail   string      `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone   string      `json:"customer_phone" validate:"required,max=64"`
	StartDate       domain.Date `json:"start_date"`
	EndDate         domain.Date `json:"end_date"`
	GuestsCount     int         `json:"guests_count" validate:"gte=0,lte=500"`
	TotalPrice      *float64    `json:"total_price,omitempty" validate:"omitempty,gte=0"`
	SpecialRequests string      `json:"special_requests,omitempty" validate:"max=4000"`
}

type BookingService struct {
	repo    domain.BookingRepository
	catalog domain.CatalogRepository
	cache   domain.Cache
	loc     *time.Location
	now     func() time.Time
}

// NewBookingService computes "today" in loc; now defaults to time.Now.
func NewBookingService(r domain.BookingRepository, cat domain.CatalogRepository, c domain.Cache, loc *time.Location, now func() time.Time) *BookingService {
	if c == nil {
		c = NopCache{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{repo: r, catalog: cat, cache: c, loc: loc, now: now}
}

func (s *BookingService) Today() domain.Date { return domain.DateOf(s.now().In(s.loc)) }

// CreateReservation validates the request and stores it as pending when no
// blocking reservation or closed day overlaps [start, end].
func (s *BookingService) CreateReservation(ctx context.Context, in ReservationInput) (domain.Reservation, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.SpecialRequests = strings.TrimSpace(in.SpecialRequests)
	if err := check(in); err != nil {
		return domain.Reservation{}, err
	}
	if in.StartDate.IsZero() {
		return domain.Reservation{}, domain.Invalid("start_date", "required")
	}
	if in.EndDate.IsZero() {
		return domain.Reservation{}, domain.Invalid("end_date", "required")
	}
	if in.StartDate.Before(s.Today()) {
		return domain.Reservation{}, domain.Invalid("start_date", "must not be in the past")
	}
	if !in.EndDate.After(in.StartDate) {
		return domain.Reservation{}, domain.Invalid("end_date", "must be after start_date")
	}
	if in.StartDate.DaysUntil(in.EndDate) > maxStayNights {
		return domain.Reservation{}, domain.Invalid("end_date", fmt.Sprintf("stay is limited to %d nights", maxStayNights))
	}
	if in.GuestsCount == 0 {
		in.GuestsCount = 1
	}

	total := in.TotalPrice
	if total == nil {
		q, err := s.Quote(ctx, in.ListingID, in.StartDate, in.EndDate)
		if err != nil {
			return domain.Reservation{}, err
		}
		total = q
	}

	r := domain.Reservation{
		ListingID:       in.ListingID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		GuestsCount:     in.GuestsCount,
		TotalPrice:      total,
		Status:          domain.StatusPending,
		SpecialRequests: in.SpecialRequests,
	}
	id, err := s.repo.CreateReservationIfFree(ctx, r)
	if err != nil {
		return domain.Reservation{}, err
	}
	now := s.now().UTC()
	r.ID, r.CreatedAt, r.UpdatedAt = id, now, now
	return r, nil
}

// Quote prices the nights in [start, end): a per-day override from the
// availability calendar wins over the listing's price_per_day. It returns nil
// when some night has no price.
func (s *BookingService) Quote(ctx context.Context, listingID int64, start, end domain.Date) (*float64, error) {
	l, err := s.catalog.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	nights := start.DaysUntil(end)
	if nights <= 0 {
		return nil, nil
	}
	av, err := s.repo.ListAvailability(ctx, listingID, start, end.AddDays(-1))
	if err != nil {
		return nil, err
	}
	override := make(map[string]float64, len(av))
	for _, a := range av {
		if a.Price != nil {
			override[a.Date.String()] = *a.Price
		}
	}
	var sum float64
	for d := start; d.Before(end); d = d.AddDays(1) {
		if p, ok := override[d.String()]; ok {
			sum += p
			continue
		}
		if l.PricePerDay == nil {
			return nil, nil
		}
		sum += *l.PricePerDay
	}
	return &sum, nil
}

func (s *BookingService) ListReservations(ctx context.Context, f domain.ReservationFilter) ([]domain.Reservation, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.Invalid("status", "unknown status")
	}
	if f.Limit <= 0 {
		f.Limit = defaultReservationLimit
	}
	if f.Limit > maxReservationLimit {
		f.Limit = maxReservationLimit
	}
	return s.repo.ListReservations(ctx, f)
}

func (s *BookingService) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}

// UpdateStatus moves a reservation along pending -> confirmed -> completed,
// or to cancelled from either non-terminal state.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, to domain.ReservationStatus) (domain.Reservation, error) {
	if !to.Valid() {
		return domain.Reservation{}, domain.Invalid("status", "unknown status")
	}
	cur, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if !cur.Status.CanTransition(to) {
		return domain.Reservation{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, cur.Status, to)
	}
	if err := s.repo.UpdateReservationStatus(ctx, id, cur.Status, to); err != nil {
		return domain.Reservation{}, err
	}
	cur.Status = to
	cur.UpdatedAt = s.now().UTC()
	return cur, nil
}

// ListAvailability defaults to today .. today+90.
func (s *BookingService) ListAvailability(ctx context.Context, listingID int64, from, to domain.Date) ([]domain.Availability, error) {
	if listingID <= 0 {
		return nil, domain.Invalid("listing_id", "required")
	}
	if from.IsZero() {
		from = s.Today()
	}
	if to.IsZero() {
		to = from.AddDays(AvailabilityWindow)
	}
	if to.Before(from) {
		return nil, domain.Invalid("to", "must not be before from")
	}
	if from.DaysUntil(to) > maxAvailabilitySpan {
		return nil, domain.Invalid("to", fmt.Sprintf("range is limited to %d days", maxAvailabilitySpan))
	}
	return s.repo.ListAvailability(ctx, listingID, from, to)
}

// UpsertAvailability writes all rows in one transaction.
func (s *BookingService) UpsertAvailability(ctx context.Context, rows []domain.Availability) error {
	if len(rows) == 0 {
		return domain.Invalid("", "no availability rows")
	}
	for i, a := range rows {
		if err := validAvailability(a); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("[%d].%s", i, ve.Field)
			}
			return err
		}
	}
	if err := s.repo.UpsertAvailability(ctx, rows); err != nil {
		return err
	}
	_ = s.cache.DelPrefix(ctx, prefixCatalog+"detail:")
	return nil
}

func validAvailability(a domain.Availability) error {
	switch {
	case a.ListingID <= 0:
		return domain.Invalid("listing_id", "required")
	case a.Date.IsZero():
		return domain.Invalid("date", "required")
	case a.MinNights != nil && *a.MinNights < 1:
		return domain.Invalid("min_nights", "must be at least 1")
	case a.Price != nil && *a.Price < 0:
		return domain.Invalid("price", "must not be negative")
	}
	return nil
}
