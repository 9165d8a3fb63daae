package domain

import (
	"context"
	"io"
	"time"
)

type CatalogRepository interface {
	// Public read paths
	ListServices(ctx context.Context, locale string) ([]ServiceRecord, error)
	GetServiceBySlug(ctx context.Context, slug, locale string) (ServiceRecord, error)
	ListListings(ctx context.Context, serviceID int64, locale string, f ListingFilter) ([]ListingRecord, error)
	GetListingBySlug(ctx context.Context, serviceID int64, slug, locale string) (ListingRecord, error)
	ListCarSegments(ctx context.Context) ([]CarSegment, error)

	// Admin write paths
	GetListing(ctx context.Context, id int64) (Listing, error)
	ListAllListings(ctx context.Context) ([]Listing, error)
	CreateListing(ctx context.Context, l Listing) (int64, error)
	UpdateListing(ctx context.Context, l Listing) error
	DeleteListing(ctx context.Context, id int64) error
	UpdateListingImages(ctx context.Context, id int64, images, storagePaths []string, bucket string) error
	CreateCarSegment(ctx context.Context, s CarSegment) (int64, error)
	UpdateCarSegment(ctx context.Context, s CarSegment) error
	DeleteCarSegment(ctx context.Context, id int64) error
}

type BookingRepository interface {
	ListAvailability(ctx context.Context, listingID int64, from, to Date) ([]Availability, error)
	UpsertAvailability(ctx context.Context, rows []Availability) error
	ListReservations(ctx context.Context, f ReservationFilter) ([]Reservation, error)
	GetReservation(ctx context.Context, id int64) (Reservation, error)
	// CreateReservationIfFree checks overlap and inserts atomically; ErrDatesTaken on overlap.
	CreateReservationIfFree(ctx context.Context, r Reservation) (int64, error)
	UpdateReservationStatus(ctx context.Context, id int64, from, to ReservationStatus) error
}

type ContentRepository[T any] interface {
	List(ctx context.Context, f ContentFilter) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	GetBySlug(ctx context.Context, slug string) (T, error)
	Create(ctx context.Context, item T) (int64, error)
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, id int64) error
}

type AdminRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (AdminUser, error)
	GetAdminByID(ctx context.Context, id int64) (AdminUser, error)
	CreateAdmin(ctx context.Context, a AdminUser) (int64, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) ([]byte, error)
	PutSetting(ctx context.Context, key string, value []byte) error
}

type StatsRepository interface {
	CountListingsByService(ctx context.Context) (map[string]int, error)
	CountReservationsByStatus(ctx context.Context) (map[string]int, error)
	CountUpcomingReservations(ctx context.Context, from Date) (int, error)
	CountPublished(ctx context.Context, table string) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
}

// SessionStore keeps live admin sessions keyed by token ID.
type SessionStore interface {
	Put(ctx context.Context, tokenID string, adminID int64, ttl time.Duration) error
	Lookup(ctx context.Context, tokenID string) (int64, error) // ErrUnauthorized when absent
	Delete(ctx context.Context, tokenID string) error
}

type ObjectStore interface {
	Upload(ctx context.Context, bucket, path, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, bucket string, paths ...string) error
	PublicURL(bucket, path string) string
}
