package app_test

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"tourism_booking/internal/domain"
)

// ---- catalog ----

type fakeCatalog struct {
	services  []domain.ServiceRecord
	listings  map[int64][]domain.ListingRecord // by service id
	segments  []domain.CarSegment
	byID      map[int64]domain.Listing
	listCalls int
	created   []domain.Listing
	updated   []domain.Listing
	deleted   []int64
}

func (f *fakeCatalog) ListServices(ctx context.Context, locale string) ([]domain.ServiceRecord, error) {
	return f.services, nil
}
func (f *fakeCatalog) GetServiceBySlug(ctx context.Context, slug, locale string) (domain.ServiceRecord, error) {
	for _, s := range f.services {
		if s.Slug == slug {
			return s, nil
		}
	}
	return domain.ServiceRecord{}, domain.ErrNotFound
}
func (f *fakeCatalog) ListListings(ctx context.Context, serviceID int64, locale string, fl domain.ListingFilter) ([]domain.ListingRecord, error) {
	f.listCalls++
	var out []domain.ListingRecord
	for _, r := range f.listings[serviceID] {
		if !fl.IncludeInactive && !r.Active {
			continue
		}
		if fl.Segment != "" && r.SegmentSlug != fl.Segment {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
func (f *fakeCatalog) GetListingBySlug(ctx context.Context, serviceID int64, slug, locale string) (domain.ListingRecord, error) {
	for _, r := range f.listings[serviceID] {
		if r.Slug == slug || (r.Localized != nil && r.Localized.Slug == slug) {
			return r, nil
		}
	}
	return domain.ListingRecord{}, domain.ErrNotFound
}
func (f *fakeCatalog) ListCarSegments(ctx context.Context) ([]domain.CarSegment, error) {
	return f.segments, nil
}
func (f *fakeCatalog) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	l, ok := f.byID[id]
	if !ok {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, nil
}
func (f *fakeCatalog) ListAllListings(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range f.byID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (f *fakeCatalog) CreateListing(ctx context.Context, l domain.Listing) (int64, error) {
	for _, c := range f.created {
		if c.ServiceID == l.ServiceID && c.Slug == l.Slug {
			return 0, domain.ErrConflict
		}
	}
	f.created = append(f.created, l)
	return int64(100 + len(f.created)), nil
}
func (f *fakeCatalog) UpdateListing(ctx context.Context, l domain.Listing) error {
	f.updated = append(f.updated, l)
	return nil
}
func (f *fakeCatalog) DeleteListing(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}
func (f *fakeCatalog) UpdateListingImages(ctx context.Context, id int64, images, paths []string, bucket string) error {
	l := f.byID[id]
	l.Images, l.StoragePaths, l.StorageBucket = images, paths, bucket
	f.byID[id] = l
	return nil
}
func (f *fakeCatalog) CreateCarSegment(ctx context.Context, s domain.CarSegment) (int64, error) {
	return 1, nil
}
func (f *fakeCatalog) UpdateCarSegment(ctx context.Context, s domain.CarSegment) error { return nil }
func (f *fakeCatalog) DeleteCarSegment(ctx context.Context, id int64) error            { return nil }

// ---- booking ----

// fakeBooking applies the same overlap rule the database query does.
type fakeBooking struct {
	mu           sync.Mutex
	reservations []domain.Reservation
	availability []domain.Availability
	inactive     map[int64]bool
}

func (f *fakeBooking) ListAvailability(ctx context.Context, listingID int64, from, to domain.Date) ([]domain.Availability, error) {
	out := []domain.Availability{}
	for _, a := range f.availability {
		if a.ListingID == listingID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeBooking) UpsertAvailability(ctx context.Context, rows []domain.Availability) error {
	f.availability = append(f.availability, rows...)
	return nil
}
func (f *fakeBooking) ListReservations(ctx context.Context, fl domain.ReservationFilter) ([]domain.Reservation, error) {
	return f.reservations, nil
}
func (f *fakeBooking) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	for _, r := range f.reservations {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Reservation{}, domain.ErrNotFound
}
func (f *fakeBooking) CreateReservationIfFree(ctx context.Context, r domain.Reservation) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inactive[r.ListingID] {
		return 0, domain.ErrNotFound
	}
	for _, x := range f.reservations {
		if x.ListingID != r.ListingID || (x.Status != domain.StatusPending && x.Status != domain.StatusConfirmed) {
			continue
		}
		if domain.Overlaps(r.StartDate, r.EndDate, x.StartDate, x.EndDate) {
			return 0, domain.ErrDatesTaken
		}
	}
	r.ID = int64(len(f.reservations) + 1)
	f.reservations = append(f.reservations, r)
	return r.ID, nil
}
func (f *fakeBooking) UpdateReservationStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	for i, r := range f.reservations {
		if r.ID == id {
			if r.Status != from {
				return domain.ErrConflict
			}
			f.reservations[i].Status = to
			return nil
		}
	}
	return domain.ErrNotFound
}

// ---- cache: JSON round-trip like the redis adapter ----

type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}
func (c *fakeCache) DelPrefix(ctx context.Context, prefix string) error {
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			delete(c.store, k)
		}
	}
	c.dels = append(c.dels, prefix+"*")
	return nil
}

// ---- admins / sessions ----

type fakeAdmins struct {
	byEmail map[string]domain.AdminUser
	touched []int64
}

func (f *fakeAdmins) GetAdminByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	return a, nil
}
func (f *fakeAdmins) GetAdminByID(ctx context.Context, id int64) (domain.AdminUser, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.AdminUser{}, domain.ErrNotFound
}
func (f *fakeAdmins) CreateAdmin(ctx context.Context, a domain.AdminUser) (int64, error) {
	if _, ok := f.byEmail[a.Email]; ok {
		return 0, domain.ErrConflict
	}
	a.ID = int64(len(f.byEmail) + 1)
	f.byEmail[a.Email] = a
	return a.ID, nil
}
func (f *fakeAdmins) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeSessions struct{ m map[string]int64 }

func (f *fakeSessions) Put(ctx context.Context, tokenID string, adminID int64, ttl time.Duration) error {
	if f.m == nil {
		f.m = map[string]int64{}
	}
	f.m[tokenID] = adminID
	return nil
}
func (f *fakeSessions) Lookup(ctx context.Context, tokenID string) (int64, error) {
	id, ok := f.m[tokenID]
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return id, nil
}
func (f *fakeSessions) Delete(ctx context.Context, tokenID string) error {
	delete(f.m, tokenID)
	return nil
}

// ---- object store ----

type deleteCall struct {
	bucket string
	paths  []string
}

type fakeStore struct {
	uploads []string
	deletes []deleteCall
	base    string
}

func (f *fakeStore) Upload(ctx context.Context, bucket, path, contentType string, body io.Reader, size int64) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.uploads = append(f.uploads, bucket+"/"+path)
	return nil
}
func (f *fakeStore) Delete(ctx context.Context, bucket string, paths ...string) error {
	f.deletes = append(f.deletes, deleteCall{bucket: bucket, paths: paths})
	return nil
}
func (f *fakeStore) PublicURL(bucket, path string) string {
	return f.base + "/storage/v1/object/public/" + bucket + "/" + path
}

func pfloat(f float64) *float64 { return &f }
