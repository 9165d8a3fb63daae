package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "tourism_booking/internal/adapters/http_server"
	redisad "tourism_booking/internal/adapters/redis"
	"tourism_booking/internal/app"
	"tourism_booking/internal/catalog"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/security"
)

// ---- fakes ----

// memCatalog implements the read paths the handlers reach; anything else panics.
type memCatalog struct {
	domain.CatalogRepository
	listing domain.Listing
}

func (m *memCatalog) ListServices(ctx context.Context, locale string) ([]domain.ServiceRecord, error) {
	s, _ := m.GetServiceBySlug(ctx, "car-rental", locale)
	return []domain.ServiceRecord{s}, nil
}
func (m *memCatalog) GetServiceBySlug(ctx context.Context, slug, locale string) (domain.ServiceRecord, error) {
	if slug != "car-rental" {
		return domain.ServiceRecord{}, domain.ErrNotFound
	}
	return domain.ServiceRecord{
		Service:   domain.Service{ID: 1, Slug: "car-rental", Name: "Araç Kiralama", Active: true},
		Localized: &domain.ServiceI18n{ServiceID: 1, Locale: locale, Title: "Car Rental"},
	}, nil
}
func (m *memCatalog) ListListings(ctx context.Context, serviceID int64, locale string, f domain.ListingFilter) ([]domain.ListingRecord, error) {
	if serviceID != 1 {
		return nil, nil
	}
	return []domain.ListingRecord{{Listing: m.listing, SegmentSlug: "economic"}}, nil
}
func (m *memCatalog) GetListingBySlug(ctx context.Context, serviceID int64, slug, locale string) (domain.ListingRecord, error) {
	if serviceID == 1 && slug == m.listing.Slug {
		return domain.ListingRecord{Listing: m.listing}, nil
	}
	return domain.ListingRecord{}, domain.ErrNotFound
}
func (m *memCatalog) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	if id != m.listing.ID {
		return domain.Listing{}, domain.ErrNotFound
	}
	return m.listing, nil
}

type memBooking struct {
	mu   sync.Mutex
	rows []domain.Reservation
}

func (m *memBooking) ListAvailability(ctx context.Context, id int64, from, to domain.Date) ([]domain.Availability, error) {
	return []domain.Availability{}, nil
}
func (m *memBooking) UpsertAvailability(ctx context.Context, rows []domain.Availability) error {
	return nil
}
func (m *memBooking) ListReservations(ctx context.Context, f domain.ReservationFilter) ([]domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Reservation{}, m.rows...), nil
}
func (m *memBooking) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Reservation{}, domain.ErrNotFound
}
func (m *memBooking) CreateReservationIfFree(ctx context.Context, r domain.Reservation) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.rows {
		if x.ListingID == r.ListingID && !x.Status.Terminal() && domain.Overlaps(r.StartDate, r.EndDate, x.StartDate, x.EndDate) {
			return 0, domain.ErrDatesTaken
		}
	}
	r.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, r)
	return r.ID, nil
}
func (m *memBooking) UpdateReservationStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			if m.rows[i].Status != from {
				return domain.ErrConflict
			}
			m.rows[i].Status = to
			return nil
		}
	}
	return domain.ErrNotFound
}

type memAdmins struct {
	mu   sync.Mutex
	byID map[int64]domain.AdminUser
}

func (m *memAdmins) GetAdminByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.AdminUser{}, domain.ErrNotFound
}
func (m *memAdmins) GetAdminByID(ctx context.Context, id int64) (domain.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	return a, nil
}
func (m *memAdmins) CreateAdmin(ctx context.Context, a domain.AdminUser) (int64, error) {
	// shaped like the repository's wrapped MySQL 1062 error
	return 0, fmt.Errorf("%w: Duplicate entry '%s' for key 'admin_users.email'", domain.ErrConflict, a.Email)
}
func (m *memAdmins) TouchLastLogin(ctx context.Context, id int64, at time.Time) error { return nil }

func (m *memAdmins) deactivate(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.byID[id]
	a.Active = false
	m.byID[id] = a
}

type memStore struct {
	mu      sync.Mutex
	uploads int
	deletes [][]string
}

func (m *memStore) Upload(ctx context.Context, bucket, path, ct string, body io.Reader, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	_, err := io.Copy(io.Discard, body)
	return err
}
func (m *memStore) Delete(ctx context.Context, bucket string, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, append([]string{bucket}, paths...))
	return nil
}
func (m *memStore) PublicURL(bucket, path string) string {
	return "https://cdn.test/storage/v1/object/public/" + bucket + "/" + path
}

// ---- harness ----

type harness struct {
	ts     *httptest.Server
	admins *memAdmins
	store  *memStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redisad.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })
	cache := redisad.New(rc)

	hash, err := security.HashPassword("correct-horse")
	require.NoError(t, err)
	admins := &memAdmins{byID: map[int64]domain.AdminUser{
		1: {ID: 1, Email: "boss@example.com", PasswordHash: hash, Role: domain.RoleSuperAdmin, Active: true},
	}}
	store := &memStore{}
	cat := &memCatalog{listing: domain.Listing{
		ID: 7, ServiceID: 1, Slug: "clio", Name: "Renault Clio", Active: true, PricePerDay: func() *float64 { f := 40.0; return &f }(),
	}}
	book := &memBooking{}

	catalogSvc := app.NewCatalogService(cat, book, cache, time.Minute, catalog.Default, store, time.UTC)
	media := app.NewMediaService(store, "listings", 1024)
	h := &httpserver.Handlers{
		Catalog:  catalogSvc,
		Booking:  app.NewBookingService(book, cat, cache, time.UTC, nil),
		Listings: app.NewAdminCatalogService(cat, media, catalog.Default, catalogSvc),
		Auth:     app.NewAuthService(admins, security.NewTokenManager("test-secret", time.Hour), redisad.NewSessions(rc)),
		Media:    media,
		Limiter:  httpserver.NewIPLimiter(100, 100),
	}
	srv := httpserver.New()
	srv.MountHandlers(h)
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return &harness{ts: ts, admins: admins, store: store}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.ts.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func (h *harness) login(t *testing.T) string {
	t.Helper()
	res := h.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "boss@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	out := decode[app.LoginResult](t, res)
	require.NotEmpty(t, out.Token)
	return out.Token
}

type problemBody struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Field  string `json:"field"`
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	res := h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestListings_AliasAndETag(t *testing.T) {
	h := newHarness(t)

	res := h.do(t, http.MethodGet, "/api/listings/arenda-avtomobiley?locale=ru", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ru", res.Header.Get("Content-Language"))
	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)
	out := decode[[]domain.ListingView](t, res)
	require.Len(t, out, 1)
	assert.Equal(t, "Renault Clio", out[0].Title)

	req, _ := http.NewRequest(http.MethodGet, h.ts.URL+"/api/listings/car-rental?locale=ru", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusNotModified, res2.StatusCode)

	res = h.do(t, http.MethodGet, "/api/listings/spaceships", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, decode[[]domain.ListingView](t, res))

	res = h.do(t, http.MethodGet, "/api/listings/car/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "application/problem+json", res.Header.Get("Content-Type"))
}

func TestReservations_ConflictIsLocalized(t *testing.T) {
	h := newHarness(t)
	start := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	end := time.Now().UTC().AddDate(0, 0, 14).Format("2006-01-02")
	body := map[string]any{
		"listing_id": 7, "customer_name": "Ada", "customer_email": "ada@example.com",
		"customer_phone": "+90555", "start_date": start, "end_date": end,
	}

	res := h.do(t, http.MethodPost, "/api/reservations", "", body)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	r := decode[domain.Reservation](t, res)
	assert.Equal(t, domain.StatusPending, r.Status)
	require.NotNil(t, r.TotalPrice)
	assert.InDelta(t, 160.0, *r.TotalPrice, 0.001)

	res = h.do(t, http.MethodPost, "/api/reservations?locale=en", "", body)
	require.Equal(t, http.StatusConflict, res.StatusCode)
	p := decode[problemBody](t, res)
	assert.Equal(t, "The selected dates are already reserved.", p.Detail)

	body["start_date"] = "2001-01-01"
	res = h.do(t, http.MethodPost, "/api/reservations", "", body)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "start_date", decode[problemBody](t, res).Field)
}

func TestAdmin_SessionLifecycle(t *testing.T) {
	h := newHarness(t)

	res := h.do(t, http.MethodGet, "/api/admin/check", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res = h.do(t, http.MethodGet, "/api/reservations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = h.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "boss@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	token := h.login(t)
	res = h.do(t, http.MethodGet, "/api/admin/check", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = h.do(t, http.MethodPost, "/api/admin/logout", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = h.do(t, http.MethodGet, "/api/admin/check", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAdmin_DuplicateKeepsDatastoreMessagePrivate(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)

	res := h.do(t, http.MethodPost, "/api/admin/create?locale=en", token, map[string]string{
		"email": "boss@example.com", "password": "long-enough-1", "role": "admin",
	})
	require.Equal(t, http.StatusConflict, res.StatusCode)
	p := decode[problemBody](t, res)
	assert.Equal(t, "This record already exists or is still in use.", p.Detail)
	assert.NotContains(t, p.Detail, "Duplicate entry")
	assert.NotContains(t, p.Detail, "boss@example.com")
}

func TestAdmin_CookieSession(t *testing.T) {
	h := newHarness(t)
	res := h.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "boss@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == httpserver.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	req, _ := http.NewRequest(http.MethodGet, h.ts.URL+"/api/admin/check", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	res2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusOK, res2.StatusCode)
}

func TestAdmin_DeactivatedIsForbidden(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)

	h.admins.deactivate(1)
	res := h.do(t, http.MethodGet, "/api/admin/check", token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// the session was dropped; the same token is now simply unauthenticated
	res = h.do(t, http.MethodGet, "/api/admin/check", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestReservations_StatusMachineOverHTTP(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)
	start := time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	end := time.Now().UTC().AddDate(0, 0, 31).Format("2006-01-02")
	res := h.do(t, http.MethodPost, "/api/reservations", "", map[string]any{
		"listing_id": 7, "customer_name": "Ada", "customer_email": "ada@example.com",
		"customer_phone": "+90555", "start_date": start, "end_date": end, "total_price": 10,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	id := decode[domain.Reservation](t, res).ID

	path := "/api/reservations/" + jsonNum(id)
	res = h.do(t, http.MethodPatch, path, token, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	res = h.do(t, http.MethodPatch, path, token, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res = h.do(t, http.MethodPatch, path, token, map[string]string{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = h.do(t, http.MethodGet, "/api/reservations", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	rows := decode[[]domain.Reservation](t, res)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.StatusConfirmed, rows[0].Status)
}

func jsonNum(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func multipartBody(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "photo.bin")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("bucket", "listings"))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestStorage_UploadValidatesBeforeBackend(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)

	send := func(content []byte) *http.Response {
		body, ct := multipartBody(t, content)
		req, _ := http.NewRequest(http.MethodPost, h.ts.URL+"/api/storage", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+token)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = res.Body.Close() })
		return res
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	res := send(png)
	require.Equal(t, http.StatusOK, res.StatusCode)
	up := decode[app.UploadResult](t, res)
	assert.True(t, up.Success)
	assert.True(t, strings.HasSuffix(up.Path, ".png"))

	res = send([]byte("%PDF-1.4 not an image"))
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)

	big := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 2048)...)
	res = send(big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)

	assert.Equal(t, 1, h.store.uploads)
}

func TestStorage_DeleteByURLOrPath(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)

	res := h.do(t, http.MethodDelete, "/api/storage?bucket=listings&path=https://cdn.test/storage/v1/object/public/listings/cars/a.jpg", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = h.do(t, http.MethodDelete, "/api/storage?bucket=listings&path=cars/a.jpg", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	assert.Equal(t, [][]string{{"listings", "cars/a.jpg"}, {"listings", "cars/a.jpg"}}, h.store.deletes)

	res = h.do(t, http.MethodDelete, "/api/storage?path=a.jpg", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLogin_RateLimited(t *testing.T) {
	limiter := httpserver.NewIPLimiter(0.001, 2)
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestLoginLimiter_ForwardedHeaders(t *testing.T) {
	attempts := func(t *testing.T, srv *httpserver.Server) []int {
		t.Helper()
		limiter := httpserver.NewIPLimiter(0.001, 2)
		srv.Router().With(limiter.Middleware).Post("/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		ts := httptest.NewServer(srv.Mux())
		t.Cleanup(ts.Close)

		var codes []int
		for i := 0; i < 3; i++ {
			req, err := http.NewRequest(http.MethodPost, ts.URL+"/login", nil)
			require.NoError(t, err)
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
			res, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			_ = res.Body.Close()
			codes = append(codes, res.StatusCode)
		}
		return codes
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests},
		attempts(t, httpserver.New()), "rotating the header does not reset the bucket")
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusNoContent},
		attempts(t, httpserver.New(httpserver.WithTrustedProxy(true))), "behind a trusted proxy each client has its own bucket")
}

func TestStatusOf(t *testing.T) {
	cases := map[error]int{
		domain.Invalid("x", "y"):    http.StatusBadRequest,
		domain.ErrUnauthorized:      http.StatusUnauthorized,
		domain.ErrInactive:          http.StatusForbidden,
		domain.ErrNotFound:          http.StatusNotFound,
		domain.ErrDatesTaken:        http.StatusConflict,
		domain.ErrInvalidTransition: http.StatusConflict,
		domain.ErrFileTooLarge:      http.StatusRequestEntityTooLarge,
		domain.ErrUnsupportedType:   http.StatusUnsupportedMediaType,
		io.ErrUnexpectedEOF:         http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, httpserver.StatusOf(err), err.Error())
	}
}
