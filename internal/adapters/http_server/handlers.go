package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tourism_booking/internal/adapters/observability"
	"tourism_booking/internal/app"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

// Handlers serves the JSON API.
type Handlers struct {
	Catalog  *app.CatalogService
	Booking  *app.BookingService
	Listings *app.AdminCatalogService
	Auth     *app.AuthService
	Media    *app.MediaService
	Settings *app.SettingsService
	Stats    *app.StatsService

	Campaigns   *app.ContentService[domain.Campaign]
	Blog        *app.ContentService[domain.BlogPost]
	Pages       *app.ContentService[domain.Page]
	GeneralFaqs *app.ContentService[domain.GeneralFaq]
	Faqs        *app.ContentService[domain.Faq]

	Limiter      *IPLimiter
	SecureCookie bool
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
}

const maxJSONBody = 1 << 20

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// StatusOf maps domain errors onto HTTP status codes.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrInactive):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDatesTaken), errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

// writeError renders err as problem+json. Internal errors are logged and never echoed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	p := problem{Type: "about:blank", Title: http.StatusText(status), Status: status}
	switch {
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Str("route", routeOf(r)).Str("method", r.Method).Msg("request failed")
	case errors.Is(err, domain.ErrDatesTaken):
		p.Detail = i18n.T(localeOf(r), "dates_taken")
	case errors.Is(err, domain.ErrConflict):
		// the wrapped datastore message stays in the log
		log.Debug().Err(err).Str("route", routeOf(r)).Msg("conflict")
		p.Detail = i18n.T(localeOf(r), "conflict")
	case errors.Is(err, domain.ErrInactive):
		p.Detail = "account is inactive"
	case status == http.StatusUnauthorized:
		p.Detail = "authentication required"
	default:
		p.Detail = err.Error()
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		p.Field = ve.Field
	}
	writeProblemBody(w, p)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached answers public GETs with an ETag and honors If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any, locale string) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if locale != "" {
		w.Header().Set("Content-Language", locale)
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("body", "empty request body")
		}
		return domain.Invalid("body", err.Error())
	}
	return nil
}

// localeOf prefers ?locale=, then ?lang=, then Accept-Language.
func localeOf(r *http.Request) string {
	q := r.URL.Query()
	for _, k := range []string{"locale", "lang"} {
		if v := q.Get(k); v != "" {
			return i18n.Normalize(v)
		}
	}
	return i18n.FromAcceptLanguage(r.Header.Get("Accept-Language"))
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, domain.Invalid(name, "must be a non-negative integer")
	}
	return n, nil
}

func queryDate(r *http.Request, name string) (domain.Date, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, domain.Invalid(name, "must be YYYY-MM-DD")
	}
	return d, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, domain.Invalid(name, "must be true or false")
	}
	return &b, nil
}

// ---- catalog ----

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	loc := localeOf(r)
	out, err := h.Catalog.ListServices(r.Context(), loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out, loc)
}

func (h *Handlers) listListings(w http.ResponseWriter, r *http.Request) {
	loc := localeOf(r)
	out, err := h.Catalog.ListListings(r.Context(), chi.URLParam(r, "service"), loc, r.URL.Query().Get("segment"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out, loc)
}

func (h *Handlers) getListing(w http.ResponseWriter, r *http.Request) {
	loc := localeOf(r)
	out, err := h.Catalog.GetListing(r.Context(), chi.URLParam(r, "service"), chi.URLParam(r, "slug"), loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out, loc)
}

func (h *Handlers) listSegments(w http.ResponseWriter, r *http.Request) {
	loc := localeOf(r)
	out, err := h.Catalog.ListSegments(r.Context(), loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out, loc)
}

// ---- availability ----

func (h *Handlers) getAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := queryInt64(r, "listing_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	from, err := queryDate(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Booking.ListAvailability(r.Context(), id, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out, "")
}

func (h *Handlers) postAvailability(w http.ResponseWriter, r *http.Request) {
	var a domain.Availability
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Booking.UpsertAvailability(r.Context(), []domain.Availability{a}); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) putAvailability(w http.ResponseWriter, r *http.Request) {
	var rows []domain.Availability
	if err := decodeJSON(w, r, &rows); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Booking.UpsertAvailability(r.Context(), rows); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(rows)})
}

// ---- reservations ----

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	id, err := queryInt64(r, "listing_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt64(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	f := domain.ReservationFilter{
		ListingID: id,
		Status:    domain.ReservationStatus(r.URL.Query().Get("status")),
		Limit:     int(limit),
	}
	out, err := h.Booking.ListReservations(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var in app.ReservationInput
	if err := decodeJSON(w, r, &in); err != nil {
		observability.ObserveReservation("invalid")
		writeError(w, r, err)
		return
	}
	res, err := h.Booking.CreateReservation(r.Context(), in)
	if err != nil {
		observability.ObserveReservation(reservationOutcome(err))
		writeError(w, r, err)
		return
	}
	observability.ObserveReservation("created")
	log.Info().Int64("reservation_id", res.ID).Int64("listing_id", res.ListingID).
		Str("start", res.StartDate.String()).Str("end", res.EndDate.String()).Msg("reservation created")
	writeJSON(w, http.StatusCreated, res)
}

func reservationOutcome(err error) string {
	switch StatusOf(err) {
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadRequest, http.StatusNotFound:
		return "invalid"
	}
	return "error"
}

func (h *Handlers) patchReservation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Status domain.ReservationStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Booking.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ---- hero ----

func (h *Handlers) getHero(w http.ResponseWriter, r *http.Request) {
	out, err := h.Settings.Hero(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out, "")
}

func (h *Handlers) putHero(w http.ResponseWriter, r *http.Request) {
	var in domain.HeroSettings
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Settings.PutHero(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
