package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tourism_booking/internal/adapters/observability"
	"tourism_booking/internal/app"
	"tourism_booking/internal/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetSessionCookie mirrors the JSON token into an HttpOnly cookie for the server-rendered admin.
func SetSessionCookie(w http.ResponseWriter, token string, exp time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInactive):
		return "inactive"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidInput):
		return "denied"
	}
	return "error"
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	observability.ObserveLogin(loginOutcome(err))
	if err != nil {
		log.Info().Str("remote", remoteIP(r)).Str("outcome", loginOutcome(err)).Msg("admin login refused")
		writeError(w, r, err)
		return
	}
	SetSessionCookie(w, res.Token, res.ExpiresAt, h.SecureCookie)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), sessionToken(r)); err != nil {
		writeError(w, r, err)
		return
	}
	ClearSessionCookie(w, h.SecureCookie)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) check(w http.ResponseWriter, r *http.Request) {
	a, _ := AdminFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "admin": a})
}

func (h *Handlers) createAdmin(w http.ResponseWriter, r *http.Request) {
	actor, _ := AdminFrom(r.Context())
	var in app.NewAdminInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.Auth.CreateAdmin(r.Context(), actor, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info().Int64("admin_id", a.ID).Int64("created_by", actor.ID).Str("role", string(a.Role)).Msg("admin created")
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handlers) testPassword(w http.ResponseWriter, r *http.Request) {
	actor, _ := AdminFrom(r.Context())
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.Auth.TestPassword(r.Context(), actor, in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"match": ok})
}

// ---- listings ----

func (h *Handlers) adminListListings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Listings.List(r.Context(), chi.URLParam(r, "service"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) adminGetListing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Listings.Get(r.Context(), chi.URLParam(r, "service"), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) adminCreateListing(w http.ResponseWriter, r *http.Request) {
	var in app.ListingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Listings.Create(r.Context(), chi.URLParam(r, "service"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) adminUpdateListing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in app.ListingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Listings.Update(r.Context(), chi.URLParam(r, "service"), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) adminDeleteListing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Listings.Delete(r.Context(), chi.URLParam(r, "service"), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- car segments ----

func (h *Handlers) adminListSegments(w http.ResponseWriter, r *http.Request) {
	out, err := h.Listings.ListSegments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) adminCreateSegment(w http.ResponseWriter, r *http.Request) {
	var in app.SegmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Listings.CreateSegment(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) adminUpdateSegment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in app.SegmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Listings.UpdateSegment(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) adminDeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Listings.DeleteSegment(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Stats.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
