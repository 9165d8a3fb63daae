package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	httpserver "tourism_booking/internal/adapters/http_server"
	"tourism_booking/internal/adapters/observability"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

// adminPage is what the admin templates receive. Admin screens are English only.
type adminPage struct {
	Title    string
	Admin    domain.AdminUser
	Services []domain.ServiceView
	Data     any
	Message  string
	Error    string
}

func (s *Site) newAdminPage(r *http.Request, title string, data any) adminPage {
	a, _ := httpserver.AdminFrom(r.Context())
	services, err := s.Catalog.ListServices(r.Context(), i18n.EN)
	if err != nil {
		log.Warn().Err(err).Msg("admin navigation services unavailable")
	}
	return adminPage{
		Title:    title,
		Admin:    a,
		Services: services,
		Data:     data,
		Message:  r.URL.Query().Get("msg"),
		Error:    r.URL.Query().Get("err"),
	}
}

func (s *Site) requireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(httpserver.SessionCookie)
		if err != nil || c.Value == "" {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		a, err := s.Auth.Authenticate(r.Context(), c.Value)
		if err != nil {
			if httpserver.StatusOf(err) >= http.StatusInternalServerError {
				log.Error().Err(err).Msg("admin session lookup failed")
			}
			httpserver.ClearSessionCookie(w, s.SecureCookie)
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(httpserver.WithAdmin(r.Context(), a)))
	})
}

func (s *Site) adminLoginForm(w http.ResponseWriter, r *http.Request) {
	s.tmpl.render(w, http.StatusOK, "admin_login", adminPage{Title: "Sign in", Error: r.URL.Query().Get("err")})
}

func (s *Site) adminLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.tmpl.render(w, http.StatusBadRequest, "admin_login", adminPage{Title: "Sign in", Error: "Invalid form."})
		return
	}
	res, err := s.Auth.Login(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		p := adminPage{Title: "Sign in", Data: r.PostForm.Get("email")}
		status := httpserver.StatusOf(err)
		switch {
		case errors.Is(err, domain.ErrInactive):
			observability.ObserveLogin("inactive")
			p.Error = "This account is disabled."
		case status < http.StatusInternalServerError:
			observability.ObserveLogin("denied")
			p.Error = "Wrong email or password."
			status = http.StatusUnauthorized
		default:
			observability.ObserveLogin("error")
			log.Error().Err(err).Msg("admin login failed")
			p.Error = "Sign in is unavailable, try again later."
		}
		s.tmpl.render(w, status, "admin_login", p)
		return
	}
	observability.ObserveLogin("ok")
	httpserver.SetSessionCookie(w, res.Token, res.ExpiresAt, s.SecureCookie)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Site) adminLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(httpserver.SessionCookie); err == nil && c.Value != "" {
		if err := s.Auth.Logout(r.Context(), c.Value); err != nil {
			log.Warn().Err(err).Msg("admin logout")
		}
	}
	httpserver.ClearSessionCookie(w, s.SecureCookie)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (s *Site) adminDashboard(w http.ResponseWriter, r *http.Request) {
	st, err := s.Stats.Dashboard(r.Context())
	if err != nil {
		s.adminFail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "admin_dashboard", s.newAdminPage(r, "Dashboard", st))
}

type reservationsData struct {
	Status       string
	Statuses     []domain.ReservationStatus
	Reservations []domain.Reservation
}

func (s *Site) adminReservations(w http.ResponseWriter, r *http.Request) {
	st := domain.ReservationStatus(r.URL.Query().Get("status"))
	if st != "" && !st.Valid() {
		st = ""
	}
	list, err := s.Booking.ListReservations(r.Context(), domain.ReservationFilter{Status: st, Limit: 200})
	if err != nil {
		s.adminFail(w, r, err)
		return
	}
	d := reservationsData{
		Status:       string(st),
		Statuses:     []domain.ReservationStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted},
		Reservations: list,
	}
	s.tmpl.render(w, http.StatusOK, "admin_reservations", s.newAdminPage(r, "Reservations", d))
}

// adminReservationStatus applies a transition posted from the reservations table
// and redirects back with the outcome in the query string.
func (s *Site) adminReservationStatus(w http.ResponseWriter, r *http.Request) {
	back := "/admin/reservations"
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Redirect(w, r, back+"?err="+url.QueryEscape("Unknown reservation."), http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, back+"?err="+url.QueryEscape("Invalid form."), http.StatusSeeOther)
		return
	}
	to := domain.ReservationStatus(r.PostForm.Get("status"))
	if _, err := s.Booking.UpdateStatus(r.Context(), id, to); err != nil {
		msg := "Could not update the reservation."
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			msg = "That status change is not allowed."
		case errors.Is(err, domain.ErrNotFound):
			msg = "Unknown reservation."
		case errors.Is(err, domain.ErrInvalidInput):
			msg = "Unknown status."
		default:
			log.Error().Err(err).Int64("reservation_id", id).Msg("update reservation status")
		}
		http.Redirect(w, r, back+"?err="+url.QueryEscape(msg), http.StatusSeeOther)
		return
	}
	msg := "Reservation #" + strconv.FormatInt(id, 10) + " is now " + string(to) + "."
	http.Redirect(w, r, back+"?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

type listingsData struct {
	Service  string
	Listings []domain.Listing
}

func (s *Site) adminListings(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "service")
	list, err := s.Listings.List(r.Context(), key)
	if err != nil {
		s.adminFail(w, r, err)
		return
	}
	canon, _ := s.aliases.Canonical(key)
	s.tmpl.render(w, http.StatusOK, "admin_listings", s.newAdminPage(r, "Listings", listingsData{Service: canon, Listings: list}))
}

func (s *Site) adminFail(w http.ResponseWriter, r *http.Request, err error) {
	status := httpserver.StatusOf(err)
	p := s.newAdminPage(r, "Error", nil)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("admin page failed")
		p.Error = "Something went wrong."
	} else {
		p.Error = http.StatusText(status)
	}
	s.tmpl.render(w, status, "admin_dashboard", p)
}
