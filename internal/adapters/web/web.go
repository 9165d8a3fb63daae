// Package web renders the localized public site and the server-side admin screens.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	httpserver "tourism_booking/internal/adapters/http_server"
	"tourism_booking/internal/app"
	"tourism_booking/internal/catalog"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

// Links are the contact URLs shown in the footer.
type Links struct {
	WhatsApp  string
	Instagram string
	Maps      string
}

type Deps struct {
	Catalog   *app.CatalogService
	Booking   *app.BookingService
	Listings  *app.AdminCatalogService
	Auth      *app.AuthService
	Settings  *app.SettingsService
	Stats     *app.StatsService
	Campaigns *app.ContentService[domain.Campaign]
	Blog      *app.ContentService[domain.BlogPost]
	Pages     *app.ContentService[domain.Page]
	Faqs      *app.ContentService[domain.GeneralFaq]

	Links        Links
	SecureCookie bool
	Limiter      *httpserver.IPLimiter
}

type Site struct {
	Deps
	aliases *catalog.Table
	tmpl    *renderer
}

func New(d Deps) (*Site, error) {
	aliases := catalog.Default
	if d.Catalog != nil {
		aliases = d.Catalog.Aliases()
	}
	r, err := newRenderer(aliases)
	if err != nil {
		return nil, err
	}
	return &Site{Deps: d, aliases: aliases, tmpl: r}, nil
}

// Mount registers page routes. Static API and admin prefixes win over the
// /{locale} patterns in chi's tree.
func (s *Site) Mount(r chi.Router) {
	r.Get("/", s.rootRedirect)

	r.Route("/admin", func(r chi.Router) {
		login := http.HandlerFunc(s.adminLoginSubmit)
		if s.Limiter != nil {
			r.Post("/login", s.Limiter.Middleware(login).ServeHTTP)
		} else {
			r.Post("/login", login)
		}
		r.Get("/login", s.adminLoginForm)
		r.Get("/logout", s.adminLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdminPage)
			r.Get("/", s.adminDashboard)
			r.Get("/reservations", s.adminReservations)
			r.Post("/reservations/{id}", s.adminReservationStatus)
			r.Get("/listings/{service}", s.adminListings)
		})
	})

	r.Route("/{locale}", func(r chi.Router) {
		r.Use(s.requireLocale)
		r.Get("/", s.home)
		r.Get("/blog", s.blog)
		r.Get("/blog/{slug}", s.post)
		r.Get("/faq", s.faq)
		r.Get("/campaigns", s.campaigns)
		r.Get("/campaigns/{slug}", s.campaign)
		r.Get("/page/{slug}", s.page)
		r.Get("/{service}", s.service)
		r.Get("/{service}/{slug}", s.listing)
		r.Post("/{service}/{slug}", s.reserve)
	})
}

func (s *Site) rootRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+i18n.FromAcceptLanguage(r.Header.Get("Accept-Language"))+"/", http.StatusFound)
}

type localeKey struct{}

func (s *Site) requireLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc := chi.URLParam(r, "locale")
		if !i18n.Supported(loc) {
			s.notFound(w, r, i18n.FromAcceptLanguage(r.Header.Get("Accept-Language")))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey{}, loc)))
	})
}

func localeFrom(r *http.Request) string {
	if l, ok := r.Context().Value(localeKey{}).(string); ok {
		return l
	}
	return i18n.Default
}

// page is what every public template receives.
type page struct {
	Locale   string
	Dir      string
	Title    string
	Path     string
	Services []domain.ServiceView
	Links    Links
	Data     any
	Message  string
	Error    string
}

func (s *Site) newPage(r *http.Request, title string, data any) page {
	loc := localeFrom(r)
	services, err := s.Catalog.ListServices(r.Context(), loc)
	if err != nil {
		log.Warn().Err(err).Msg("navigation services unavailable")
	}
	return page{
		Locale:   loc,
		Dir:      dirOf(loc),
		Title:    title,
		Path:     r.URL.Path,
		Services: services,
		Links:    s.Links,
		Data:     data,
	}
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request, loc string) {
	r = r.WithContext(context.WithValue(r.Context(), localeKey{}, loc))
	s.tmpl.render(w, http.StatusNotFound, "notfound", s.newPage(r, i18n.T(loc, "not_found"), nil))
}

// fail renders the 404 page for missing things and logs anything else.
func (s *Site) fail(w http.ResponseWriter, r *http.Request, err error) {
	loc := localeFrom(r)
	if httpserver.StatusOf(err) == http.StatusNotFound {
		s.notFound(w, r, loc)
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("page failed")
	p := s.newPage(r, i18n.T(loc, "error_generic"), nil)
	p.Error = i18n.T(loc, "error_generic")
	s.tmpl.render(w, http.StatusInternalServerError, "notfound", p)
}
