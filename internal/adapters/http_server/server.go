package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

type Option func(*options)

type options struct{ trustProxy bool }

// WithTrustedProxy lets X-Forwarded-For / X-Real-IP replace the peer address.
// Only enable it behind a proxy that overwrites those headers.
func WithTrustedProxy(on bool) Option { return func(o *options) { o.trustProxy = on } }

func New(opts ...Option) *Server {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	m := chi.NewRouter()

	// all middlewares go here (before any routes are added)
	if o.trustProxy {
		m.Use(chimw.RealIP)
	}
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(30 * time.Second))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Router exposes the chi router for page handlers living in other packages.
func (s *Server) Router() chi.Router { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

func (s *Server) MountHandlers(h *Handlers) {
	admin := RequireAdmin(h.Auth)
	optional := OptionalAdmin(h.Auth)
	limiter := h.Limiter
	if limiter == nil {
		limiter = NewIPLimiter(1, 5)
	}

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/services", h.listServices)
		r.Get("/car-segments", h.listSegments)
		r.Get("/listings/{service}", h.listListings)
		r.Get("/listings/{service}/{slug}", h.getListing)

		r.Get("/availability", h.getAvailability)
		r.With(admin).Post("/availability", h.postAvailability)
		r.With(admin).Put("/availability", h.putAvailability)

		r.Post("/reservations", h.createReservation)
		r.With(admin).Get("/reservations", h.listReservations)
		r.With(admin).Patch("/reservations/{id}", h.patchReservation)

		mountContent(r, "/campaigns", h.Campaigns, h.Catalog, optional, admin)
		mountContent(r, "/blog", h.Blog, h.Catalog, optional, admin)
		mountContent(r, "/pages", h.Pages, h.Catalog, optional, admin)
		mountContent(r, "/general-faqs", h.GeneralFaqs, h.Catalog, optional, admin)
		mountContent(r, "/faqs", h.Faqs, h.Catalog, optional, admin)

		r.Get("/hero", h.getHero)
		r.With(admin).Put("/hero", h.putHero)

		r.With(admin).Post("/storage", h.upload)
		r.With(admin).Delete("/storage", h.deleteObject)

		r.Route("/admin", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/login", h.login)
			r.Post("/logout", h.logout)

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/check", h.check)
				r.Post("/create", h.createAdmin)
				r.Post("/test-password", h.testPassword)
				r.Get("/stats", h.stats)

				r.Get("/listings/{service}", h.adminListListings)
				r.Post("/listings/{service}", h.adminCreateListing)
				r.Get("/listings/{service}/{id}", h.adminGetListing)
				r.Put("/listings/{service}/{id}", h.adminUpdateListing)
				r.Delete("/listings/{service}/{id}", h.adminDeleteListing)

				r.Get("/car-segments", h.adminListSegments)
				r.Post("/car-segments", h.adminCreateSegment)
				r.Put("/car-segments/{id}", h.adminUpdateSegment)
				r.Delete("/car-segments/{id}", h.adminDeleteSegment)
			})
		})
	})
}
