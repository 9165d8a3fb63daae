package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tourism_booking/internal/adapters/observability"
	"tourism_booking/internal/app"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

type homeData struct {
	Hero      domain.HeroSettings
	Campaigns []domain.Campaign
	Posts     []domain.BlogPost
}

func (s *Site) home(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r)
	featured := true
	var d homeData

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		d.Hero, err = s.Settings.Hero(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Campaigns, err = s.Campaigns.List(ctx, app.ContentQuery{
			ContentFilter: domain.ContentFilter{Featured: &featured, Limit: 6}, Locale: loc,
		})
		return err
	})
	g.Go(func() (err error) {
		d.Posts, err = s.Blog.List(ctx, app.ContentQuery{
			ContentFilter: domain.ContentFilter{Featured: &featured, Limit: 3}, Locale: loc,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "home", s.newPage(r, d.Hero.Title.In(loc), d))
}

type serviceData struct {
	Service  domain.ServiceView
	Slug     string
	Listings []domain.ListingView
	Segments []domain.SegmentView
	Segment  string
}

func (s *Site) service(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r)
	alias := chi.URLParam(r, "service")
	svc, err := s.Catalog.GetService(r.Context(), alias, loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	d := serviceData{Service: svc, Slug: svc.Slug, Segment: r.URL.Query().Get("segment")}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		d.Listings, err = s.Catalog.ListListings(ctx, svc.Slug, loc, d.Segment)
		return err
	})
	if svc.Slug == "car-rental" {
		g.Go(func() (err error) {
			d.Segments, err = s.Catalog.ListSegments(ctx, loc)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "service", s.newPage(r, svc.Title, d))
}

type listingData struct {
	Service string
	Detail  domain.ListingDetail
	Form    app.ReservationInput
}

func (s *Site) listing(w http.ResponseWriter, r *http.Request) {
	d, err := s.listingData(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "listing", s.newPage(r, d.Detail.Listing.Title, d))
}

func (s *Site) listingData(r *http.Request) (listingData, error) {
	loc := localeFrom(r)
	alias := chi.URLParam(r, "service")
	det, err := s.Catalog.GetListing(r.Context(), alias, chi.URLParam(r, "slug"), loc)
	if err != nil {
		return listingData{}, err
	}
	canon, _ := s.aliases.Canonical(alias)
	return listingData{Service: canon, Detail: det, Form: app.ReservationInput{GuestsCount: 1}}, nil
}

// reserve handles the booking form and re-renders the listing with the outcome.
func (s *Site) reserve(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r)
	d, err := s.listingData(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := reservationForm(r, d.Detail.Listing.ID)
	if err == nil {
		_, err = s.Booking.CreateReservation(r.Context(), in)
	}
	d.Form = in
	p := s.newPage(r, d.Detail.Listing.Title, d)

	status := http.StatusOK
	switch {
	case err == nil:
		observability.ObserveReservation("created")
		p.Message = i18n.T(loc, "reservation_ok")
		d.Form = app.ReservationInput{GuestsCount: 1}
		p.Data = d
	case errors.Is(err, domain.ErrDatesTaken):
		observability.ObserveReservation("conflict")
		status = http.StatusConflict
		p.Error = i18n.T(loc, "dates_taken")
	case errors.Is(err, domain.ErrInvalidInput):
		observability.ObserveReservation("invalid")
		status = http.StatusBadRequest
		p.Error = i18n.T(loc, "reservation_invalid")
	default:
		observability.ObserveReservation("error")
		log.Error().Err(err).Int64("listing_id", d.Detail.Listing.ID).Msg("reservation form failed")
		status = http.StatusInternalServerError
		p.Error = i18n.T(loc, "error_generic")
	}
	s.tmpl.render(w, status, "listing", p)
}

func reservationForm(r *http.Request, listingID int64) (app.ReservationInput, error) {
	if err := r.ParseForm(); err != nil {
		return app.ReservationInput{}, domain.Invalid("form", err.Error())
	}
	in := app.ReservationInput{
		ListingID:       listingID,
		CustomerName:    r.PostForm.Get("customer_name"),
		CustomerEmail:   r.PostForm.Get("customer_email"),
		CustomerPhone:   r.PostForm.Get("customer_phone"),
		SpecialRequests: r.PostForm.Get("special_requests"),
	}
	var err error
	if in.StartDate, err = domain.ParseDate(strings.TrimSpace(r.PostForm.Get("start_date"))); err != nil {
		return in, domain.Invalid("start_date", "must be YYYY-MM-DD")
	}
	if in.EndDate, err = domain.ParseDate(strings.TrimSpace(r.PostForm.Get("end_date"))); err != nil {
		return in, domain.Invalid("end_date", "must be YYYY-MM-DD")
	}
	if g := strings.TrimSpace(r.PostForm.Get("guests_count")); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil {
			return in, domain.Invalid("guests_count", "must be a number")
		}
		in.GuestsCount = n
	}
	return in, nil
}

// ---- content pages ----

func (s *Site) blog(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r)
	posts, err := s.Blog.List(r.Context(), app.ContentQuery{Locale: loc})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "blog", s.newPage(r, i18n.T(loc, "blog"), posts))
}

func (s *Site) post(w http.ResponseWriter, r *http.Request) {
	p, err := s.Blog.GetBySlug(r.Context(), chi.URLParam(r, "slug"), localeFrom(r), false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "post", s.newPage(r, p.Localized["title"], p))
}

func (s *Site) faq(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r)
	items, err := s.Faqs.List(r.Context(), app.ContentQuery{Locale: loc})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "faq", s.newPage(r, i18n.T(loc, "faq"), items))
}

func (s *Site) campaigns(w http.ResponseWriter, r *http.Request) {
	loc := localeFrom(r)
	items, err := s.Campaigns.List(r.Context(), app.ContentQuery{Locale: loc})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "campaigns", s.newPage(r, i18n.T(loc, "campaigns"), items))
}

func (s *Site) campaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.Campaigns.GetBySlug(r.Context(), chi.URLParam(r, "slug"), localeFrom(r), false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "campaign", s.newPage(r, c.Localized["title"], c))
}

func (s *Site) page(w http.ResponseWriter, r *http.Request) {
	p, err := s.Pages.GetBySlug(r.Context(), chi.URLParam(r, "slug"), localeFrom(r), false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.tmpl.render(w, http.StatusOK, "page", s.newPage(r, p.Localized["title"], p))
}
