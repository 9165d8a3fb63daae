package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tourism_booking/internal/catalog"
	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

var publicPages = []string{"home", "service", "listing", "blog", "post", "faq", "campaigns", "campaign", "page", "notfound"}

var adminPages = []string{"admin_login", "admin_dashboard", "admin_reservations", "admin_listings"}

// renderer holds one parsed template set per page: the layout plus the page body.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(aliases *catalog.Table) (*renderer, error) {
	funcs := templateFuncs(aliases)
	r := &renderer{pages: make(map[string]*template.Template)}
	for _, name := range publicPages {
		t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	for _, name := range adminPages {
		t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/admin_layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render buffers the page so a template error never leaves a half-written response.
func (r *renderer) render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("unknown template")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template execute error")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Str("template", name).Msg("write page failed")
	}
}

func templateFuncs(aliases *catalog.Table) template.FuncMap {
	return template.FuncMap{
		"t":   i18n.T,
		"dir": func(locale string) string { return dirOf(locale) },
		"servicePath": func(locale, slug string) string {
			return "/" + locale + "/" + aliases.PathFor(slug, locale)
		},
		"price": func(p *float64) string {
			if p == nil {
				return ""
			}
			return strconv.FormatFloat(*p, 'f', -1, 64)
		},
		"date": func(d domain.Date) string { return d.String() },
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"nl2br": func(s string) template.HTML {
			return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
		},
		"locales": func() []string { return i18n.Locales },
		"upper":   strings.ToUpper,
		"next":    nextStatuses,
	}
}

func dirOf(locale string) string {
	if i18n.IsRTL(locale) {
		return "rtl"
	}
	return "ltr"
}

// nextStatuses lists the transitions the reservation table offers.
func nextStatuses(from domain.ReservationStatus) []domain.ReservationStatus {
	var out []domain.ReservationStatus
	for _, to := range []domain.ReservationStatus{domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled} {
		if from.CanTransition(to) {
			out = append(out, to)
		}
	}
	return out
}
