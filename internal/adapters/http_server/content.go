package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tourism_booking/internal/app"
	"tourism_booking/internal/domain"
)

// contentRoutes exposes one content kind: public reads, admin writes.
// Admins presenting a session may pass include_hidden=true to see drafts.
type contentRoutes[T domain.ContentItem[T]] struct {
	svc     *app.ContentService[T]
	catalog *app.CatalogService
}

func mountContent[T domain.ContentItem[T]](r chi.Router, path string, svc *app.ContentService[T], cat *app.CatalogService, optional, admin func(http.Handler) http.Handler) {
	if svc == nil {
		return
	}
	c := &contentRoutes[T]{svc: svc, catalog: cat}
	r.Route(path, func(r chi.Router) {
		r.With(optional).Get("/", c.list)
		r.With(optional).Get("/{id}", c.get)
		r.With(admin).Post("/", c.create)
		r.With(admin).Put("/{id}", c.update)
		r.With(admin).Delete("/{id}", c.remove)
	})
}

func (c *contentRoutes[T]) list(w http.ResponseWriter, r *http.Request) {
	loc := localeOf(r)
	featured, err := queryBool(r, "featured")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt64(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	hidden := c.includeHidden(r)
	q := app.ContentQuery{
		ContentFilter: domain.ContentFilter{IncludeHidden: hidden, Featured: featured, Limit: int(limit)},
		Slug:          strings.TrimSpace(r.URL.Query().Get("slug")),
		Locale:        loc,
	}
	if svc := strings.TrimSpace(r.URL.Query().Get("service")); svc != "" {
		id, err := c.serviceID(r, svc, loc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if id == 0 {
			writeCached(w, r, []T{}, loc)
			return
		}
		q.ServiceID = id
	}

	out, err := c.svc.List(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if hidden {
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeCached(w, r, out, loc)
}

// serviceID accepts a numeric id or any service alias; unknown services give 0.
func (c *contentRoutes[T]) serviceID(r *http.Request, s, loc string) (int64, error) {
	if id, err := queryInt64(r, "service"); err == nil && id > 0 {
		return id, nil
	}
	if c.catalog == nil {
		return 0, nil
	}
	v, err := c.catalog.GetService(r.Context(), s, loc)
	if err != nil {
		if StatusOf(err) == http.StatusNotFound {
			return 0, nil
		}
		return 0, err
	}
	return v.ID, nil
}

func (c *contentRoutes[T]) includeHidden(r *http.Request) bool {
	if _, ok := AdminFrom(r.Context()); !ok {
		return false
	}
	b, _ := queryBool(r, "include_hidden")
	return b != nil && *b
}

func (c *contentRoutes[T]) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	_, isAdmin := AdminFrom(r.Context())
	loc := localeOf(r)
	out, err := c.svc.Get(r.Context(), id, loc, isAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if isAdmin {
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeCached(w, r, out, loc)
}

func (c *contentRoutes[T]) create(w http.ResponseWriter, r *http.Request) {
	var in T
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := c.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (c *contentRoutes[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in T
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := c.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *contentRoutes[T]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
