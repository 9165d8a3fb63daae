package mysql

import (
	"context"
	"database/sql"
	"strings"

	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

// localeCols expands a Text field into its four flat columns.
func localeCols(field string) []string {
	out := make([]string, 0, len(i18n.Locales))
	for _, l := range i18n.Locales {
		out = append(out, field+"_"+l)
	}
	return out
}

func textArgs(t i18n.Text) []any { return []any{t.TR, t.EN, t.RU, t.AR} }

// textDest scans four nullable locale columns into a Text.
type textDest struct{ tr, en, ru, ar sql.NullString }

func (d *textDest) ptrs() []any { return []any{&d.tr, &d.en, &d.ru, &d.ar} }

func (d *textDest) text() i18n.Text {
	return i18n.Text{TR: d.tr.String, EN: d.en.String, RU: d.ru.String, AR: d.ar.String}
}

// contentTable describes one flat-column content table.
type contentTable[T any] struct {
	name       string
	columns    []string // writable columns, in args order
	visibility string   // column that hides rows from the public site
	featured   bool
	hasSlug    bool
	hasService bool
	orderBy    string
	args       func(T) []any
	// scan receives id, columns..., created_at, updated_at
	scan func(scanner) (T, error)
}

func (t contentTable[T]) selectSQL() string {
	return "SELECT id, " + strings.Join(t.columns, ", ") + ", created_at, updated_at FROM " + t.name
}

func (t contentTable[T]) insertSQL() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return "INSERT INTO " + t.name + " (" + strings.Join(t.columns, ", ") + ") VALUES (" + marks + ")"
}

func (t contentTable[T]) updateSQL() string {
	sets := make([]string, 0, len(t.columns)+1)
	for _, c := range t.columns {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	return "UPDATE " + t.name + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
}

// ContentRepo is the MySQL ContentRepository for one content type.
type ContentRepo[T domain.ContentItem[T]] struct {
	db *sql.DB
	t  contentTable[T]
}

func (r *ContentRepo[T]) List(ctx context.Context, f domain.ContentFilter) ([]T, error) {
	var where []string
	var args []any
	if !f.IncludeHidden {
		where = append(where, r.t.visibility+" = 1")
	}
	if f.Featured != nil && r.t.featured {
		where = append(where, "featured = ?")
		args = append(args, *f.Featured)
	}
	if f.ServiceID > 0 && r.t.hasService {
		where = append(where, "service_id = ?")
		args = append(args, f.ServiceID)
	}
	q := r.t.selectSQL()
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + r.t.orderBy
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := r.t.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *ContentRepo[T]) Get(ctx context.Context, id int64) (T, error) {
	item, err := r.t.scan(r.db.QueryRowContext(ctx, r.t.selectSQL()+" WHERE id = ?", id))
	return item, mapErr(err)
}

func (r *ContentRepo[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	if !r.t.hasSlug {
		var zero T
		return zero, domain.ErrNotFound
	}
	item, err := r.t.scan(r.db.QueryRowContext(ctx, r.t.selectSQL()+" WHERE slug = ?", slug))
	return item, mapErr(err)
}

func (r *ContentRepo[T]) Create(ctx context.Context, item T) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.t.insertSQL(), r.t.args(item)...)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.LastInsertId()
}

func (r *ContentRepo[T]) Update(ctx context.Context, item T) error {
	args := append(r.t.args(item), item.ContentID())
	return affected(r.db.ExecContext(ctx, r.t.updateSQL(), args...))
}

func (r *ContentRepo[T]) Delete(ctx context.Context, id int64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM "+r.t.name+" WHERE id = ?", id))
}

func cols(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func flat(groups ...[]any) []any {
	var out []any
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func dateArg(d *domain.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return *d
}

func NewCampaigns(db *sql.DB) *ContentRepo[domain.Campaign] {
	return &ContentRepo[domain.Campaign]{db: db, t: contentTable[domain.Campaign]{
		name: "campaigns",
		columns: cols([]string{"slug"}, localeCols("title"), localeCols("description"),
			[]string{"image_url", "discount_percent", "valid_from", "valid_until", "published", "featured", "sort_order"}),
		visibility: "published",
		featured:   true,
		hasSlug:    true,
		orderBy:    "sort_order, id DESC",
		args: func(c domain.Campaign) []any {
			return flat([]any{c.Slug}, textArgs(c.Title), textArgs(c.Description),
				[]any{c.ImageURL, valF64(c.DiscountPercent), dateArg(c.ValidFrom), dateArg(c.ValidUntil),
					c.Published, c.Featured, c.SortOrder})
		},
		scan: func(s scanner) (domain.Campaign, error) {
			var c domain.Campaign
			var title, desc textDest
			var discount sql.NullFloat64
			var from, until domain.Date
			dest := flat([]any{&c.ID, &c.Slug}, title.ptrs(), desc.ptrs(),
				[]any{&c.ImageURL, &discount, &from, &until, &c.Published, &c.Featured, &c.SortOrder,
					&c.CreatedAt, &c.UpdatedAt})
			if err := s.Scan(dest...); err != nil {
				return domain.Campaign{}, err
			}
			c.Title, c.Description = title.text(), desc.text()
			c.DiscountPercent = f64Ptr(discount)
			if !from.IsZero() {
				c.ValidFrom = &from
			}
			if !until.IsZero() {
				c.ValidUntil = &until
			}
			return c, nil
		},
	}}
}

func NewBlogPosts(db *sql.DB) *ContentRepo[domain.BlogPost] {
	return &ContentRepo[domain.BlogPost]{db: db, t: contentTable[domain.BlogPost]{
		name: "blog_posts",
		columns: cols([]string{"slug"}, localeCols("title"), localeCols("excerpt"), localeCols("content"),
			[]string{"cover_image", "author", "published", "featured", "published_at"}),
		visibility: "published",
		featured:   true,
		hasSlug:    true,
		orderBy:    "COALESCE(published_at, created_at) DESC, id DESC",
		args: func(b domain.BlogPost) []any {
			var at any
			if b.PublishedAt != nil {
				at = b.PublishedAt.UTC()
			}
			return flat([]any{b.Slug}, textArgs(b.Title), textArgs(b.Excerpt), textArgs(b.Content),
				[]any{b.CoverImage, b.Author, b.Published, b.Featured, at})
		},
		scan: func(s scanner) (domain.BlogPost, error) {
			var b domain.BlogPost
			var title, excerpt, content textDest
			var at sql.NullTime
			dest := flat([]any{&b.ID, &b.Slug}, title.ptrs(), excerpt.ptrs(), content.ptrs(),
				[]any{&b.CoverImage, &b.Author, &b.Published, &b.Featured, &at, &b.CreatedAt, &b.UpdatedAt})
			if err := s.Scan(dest...); err != nil {
				return domain.BlogPost{}, err
			}
			b.Title, b.Excerpt, b.Content = title.text(), excerpt.text(), content.text()
			if at.Valid {
				t := at.Time
				b.PublishedAt = &t
			}
			return b, nil
		},
	}}
}

func NewPages(db *sql.DB) *ContentRepo[domain.Page] {
	return &ContentRepo[domain.Page]{db: db, t: contentTable[domain.Page]{
		name:       "pages",
		columns:    cols([]string{"slug"}, localeCols("title"), localeCols("content"), localeCols("meta_description"), []string{"published"}),
		visibility: "published",
		hasSlug:    true,
		orderBy:    "slug",
		args: func(p domain.Page) []any {
			return flat([]any{p.Slug}, textArgs(p.Title), textArgs(p.Content), textArgs(p.MetaDescription), []any{p.Published})
		},
		scan: func(s scanner) (domain.Page, error) {
			var p domain.Page
			var title, content, meta textDest
			dest := flat([]any{&p.ID, &p.Slug}, title.ptrs(), content.ptrs(), meta.ptrs(),
				[]any{&p.Published, &p.CreatedAt, &p.UpdatedAt})
			if err := s.Scan(dest...); err != nil {
				return domain.Page{}, err
			}
			p.Title, p.Content, p.MetaDescription = title.text(), content.text(), meta.text()
			return p, nil
		},
	}}
}

func NewGeneralFaqs(db *sql.DB) *ContentRepo[domain.GeneralFaq] {
	return &ContentRepo[domain.GeneralFaq]{db: db, t: contentTable[domain.GeneralFaq]{
		name:       "general_faqs",
		columns:    cols([]string{"category"}, localeCols("question"), localeCols("answer"), []string{"sort_order", "active"}),
		visibility: "active",
		orderBy:    "sort_order, id",
		args: func(f domain.GeneralFaq) []any {
			return flat([]any{f.Category}, textArgs(f.Question), textArgs(f.Answer), []any{f.SortOrder, f.Active})
		},
		scan: func(s scanner) (domain.GeneralFaq, error) {
			var f domain.GeneralFaq
			var q, a textDest
			dest := flat([]any{&f.ID, &f.Category}, q.ptrs(), a.ptrs(),
				[]any{&f.SortOrder, &f.Active, &f.CreatedAt, &f.UpdatedAt})
			if err := s.Scan(dest...); err != nil {
				return domain.GeneralFaq{}, err
			}
			f.Question, f.Answer = q.text(), a.text()
			return f, nil
		},
	}}
}

func NewFaqs(db *sql.DB) *ContentRepo[domain.Faq] {
	return &ContentRepo[domain.Faq]{db: db, t: contentTable[domain.Faq]{
		name:       "faqs",
		columns:    cols([]string{"service_id"}, localeCols("question"), localeCols("answer"), []string{"sort_order", "active"}),
		visibility: "active",
		hasService: true,
		orderBy:    "sort_order, id",
		args: func(f domain.Faq) []any {
			return flat([]any{f.ServiceID}, textArgs(f.Question), textArgs(f.Answer), []any{f.SortOrder, f.Active})
		},
		scan: func(s scanner) (domain.Faq, error) {
			var f domain.Faq
			var q, a textDest
			dest := flat([]any{&f.ID, &f.ServiceID}, q.ptrs(), a.ptrs(),
				[]any{&f.SortOrder, &f.Active, &f.CreatedAt, &f.UpdatedAt})
			if err := s.Scan(dest...); err != nil {
				return domain.Faq{}, err
			}
			f.Question, f.Answer = q.text(), a.text()
			return f, nil
		},
	}}
}
