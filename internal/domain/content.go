package domain

import (
	"time"

	"tourism_booking/internal/i18n"
)

// Locale-flat-column entities: each Text maps to {field}_tr/_en/_ru/_ar columns.

type ContentFilter struct {
	IncludeHidden bool // unpublished / inactive rows, admin only
	Featured      *bool
	ServiceID     int64
	Limit         int
}

// ContentItem is implemented by every flat-column content type.
type ContentItem[T any] interface {
	ContentID() int64
	ContentSlug() string
	WithID(id int64) T
	// WithLocale returns a copy carrying resolved strings for locale.
	WithLocale(locale string) T
	// Visible reports whether anonymous visitors may see the item.
	Visible() bool
	Validate() error
}

type Campaign struct {
	ID              int64             `json:"id"`
	Slug            string            `json:"slug"`
	Title           i18n.Text         `json:"title"`
	Description     i18n.Text         `json:"description"`
	ImageURL        string            `json:"image_url,omitempty"`
	DiscountPercent *float64          `json:"discount_percent,omitempty"`
	ValidFrom       *Date             `json:"valid_from,omitempty"`
	ValidUntil      *Date             `json:"valid_until,omitempty"`
	Published       bool              `json:"published"`
	Featured        bool              `json:"featured"`
	SortOrder       int               `json:"sort_order"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Localized       map[string]string `json:"localized,omitempty"`
}

func (c Campaign) ContentID() int64         { return c.ID }
func (c Campaign) ContentSlug() string      { return c.Slug }
func (c Campaign) WithID(id int64) Campaign { c.ID = id; return c }

func (c Campaign) Visible() bool { return c.Published }

func (c Campaign) WithLocale(locale string) Campaign {
	c.Localized = map[string]string{
		"title":       c.Title.In(locale),
		"description": c.Description.In(locale),
	}
	return c
}

func (c Campaign) Validate() error {
	if c.Slug == "" {
		return Invalid("slug", "required")
	}
	if c.Title.TR == "" {
		return Invalid("title.tr", "required")
	}
	if c.DiscountPercent != nil && (*c.DiscountPercent < 0 || *c.DiscountPercent > 100) {
		return Invalid("discount_percent", "must be between 0 and 100")
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && c.ValidUntil.Before(*c.ValidFrom) {
		return Invalid("valid_until", "must not be before valid_from")
	}
	return nil
}

type BlogPost struct {
	ID          int64             `json:"id"`
	Slug        string            `json:"slug"`
	Title       i18n.Text         `json:"title"`
	Excerpt     i18n.Text         `json:"excerpt"`
	Content     i18n.Text         `json:"content"`
	CoverImage  string            `json:"cover_image,omitempty"`
	Author      string            `json:"author,omitempty"`
	Published   bool              `json:"published"`
	Featured    bool              `json:"featured"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Localized   map[string]string `json:"localized,omitempty"`
}

func (b BlogPost) ContentID() int64         { return b.ID }
func (b BlogPost) ContentSlug() string      { return b.Slug }
func (b BlogPost) WithID(id int64) BlogPost { b.ID = id; return b }

func (b BlogPost) Visible() bool { return b.Published }

func (b BlogPost) WithLocale(locale string) BlogPost {
	b.Localized = map[string]string{
		"title":   b.Title.In(locale),
		"excerpt": b.Excerpt.In(locale),
		"content": b.Content.In(locale),
	}
	return b
}

func (b BlogPost) Validate() error {
	if b.Slug == "" {
		return Invalid("slug", "required")
	}
	if b.Title.TR == "" {
		return Invalid("title.tr", "required")
	}
	return nil
}

type Page struct {
	ID              int64             `json:"id"`
	Slug            string            `json:"slug"`
	Title           i18n.Text         `json:"title"`
	Content         i18n.Text         `json:"content"`
	MetaDescription i18n.Text         `json:"meta_description"`
	Published       bool              `json:"published"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Localized       map[string]string `json:"localized,omitempty"`
}

func (p Page) ContentID() int64     { return p.ID }
func (p Page) ContentSlug() string  { return p.Slug }
func (p Page) WithID(id int64) Page { p.ID = id; return p }

func (p Page) Visible() bool { return p.Published }

func (p Page) WithLocale(locale string) Page {
	p.Localized = map[string]string{
		"title":            p.Title.In(locale),
		"content":          p.Content.In(locale),
		"meta_description": p.MetaDescription.In(locale),
	}
	return p
}

func (p Page) Validate() error {
	if p.Slug == "" {
		return Invalid("slug", "required")
	}
	if p.Title.TR == "" {
		return Invalid("title.tr", "required")
	}
	return nil
}

type GeneralFaq struct {
	ID        int64             `json:"id"`
	Category  string            `json:"category,omitempty"`
	Question  i18n.Text         `json:"question"`
	Answer    i18n.Text         `json:"answer"`
	SortOrder int               `json:"sort_order"`
	Active    bool              `json:"active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Localized map[string]string `json:"localized,omitempty"`
}

func (f GeneralFaq) ContentID() int64           { return f.ID }
func (f GeneralFaq) ContentSlug() string        { return "" }
func (f GeneralFaq) WithID(id int64) GeneralFaq { f.ID = id; return f }

func (f GeneralFaq) Visible() bool { return f.Active }

func (f GeneralFaq) WithLocale(locale string) GeneralFaq {
	f.Localized = map[string]string{
		"question": f.Question.In(locale),
		"answer":   f.Answer.In(locale),
	}
	return f
}

func (f GeneralFaq) Validate() error {
	if f.Question.TR == "" {
		return Invalid("question.tr", "required")
	}
	if f.Answer.TR == "" {
		return Invalid("answer.tr", "required")
	}
	return nil
}

// Faq is a question scoped to one service page.
type Faq struct {
	ID        int64             `json:"id"`
	ServiceID int64             `json:"service_id"`
	Question  i18n.Text         `json:"question"`
	Answer    i18n.Text         `json:"answer"`
	SortOrder int               `json:"sort_order"`
	Active    bool              `json:"active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Localized map[string]string `json:"localized,omitempty"`
}

func (f Faq) ContentID() int64    { return f.ID }
func (f Faq) ContentSlug() string { return "" }
func (f Faq) WithID(id int64) Faq { f.ID = id; return f }

func (f Faq) Visible() bool { return f.Active }

func (f Faq) WithLocale(locale string) Faq {
	f.Localized = map[string]string{
		"question": f.Question.In(locale),
		"answer":   f.Answer.In(locale),
	}
	return f
}

func (f Faq) Validate() error {
	if f.ServiceID <= 0 {
		return Invalid("service_id", "required")
	}
	if f.Question.TR == "" {
		return Invalid("question.tr", "required")
	}
	if f.Answer.TR == "" {
		return Invalid("answer.tr", "required")
	}
	return nil
}
