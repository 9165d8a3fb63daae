package domain

import (
	"encoding/json"
	"time"
)

type Service struct {
	ID        int64
	Slug      string // stable, locale independent
	Name      string
	Icon      string
	SortOrder int
	Active    bool
}

type ServiceI18n struct {
	ServiceID int64
	Locale    string
	Title     string
	Summary   string
	Body      string
}

// ServiceRecord is a service joined with its translation for one locale (nil when missing).
type ServiceRecord struct {
	Service
	Localized *ServiceI18n
}

type ServiceView struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Body      string `json:"body,omitempty"`
}

type Listing struct {
	ID            int64           `json:"id"`
	ServiceID     int64           `json:"service_id"`
	SegmentID     *int64          `json:"segment_id,omitempty"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	Images        []string        `json:"images"`
	StoragePaths  []string        `json:"storage_paths"`
	StorageBucket string          `json:"storage_bucket,omitempty"`
	Features      []string        `json:"features"`
	Metadata      json.RawMessage `json:"metadata,omitempty"` // bedrooms, bathrooms, boat_type, ...
	PricePerDay   *float64        `json:"price_per_day,omitempty"`
	PricePerWeek  *float64        `json:"price_per_week,omitempty"`
	PriceRangeMin *float64        `json:"price_range_min,omitempty"`
	PriceRangeMax *float64        `json:"price_range_max,omitempty"`
	Active        bool            `json:"active"`
	SortOrder     int             `json:"sort_order"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	I18n          []ListingI18n   `json:"i18n,omitempty"`
}

type ListingI18n struct {
	ListingID   int64  `json:"listing_id,omitempty"`
	Locale      string `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Slug        string `json:"slug,omitempty"` // per-locale slug override
}

// ListingRecord is a listing left-joined with its translation for one locale.
type ListingRecord struct {
	Listing
	Localized   *ListingI18n
	SegmentSlug string
}

type ListingFilter struct {
	Segment         string // car segment slug
	IncludeInactive bool
}

type ListingView struct {
	ID            int64           `json:"id"`
	Service       string          `json:"service"`
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	Images        []string        `json:"images"`
	Features      []string        `json:"features"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	Segment       string          `json:"segment,omitempty"`
	PricePerDay   *float64        `json:"price_per_day,omitempty"`
	PricePerWeek  *float64        `json:"price_per_week,omitempty"`
	PriceRangeMin *float64        `json:"price_range_min,omitempty"`
	PriceRangeMax *float64        `json:"price_range_max,omitempty"`
	SortOrder     int             `json:"sort_order"`
	Locale        string          `json:"locale"`
}

type ListingDetail struct {
	Listing      ListingView    `json:"listing"`
	Availability []Availability `json:"availability"`
}

// CarSegment buckets car-rental listings into UI tabs.
type CarSegment struct {
	ID        int64             `json:"id"`
	Slug      string            `json:"slug"` // economic, mid-class, comfort, premium, atv-jeep
	SortOrder int               `json:"sort_order"`
	Titles    map[string]string `json:"titles"` // locale -> title
}

type SegmentView struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}
