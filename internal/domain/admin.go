package domain

import "time"

type AdminRole string

const (
	RoleSuperAdmin AdminRole = "super_admin"
	RoleAdmin      AdminRole = "admin"
	RoleManager    AdminRole = "manager"
)

func (r AdminRole) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAdmin || r == RoleManager
}

type AdminUser struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         AdminRole  `json:"role"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DashboardStats feeds the admin dashboard.
type DashboardStats struct {
	ListingsByService    map[string]int `json:"listings_by_service"`
	ReservationsByStatus map[string]int `json:"reservations_by_status"`
	PublishedBlogPosts   int            `json:"published_blog_posts"`
	ActiveCampaigns      int            `json:"active_campaigns"`
	UpcomingReservations int            `json:"upcoming_reservations"`
}
