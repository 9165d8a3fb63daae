package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tourism_booking/internal/domain"
)

func scanAdmin(s scanner) (domain.AdminUser, error) {
	var a domain.AdminUser
	var role string
	var last sql.NullTime
	if err := s.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &role, &a.Active, &last, &a.CreatedAt); err != nil {
		return domain.AdminUser{}, mapErr(err)
	}
	a.Role = domain.AdminRole(role)
	if last.Valid {
		t := last.Time
		a.LastLoginAt = &t
	}
	return a, nil
}

func (r *Repo) GetAdminByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	return scanAdmin(r.db.QueryRowContext(ctx, getAdminByEmailSQL, email))
}

func (r *Repo) GetAdminByID(ctx context.Context, id int64) (domain.AdminUser, error) {
	return scanAdmin(r.db.QueryRowContext(ctx, getAdminByIDSQL, id))
}

func (r *Repo) CreateAdmin(ctx context.Context, a domain.AdminUser) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertAdminSQL, a.Email, a.PasswordHash, a.FullName, string(a.Role), a.Active)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.LastInsertId()
}

func (r *Repo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return affected(r.db.ExecContext(ctx, touchLastLoginSQL, at.UTC(), id))
}

func (r *Repo) GetSetting(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	if err := r.db.QueryRowContext(ctx, getSettingSQL, key).Scan(&v); err != nil {
		return nil, mapErr(err)
	}
	return v, nil
}

func (r *Repo) PutSetting(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, putSettingSQL, key, string(value))
	return mapErr(err)
}

func (r *Repo) countBy(ctx context.Context, q string, args ...any) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}

func (r *Repo) CountListingsByService(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, countListingsByServiceSQL)
}

func (r *Repo) CountReservationsByStatus(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, countReservationsByStatusSQL)
}

func (r *Repo) CountUpcomingReservations(ctx context.Context, from domain.Date) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countUpcomingReservationsSQL, from).Scan(&n)
	return n, err
}

// publishedColumn whitelists the tables CountPublished may touch.
var publishedColumn = map[string]string{
	"campaigns":    "published",
	"blog_posts":   "published",
	"pages":        "published",
	"general_faqs": "active",
	"faqs":         "active",
}

func (r *Repo) CountPublished(ctx context.Context, table string) (int, error) {
	col, ok := publishedColumn[table]
	if !ok {
		return 0, domain.Invalid("table", fmt.Sprintf("%q is not countable", table))
	}
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE "+col+" = 1").Scan(&n)
	return n, err
}
