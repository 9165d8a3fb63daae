package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tourism_booking/internal/domain"
)

func (r *Repo) ListAvailability(ctx context.Context, listingID int64, from, to domain.Date) ([]domain.Availability, error) {
	rows, err := r.db.QueryContext(ctx, listAvailabilitySQL, listingID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Availability{}
	for rows.Next() {
		var a domain.Availability
		var price sql.NullFloat64
		var minNights sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&a.ListingID, &a.Date, &a.IsAvailable, &price, &minNights, &notes); err != nil {
			return nil, err
		}
		a.Price = f64Ptr(price)
		if minNights.Valid {
			n := int(minNights.Int64)
			a.MinNights = &n
		}
		a.Notes = notes.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) UpsertAvailability(ctx context.Context, rows []domain.Availability) error {
	if len(rows) == 0 {
		return nil
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertAvailabilitySQL)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, a := range rows {
			if _, err := stmt.ExecContext(ctx,
				a.ListingID, a.Date, a.IsAvailable, valF64(a.Price), valInt(a.MinNights), valStr(a.Notes),
			); err != nil {
				return mapErr(err)
			}
		}
		return nil
	})
}

func scanReservation(s scanner) (domain.Reservation, error) {
	var rv domain.Reservation
	var total sql.NullFloat64
	var requests sql.NullString
	var status string
	if err := s.Scan(
		&rv.ID,
		&rv.ListingID,
		&rv.ListingName,
		&rv.CustomerName,
		&rv.CustomerEmail,
		&rv.CustomerPhone,
		&rv.StartDate,
		&rv.EndDate,
		&rv.GuestsCount,
		&total,
		&status,
		&requests,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	); err != nil {
		return domain.Reservation{}, err
	}
	rv.TotalPrice = f64Ptr(total)
	rv.Status = domain.ReservationStatus(status)
	rv.SpecialRequests = requests.String
	return rv, nil
}

func (r *Repo) ListReservations(ctx context.Context, f domain.ReservationFilter) ([]domain.Reservation, error) {
	var where []string
	var args []any
	if f.ListingID > 0 {
		where = append(where, "r.listing_id = ?")
		args = append(args, f.ListingID)
	}
	if f.Status != "" {
		where = append(where, "r.status = ?")
		args = append(args, string(f.Status))
	}
	q := selectReservationSQL
	if len(where) > 0 {
		q += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	q += "ORDER BY r.created_at DESC, r.id DESC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Reservation{}
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	rv, err := scanReservation(r.db.QueryRowContext(ctx, getReservationSQL, id))
	if err != nil {
		return domain.Reservation{}, mapErr(err)
	}
	return rv, nil
}

// CreateReservationIfFree locks the listing row, so the overlap check and the
// insert are atomic with respect to other bookings of the same listing.
func (r *Repo) CreateReservationIfFree(ctx context.Context, rv domain.Reservation) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var active bool
		if err := tx.QueryRowContext(ctx, lockListingSQL, rv.ListingID).Scan(&active); err != nil {
			return mapErr(err)
		}
		if !active {
			return domain.ErrNotFound
		}

		var n int
		if err := tx.QueryRowContext(ctx, countOverlapSQL, rv.ListingID, rv.EndDate, rv.StartDate).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrDatesTaken
		}
		if err := tx.QueryRowContext(ctx, countBlockedDaysSQL, rv.ListingID, rv.StartDate, rv.EndDate).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrDatesTaken
		}

		status := rv.Status
		if status == "" {
			status = domain.StatusPending
		}
		res, err := tx.ExecContext(ctx, insertReservationSQL,
			rv.ListingID,
			rv.CustomerName,
			rv.CustomerEmail,
			rv.CustomerPhone,
			rv.StartDate,
			rv.EndDate,
			rv.GuestsCount,
			valF64(rv.TotalPrice),
			string(status),
			valStr(rv.SpecialRequests),
		)
		if err != nil {
			return mapErr(err)
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

func (r *Repo) UpdateReservationStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	err := affected(r.db.ExecContext(ctx, updateReservationStatusSQL, string(to), id, string(from)))
	if errors.Is(err, domain.ErrNotFound) {
		// the row exists but moved on since it was read
		if _, gerr := r.GetReservation(ctx, id); gerr == nil {
			return domain.ErrConflict
		}
	}
	return err
}
