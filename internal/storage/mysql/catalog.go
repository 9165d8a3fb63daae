package mysql

import (
	"context"
	"database/sql"
	"strings"

	"tourism_booking/internal/domain"
	"tourism_booking/internal/i18n"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanService(s scanner) (domain.ServiceRecord, error) {
	var rec domain.ServiceRecord
	var title, summary, body sql.NullString
	if err := s.Scan(
		&rec.ID,
		&rec.Slug,
		&rec.Name,
		&rec.Icon,
		&rec.SortOrder,
		&rec.Active,
		&title, &summary, &body,
	); err != nil {
		return domain.ServiceRecord{}, err
	}
	if title.Valid {
		rec.Localized = &domain.ServiceI18n{
			ServiceID: rec.ID,
			Title:     title.String,
			Summary:   summary.String,
			Body:      body.String,
		}
	}
	return rec, nil
}

func (r *Repo) ListServices(ctx context.Context, locale string) ([]domain.ServiceRecord, error) {
	rows, err := r.db.QueryContext(ctx, listServicesSQL, locale)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ServiceRecord
	for rows.Next() {
		rec, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		if rec.Localized != nil {
			rec.Localized.Locale = locale
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) GetServiceBySlug(ctx context.Context, slug, locale string) (domain.ServiceRecord, error) {
	rec, err := scanService(r.db.QueryRowContext(ctx, getServiceBySlugSQL, locale, slug))
	if err != nil {
		return domain.ServiceRecord{}, mapErr(err)
	}
	if rec.Localized != nil {
		rec.Localized.Locale = locale
	}
	return rec, nil
}

// scanListing reads the listingColumns projection; extra receives any trailing columns.
func scanListing(s scanner, extra ...any) (domain.Listing, error) {
	var l domain.Listing
	var segmentID sql.NullInt64
	var description, bucket sql.NullString
	var images, paths, features, metadata []byte
	var perDay, perWeek, rangeMin, rangeMax sql.NullFloat64

	dest := []any{
		&l.ID,
		&l.ServiceID,
		&segmentID,
		&l.Slug,
		&l.Name,
		&description,
		&l.Location,
		&images, &paths,
		&bucket,
		&features, &metadata,
		&perDay, &perWeek, &rangeMin, &rangeMax,
		&l.Active,
		&l.SortOrder,
		&l.CreatedAt, &l.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return domain.Listing{}, err
	}
	if segmentID.Valid {
		id := segmentID.Int64
		l.SegmentID = &id
	}
	l.Description = description.String
	l.StorageBucket = bucket.String
	l.Images = scanList(images)
	l.StoragePaths = scanList(paths)
	l.Features = scanList(features)
	if len(metadata) > 0 {
		l.Metadata = append([]byte(nil), metadata...)
	}
	l.PricePerDay = f64Ptr(perDay)
	l.PricePerWeek = f64Ptr(perWeek)
	l.PriceRangeMin = f64Ptr(rangeMin)
	l.PriceRangeMax = f64Ptr(rangeMax)
	return l, nil
}

func scanListingRecord(s scanner, locale string) (domain.ListingRecord, error) {
	var title, desc, slug, segSlug sql.NullString
	l, err := scanListing(s, &title, &desc, &slug, &segSlug)
	if err != nil {
		return domain.ListingRecord{}, err
	}
	rec := domain.ListingRecord{Listing: l, SegmentSlug: segSlug.String}
	if title.Valid {
		rec.Localized = &domain.ListingI18n{
			ListingID:   l.ID,
			Locale:      locale,
			Title:       title.String,
			Description: desc.String,
			Slug:        slug.String,
		}
	}
	return rec, nil
}

func (r *Repo) ListListings(ctx context.Context, serviceID int64, locale string, f domain.ListingFilter) ([]domain.ListingRecord, error) {
	var b strings.Builder
	b.WriteString(selectListingRecordSQL)
	b.WriteString("WHERE l.service_id = ?")
	args := []any{locale, serviceID}
	if !f.IncludeInactive {
		b.WriteString(" AND l.active = 1")
	}
	if f.Segment != "" {
		b.WriteString(" AND seg.slug = ?")
		args = append(args, f.Segment)
	}
	b.WriteString(listingOrderSQL)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ListingRecord
	for rows.Next() {
		rec, err := scanListingRecord(rows, locale)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repo) GetListingBySlug(ctx context.Context, serviceID int64, slug, locale string) (domain.ListingRecord, error) {
	row := r.db.QueryRowContext(ctx, getListingBySlugSQL, locale, serviceID, slug, slug, slug)
	rec, err := scanListingRecord(row, locale)
	if err != nil {
		return domain.ListingRecord{}, mapErr(err)
	}
	return rec, nil
}

func (r *Repo) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, getListingSQL, id))
	if err != nil {
		return domain.Listing{}, mapErr(err)
	}

	rows, err := r.db.QueryContext(ctx, listListingI18nSQL, id)
	if err != nil {
		return domain.Listing{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var t domain.ListingI18n
		var desc, slug sql.NullString
		if err := rows.Scan(&t.ListingID, &t.Locale, &t.Title, &desc, &slug); err != nil {
			return domain.Listing{}, err
		}
		t.Description = desc.String
		t.Slug = slug.String
		l.I18n = append(l.I18n, t)
	}
	return l, rows.Err()
}

func (r *Repo) ListAllListings(ctx context.Context) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, listAllListingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func listingArgs(l domain.Listing) []any {
	return []any{
		l.ServiceID,
		valInt64(l.SegmentID),
		l.Slug,
		l.Name,
		l.Description,
		l.Location,
		valList(l.Images),
		valList(l.StoragePaths),
		valStr(l.StorageBucket),
		valList(l.Features),
		valJSON(l.Metadata),
		valF64(l.PricePerDay),
		valF64(l.PricePerWeek),
		valF64(l.PriceRangeMin),
		valF64(l.PriceRangeMax),
		l.Active,
		l.SortOrder,
	}
}

func writeListingI18n(ctx context.Context, tx *sql.Tx, id int64, rows []domain.ListingI18n) error {
	if _, err := tx.ExecContext(ctx, deleteListingI18nSQL, id); err != nil {
		return err
	}
	for _, t := range rows {
		if _, err := tx.ExecContext(ctx, insertListingI18nSQL,
			id, t.Locale, t.Title, t.Description, valStr(t.Slug)); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *Repo) CreateListing(ctx context.Context, l domain.Listing) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertListingSQL, listingArgs(l)...)
		if err != nil {
			return mapErr(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return writeListingI18n(ctx, tx, id, l.I18n)
	})
	return id, err
}

func (r *Repo) UpdateListing(ctx context.Context, l domain.Listing) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		args := append(listingArgs(l), l.ID)
		if err := affected(tx.ExecContext(ctx, updateListingSQL, args...)); err != nil {
			return err
		}
		// a nil I18n leaves translations untouched
		if l.I18n == nil {
			return nil
		}
		return writeListingI18n(ctx, tx, l.ID, l.I18n)
	})
}

func (r *Repo) DeleteListing(ctx context.Context, id int64) error {
	return affected(r.db.ExecContext(ctx, deleteListingSQL, id))
}

func (r *Repo) UpdateListingImages(ctx context.Context, id int64, images, storagePaths []string, bucket string) error {
	return affected(r.db.ExecContext(ctx, updateListingImagesSQL,
		valList(images), valList(storagePaths), valStr(bucket), id))
}

func (r *Repo) ListCarSegments(ctx context.Context) ([]domain.CarSegment, error) {
	rows, err := r.db.QueryContext(ctx, listCarSegmentsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CarSegment
	idx := map[int64]int{}
	for rows.Next() {
		var s domain.CarSegment
		var locale, title sql.NullString
		if err := rows.Scan(&s.ID, &s.Slug, &s.SortOrder, &locale, &title); err != nil {
			return nil, err
		}
		i, ok := idx[s.ID]
		if !ok {
			s.Titles = map[string]string{}
			out = append(out, s)
			i = len(out) - 1
			idx[s.ID] = i
		}
		if locale.Valid {
			out[i].Titles[locale.String] = title.String
		}
	}
	return out, rows.Err()
}

func writeSegmentTitles(ctx context.Context, tx *sql.Tx, id int64, titles map[string]string) error {
	if _, err := tx.ExecContext(ctx, deleteCarSegmentI18nSQL, id); err != nil {
		return err
	}
	for _, loc := range i18n.Locales {
		title := titles[loc]
		if strings.TrimSpace(title) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, insertCarSegmentI18nSQL, id, loc, title); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *Repo) CreateCarSegment(ctx context.Context, s domain.CarSegment) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertCarSegmentSQL, s.Slug, s.SortOrder)
		if err != nil {
			return mapErr(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return writeSegmentTitles(ctx, tx, id, s.Titles)
	})
	return id, err
}

func (r *Repo) UpdateCarSegment(ctx context.Context, s domain.CarSegment) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := affected(tx.ExecContext(ctx, updateCarSegmentSQL, s.Slug, s.SortOrder, s.ID)); err != nil {
			return err
		}
		return writeSegmentTitles(ctx, tx, s.ID, s.Titles)
	})
}

func (r *Repo) DeleteCarSegment(ctx context.Context, id int64) error {
	return affected(r.db.ExecContext(ctx, deleteCarSegmentSQL, id))
}
