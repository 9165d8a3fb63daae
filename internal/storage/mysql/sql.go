package mysql

// -----------------------------------------------------------------------------
// CATALOG
// -----------------------------------------------------------------------------

// Services are LEFT JOINed so the caller can decide how to treat a missing
// translation (service lists drop the row, detail falls back to the name).
const selectServiceSQL = `
SELECT
  s.id,
  s.slug,
  s.name,
  s.icon,
  s.sort_order,
  s.active,
  i.title,
  i.summary,
  i.body
FROM services s
LEFT JOIN service_i18n i
  ON i.service_id = s.id AND i.locale = ?
`

const listServicesSQL = selectServiceSQL + `
WHERE s.active = 1
ORDER BY s.sort_order, s.id
`

const getServiceBySlugSQL = selectServiceSQL + `
WHERE s.slug = ?
`

const listingColumns = `
  l.id,
  l.service_id,
  l.segment_id,
  l.slug,
  l.name,
  l.description,
  l.location,
  l.images,
  l.storage_paths,
  l.storage_bucket,
  l.features,
  l.metadata,
  l.price_per_day,
  l.price_per_week,
  l.price_range_min,
  l.price_range_max,
  l.active,
  l.sort_order,
  l.created_at,
  l.updated_at`

// Localized listing read; i.* and seg.slug may all be NULL.
const selectListingRecordSQL = `
SELECT` + listingColumns + `,
  i.title,
  i.description,
  i.slug,
  seg.slug
FROM listings l
LEFT JOIN listing_i18n i
  ON i.listing_id = l.id AND i.locale = ?
LEFT JOIN car_segments seg
  ON seg.id = l.segment_id
`

const listingOrderSQL = ` ORDER BY l.sort_order, l.id`

// A localized slug wins over the base slug, so both are matched.
const getListingBySlugSQL = selectListingRecordSQL + `
WHERE l.service_id = ? AND l.active = 1 AND (i.slug = ? OR l.slug = ?)
ORDER BY (i.slug = ?) DESC
LIMIT 1
`

const selectListingSQL = `SELECT` + listingColumns + `
FROM listings l
`

const getListingSQL = selectListingSQL + `WHERE l.id = ?`

const listAllListingsSQL = selectListingSQL + `ORDER BY l.id`

const listListingI18nSQL = `
SELECT listing_id, locale, title, description, slug
FROM listing_i18n
WHERE listing_id = ?
ORDER BY locale
`

const insertListingSQL = `
INSERT INTO listings
  (service_id, segment_id, slug, name, description, location, images, storage_paths,
   storage_bucket, features, metadata, price_per_day, price_per_week,
   price_range_min, price_range_max, active, sort_order)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateListingSQL = `
UPDATE listings SET
  service_id      = ?,
  segment_id      = ?,
  slug            = ?,
  name            = ?,
  description     = ?,
  location        = ?,
  images          = ?,
  storage_paths   = ?,
  storage_bucket  = ?,
  features        = ?,
  metadata        = ?,
  price_per_day   = ?,
  price_per_week  = ?,
  price_range_min = ?,
  price_range_max = ?,
  active          = ?,
  sort_order      = ?,
  updated_at      = CURRENT_TIMESTAMP
WHERE id = ?
`

const updateListingImagesSQL = `
UPDATE listings SET
  images         = ?,
  storage_paths  = ?,
  storage_bucket = ?,
  updated_at     = CURRENT_TIMESTAMP
WHERE id = ?
`

const deleteListingSQL = `DELETE FROM listings WHERE id = ?`

const deleteListingI18nSQL = `DELETE FROM listing_i18n WHERE listing_id = ?`

const insertListingI18nSQL = `
INSERT INTO listing_i18n (listing_id, locale, title, description, slug)
VALUES (?, ?, ?, ?, ?)
`

const listCarSegmentsSQL = `
SELECT s.id, s.slug, s.sort_order, i.locale, i.title
FROM car_segments s
LEFT JOIN car_segment_i18n i ON i.segment_id = s.id
ORDER BY s.sort_order, s.id
`

const insertCarSegmentSQL = `INSERT INTO car_segments (slug, sort_order) VALUES (?, ?)`

const updateCarSegmentSQL = `UPDATE car_segments SET slug = ?, sort_order = ? WHERE id = ?`

const deleteCarSegmentSQL = `DELETE FROM car_segments WHERE id = ?`

const deleteCarSegmentI18nSQL = `DELETE FROM car_segment_i18n WHERE segment_id = ?`

const insertCarSegmentI18nSQL = `
INSERT INTO car_segment_i18n (segment_id, locale, title) VALUES (?, ?, ?)
`

// -----------------------------------------------------------------------------
// BOOKING
// -----------------------------------------------------------------------------

const listAvailabilitySQL = `
SELECT listing_id, date, is_available, price, min_nights, notes
FROM listing_availability
WHERE listing_id = ? AND date BETWEEN ? AND ?
ORDER BY date
`

const upsertAvailabilitySQL = `
INSERT INTO listing_availability
  (listing_id, date, is_available, price, min_nights, notes)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  is_available = VALUES(is_available),
  price        = VALUES(price),
  min_nights   = VALUES(min_nights),
  notes        = VALUES(notes)
`

const selectReservationSQL = `
SELECT
  r.id,
  r.listing_id,
  l.name,
  r.customer_name,
  r.customer_email,
  r.customer_phone,
  r.start_date,
  r.end_date,
  r.guests_count,
  r.total_price,
  r.status,
  r.special_requests,
  r.created_at,
  r.updated_at
FROM reservations r
JOIN listings l ON l.id = r.listing_id
`

const getReservationSQL = selectReservationSQL + `WHERE r.id = ?`

// Serializes concurrent bookings of one listing until commit.
const lockListingSQL = `SELECT active FROM listings WHERE id = ? FOR UPDATE`

// Inclusive on both ends: a stay ending the day another starts is a conflict.
const countOverlapSQL = `
SELECT COUNT(*)
FROM reservations
WHERE listing_id = ?
  AND status IN ('pending', 'confirmed')
  AND start_date <= ?
  AND end_date >= ?
`

const countBlockedDaysSQL = `
SELECT COUNT(*)
FROM listing_availability
WHERE listing_id = ?
  AND is_available = 0
  AND date >= ?
  AND date < ?
`

const insertReservationSQL = `
INSERT INTO reservations
  (listing_id, customer_name, customer_email, customer_phone, start_date, end_date,
   guests_count, total_price, status, special_requests)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Compare-and-set on the current status.
const updateReservationStatusSQL = `
UPDATE reservations
SET status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND status = ?
`

// -----------------------------------------------------------------------------
// ADMIN / SETTINGS / STATS
// -----------------------------------------------------------------------------

const selectAdminSQL = `
SELECT id, email, password_hash, full_name, role, active, last_login_at, created_at
FROM admin_users
`

const getAdminByEmailSQL = selectAdminSQL + `WHERE email = ?`

const getAdminByIDSQL = selectAdminSQL + `WHERE id = ?`

const insertAdminSQL = `
INSERT INTO admin_users (email, password_hash, full_name, role, active)
VALUES (?, ?, ?, ?, ?)
`

const touchLastLoginSQL = `UPDATE admin_users SET last_login_at = ? WHERE id = ?`

// Note: `key` is reserved; keep it quoted.
const getSettingSQL = "SELECT value FROM site_settings WHERE `key` = ?"

const putSettingSQL = "INSERT INTO site_settings (`key`, value) VALUES (?, ?)\n" +
	"ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = CURRENT_TIMESTAMP"

const countListingsByServiceSQL = `
SELECT s.slug, COUNT(l.id)
FROM services s
LEFT JOIN listings l ON l.service_id = s.id AND l.active = 1
GROUP BY s.slug
`

const countReservationsByStatusSQL = `
SELECT status, COUNT(*) FROM reservations GROUP BY status
`

const countUpcomingReservationsSQL = `
SELECT COUNT(*)
FROM reservations
WHERE status IN ('pending', 'confirmed') AND start_date >= ?
`
