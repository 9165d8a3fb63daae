package domain

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// BlockingStatuses hold dates against new reservations.
var BlockingStatuses = []ReservationStatus{StatusConfirmed, StatusPending}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s ReservationStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransition encodes pending -> confirmed -> completed, and pending|confirmed -> cancelled.
func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	switch s {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

type Reservation struct {
	ID              int64             `json:"id"`
	ListingID       int64             `json:"listing_id"`
	ListingName     string            `json:"listing_name,omitempty"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	StartDate       Date              `json:"start_date"`
	EndDate         Date              `json:"end_date"`
	GuestsCount     int               `json:"guests_count"`
	TotalPrice      *float64          `json:"total_price,omitempty"`
	Status          ReservationStatus `json:"status"`
	SpecialRequests string            `json:"special_requests,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type ReservationFilter struct {
	ListingID int64
	Status    ReservationStatus
	Limit     int
}

// Overlaps uses the inclusive predicate a.start <= b.end AND a.end >= b.start.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

type Availability struct {
	ListingID   int64    `json:"listing_id"`
	Date        Date     `json:"date"`
	IsAvailable bool     `json:"is_available"`
	Price       *float64 `json:"price,omitempty"`
	MinNights   *int     `json:"min_nights,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}
