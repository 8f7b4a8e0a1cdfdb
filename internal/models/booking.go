package models

import (
	"fmt"
	"strings"
	"time"
)

// Booking status values. A row moves from pending to paid exactly once;
// paid rows are never updated again.
const (
	BookingStatusPending = "pending"
	BookingStatusPaid    = "paid"
)

// Booking is a row in the bookings table. Pending and paid bookings share
// the table, distinguished by status; order_number and contact fields are
// only set when the row is finalized.
type Booking struct {
	ID           int64     `db:"id" json:"id"`
	MemberID     int64     `db:"member_id" json:"memberId"`
	AttractionID int64     `db:"attraction_id" json:"attractionId"`
	Date         string    `db:"date" json:"date"`
	Time         string    `db:"time" json:"time"`
	Price        int       `db:"price" json:"price"`
	Status       string    `db:"status" json:"status"`
	OrderNumber  *string   `db:"order_number" json:"orderNumber,omitempty"`
	ContactName  *string   `db:"contact_name" json:"-"`
	ContactEmail *string   `db:"contact_email" json:"-"`
	ContactPhone *string   `db:"contact_phone" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// BookingDetail is the pending booking joined with its attraction summary,
// as returned by GET /api/booking
type BookingDetail struct {
	Attraction AttractionSummary `json:"attraction"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Price      int               `json:"price"`
}

// CreateBookingRequest is the payload for POST /api/booking
type CreateBookingRequest struct {
	AttractionID int64  `json:"attractionId"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Price        int    `json:"price"`
}

// Validate checks the booking payload
func (r *CreateBookingRequest) Validate() error {
	if r.AttractionID <= 0 {
		return fmt.Errorf("attractionId is required")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	if strings.TrimSpace(r.Time) == "" {
		return fmt.Errorf("time is required")
	}
	if r.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	return nil
}
