package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taipeitrip/booking-backend/internal/models"
)

// ErrNoPendingBooking indicates an operation that requires a pending
// booking found none for the member. Payment finalization also returns it
// when the pending booking was superseded between charge and finalize.
var ErrNoPendingBooking = errors.New("no pending booking for member")

// BookingRepository handles the booking lifecycle: at most one pending
// booking per member, finalized into an immutable paid order
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{
		db: db,
	}
}

// ReplacePending deletes any existing pending booking for the member and
// inserts the new one within a single transaction. Partial execution would
// break the at-most-one-pending invariant, so any failure rolls back both
// statements.
func (r *BookingRepository) ReplacePending(memberID, attractionID int64, date, tripTime string, price int) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM bookings WHERE member_id = $1 AND status = $2`,
		memberID, models.BookingStatusPending,
	); err != nil {
		return nil, fmt.Errorf("failed to remove previous pending booking: %w", err)
	}

	booking := &models.Booking{
		MemberID:     memberID,
		AttractionID: attractionID,
		Date:         date,
		Time:         tripTime,
		Price:        price,
		Status:       models.BookingStatusPending,
	}

	insertQuery := `
		INSERT INTO bookings (member_id, attraction_id, date, time, price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = tx.QueryRowx(insertQuery,
		memberID, attractionID, date, tripTime, price, models.BookingStatusPending,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert pending booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pending booking: %w", err)
	}

	return booking, nil
}

// pendingRow is the flat scan target for GetPending
type pendingRow struct {
	AttractionID   int64  `db:"attraction_id"`
	AttractionName string `db:"attraction_name"`
	Address        string `db:"address"`
	Image          string `db:"image"`
	Date           string `db:"date"`
	Time           string `db:"time"`
	Price          int    `db:"price"`
}

// GetPending returns the member's current pending booking joined with its
// attraction summary, or nil if none exists
func (r *BookingRepository) GetPending(memberID int64) (*models.BookingDetail, error) {
	var row pendingRow

	query := `
		SELECT b.attraction_id,
		       a.name AS attraction_name,
		       a.address,
		       COALESCE((SELECT i.image_url FROM images i WHERE i.attraction_id = a.id ORDER BY i.id LIMIT 1), '') AS image,
		       b.date, b.time, b.price
		FROM bookings b
		JOIN attractions a ON a.id = b.attraction_id
		WHERE b.member_id = $1 AND b.status = $2
	`

	err := r.db.Get(&row, query, memberID, models.BookingStatusPending)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No pending booking, return nil without error
		}
		return nil, fmt.Errorf("failed to get pending booking: %w", err)
	}

	return &models.BookingDetail{
		Attraction: models.AttractionSummary{
			ID:      row.AttractionID,
			Name:    row.AttractionName,
			Address: row.Address,
			Image:   row.Image,
		},
		Date:  row.Date,
		Time:  row.Time,
		Price: row.Price,
	}, nil
}

// ClearPending removes the member's pending booking. It is idempotent and
// reports how many rows were removed so callers can distinguish a no-op.
func (r *BookingRepository) ClearPending(memberID int64) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM bookings WHERE member_id = $1 AND status = $2`,
		memberID, models.BookingStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear pending booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Finalize converts the member's pending booking into a paid order in a
// single conditional UPDATE. The status guard re-checks that a pending
// booking still exists at the moment of finalization; if it was superseded
// or cleared since the charge began, no row matches and ErrNoPendingBooking
// is returned rather than fabricating an order from stale data.
func (r *BookingRepository) Finalize(memberID int64, orderNumber string, contact models.Contact) (*models.Booking, error) {
	var booking models.Booking

	query := `
		UPDATE bookings
		SET status = $1,
		    order_number = $2,
		    contact_name = $3,
		    contact_email = $4,
		    contact_phone = $5
		WHERE member_id = $6 AND status = $7
		RETURNING id, member_id, attraction_id, date, time, price, status, order_number, created_at
	`

	err := r.db.QueryRow(query,
		models.BookingStatusPaid, orderNumber,
		contact.Name, contact.Email, contact.Phone,
		memberID, models.BookingStatusPending,
	).Scan(
		&booking.ID, &booking.MemberID, &booking.AttractionID,
		&booking.Date, &booking.Time, &booking.Price,
		&booking.Status, &booking.OrderNumber, &booking.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoPendingBooking
		}
		return nil, fmt.Errorf("failed to finalize booking: %w", err)
	}

	return &booking, nil
}

// GenerateOrderNumber generates a unique order number
// Format: TDT-YYYYMMDD-XXXXXXXXXXXX (12 char hex)
// Example: TDT-20240601-A1B2C3D4E5F6
func (r *BookingRepository) GenerateOrderNumber() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomStr := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])

		number := fmt.Sprintf("TDT-%s-%s", todayStr, randomStr)

		// Check if exists
		var count int
		err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE order_number = $1`, number)
		if err != nil {
			return "", fmt.Errorf("failed to check order number uniqueness: %w", err)
		}

		if count == 0 {
			return number, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique order number after 10 attempts")
}
