package database

import (
	"database/sql"
	"fmt"

	"github.com/taipeitrip/booking-backend/internal/models"
)

// OrderRepository reads finalized (paid) orders. Orders are immutable:
// this repository deliberately exposes no mutation.
type OrderRepository struct {
	db DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

// orderRow is the flat scan target for order queries
type orderRow struct {
	Number         string `db:"order_number"`
	AttractionID   int64  `db:"attraction_id"`
	AttractionName string `db:"attraction_name"`
	Address        string `db:"address"`
	Image          string `db:"image"`
	Date           string `db:"date"`
	Time           string `db:"time"`
	Price          int    `db:"price"`
	ContactName    string `db:"contact_name"`
	ContactEmail   string `db:"contact_email"`
	ContactPhone   string `db:"contact_phone"`
	Status         string `db:"status"`
}

const orderSelect = `
	SELECT b.order_number,
	       b.attraction_id,
	       a.name AS attraction_name,
	       a.address,
	       COALESCE((SELECT i.image_url FROM images i WHERE i.attraction_id = a.id ORDER BY i.id LIMIT 1), '') AS image,
	       b.date, b.time, b.price,
	       b.contact_name, b.contact_email, b.contact_phone,
	       b.status
	FROM bookings b
	JOIN attractions a ON a.id = b.attraction_id
`

// GetByNumber returns the member's order with the given number, or nil if
// no such order belongs to the member. Ownership is part of the lookup so
// order numbers cannot be probed across accounts.
func (r *OrderRepository) GetByNumber(memberID int64, number string) (*models.OrderDetail, error) {
	var row orderRow

	query := orderSelect + `
	WHERE b.member_id = $1 AND b.order_number = $2 AND b.status = $3
	`

	err := r.db.Get(&row, query, memberID, number, models.BookingStatusPaid)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Order not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}

	detail := row.toDetail()
	return &detail, nil
}

// ListPaidByMember returns all paid orders for the member, ordered by
// internal id ascending for deterministic output
func (r *OrderRepository) ListPaidByMember(memberID int64) ([]models.OrderDetail, error) {
	var rows []orderRow

	query := orderSelect + `
	WHERE b.member_id = $1 AND b.status = $2
	ORDER BY b.id ASC
	`

	err := r.db.Select(&rows, query, memberID, models.BookingStatusPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to list paid orders: %w", err)
	}

	orders := make([]models.OrderDetail, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toDetail())
	}

	return orders, nil
}

func (row orderRow) toDetail() models.OrderDetail {
	return models.OrderDetail{
		Number: row.Number,
		Attraction: models.AttractionSummary{
			ID:      row.AttractionID,
			Name:    row.AttractionName,
			Address: row.Address,
			Image:   row.Image,
		},
		Date:  row.Date,
		Time:  row.Time,
		Price: row.Price,
		Contact: models.Contact{
			Name:  row.ContactName,
			Email: row.ContactEmail,
			Phone: row.ContactPhone,
		},
		Status: row.Status,
	}
}
