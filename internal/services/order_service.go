package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/internal/models"
	"github.com/taipeitrip/booking-backend/pkg/tappay"
)

// ErrAttractionNotFound indicates a booking or payment referenced an
// attraction that is not in the catalog
var ErrAttractionNotFound = errors.New("attraction not found")

// OrderService drives the pay-and-finalize transition: it validates the
// pending booking, charges the gateway, and converts the booking into an
// immutable paid order
type OrderService struct {
	bookings    *database.BookingRepository
	attractions *database.AttractionRepository
	gateway     tappay.Gateway
	logger      *logrus.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	bookings *database.BookingRepository,
	attractions *database.AttractionRepository,
	gateway tappay.Gateway,
	logger *logrus.Logger,
) *OrderService {
	return &OrderService{
		bookings:    bookings,
		attractions: attractions,
		gateway:     gateway,
		logger:      logger,
	}
}

// CreateOrder charges the prime for the member's pending booking and, on
// success, finalizes it under a freshly generated order number.
//
// A declined or unavailable gateway leaves the pending booking untouched.
// No automatic retry is attempted: a charge is a non-idempotent side
// effect against a third party.
func (s *OrderService) CreateOrder(memberID int64, req *models.CreateOrderRequest) (*models.OrderCreated, error) {
	pending, err := s.bookings.GetPending(memberID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, database.ErrNoPendingBooking
	}

	// The attraction may have been removed from the catalog since the
	// booking was created; fail before any money moves.
	exists, err := s.attractions.Exists(pending.Attraction.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAttractionNotFound
	}

	details := fmt.Sprintf("Taipei trip: %s on %s (%s)", pending.Attraction.Name, pending.Date, pending.Time)
	result, err := s.gateway.Charge(req.Prime, pending.Price, details, tappay.Contact{
		Name:  req.Contact.Name,
		Email: req.Contact.Email,
		Phone: req.Contact.Phone,
	})
	if err != nil {
		return nil, err
	}

	number, err := s.bookings.GenerateOrderNumber()
	if err != nil {
		return nil, err
	}

	if _, err := s.bookings.Finalize(memberID, number, req.Contact); err != nil {
		if errors.Is(err, database.ErrNoPendingBooking) {
			// The pending booking was superseded between charge and
			// finalize. The remote charge went through; surface the
			// conflict with enough context to reconcile manually.
			s.logger.WithFields(logrus.Fields{
				"member_id":    memberID,
				"rec_trade_id": result.RecTradeID,
				"amount":       pending.Price,
			}).Error("Charge succeeded but pending booking vanished before finalize")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"member_id":    memberID,
		"order_number": number,
		"rec_trade_id": result.RecTradeID,
	}).Info("Order finalized")

	return &models.OrderCreated{
		Number: number,
		Payment: models.PaymentResult{
			Status:  result.Status,
			Message: result.Msg,
		},
	}, nil
}
