package models

import (
	"fmt"
	"strings"
)

// Contact holds the purchaser details attached to an order
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks the contact details
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("contact name is required")
	}
	if !looksLikeEmail(c.Email) {
		return fmt.Errorf("a valid contact email is required")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("contact phone is required")
	}
	return nil
}

// OrderDetail is a finalized order joined with its attraction summary
type OrderDetail struct {
	Number     string            `json:"number"`
	Attraction AttractionSummary `json:"attraction"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Price      int               `json:"price"`
	Contact    Contact           `json:"contact"`
	Status     string            `json:"status"`
}

// CreateOrderRequest is the payload for POST /api/orders. The pending
// booking already held server-side is the source of truth for what is
// being purchased; the client supplies only the one-time payment prime
// and contact details.
type CreateOrderRequest struct {
	Prime   string  `json:"prime"`
	Contact Contact `json:"contact"`
}

// Validate checks the order payload
func (r *CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.Prime) == "" {
		return fmt.Errorf("payment prime is required")
	}
	return r.Contact.Validate()
}

// OrderCreated is the success body for POST /api/orders
type OrderCreated struct {
	Number  string        `json:"number"`
	Payment PaymentResult `json:"payment"`
}

// PaymentResult echoes the gateway outcome for a finalized order
type PaymentResult struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
