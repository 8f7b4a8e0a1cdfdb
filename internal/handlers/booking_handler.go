package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/internal/middleware"
	"github.com/taipeitrip/booking-backend/internal/models"
)

// BookingHandler handles the pending booking endpoints
type BookingHandler struct {
	bookings    *database.BookingRepository
	attractions *database.AttractionRepository
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *database.BookingRepository, attractions *database.AttractionRepository) *BookingHandler {
	return &BookingHandler{
		bookings:    bookings,
		attractions: attractions,
	}
}

// GetPending handles GET /api/booking
func (h *BookingHandler) GetPending(c *gin.Context) {
	memberCtx, exists := middleware.GetMemberContext(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "A valid session token is required"})
		return
	}

	pending, err := h.bookings.GetPending(memberCtx.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to get booking"})
		return
	}

	if pending == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pending})
}

// CreatePending handles POST /api/booking. Creating a booking supersedes
// any earlier pending booking for the member.
func (h *BookingHandler) CreatePending(c *gin.Context) {
	memberCtx, exists := middleware.GetMemberContext(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "A valid session token is required"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}

	found, err := h.attractions.Exists(req.AttractionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to create booking"})
		return
	}
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Attraction not found"})
		return
	}

	if _, err := h.bookings.ReplacePending(memberCtx.ID, req.AttractionID, req.Date, req.Time, req.Price); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to create booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeletePending handles DELETE /api/booking
func (h *BookingHandler) DeletePending(c *gin.Context) {
	memberCtx, exists := middleware.GetMemberContext(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "A valid session token is required"})
		return
	}

	removed, err := h.bookings.ClearPending(memberCtx.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to delete booking"})
		return
	}

	if removed == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "No pending booking to delete"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
