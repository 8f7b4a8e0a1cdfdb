package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/internal/middleware"
	"github.com/taipeitrip/booking-backend/internal/models"
	"github.com/taipeitrip/booking-backend/internal/services"
	"github.com/taipeitrip/booking-backend/pkg/tappay"
)

// OrderHandler handles payment and order endpoints
type OrderHandler struct {
	orderService *services.OrderService
	orders       *database.OrderRepository
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *services.OrderService, orders *database.OrderRepository) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		orders:       orders,
	}
}

// Create handles POST /api/orders: charge the prime, then finalize the
// pending booking into an immutable paid order
func (h *OrderHandler) Create(c *gin.Context) {
	memberCtx, exists := middleware.GetMemberContext(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "A valid session token is required"})
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}

	created, err := h.orderService.CreateOrder(memberCtx.ID, &req)
	if err != nil {
		var declined *tappay.DeclinedError

		switch {
		case errors.Is(err, database.ErrNoPendingBooking):
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "No pending booking to pay for"})
		case errors.Is(err, services.ErrAttractionNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Attraction no longer exists"})
		case errors.As(err, &declined):
			// Terminal for this prime; the pending booking is untouched and
			// the member may retry with a fresh prime
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Payment declined: " + declined.Msg})
		case errors.Is(err, tappay.ErrGatewayUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Payment gateway is unavailable, please try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to create order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": created})
}

// GetByNumber handles GET /api/order/:orderNumber. Only the order's owner
// can fetch it; a foreign or unknown number yields the same response.
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	memberCtx, exists := middleware.GetMemberContext(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "A valid session token is required"})
		return
	}

	number := c.Param("orderNumber")

	order, err := h.orders.GetByNumber(memberCtx.ID, number)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to get order"})
		return
	}

	if order == nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// ListForMember handles GET /api/member: all paid orders for the member
func (h *OrderHandler) ListForMember(c *gin.Context) {
	memberCtx, exists := middleware.GetMemberContext(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "A valid session token is required"})
		return
	}

	orders, err := h.orders.ListPaidByMember(memberCtx.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}
