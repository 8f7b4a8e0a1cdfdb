package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/internal/middleware"
	"github.com/taipeitrip/booking-backend/internal/models"
)

// FavoriteHandler handles the favorites set endpoints
type FavoriteHandler struct {
	favorites   *database.FavoriteRepository
	attractions *database.AttractionRepository
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(favorites *database.FavoriteRepository, attractions *database.AttractionRepository) *FavoriteHandler {
	return &FavoriteHandler{
		favorites:   favorites,
		attractions: attractions,
	}
}

// List handles GET /api/favorite
func (h *FavoriteHandler) List(c *gin.Context) {
	memberCtx, exists := middleware.GetMemberContext(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "A valid session token is required"})
		return
	}

	entries, err := h.favorites.List(memberCtx.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// Add handles POST /api/favorite
func (h *FavoriteHandler) Add(c *gin.Context) {
	memberCtx, exists := middleware.GetMemberContext(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "A valid session token is required"})
		return
	}

	var req models.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}

	attractionExists, err := h.attractions.Exists(req.AttractionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to add favorite"})
		return
	}
	if !attractionExists {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Attraction not found"})
		return
	}

	if err := h.favorites.Add(memberCtx.ID, req.AttractionID); err != nil {
		if errors.Is(err, database.ErrDuplicateFavorite) {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Attraction is already a favorite"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to add favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Remove handles DELETE /api/favorite?attractionId=N
func (h *FavoriteHandler) Remove(c *gin.Context) {
	memberCtx, exists := middleware.GetMemberContext(c)
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "A valid session token is required"})
		return
	}

	attractionID, err := strconv.ParseInt(c.Query("attractionId"), 10, 64)
	if err != nil || attractionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "attractionId is required"})
		return
	}

	if err := h.favorites.Remove(memberCtx.ID, attractionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
