package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/taipeitrip/booking-backend/internal/cache"
	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/internal/models"
)

// AttractionHandler handles the public catalog read endpoints. The cache
// is optional; when nil every read goes straight to the database, and a
// cache failure is logged and degraded, never surfaced to the client.
type AttractionHandler struct {
	attractions *database.AttractionRepository
	cache       *cache.RedisCache
	logger      *logrus.Logger
}

// NewAttractionHandler creates a new AttractionHandler
func NewAttractionHandler(attractions *database.AttractionRepository, cache *cache.RedisCache, logger *logrus.Logger) *AttractionHandler {
	return &AttractionHandler{
		attractions: attractions,
		cache:       cache,
		logger:      logger,
	}
}

// List handles GET /api/attractions?page=N&keyword=K
func (h *AttractionHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "page must be a non-negative integer"})
		return
	}
	keyword := c.Query("keyword")

	if h.cache != nil {
		cached, err := h.cache.GetAttractionPage(c.Request.Context(), page, keyword)
		if err != nil {
			h.logger.WithError(err).Warn("Catalog cache read failed, falling back to database")
		} else if cached != nil {
			c.JSON(http.StatusOK, gin.H{"nextPage": cached.NextPage, "data": cached.Data})
			return
		}
	}

	attractions, nextPage, err := h.attractions.List(page, keyword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to list attractions"})
		return
	}

	if attractions == nil {
		attractions = []models.Attraction{}
	}

	if h.cache != nil {
		payload := &cache.AttractionPage{NextPage: nextPage, Data: attractions}
		if err := h.cache.SetAttractionPage(c.Request.Context(), page, keyword, payload); err != nil {
			h.logger.WithError(err).Warn("Catalog cache write failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"nextPage": nextPage, "data": attractions})
}

// GetByID handles GET /api/attractions/:attractionID
func (h *AttractionHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("attractionID"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Attraction id must be a positive integer"})
		return
	}

	if h.cache != nil {
		cached, err := h.cache.GetAttraction(c.Request.Context(), id)
		if err != nil {
			h.logger.WithError(err).Warn("Catalog cache read failed, falling back to database")
		} else if cached != nil {
			c.JSON(http.StatusOK, gin.H{"data": cached})
			return
		}
	}

	attraction, err := h.attractions.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to get attraction"})
		return
	}

	if attraction == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Attraction not found"})
		return
	}

	if h.cache != nil {
		if err := h.cache.SetAttraction(c.Request.Context(), attraction); err != nil {
			h.logger.WithError(err).Warn("Catalog cache write failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": attraction})
}

// ListMRTs handles GET /api/mrts
func (h *AttractionHandler) ListMRTs(c *gin.Context) {
	mrts, err := h.attractions.ListMRTs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to list MRT stations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": mrts})
}
