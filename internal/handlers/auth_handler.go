package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/internal/middleware"
	"github.com/taipeitrip/booking-backend/internal/models"
	"github.com/taipeitrip/booking-backend/internal/services"
	"github.com/taipeitrip/booking-backend/pkg/jwt"
)

// AuthHandler handles member registration and session endpoints
type AuthHandler struct {
	authService *services.AuthService
	jwtService  *jwt.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, jwtService *jwt.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Register handles POST /api/user
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}

	if _, err := h.authService.Register(req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to register member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SignIn handles PUT /api/user/auth
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": err.Error()})
		return
	}

	token, err := h.authService.SignIn(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to sign in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me handles GET /api/user/auth. A missing or invalid token yields
// {data: null} rather than a 403 so the frontend can render the
// signed-out state without special-casing an error response.
func (h *AuthHandler) Me(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	claims, err := h.jwtService.Verify(token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":    claims.MemberID,
		"name":  claims.Name,
		"email": claims.Email,
	}})
}
