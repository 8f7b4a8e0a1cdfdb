package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taipeitrip/booking-backend/pkg/jwt"
)

// MemberContextKey is the key used to store member information in Gin context
const MemberContextKey = "member"

// MemberContext represents the authenticated member's identity
type MemberContext struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthMiddleware validates the bearer session token on every
// member-scoped endpoint. The token is the only proof of identity;
// handlers never trust a caller-supplied member id.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   true,
				"message": "A valid session token is required",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.Verify(token)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   true,
				"message": "Session token is invalid or expired",
			})
			c.Abort()
			return
		}

		c.Set(MemberContextKey, MemberContext{
			ID:    claims.MemberID,
			Name:  claims.Name,
			Email: claims.Email,
		})

		c.Next()
	}
}

// BearerToken extracts the bearer token from the Authorization header
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" || token == "null" {
		return "", false
	}

	return token, true
}

// GetMemberContext retrieves the member context from Gin context
func GetMemberContext(c *gin.Context) (MemberContext, bool) {
	value, exists := c.Get(MemberContextKey)
	if !exists {
		return MemberContext{}, false
	}

	memberCtx, ok := value.(MemberContext)
	if !ok {
		return MemberContext{}, false
	}

	return memberCtx, true
}
