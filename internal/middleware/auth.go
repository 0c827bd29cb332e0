package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maskline/backend/internal/services"
)

// Auth validates the bearer token and stores the user id in the context
func Auth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// PhoneService gates the phone endpoints behind the account entitlement.
// Accounts without phone service get a 403, matching the API contract for
// unentitled users.
func PhoneService(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDInterface, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		userID, ok := userIDInterface.(uuid.UUID)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, err := userService.GetUserByID(userID)
		if err != nil || !user.IsActive || !user.PhoneServiceEnabled {
			c.JSON(http.StatusForbidden, gin.H{"error": "Phone service is not enabled for this account"})
			c.Abort()
			return
		}

		c.Next()
	}
}
