package handler

import (
	"net/http"
	"strings"

	"collabdocs/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

// RequireAuth rejects requests without a valid Bearer token and stores the
// token's subject in the context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "), h.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}
