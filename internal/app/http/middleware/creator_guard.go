package middleware

import (
	"net/http"

	"artison-api/internal/api/auth"

	"github.com/gin-gonic/gin"
)

// RequireCreator must run after AuthMiddleware.
func RequireCreator() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.UserFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		if !user.IsCreator {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "User is not a creator",
			})
			return
		}

		c.Next()
	}
}
