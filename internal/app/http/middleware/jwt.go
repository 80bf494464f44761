package middleware

import (
	"net/http"
	"strings"

	"artison-api/internal/api/apierr"
	"artison-api/internal/api/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token to an active user and stores it
// on the context for handlers.
func AuthMiddleware(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			return
		}

		user, err := authSvc.CurrentUser(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		auth.WithUser(c, user)
		c.Next()
	}
}
