package auth

import (
	"artison-api/internal/domain/users"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// WithUser stores the authenticated user on the request context.
func WithUser(c *gin.Context, user users.User) {
	c.Set(currentUserKey, user)
}

// UserFrom returns the user stored by WithUser.
func UserFrom(c *gin.Context) (users.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return users.User{}, false
	}
	user, ok := v.(users.User)
	return user, ok
}
