package middleware

import (
	"net/http"

	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/gin-gonic/gin"
)

// SessionUserID is the session key written at login.
const SessionUserID = "user_id"

// RequireAuth needs a user loaded by InjectUser, not just a session cookie.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Login required."})
			return
		}
		c.Next()
	}
}

// RequireRole checks the role stored on the user row, so a demotion or
// deletion takes effect on the next request.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Login required."})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied."})
			return
		}
		c.Next()
	}
}

// HasRole reports whether the logged-in user has role.
func HasRole(c *gin.Context, role models.UserRole) bool {
	user, ok := CurrentUser(c)
	return ok && user.Role == role
}
