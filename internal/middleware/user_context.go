package middleware

import (
	"context"

	"github.com/flangeqc/flangeqc/internal/database"
	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const currentUserKey = "CurrentUser"

// UserLoader is satisfied by *database.UserStore.
type UserLoader interface {
	Get(ctx context.Context, id uint) (models.User, error)
}

// InjectUser loads the session's user and stores it on the context. A
// session pointing at a deleted user is cleared and treated as anonymous.
func InjectUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserID).(uint); ok && uid > 0 {
			user, err := users.Get(c.Request.Context(), uid)
			switch {
			case err == nil:
				c.Set(currentUserKey, user)
			case errors.Is(err, database.ErrNotFound):
				sess.Clear()
				// best effort, the request is anonymous either way
				_ = sess.Save()
			}
		}

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
