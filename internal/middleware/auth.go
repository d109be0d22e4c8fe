package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	apierrors "github.com/yukikurage/rbac-admin-api/internal/errors"
)

// RequireAuth admits requests whose session carries a user ID and exposes
// that ID to later handlers as a uint64. A session holding anything else is
// cleared.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(constants.ContextKeyUserID)
		if raw == nil {
			apierrors.Unauthorized(c, "")
			return
		}

		userID, ok := sessionUserID(raw)
		if !ok {
			session.Clear()
			_ = session.Save()
			apierrors.Unauthorized(c, "")
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint64)
	return userID, ok
}

func sessionUserID(v interface{}) (uint64, bool) {
	switch id := v.(type) {
	case uint64:
		return id, id > 0
	case uint:
		return uint64(id), id > 0
	case int:
		return uint64(id), id > 0
	case int64:
		return uint64(id), id > 0
	default:
		return 0, false
	}
}
