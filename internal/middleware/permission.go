package middleware

import (
	"errors"
	"fmt"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	apierrors "github.com/yukikurage/rbac-admin-api/internal/errors"
	"github.com/yukikurage/rbac-admin-api/internal/rbac"
	"github.com/yukikurage/rbac-admin-api/internal/services"
)

// PrincipalResolver builds the principal for an authenticated user
type PrincipalResolver interface {
	Principal(userID uint64) (*rbac.Principal, error)
}

// LoadPrincipal resolves the caller's effective permissions once per request
// and stores them in the context. Must run after RequireAuth.
func LoadPrincipal(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		principal, err := resolver.Principal(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				// The account was removed while the session was alive
				session := sessions.Default(c)
				session.Clear()
				_ = session.Save()
				apierrors.Unauthorized(c, "")
				return
			}
			log.Printf("Failed to resolve permissions for user %d: %v", userID, err)
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the current principal from context
func GetPrincipal(c *gin.Context) (*rbac.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*rbac.Principal)
	return principal, ok
}

// RequirePermission aborts with 403 unless the principal holds permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, exists := GetPrincipal(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		if !principal.Can(permission) {
			apierrors.Forbidden(c, fmt.Sprintf("Missing permission: %s", permission))
			return
		}

		c.Next()
	}
}
