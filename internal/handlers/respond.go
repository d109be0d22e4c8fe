package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/dto"
	apierrors "github.com/yukikurage/rbac-admin-api/internal/errors"
	"github.com/yukikurage/rbac-admin-api/internal/middleware"
	"github.com/yukikurage/rbac-admin-api/internal/services"
	"github.com/yukikurage/rbac-admin-api/internal/validation"
)

// respondError maps service errors onto API error responses. Validation
// failures carry their field messages; missing records are 404.
func respondError(c *gin.Context, err error) {
	if verr, ok := validation.As(err); ok {
		apierrors.ValidationFailed(c, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrPermissionNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskAssignee):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	default:
		log.Printf("[%s] %s %s: %v", c.GetString(constants.ContextKeyRequestID), c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}

// resourceID reads the :id parameter parsed by middleware.RequireIDParam,
// falling back to parsing it directly.
func resourceID(c *gin.Context) (uint64, bool) {
	if id, ok := middleware.GetIDParam(c); ok {
		return id, true
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

// queryID parses an optional numeric query parameter.
func queryID(c *gin.Context, key string) (*uint64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+key)
		return nil, false
	}
	return &id, true
}

// nullableDate splits a nullable date into the new value and whether the
// field was explicitly cleared.
func nullableDate(n dto.Nullable[dto.Date]) (*time.Time, bool) {
	if !n.Set {
		return nil, false
	}
	if !n.Valid {
		return nil, true
	}
	return n.Value.Ptr(), false
}

// nullable is nullableDate for plain values.
func nullable[T any](n dto.Nullable[T]) (*T, bool) {
	if !n.Set {
		return nil, false
	}
	if !n.Valid {
		return nil, true
	}
	return n.Ptr(), false
}
