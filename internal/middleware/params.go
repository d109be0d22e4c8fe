package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	apierrors "github.com/yukikurage/rbac-admin-api/internal/errors"
)

// RequireIDParam parses the :id route parameter and stores it in the
// context, answering 400 for anything that is not a positive integer.
func RequireIDParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid ID")
			return
		}

		c.Set(constants.ContextKeyResourceID, id)
		c.Next()
	}
}

// GetIDParam retrieves the parsed :id parameter from context
func GetIDParam(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyResourceID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}
