package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
)

func TestValidationFailed(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyRequestID, "req-1")

	ValidationFailed(c, map[string]string{"name": "is required"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, c.IsAborted())

	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeValidationFailed, body.Code)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Equal(t, map[string]interface{}{"name": "is required"}, body.Details)
}

func TestDefaultMessages(t *testing.T) {
	cases := []struct {
		respond func(*gin.Context)
		status  int
		code    string
		message string
	}{
		{func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required"},
		{func(c *gin.Context) { Forbidden(c, "") }, http.StatusForbidden, ErrCodeForbidden, "Access denied"},
		{func(c *gin.Context) { NotFound(c, "Role not found") }, http.StatusNotFound, ErrCodeNotFound, "Role not found"},
		{func(c *gin.Context) { InternalError(c, "") }, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		tc.respond(c)

		assert.Equal(t, tc.status, w.Code)

		var body APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Code)
		assert.Equal(t, tc.message, body.Message)
		assert.Empty(t, body.RequestID)
	}
}
