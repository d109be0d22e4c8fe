package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/rbac"
	"github.com/yukikurage/rbac-admin-api/internal/services"
)

type stubResolver struct {
	principals map[uint64]*rbac.Principal
	err        error
}

func (s stubResolver) Principal(userID uint64) (*rbac.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.principals[userID]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return p, nil
}

// newRouter installs a cookie session and a /login route that signs in as
// user 1.
func newRouter(resolver PrincipalResolver, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, uint64(1))
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})

	chain := append([]gin.HandlerFunc{RequireAuth(), LoadPrincipal(resolver)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/items/:id", chain...)
	return r
}

func sessionCookies(t *testing.T, r *gin.Engine) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func get(r *gin.Engine, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_NoSession(t *testing.T) {
	r := newRouter(stubResolver{})

	w := get(r, "/items/1", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission(t *testing.T) {
	resolver := stubResolver{principals: map[uint64]*rbac.Principal{
		1: {UserID: 1, Permissions: rbac.NewPermissionSet(constants.PermTasksView)},
	}}

	allowed := newRouter(resolver, RequirePermission(constants.PermTasksView))
	w := get(allowed, "/items/1", sessionCookies(t, allowed))
	assert.Equal(t, http.StatusOK, w.Code)

	denied := newRouter(resolver, RequirePermission(constants.PermTasksDelete))
	w = get(denied, "/items/1", sessionCookies(t, denied))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Missing permission: tasks.delete")
}

func TestLoadPrincipal_DeletedUser(t *testing.T) {
	r := newRouter(stubResolver{principals: map[uint64]*rbac.Principal{}})

	w := get(r, "/items/1", sessionCookies(t, r))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoadPrincipal_ResolverFailure(t *testing.T) {
	r := newRouter(stubResolver{err: errors.New("database is down")})

	w := get(r, "/items/1", sessionCookies(t, r))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireIDParam(t *testing.T) {
	resolver := stubResolver{principals: map[uint64]*rbac.Principal{
		1: {UserID: 1, Permissions: rbac.NewPermissionSet()},
	}}
	var seen uint64
	r := newRouter(resolver, RequireIDParam(), func(c *gin.Context) {
		seen, _ = GetIDParam(c)
	})
	cookies := sessionCookies(t, r)

	for _, bad := range []string{"abc", "0", "-1"} {
		w := get(r, "/items/"+bad, cookies)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}

	w := get(r, "/items/42", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(42), seen)
}

func TestRequestID(t *testing.T) {
	r := newRouter(stubResolver{})

	w := get(r, "/items/1", nil)
	assert.NotEmpty(t, w.Header().Get(constants.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
	req.Header.Set(constants.RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(constants.RequestIDHeader))
}
