package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/rbac-admin-api/internal/config"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/database"
	"github.com/yukikurage/rbac-admin-api/internal/middleware"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
	"github.com/yukikurage/rbac-admin-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "Admin123!"
)

// testAPI is the full router backed by a seeded in-memory database
type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))
	require.NoError(t, database.Seed(db, &config.Config{
		AdminName:     "Admin",
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
	}))

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	statsRepo, err := repository.NewStatsRepository(db)
	require.NoError(t, err)

	accessService := services.NewAccessService(userRepo, roleRepo)
	leaderboardService := services.NewLeaderboardService(userRepo, projectRepo, taskRepo)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	RegisterRoutes(r, Handlers{
		Auth:        NewAuthHandler(services.NewAuthService(userRepo, roleRepo, "Employee"), accessService),
		Users:       NewUserHandler(services.NewUserService(userRepo, roleRepo, accessService)),
		Roles:       NewRoleHandler(services.NewRoleService(roleRepo, permissionRepo)),
		Permissions: NewPermissionHandler(services.NewPermissionService(permissionRepo)),
		Projects:    NewProjectHandler(services.NewProjectService(projectRepo, taskRepo)),
		Tasks:       NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, userRepo)),
		Leaderboard: NewLeaderboardHandler(leaderboardService, services.NewDashboardService(statsRepo, leaderboardService)),
	}, accessService)

	return &testAPI{t: t, db: db, router: r}
}

// do sends a JSON request with the given session cookies
func (a *testAPI) do(method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// login returns the session cookies for the given credentials
func (a *testAPI) login(email, password string) []*http.Cookie {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(a.t, cookies)
	return cookies
}

func (a *testAPI) loginAdmin() []*http.Cookie {
	return a.login(testAdminEmail, testAdminPassword)
}

// register signs up a user with the default role and returns its id and
// session cookies.
func (a *testAPI) register(name, email string) (uint64, []*http.Cookie) {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              "supersecret",
		"password_confirmation": "supersecret",
	}, nil)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var user struct {
		ID uint64 `json:"id"`
	}
	decode(a.t, w, &user)
	return user.ID, w.Result().Cookies()
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}
