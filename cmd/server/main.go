package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/config"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/database"
	"github.com/yukikurage/rbac-admin-api/internal/handlers"
	"github.com/yukikurage/rbac-admin-api/internal/middleware"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
	"github.com/yukikurage/rbac-admin-api/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	// Run migrations
	if err := database.MigrateDatabase(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.Seed {
		if err := database.Seed(db, cfg); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	// Configure session options based on environment
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	statsRepo, err := repository.NewStatsRepository(db)
	if err != nil {
		log.Fatalf("Failed to create stats repository: %v", err)
	}

	// Services
	accessService := services.NewAccessService(userRepo, roleRepo)
	leaderboardService := services.NewLeaderboardService(userRepo, projectRepo, taskRepo)

	// Overdue sweeper
	if cfg.OverdueSweepInterval > 0 {
		scheduler := services.NewSchedulerService()
		overdue := services.NewOverdueService(taskRepo)
		if _, err := scheduler.ScheduleInterval(cfg.OverdueSweepInterval, overdue.Job); err != nil {
			log.Fatalf("Failed to schedule overdue sweep: %v", err)
		}
		overdue.Job()
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("Overdue sweep scheduled every %s", cfg.OverdueSweepInterval)
	}

	// Initialize handlers
	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:        handlers.NewAuthHandler(services.NewAuthService(userRepo, roleRepo, cfg.DefaultRole), accessService),
		Users:       handlers.NewUserHandler(services.NewUserService(userRepo, roleRepo, accessService)),
		Roles:       handlers.NewRoleHandler(services.NewRoleService(roleRepo, permissionRepo)),
		Permissions: handlers.NewPermissionHandler(services.NewPermissionService(permissionRepo)),
		Projects:    handlers.NewProjectHandler(services.NewProjectService(projectRepo, taskRepo)),
		Tasks:       handlers.NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, userRepo)),
		Leaderboard: handlers.NewLeaderboardHandler(
			leaderboardService,
			services.NewDashboardService(statsRepo, leaderboardService),
		),
	}, accessService)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := serve(ctx, srv); err != nil {
		log.Printf("Server stopped with error: %v", err)
		return
	}
	log.Println("Shutdown complete.")
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// newSessionStore builds the Redis store, or a signed cookie store when
// SESSION_STORE=cookie.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.SessionStore == "cookie" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	return redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
}
