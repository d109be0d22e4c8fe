package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/middleware"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Roles       *RoleHandler
	Permissions *PermissionHandler
	Projects    *ProjectHandler
	Tasks       *TaskHandler
	Leaderboard *LeaderboardHandler
}

// crud is the handler set of one administrable resource
type crud struct {
	list, get, create, update, remove gin.HandlerFunc
}

// RegisterRoutes mounts the API under /api. Session middleware must already
// be installed on r.
func RegisterRoutes(r *gin.Engine, h Handlers, principals middleware.PrincipalResolver) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "RBAC Admin API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(), middleware.LoadPrincipal(principals))

		users := mountCRUD(protected, "/users", "users", crud{
			list:   h.Users.ListUsers,
			get:    h.Users.GetUser,
			create: h.Users.CreateUser,
			update: h.Users.UpdateUser,
			remove: h.Users.DeleteUser,
		})
		users.GET("/:id/permissions",
			middleware.RequirePermission(constants.PermUsersView), middleware.RequireIDParam(), h.Users.GetUserPermissions)

		mountCRUD(protected, "/roles", "roles", crud{
			list:   h.Roles.ListRoles,
			get:    h.Roles.GetRole,
			create: h.Roles.CreateRole,
			update: h.Roles.UpdateRole,
			remove: h.Roles.DeleteRole,
		})

		mountCRUD(protected, "/permissions", "permissions", crud{
			list:   h.Permissions.ListPermissions,
			get:    h.Permissions.GetPermission,
			create: h.Permissions.CreatePermission,
			update: h.Permissions.UpdatePermission,
			remove: h.Permissions.DeletePermission,
		})

		mountCRUD(protected, "/projects", "projects", crud{
			list:   h.Projects.ListProjects,
			get:    h.Projects.GetProject,
			create: h.Projects.CreateProject,
			update: h.Projects.UpdateProject,
			remove: h.Projects.DeleteProject,
		})

		mountCRUD(protected, "/tasks", "tasks", crud{
			list:   h.Tasks.ListTasks,
			get:    h.Tasks.GetTask,
			create: h.Tasks.CreateTask,
			update: h.Tasks.UpdateTask,
			remove: h.Tasks.DeleteTask,
		})

		// Tasks assigned to the caller (authentication only)
		me := protected.Group("/me")
		{
			me.GET("/tasks", h.Tasks.ListMyTasks)
			me.PATCH("/tasks/:id/status", middleware.RequireIDParam(), h.Tasks.UpdateMyTaskStatus)
		}

		leaderboards := protected.Group("/leaderboard")
		leaderboards.Use(middleware.RequirePermission(constants.PermAccessLeaderboards))
		{
			leaderboards.GET("", h.Leaderboard.UserLeaderboard)
			leaderboards.GET("/projects", h.Leaderboard.ProjectLeaderboard)
		}

		protected.GET("/dashboard",
			middleware.RequirePermission(constants.PermAccessDashboard), h.Leaderboard.Dashboard)
	}
}

// mountCRUD registers list/create/read/update/delete for a resource, each
// guarded by "<resource>.view|create|edit|delete".
func mountCRUD(parent *gin.RouterGroup, path, resource string, h crud) *gin.RouterGroup {
	group := parent.Group(path)
	{
		group.GET("", middleware.RequirePermission(resource+".view"), h.list)
		group.POST("", middleware.RequirePermission(resource+".create"), h.create)
		group.GET("/:id", middleware.RequirePermission(resource+".view"), middleware.RequireIDParam(), h.get)
		group.PUT("/:id", middleware.RequirePermission(resource+".edit"), middleware.RequireIDParam(), h.update)
		group.PATCH("/:id", middleware.RequirePermission(resource+".edit"), middleware.RequireIDParam(), h.update)
		group.DELETE("/:id", middleware.RequirePermission(resource+".delete"), middleware.RequireIDParam(), h.remove)
	}
	return group
}
