package constants

const (
	// Session / context keys
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "rbac_session"
	RequestIDHeader     = "X-Request-ID"

	MinPasswordLength = 8
	MaxNameLength     = 255

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Permissions are scoped by guard; everything in this API uses the web guard.
	DefaultGuard = "web"
)

// Permission names checked by the router.
const (
	PermUsersView   = "users.view"
	PermUsersCreate = "users.create"
	PermUsersEdit   = "users.edit"
	PermUsersDelete = "users.delete"

	PermRolesView   = "roles.view"
	PermRolesCreate = "roles.create"
	PermRolesEdit   = "roles.edit"
	PermRolesDelete = "roles.delete"

	PermPermissionsView   = "permissions.view"
	PermPermissionsCreate = "permissions.create"
	PermPermissionsEdit   = "permissions.edit"
	PermPermissionsDelete = "permissions.delete"

	PermProjectsView   = "projects.view"
	PermProjectsCreate = "projects.create"
	PermProjectsEdit   = "projects.edit"
	PermProjectsDelete = "projects.delete"

	PermTasksView   = "tasks.view"
	PermTasksCreate = "tasks.create"
	PermTasksEdit   = "tasks.edit"
	PermTasksDelete = "tasks.delete"

	PermAccessDashboard    = "access.dashboard"
	PermAccessLeaderboards = "access.leaderboards"
)

// AllPermissions is the seeded permission catalogue.
var AllPermissions = []string{
	PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete,
	PermRolesView, PermRolesCreate, PermRolesEdit, PermRolesDelete,
	PermPermissionsView, PermPermissionsCreate, PermPermissionsEdit, PermPermissionsDelete,
	PermProjectsView, PermProjectsCreate, PermProjectsEdit, PermProjectsDelete,
	PermTasksView, PermTasksCreate, PermTasksEdit, PermTasksDelete,
	PermAccessDashboard, PermAccessLeaderboards,
}

// ContextKeyResourceID holds the parsed :id route parameter.
const ContextKeyResourceID = "resource_id"
