package repository

import (
	"time"

	"github.com/yukikurage/rbac-admin-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a user and assigns the given roles in one transaction
	Create(user *models.User, roleIDs []uint64) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns every user with the number of tasks assigned to them
	List() ([]UserWithTaskCount, error)

	// ListAll returns every user without counts
	ListAll() ([]models.User, error)

	// Update saves the user and applies a role diff in one transaction
	Update(user *models.User, addRoleIDs, removeRoleIDs []uint64) error

	// Delete removes the user, its role assignments, and unassigns its tasks
	Delete(id uint64) error

	// FindRolesByUser returns the roles assigned to a user
	FindRolesByUser(userID uint64) ([]models.Role, error)

	// RoleNamesByUsers maps each user ID to its role names
	RoleNamesByUsers(userIDs []uint64) (map[uint64][]string, error)

	// ExistsByID reports whether a user exists
	ExistsByID(id uint64) (bool, error)
}

// UserWithTaskCount is a user row plus its assigned task count
type UserWithTaskCount struct {
	models.User
	TasksCount int64
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	// Create creates a role and links its permissions in one transaction
	Create(role *models.Role, permissionIDs []uint64) error

	// FindByID finds a role by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Role, error)

	// FindByName finds a role by name
	FindByName(name string) (*models.Role, error)

	// FindByNames returns the roles matching any of the names
	FindByNames(names []string) ([]models.Role, error)

	// List returns every role with its permissions
	List() ([]models.Role, error)

	// Update saves the role and applies a permission diff in one transaction
	Update(role *models.Role, addPermissionIDs, removePermissionIDs []uint64) error

	// Delete detaches the role from users and permissions and removes it
	Delete(id uint64) error

	// FindPermissionsByRole returns the permissions linked to a role
	FindPermissionsByRole(roleID uint64) ([]models.Permission, error)

	// PermissionNamesByRoles maps each role ID to its permission names
	PermissionNamesByRoles(roleIDs []uint64) (map[uint64][]string, error)
}

// PermissionRepository defines the interface for permission data access
type PermissionRepository interface {
	Create(permission *models.Permission) error
	FindByID(id uint64) (*models.Permission, error)
	FindByName(name, guard string) (*models.Permission, error)
	FindByNames(names []string, guard string) ([]models.Permission, error)
	List() ([]models.Permission, error)
	Update(permission *models.Permission) error

	// Delete removes the permission from every role and deletes it
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id uint64) (*models.Project, error)

	// List returns every project in creation order with task counts
	List() ([]ProjectWithTaskCount, error)

	// ListAll returns every project without counts
	ListAll() ([]models.Project, error)

	Update(project *models.Project) error

	// Delete removes the project and all of its tasks
	Delete(id uint64) error

	// ExistsByID reports whether a project exists
	ExistsByID(id uint64) (bool, error)
}

// ProjectWithTaskCount is a project row plus its task counts
type ProjectWithTaskCount struct {
	models.Project
	TasksCount          int64
	CompletedTasksCount int64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and optional pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task
	Delete(id uint64) error

	// FindTasksByProject returns all tasks of a project
	FindTasksByProject(projectID uint64) ([]models.Task, error)

	// ListCompleted returns every task whose status is completed
	ListCompleted() ([]models.Task, error)

	// MarkOverdue flags open tasks due before the given day as overdue
	MarkOverdue(before time.Time) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID  *uint64
	AssignedTo *uint64
	Status     *models.TaskStatus
	Page       int
	PageSize   int
}

// StatsRepository reads aggregate counters for the dashboard
type StatsRepository interface {
	DashboardCounts() (DashboardCounts, error)
}

// DashboardCounts holds the dashboard counters
type DashboardCounts struct {
	TotalUsers     int64 `db:"total_users"`
	TasksCompleted int64 `db:"tasks_completed"`
	TotalProjects  int64 `db:"total_projects"`
}
