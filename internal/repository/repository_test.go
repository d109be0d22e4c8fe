package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/rbac-admin-api/internal/database"
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RepositoryTestSuite exercises the GORM repositories against SQLite
type RepositoryTestSuite struct {
	suite.Suite
	db          *gorm.DB
	users       UserRepository
	roles       RoleRepository
	permissions PermissionRepository
	projects    ProjectRepository
	tasks       TaskRepository
}

// SetupTest runs before each test
func (suite *RepositoryTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(database.MigrateDatabase(suite.db))

	suite.users = NewUserRepository(suite.db)
	suite.roles = NewRoleRepository(suite.db)
	suite.permissions = NewPermissionRepository(suite.db)
	suite.projects = NewProjectRepository(suite.db)
	suite.tasks = NewTaskRepository(suite.db)
}

// TearDownTest runs after each test
func (suite *RepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *RepositoryTestSuite) createPermission(name string) *models.Permission {
	perm := &models.Permission{Name: name, GuardName: "web"}
	suite.Require().NoError(suite.permissions.Create(perm))
	return perm
}

func (suite *RepositoryTestSuite) createRole(name string, permissionIDs ...uint64) *models.Role {
	role := &models.Role{Name: name}
	suite.Require().NoError(suite.roles.Create(role, permissionIDs))
	return role
}

func (suite *RepositoryTestSuite) createUser(email string, roleIDs ...uint64) *models.User {
	user := &models.User{Name: email, Email: email, PasswordHash: "hashedpassword"}
	suite.Require().NoError(suite.users.Create(user, roleIDs))
	return user
}

func (suite *RepositoryTestSuite) createProject(name string, creatorID uint64) *models.Project {
	project := &models.Project{
		Name:      name,
		CreatedBy: creatorID,
		Status:    models.ProjectStatusPending,
		Priority:  models.PriorityMedium,
	}
	suite.Require().NoError(suite.projects.Create(project))
	return project
}

func (suite *RepositoryTestSuite) createTask(title string, projectID, creatorID uint64, assignee *uint64, status models.TaskStatus) *models.Task {
	task := &models.Task{
		ProjectID:  projectID,
		Title:      title,
		CreatedBy:  creatorID,
		AssignedTo: assignee,
		Status:     status,
		Priority:   models.PriorityMedium,
	}
	suite.Require().NoError(suite.tasks.Create(task))
	return task
}

func permissionNames(perms []models.Permission) []string {
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.Name
	}
	return names
}

func (suite *RepositoryTestSuite) TestRoleUpdate_AppliesPermissionDiff() {
	a := suite.createPermission("a")
	b := suite.createPermission("b")
	c := suite.createPermission("c")
	role := suite.createRole("Editor", a.ID, b.ID)

	role.Name = "Writer"
	suite.Require().NoError(suite.roles.Update(role, []uint64{c.ID}, []uint64{a.ID}))

	perms, err := suite.roles.FindPermissionsByRole(role.ID)
	suite.Require().NoError(err)
	suite.Equal([]string{"b", "c"}, permissionNames(perms))

	reloaded, err := suite.roles.FindByID(role.ID)
	suite.Require().NoError(err)
	suite.Equal("Writer", reloaded.Name)
}

func (suite *RepositoryTestSuite) TestPermissionNamesByRoles() {
	a := suite.createPermission("a")
	b := suite.createPermission("b")
	r1 := suite.createRole("One", a.ID)
	r2 := suite.createRole("Two", a.ID, b.ID)
	empty := suite.createRole("Empty")

	names, err := suite.roles.PermissionNamesByRoles([]uint64{r1.ID, r2.ID, empty.ID})
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"a"}, names[r1.ID])
	suite.ElementsMatch([]string{"a", "b"}, names[r2.ID])
	suite.Empty(names[empty.ID])
}

func (suite *RepositoryTestSuite) TestUserRoles_DiffAndLookup() {
	r1 := suite.createRole("One")
	r2 := suite.createRole("Two")
	r3 := suite.createRole("Three")
	user := suite.createUser("user@example.com", r1.ID, r2.ID)

	suite.Require().NoError(suite.users.Update(user, []uint64{r3.ID}, []uint64{r1.ID}))

	roles, err := suite.users.FindRolesByUser(user.ID)
	suite.Require().NoError(err)
	suite.Require().Len(roles, 2)
	suite.Equal("Three", roles[0].Name)
	suite.Equal("Two", roles[1].Name)

	names, err := suite.users.RoleNamesByUsers([]uint64{user.ID})
	suite.Require().NoError(err)
	suite.Equal([]string{"Three", "Two"}, names[user.ID])
}

func (suite *RepositoryTestSuite) TestUserDelete_UnassignsTasks() {
	role := suite.createRole("Worker")
	creator := suite.createUser("creator@example.com")
	worker := suite.createUser("worker@example.com", role.ID)
	project := suite.createProject("Apollo", creator.ID)
	task := suite.createTask("Build", project.ID, creator.ID, &worker.ID, models.TaskStatusPending)

	suite.Require().NoError(suite.users.Delete(worker.ID))

	reloaded, err := suite.tasks.FindByID(task.ID)
	suite.Require().NoError(err)
	suite.Nil(reloaded.AssignedTo)

	var links int64
	suite.Require().NoError(suite.db.Model(&models.UserRole{}).Where("user_id = ?", worker.ID).Count(&links).Error)
	suite.Zero(links)

	exists, err := suite.users.ExistsByID(worker.ID)
	suite.Require().NoError(err)
	suite.False(exists)
}

func (suite *RepositoryTestSuite) TestUserList_CountsAssignedTasks() {
	creator := suite.createUser("creator@example.com")
	worker := suite.createUser("worker@example.com")
	project := suite.createProject("Apollo", creator.ID)
	suite.createTask("One", project.ID, creator.ID, &worker.ID, models.TaskStatusPending)
	suite.createTask("Two", project.ID, creator.ID, &worker.ID, models.TaskStatusCompleted)

	users, err := suite.users.List()
	suite.Require().NoError(err)
	suite.Require().Len(users, 2)
	suite.Equal("creator@example.com", users[0].Email)
	suite.Zero(users[0].TasksCount)
	suite.Equal(int64(2), users[1].TasksCount)
}

func (suite *RepositoryTestSuite) TestPermissionDelete_DetachesFromRoles() {
	a := suite.createPermission("a")
	b := suite.createPermission("b")
	role := suite.createRole("Editor", a.ID, b.ID)

	suite.Require().NoError(suite.permissions.Delete(a.ID))

	perms, err := suite.roles.FindPermissionsByRole(role.ID)
	suite.Require().NoError(err)
	suite.Equal([]string{"b"}, permissionNames(perms))

	_, err = suite.permissions.FindByID(a.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestRoleDelete_DetachesUsers() {
	role := suite.createRole("Temp")
	user := suite.createUser("user@example.com", role.ID)

	suite.Require().NoError(suite.roles.Delete(role.ID))

	roles, err := suite.users.FindRolesByUser(user.ID)
	suite.Require().NoError(err)
	suite.Empty(roles)
}

func (suite *RepositoryTestSuite) TestProjectDelete_CascadesTasks() {
	creator := suite.createUser("creator@example.com")
	doomed := suite.createProject("Doomed", creator.ID)
	kept := suite.createProject("Kept", creator.ID)
	suite.createTask("A", doomed.ID, creator.ID, nil, models.TaskStatusPending)
	suite.createTask("B", doomed.ID, creator.ID, nil, models.TaskStatusPending)
	suite.createTask("C", kept.ID, creator.ID, nil, models.TaskStatusPending)

	suite.Require().NoError(suite.projects.Delete(doomed.ID))

	tasks, err := suite.tasks.FindTasksByProject(doomed.ID)
	suite.Require().NoError(err)
	suite.Empty(tasks)

	tasks, err = suite.tasks.FindTasksByProject(kept.ID)
	suite.Require().NoError(err)
	suite.Len(tasks, 1)
}

func (suite *RepositoryTestSuite) TestProjectList_TaskCounts() {
	creator := suite.createUser("creator@example.com")
	project := suite.createProject("Apollo", creator.ID)
	suite.createTask("A", project.ID, creator.ID, nil, models.TaskStatusCompleted)
	suite.createTask("B", project.ID, creator.ID, nil, models.TaskStatusPending)

	projects, err := suite.projects.List()
	suite.Require().NoError(err)
	suite.Require().Len(projects, 1)
	suite.Equal("Apollo", projects[0].Name)
	suite.Equal(int64(2), projects[0].TasksCount)
	suite.Equal(int64(1), projects[0].CompletedTasksCount)
}

func (suite *RepositoryTestSuite) TestTaskList_FiltersAndPagination() {
	creator := suite.createUser("creator@example.com")
	worker := suite.createUser("worker@example.com")
	p1 := suite.createProject("One", creator.ID)
	p2 := suite.createProject("Two", creator.ID)
	suite.createTask("A", p1.ID, creator.ID, &worker.ID, models.TaskStatusPending)
	suite.createTask("B", p1.ID, creator.ID, nil, models.TaskStatusCompleted)
	suite.createTask("C", p1.ID, creator.ID, &worker.ID, models.TaskStatusCompleted)
	suite.createTask("D", p2.ID, creator.ID, &worker.ID, models.TaskStatusCompleted)

	completed := models.TaskStatusCompleted
	tasks, total, err := suite.tasks.List(TaskFilter{ProjectID: &p1.ID, Status: &completed})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(tasks, 2)

	tasks, total, err = suite.tasks.List(TaskFilter{AssignedTo: &worker.ID, Page: 2, PageSize: 2})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(tasks, 1)
	suite.Equal("D", tasks[0].Title)
	suite.Require().NotNil(tasks[0].Assignee)
	suite.Equal(worker.Email, tasks[0].Assignee.Email)
}

func (suite *RepositoryTestSuite) TestMarkOverdue() {
	creator := suite.createUser("creator@example.com")
	project := suite.createProject("Apollo", creator.ID)
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	late := suite.createTask("late", project.ID, creator.ID, nil, models.TaskStatusInProgress)
	late.DueDate = &yesterday
	suite.Require().NoError(suite.tasks.Update(late))

	done := suite.createTask("done", project.ID, creator.ID, nil, models.TaskStatusCompleted)
	done.DueDate = &yesterday
	suite.Require().NoError(suite.tasks.Update(done))

	onTime := suite.createTask("on time", project.ID, creator.ID, nil, models.TaskStatusPending)
	onTime.DueDate = &today
	suite.Require().NoError(suite.tasks.Update(onTime))

	suite.createTask("no due date", project.ID, creator.ID, nil, models.TaskStatusPending)

	n, err := suite.tasks.MarkOverdue(today)
	suite.Require().NoError(err)
	suite.Equal(int64(1), n)

	reloaded, err := suite.tasks.FindByID(late.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusOverdue, reloaded.Status)
}

func (suite *RepositoryTestSuite) TestListCompleted_AndDashboardCounts() {
	creator := suite.createUser("creator@example.com")
	project := suite.createProject("Apollo", creator.ID)
	suite.createTask("A", project.ID, creator.ID, &creator.ID, models.TaskStatusCompleted)
	suite.createTask("B", project.ID, creator.ID, nil, models.TaskStatusPending)

	completed, err := suite.tasks.ListCompleted()
	suite.Require().NoError(err)
	suite.Require().Len(completed, 1)
	suite.Equal(project.ID, completed[0].ProjectID)
	suite.Require().NotNil(completed[0].AssignedTo)
	suite.Equal(creator.ID, *completed[0].AssignedTo)

	stats, err := NewStatsRepository(suite.db)
	suite.Require().NoError(err)

	counts, err := stats.DashboardCounts()
	suite.Require().NoError(err)
	suite.Equal(DashboardCounts{TotalUsers: 1, TasksCompleted: 1, TotalProjects: 1}, counts)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func TestUserRepository_CreateRollsBackOnInsertError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	repo := NewUserRepository(db)
	err = repo.Create(&models.User{Name: "x", Email: "x@example.com", PasswordHash: "h"}, []uint64{1})

	require.ErrorIs(t, err, ErrCreateUser)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlxDriverName(t *testing.T) {
	require.Equal(t, "pgx", sqlxDriverName("postgres"))
	require.Equal(t, "sqlite3", sqlxDriverName("sqlite"))
	require.Equal(t, "mysql", sqlxDriverName("mysql"))
}
