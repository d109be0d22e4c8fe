package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/rbac-admin-api/internal/config"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, MigrateDatabase(db))
	return db
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBPath: ":memory:"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestMigrateDatabase_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, MigrateDatabase(db))
	assert.True(t, db.Migrator().HasTable("role_permissions"))
	assert.True(t, db.Migrator().HasTable("user_roles"))
	assert.True(t, db.Migrator().HasIndex(&models.Task{}, "idx_tasks_due_date"))
}

func TestSeed(t *testing.T) {
	db := openTestDB(t)
	cfg := &config.Config{
		AdminName:     "Admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "Admin123!",
	}

	require.NoError(t, Seed(db, cfg))
	// Second run must not duplicate anything
	require.NoError(t, Seed(db, cfg))

	var permCount int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount).Error)
	assert.Equal(t, int64(len(constants.AllPermissions)), permCount)

	var admin models.Role
	require.NoError(t, db.Preload("Permissions").Where("name = ?", AdminRoleName).First(&admin).Error)
	assert.Len(t, admin.Permissions, len(constants.AllPermissions))

	var user models.User
	require.NoError(t, db.Preload("Roles").Where("email = ?", cfg.AdminEmail).First(&user).Error)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, AdminRoleName, user.Roles[0].Name)

	var roleCount int64
	require.NoError(t, db.Model(&models.Role{}).Count(&roleCount).Error)
	assert.Equal(t, int64(3), roleCount)
}
