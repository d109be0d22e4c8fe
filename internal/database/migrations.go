package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/rbac-admin-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the lookup indexes the list and leaderboard queries rely on
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Task indexes for filtering and aggregation
		{&models.Task{}, "tasks", "idx_tasks_status_assigned_to", "status, assigned_to"},
		{&models.Task{}, "tasks", "idx_tasks_status_project_id", "status, project_id"},
		{&models.Task{}, "tasks", "idx_tasks_due_date", "due_date"},

		// Reverse lookups on the join tables
		{&models.UserRole{}, "user_roles", "idx_user_roles_role_id", "role_id"},
		{&models.RolePermission{}, "role_permissions", "idx_role_permissions_permission_id", "permission_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs the schema migrations followed by the extra indexes.
func MigrateDatabase(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
