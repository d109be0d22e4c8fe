package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/yukikurage/rbac-admin-api/internal/config"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const AdminRoleName = "System Administrator"

// defaultRoles maps the seeded roles to their permissions. The administrator
// role receives the whole catalogue and is not listed here.
var defaultRoles = map[string][]string{
	"Manager": {
		constants.PermAccessDashboard,
		constants.PermAccessLeaderboards,
		constants.PermUsersView,
		constants.PermProjectsView,
		constants.PermProjectsCreate,
		constants.PermProjectsEdit,
		constants.PermTasksView,
		constants.PermTasksCreate,
		constants.PermTasksEdit,
		constants.PermTasksDelete,
	},
	"Employee": {
		constants.PermAccessDashboard,
		constants.PermAccessLeaderboards,
		constants.PermProjectsView,
		constants.PermTasksView,
	},
}

// Seed installs the permission catalogue, the default roles and an
// administrator account. Running it again only fills in what is missing;
// existing role permission sets are left alone.
func Seed(db *gorm.DB, cfg *config.Config) error {
	return db.Transaction(func(tx *gorm.DB) error {
		permissionIDs := make(map[string]uint64, len(constants.AllPermissions))
		for _, name := range constants.AllPermissions {
			perm := models.Permission{Name: name, GuardName: constants.DefaultGuard}
			if err := tx.Where("name = ? AND guard_name = ?", name, constants.DefaultGuard).
				FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", name, err)
			}
			permissionIDs[name] = perm.ID
		}

		adminRole, err := seedRole(tx, AdminRoleName, constants.AllPermissions, permissionIDs)
		if err != nil {
			return err
		}
		for name, perms := range defaultRoles {
			if _, err := seedRole(tx, name, perms, permissionIDs); err != nil {
				return err
			}
		}

		return seedAdmin(tx, cfg, adminRole)
	})
}

func seedRole(tx *gorm.DB, name string, perms []string, permissionIDs map[string]uint64) (*models.Role, error) {
	var role models.Role
	err := tx.Where("name = ?", name).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("seed role %s: %w", name, err)
	}

	role = models.Role{Name: name}
	if err := tx.Create(&role).Error; err != nil {
		return nil, fmt.Errorf("seed role %s: %w", name, err)
	}

	links := make([]models.RolePermission, 0, len(perms))
	for _, perm := range perms {
		links = append(links, models.RolePermission{RoleID: role.ID, PermissionID: permissionIDs[perm]})
	}
	if err := tx.Create(&links).Error; err != nil {
		return nil, fmt.Errorf("seed role %s permissions: %w", name, err)
	}

	log.Printf("Seeded role %q with %d permissions", name, len(links))
	return &role, nil
}

func seedAdmin(tx *gorm.DB, cfg *config.Config, adminRole *models.Role) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
	}
	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if err := tx.Create(&models.UserRole{UserID: admin.ID, RoleID: adminRole.ID}).Error; err != nil {
		return fmt.Errorf("assign admin role: %w", err)
	}

	log.Printf("Created default admin user: %s", admin.Email)
	return nil
}
