package repository

import (
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// Create creates a role and links its permissions
func (r *GormRoleRepository) Create(role *models.Role, permissionIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(role).Error; err != nil {
			return err
		}
		return addRolePermissions(tx, role.ID, permissionIDs)
	})
}

// FindByID finds a role by ID with optional preloading
func (r *GormRoleRepository) FindByID(id uint64, preload ...string) (*models.Role, error) {
	var role models.Role
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName finds a role by name
func (r *GormRoleRepository) FindByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByNames returns the roles matching any of the names
func (r *GormRoleRepository) FindByNames(names []string) ([]models.Role, error) {
	var roles []models.Role
	if len(names) == 0 {
		return roles, nil
	}
	if err := r.db.Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// List returns every role with its permissions
func (r *GormRoleRepository) List() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Preload("Permissions").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Update saves the role and applies the permission diff
func (r *GormRoleRepository) Update(role *models.Role, addPermissionIDs, removePermissionIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(role).Error; err != nil {
			return err
		}

		if len(removePermissionIDs) > 0 {
			if err := tx.Where("role_id = ? AND permission_id IN ?", role.ID, removePermissionIDs).
				Delete(&models.RolePermission{}).Error; err != nil {
				return err
			}
		}

		return addRolePermissions(tx, role.ID, addPermissionIDs)
	})
}

// Delete detaches the role everywhere and removes it
func (r *GormRoleRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("role_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Role{}, id).Error
	})
}

// FindPermissionsByRole returns the permissions linked to a role
func (r *GormRoleRepository) FindPermissionsByRole(roleID uint64) ([]models.Permission, error) {
	var permissions []models.Permission
	err := r.db.
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.name ASC").
		Find(&permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

// PermissionNamesByRoles maps each role ID to its permission names
func (r *GormRoleRepository) PermissionNamesByRoles(roleIDs []uint64) (map[uint64][]string, error) {
	result := make(map[uint64][]string, len(roleIDs))
	if len(roleIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		RoleID uint64
		Name   string
	}
	err := r.db.Table("role_permissions").
		Select("role_permissions.role_id AS role_id, permissions.name AS name").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id IN ?", roleIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.RoleID] = append(result[row.RoleID], row.Name)
	}
	return result, nil
}

func addRolePermissions(tx *gorm.DB, roleID uint64, permissionIDs []uint64) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	links := make([]models.RolePermission, len(permissionIDs))
	for i, permissionID := range permissionIDs {
		links[i] = models.RolePermission{RoleID: roleID, PermissionID: permissionID}
	}

	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}
