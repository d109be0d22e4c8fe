package repository

import (
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"gorm.io/gorm"
)

// GormPermissionRepository is a GORM implementation of PermissionRepository
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new PermissionRepository
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &GormPermissionRepository{db: db}
}

func (r *GormPermissionRepository) Create(permission *models.Permission) error {
	return r.db.Create(permission).Error
}

func (r *GormPermissionRepository) FindByID(id uint64) (*models.Permission, error) {
	var permission models.Permission
	if err := r.db.First(&permission, id).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *GormPermissionRepository) FindByName(name, guard string) (*models.Permission, error) {
	var permission models.Permission
	if err := r.db.Where("name = ? AND guard_name = ?", name, guard).First(&permission).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *GormPermissionRepository) FindByNames(names []string, guard string) ([]models.Permission, error) {
	var permissions []models.Permission
	if len(names) == 0 {
		return permissions, nil
	}
	if err := r.db.Where("name IN ? AND guard_name = ?", names, guard).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *GormPermissionRepository) List() ([]models.Permission, error) {
	var permissions []models.Permission
	if err := r.db.Order("name ASC").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *GormPermissionRepository) Update(permission *models.Permission) error {
	return r.db.Save(permission).Error
}

// Delete removes the permission from every role that references it, then
// deletes the permission itself.
func (r *GormPermissionRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Permission{}, id).Error
	})
}
