package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/rbac-admin-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when inserting the user row fails.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrAssignRoles is returned when writing user_roles rows fails.
	ErrAssignRoles = errors.New("user repository: assign roles failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a user and its role assignments atomically.
func (r *GormUserRepository) Create(user *models.User, roleIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		if err := addUserRoles(tx, user.ID, roleIDs); err != nil {
			return fmt.Errorf("%w: %v", ErrAssignRoles, err)
		}

		return nil
	})
}

// FindByID finds a user by ID with optional preloading
func (r *GormUserRepository) FindByID(id uint64, preload ...string) (*models.User, error) {
	var user models.User
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every user with the number of tasks assigned to them
func (r *GormUserRepository) List() ([]UserWithTaskCount, error) {
	var users []UserWithTaskCount
	err := r.db.Model(&models.User{}).
		Select("users.*, (SELECT COUNT(*) FROM tasks WHERE tasks.assigned_to = users.id) AS tasks_count").
		Order("users.id ASC").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListAll returns every user
func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update saves the user and applies the role diff
func (r *GormUserRepository) Update(user *models.User, addRoleIDs, removeRoleIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}

		if len(removeRoleIDs) > 0 {
			if err := tx.Where("user_id = ? AND role_id IN ?", user.ID, removeRoleIDs).
				Delete(&models.UserRole{}).Error; err != nil {
				return err
			}
		}

		return addUserRoles(tx, user.ID, addRoleIDs)
	})
}

// Delete removes a user. Tasks assigned to the user are kept and unassigned.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("assigned_to = ?", id).
			Update("assigned_to", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// FindRolesByUser returns the roles assigned to a user
func (r *GormUserRepository) FindRolesByUser(userID uint64) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// RoleNamesByUsers maps each user ID to its role names, sorted by name
func (r *GormUserRepository) RoleNamesByUsers(userIDs []uint64) (map[uint64][]string, error) {
	result := make(map[uint64][]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		UserID uint64
		Name   string
	}
	err := r.db.Table("user_roles").
		Select("user_roles.user_id AS user_id, roles.name AS name").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id IN ?", userIDs).
		Order("roles.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], row.Name)
	}
	return result, nil
}

// ExistsByID reports whether a user exists
func (r *GormUserRepository) ExistsByID(id uint64) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func addUserRoles(tx *gorm.DB, userID uint64, roleIDs []uint64) error {
	if len(roleIDs) == 0 {
		return nil
	}

	links := make([]models.UserRole, len(roleIDs))
	for i, roleID := range roleIDs {
		links[i] = models.UserRole{UserID: userID, RoleID: roleID}
	}

	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}
