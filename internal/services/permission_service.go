package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
	"github.com/yukikurage/rbac-admin-api/internal/validation"
	"gorm.io/gorm"
)

var ErrPermissionNotFound = errors.New("permission not found")

// PermissionService manages the permission catalogue
type PermissionService struct {
	permissionRepo repository.PermissionRepository
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(permissionRepo repository.PermissionRepository) *PermissionService {
	return &PermissionService{permissionRepo: permissionRepo}
}

// PermissionInput is used for both create and update. An empty guard means
// the default one.
type PermissionInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	GuardName string `json:"guard_name" validate:"omitempty,max=255"`
}

func (s *PermissionService) ListPermissions() ([]models.Permission, error) {
	permissions, err := s.permissionRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}

func (s *PermissionService) GetPermission(id uint64) (*models.Permission, error) {
	permission, err := s.permissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to find permission: %w", err)
	}
	return permission, nil
}

// CreatePermission adds a permission; names are unique per guard.
func (s *PermissionService) CreatePermission(input PermissionInput) (*models.Permission, error) {
	input = normalizePermissionInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(input.Name, input.GuardName, 0); err != nil {
		return nil, err
	}

	permission := &models.Permission{Name: input.Name, GuardName: input.GuardName}
	if err := s.permissionRepo.Create(permission); err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}
	return permission, nil
}

func (s *PermissionService) UpdatePermission(id uint64, input PermissionInput) (*models.Permission, error) {
	permission, err := s.GetPermission(id)
	if err != nil {
		return nil, err
	}

	input = normalizePermissionInput(input)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(input.Name, input.GuardName, permission.ID); err != nil {
		return nil, err
	}

	permission.Name = input.Name
	permission.GuardName = input.GuardName
	if err := s.permissionRepo.Update(permission); err != nil {
		return nil, fmt.Errorf("failed to update permission: %w", err)
	}
	return permission, nil
}

// DeletePermission removes the permission from every role, then deletes it.
func (s *PermissionService) DeletePermission(id uint64) error {
	if _, err := s.GetPermission(id); err != nil {
		return err
	}

	if err := s.permissionRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	return nil
}

func (s *PermissionService) ensureNameAvailable(name, guard string, selfID uint64) error {
	existing, err := s.permissionRepo.FindByName(name, guard)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check permission name: %w", err)
	}
	if existing.ID != selfID {
		return validation.NewError("name", validation.MsgTaken)
	}
	return nil
}

func normalizePermissionInput(input PermissionInput) PermissionInput {
	input.Name = strings.TrimSpace(input.Name)
	input.GuardName = strings.TrimSpace(input.GuardName)
	if input.GuardName == "" {
		input.GuardName = constants.DefaultGuard
	}
	return input
}
