package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/rbac"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
	"github.com/yukikurage/rbac-admin-api/internal/validation"
	"gorm.io/gorm"
)

var ErrRoleNotFound = errors.New("role not found")

// RoleService manages roles and the permission sets they grant
type RoleService struct {
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo repository.RoleRepository, permissionRepo repository.PermissionRepository) *RoleService {
	return &RoleService{
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

// RoleInput is used for both create and update. Permissions is always the
// complete desired set.
type RoleInput struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

// ListRoles returns every role with its permissions
func (s *RoleService) ListRoles() ([]models.Role, error) {
	roles, err := s.roleRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// GetRole returns a role with its permissions
func (s *RoleService) GetRole(id uint64) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(id, "Permissions")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return role, nil
}

// CreateRole creates a role granting at least one permission
func (s *RoleService) CreateRole(input RoleInput) (*models.Role, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(input.Name, 0); err != nil {
		return nil, err
	}

	permissionIDs, err := s.resolvePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}

	role := &models.Role{Name: input.Name}
	if err := s.roleRepo.Create(role, permissionIDs); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return s.GetRole(role.ID)
}

// UpdateRole renames the role and replaces its permission set with exactly
// the given one.
func (s *RoleService) UpdateRole(id uint64, input RoleInput) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(input.Name, role.ID); err != nil {
		return nil, err
	}

	desired, err := s.resolvePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}

	current, err := s.roleRepo.FindPermissionsByRole(role.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}
	currentIDs := make([]uint64, len(current))
	for i, p := range current {
		currentIDs[i] = p.ID
	}

	toAdd, toRemove := rbac.DiffIDs(currentIDs, desired)

	role.Name = input.Name
	if err := s.roleRepo.Update(role, toAdd, toRemove); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return s.GetRole(role.ID)
}

// DeleteRole detaches the role from users and permissions and removes it
func (s *RoleService) DeleteRole(id uint64) error {
	if _, err := s.roleRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to find role: %w", err)
	}

	if err := s.roleRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}

func (s *RoleService) ensureNameAvailable(name string, selfID uint64) error {
	existing, err := s.roleRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check role name: %w", err)
	}
	if existing.ID != selfID {
		return validation.NewError("name", validation.MsgTaken)
	}
	return nil
}

// resolvePermissions maps permission names to IDs. Every name must exist.
func (s *RoleService) resolvePermissions(names []string) ([]uint64, error) {
	unique := uniqueNames(names)
	if len(unique) == 0 {
		return nil, validation.NewError("permissions", "must contain at least 1 item(s)")
	}

	permissions, err := s.permissionRepo.FindByNames(unique, constants.DefaultGuard)
	if err != nil {
		return nil, fmt.Errorf("failed to find permissions: %w", err)
	}

	found := make([]string, len(permissions))
	ids := make([]uint64, len(permissions))
	for i, p := range permissions {
		found[i] = p.Name
		ids[i] = p.ID
	}

	if missing := missingNames(unique, found); len(missing) > 0 {
		return nil, validation.NewError("permissions", "contains unknown permission(s): "+strings.Join(missing, ", "))
	}

	return ids, nil
}
