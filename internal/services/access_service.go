package services

import (
	"fmt"

	"github.com/yukikurage/rbac-admin-api/internal/rbac"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
)

// AccessService resolves what a user is allowed to do from their roles.
type AccessService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewAccessService creates a new AccessService.
func NewAccessService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *AccessService {
	return &AccessService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// EffectivePermissions returns the union of the permissions of every role
// assigned to the user.
func (s *AccessService) EffectivePermissions(userID uint64) (rbac.PermissionSet, error) {
	roles, err := s.userRepo.FindRolesByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	assignments := rbac.NewAssignments()
	roleIDs := make([]uint64, len(roles))
	for i, role := range roles {
		assignments.AssignRole(userID, role.ID)
		roleIDs[i] = role.ID
	}

	namesByRole, err := s.roleRepo.PermissionNamesByRoles(roleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}
	for roleID, names := range namesByRole {
		for _, name := range names {
			assignments.GrantPermission(roleID, name)
		}
	}

	return assignments.Effective(userID), nil
}

// UserHasPermission reports whether any of the user's roles grants name.
func (s *AccessService) UserHasPermission(userID uint64, name string) (bool, error) {
	perms, err := s.EffectivePermissions(userID)
	if err != nil {
		return false, err
	}
	return perms.Has(name), nil
}

// Principal builds the request principal for an authenticated user.
func (s *AccessService) Principal(userID uint64) (*rbac.Principal, error) {
	exists, err := s.userRepo.ExistsByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	perms, err := s.EffectivePermissions(userID)
	if err != nil {
		return nil, err
	}

	return &rbac.Principal{UserID: userID, Permissions: perms}, nil
}
