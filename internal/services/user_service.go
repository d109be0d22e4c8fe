package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/rbac"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
	"github.com/yukikurage/rbac-admin-api/internal/validation"
	"gorm.io/gorm"
)

var ErrFailedToUpdateUser = errors.New("failed to update user")

// UserService handles administration of user accounts
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	access   *AccessService
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, access *AccessService) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		access:   access,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Name                 string   `json:"name" validate:"required,max=255"`
	Email                string   `json:"email" validate:"required,email,max=255"`
	Password             string   `json:"password" validate:"required,min=8,max=72,eqfield=PasswordConfirmation"`
	PasswordConfirmation string   `json:"password_confirmation"`
	Roles                []string `json:"roles"`
}

// UpdateUserInput represents input for updating a user. A nil Roles leaves
// the assignments untouched; a non-nil one replaces them.
type UpdateUserInput struct {
	Name                 *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Email                *string   `json:"email" validate:"omitempty,email,max=255"`
	Password             *string   `json:"password" validate:"omitempty,min=8,max=72,eqfield=PasswordConfirmation"`
	PasswordConfirmation string    `json:"password_confirmation"`
	Roles                *[]string `json:"roles"`
}

// ListUsers returns every user with its assigned task count and role names
func (s *UserService) ListUsers() ([]repository.UserWithTaskCount, map[uint64][]string, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uint64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	roles, err := s.userRepo.RoleNamesByUsers(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user roles: %w", err)
	}

	return users, roles, nil
}

// GetUser returns a user with its roles
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Roles")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUser validates and stores a new user with the given roles
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := ensureEmailAvailable(s.userRepo, input.Email, 0); err != nil {
		return nil, err
	}

	roleIDs, err := s.resolveRoles(input.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user, roleIDs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return s.GetUser(user.ID)
}

// UpdateUser merges the provided fields into the user. A blank password
// keeps the current hash.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Password != nil && *input.Password == "" {
		input.Password = nil
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		input.Email = &email
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := ensureEmailAvailable(s.userRepo, *input.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	var toAdd, toRemove []uint64
	if input.Roles != nil {
		desired, err := s.resolveRoles(*input.Roles)
		if err != nil {
			return nil, err
		}

		current, err := s.userRepo.FindRolesByUser(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load roles: %w", err)
		}
		currentIDs := make([]uint64, len(current))
		for i, r := range current {
			currentIDs[i] = r.ID
		}

		toAdd, toRemove = rbac.DiffIDs(currentIDs, desired)
	}

	if err := s.userRepo.Update(user, toAdd, toRemove); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToUpdateUser, err)
	}

	return s.GetUser(user.ID)
}

// DeleteUser removes a user. Their tasks stay but become unassigned.
func (s *UserService) DeleteUser(id uint64) error {
	exists, err := s.userRepo.ExistsByID(id)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// EffectivePermissions returns the sorted permission names the user holds
// through their roles
func (s *UserService) EffectivePermissions(id uint64) ([]string, error) {
	exists, err := s.userRepo.ExistsByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	perms, err := s.access.EffectivePermissions(id)
	if err != nil {
		return nil, err
	}
	return perms.Names(), nil
}

// resolveRoles maps role names to IDs. Unknown names are a field error.
func (s *UserService) resolveRoles(names []string) ([]uint64, error) {
	unique := uniqueNames(names)
	if len(unique) == 0 {
		return nil, nil
	}

	roles, err := s.roleRepo.FindByNames(unique)
	if err != nil {
		return nil, fmt.Errorf("failed to find roles: %w", err)
	}

	if missing := missingNames(unique, roleNames(roles)); len(missing) > 0 {
		return nil, validation.NewError("roles", "contains unknown role(s): "+strings.Join(missing, ", "))
	}

	ids := make([]uint64, len(roles))
	for i, r := range roles {
		ids[i] = r.ID
	}
	return ids, nil
}

func roleNames(roles []models.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}

// uniqueNames trims names, drops blanks and keeps the first occurrence of
// each.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}

// missingNames returns the wanted names that are not in found, in order.
func missingNames(wanted, found []string) []string {
	have := make(map[string]struct{}, len(found))
	for _, n := range found {
		have[n] = struct{}{}
	}

	var missing []string
	for _, n := range wanted {
		if _, ok := have[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
