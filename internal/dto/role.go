package dto

import (
	"sort"
	"time"

	"github.com/yukikurage/rbac-admin-api/internal/models"
)

// PermissionDTO represents a permission in API responses
type PermissionDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	GuardName string    `json:"guard_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleDTO represents a role with its permission names
type RoleDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToPermissionDTO converts a Permission model to PermissionDTO
func ToPermissionDTO(permission models.Permission) PermissionDTO {
	return PermissionDTO{
		ID:        permission.ID,
		Name:      permission.Name,
		GuardName: permission.GuardName,
		CreatedAt: permission.CreatedAt,
		UpdatedAt: permission.UpdatedAt,
	}
}

// ToPermissionDTOs converts a slice of permissions
func ToPermissionDTOs(permissions []models.Permission) []PermissionDTO {
	items := make([]PermissionDTO, len(permissions))
	for i, p := range permissions {
		items[i] = ToPermissionDTO(p)
	}
	return items
}

// ToRoleDTO converts a Role model to RoleDTO. Permission names are sorted.
func ToRoleDTO(role models.Role) RoleDTO {
	names := make([]string, len(role.Permissions))
	for i, p := range role.Permissions {
		names[i] = p.Name
	}
	sort.Strings(names)

	return RoleDTO{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: names,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

// ToRoleDTOs converts a slice of roles
func ToRoleDTOs(roles []models.Role) []RoleDTO {
	items := make([]RoleDTO, len(roles))
	for i, r := range roles {
		items[i] = ToRoleDTO(r)
	}
	return items
}
