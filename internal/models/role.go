package models

import "time"

type Role struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// RolePermission is the role <-> permission join record. Permissions are
// shared between roles, never owned by one.
type RolePermission struct {
	RoleID       uint64 `gorm:"primarykey" json:"role_id"`
	PermissionID uint64 `gorm:"primarykey" json:"permission_id"`
}
