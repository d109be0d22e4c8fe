package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

// UserRole is the user <-> role join record.
type UserRole struct {
	UserID uint64 `gorm:"primarykey" json:"user_id"`
	RoleID uint64 `gorm:"primarykey" json:"role_id"`
}
