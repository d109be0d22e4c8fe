package models

import "time"

type Permission struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_permissions_name_guard" json:"name"`
	GuardName string    `gorm:"type:varchar(64);not null;default:'web';uniqueIndex:idx_permissions_name_guard" json:"guard_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
