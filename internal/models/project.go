package models

import "time"

type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Project struct {
	ID            uint64        `gorm:"primarykey" json:"id"`
	Name          string        `gorm:"type:varchar(255);not null" json:"name"`
	Description   string        `gorm:"type:text" json:"description"`
	CreatedBy     uint64        `gorm:"not null;index" json:"created_by"`
	Status        ProjectStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority      Priority      `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	StartDate     *time.Time    `json:"start_date"`
	DueDate       *time.Time    `json:"due_date"`
	CompletedDate *time.Time    `json:"completed_date"`
	Progress      float64       `gorm:"type:decimal(5,2);not null;default:0" json:"progress"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}
