package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
)

type Task struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	ProjectID      uint64     `gorm:"not null;index" json:"project_id"`
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	AssignedTo     *uint64    `gorm:"index" json:"assigned_to"`
	CreatedBy      uint64     `gorm:"not null" json:"created_by"`
	Status         TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Priority       Priority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
	CompletedDate  *time.Time `json:"completed_date"`
	EstimatedHours *int       `json:"estimated_hours"`
	ActualHours    *int       `json:"actual_hours"`
	QualityScore   *float64   `gorm:"type:decimal(5,2)" json:"quality_score"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Assignee *User `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
}
