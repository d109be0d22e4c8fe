package dto

import (
	"time"

	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64            `json:"id"`
	ProjectID      uint64            `json:"project_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	AssignedTo     *uint64           `json:"assigned_to"`
	CreatedBy      uint64            `json:"created_by"`
	Status         models.TaskStatus `json:"status"`
	Priority       models.Priority   `json:"priority"`
	StartDate      *Date             `json:"start_date"`
	DueDate        *Date             `json:"due_date"`
	CompletedDate  *Date             `json:"completed_date"`
	EstimatedHours *int              `json:"estimated_hours"`
	ActualHours    *int              `json:"actual_hours"`
	QualityScore   *float64          `json:"quality_score"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Assignee       *UserSummaryDTO   `json:"assignee,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                 `json:"tasks"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		ProjectID:      task.ProjectID,
		Title:          task.Title,
		Description:    task.Description,
		AssignedTo:     task.AssignedTo,
		CreatedBy:      task.CreatedBy,
		Status:         task.Status,
		Priority:       task.Priority,
		StartDate:      FromTime(task.StartDate),
		DueDate:        FromTime(task.DueDate),
		CompletedDate:  FromTime(task.CompletedDate),
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		QualityScore:   task.QualityScore,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserSummaryDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse. The
// pagination block is only present when a page was requested.
func ToTaskListResponse(tasks []models.Task, page *utils.PaginationParams, totalCount int64) TaskListResponse {
	resp := TaskListResponse{Tasks: ToTaskDTOs(tasks)}
	if page != nil {
		resp.Pagination = &utils.PaginationResponse{
			Page:  page.Page,
			Limit: page.Limit,
			Total: totalCount,
		}
	}
	return resp
}
