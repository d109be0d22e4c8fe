package dto

import (
	"time"

	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID                  uint64               `json:"id"`
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	CreatedBy           uint64               `json:"created_by"`
	Status              models.ProjectStatus `json:"status"`
	Priority            models.Priority      `json:"priority"`
	StartDate           *Date                `json:"start_date"`
	DueDate             *Date                `json:"due_date"`
	CompletedDate       *Date                `json:"completed_date"`
	Progress            float64              `json:"progress"`
	TasksCount          *int64               `json:"tasks_count,omitempty"`
	CompletedTasksCount *int64               `json:"completed_tasks_count,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// ProjectDetailDTO is a project together with its tasks
type ProjectDetailDTO struct {
	ProjectDTO
	Tasks []TaskDTO `json:"tasks"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		CreatedBy:     project.CreatedBy,
		Status:        project.Status,
		Priority:      project.Priority,
		StartDate:     FromTime(project.StartDate),
		DueDate:       FromTime(project.DueDate),
		CompletedDate: FromTime(project.CompletedDate),
		Progress:      project.Progress,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
}

// ToProjectListDTO converts list rows, carrying the task counts
func ToProjectListDTO(rows []repository.ProjectWithTaskCount) []ProjectDTO {
	items := make([]ProjectDTO, len(rows))
	for i, row := range rows {
		total, completed := row.TasksCount, row.CompletedTasksCount
		items[i] = ToProjectDTO(row.Project)
		items[i].TasksCount = &total
		items[i].CompletedTasksCount = &completed
	}
	return items
}

// ToProjectDetailDTO converts a project and its tasks
func ToProjectDetailDTO(project models.Project, tasks []models.Task) ProjectDetailDTO {
	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Tasks:      ToTaskDTOs(tasks),
	}
}
