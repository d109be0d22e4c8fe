package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
	"github.com/yukikurage/rbac-admin-api/internal/validation"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name          string               `json:"name" validate:"required,max=255"`
	Description   string               `json:"description"`
	Status        models.ProjectStatus `json:"status" validate:"omitempty,oneof=pending in_progress completed on_hold"`
	Priority      models.Priority      `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	StartDate     *time.Time           `json:"start_date"`
	DueDate       *time.Time           `json:"due_date"`
	CompletedDate *time.Time           `json:"completed_date"`
	Progress      *float64             `json:"progress" validate:"required,min=0,max=100"`
	CreatedBy     uint64               `json:"-"`
}

// UpdateProjectInput represents input for updating a project. Clear* flags
// null out the matching date.
type UpdateProjectInput struct {
	Name               *string               `json:"name" validate:"omitempty,min=1,max=255"`
	Description        *string               `json:"description"`
	Status             *models.ProjectStatus `json:"status" validate:"omitempty,oneof=pending in_progress completed on_hold"`
	Priority           *models.Priority      `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	StartDate          *time.Time            `json:"start_date"`
	ClearStartDate     bool                  `json:"-"`
	DueDate            *time.Time            `json:"due_date"`
	ClearDueDate       bool                  `json:"-"`
	CompletedDate      *time.Time            `json:"completed_date"`
	ClearCompletedDate bool                  `json:"-"`
	Progress           *float64              `json:"progress" validate:"omitempty,min=0,max=100"`
}

// ListProjects returns every project with task counts
func (s *ProjectService) ListProjects() ([]repository.ProjectWithTaskCount, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project together with its tasks
func (s *ProjectService) GetProject(id uint64) (*models.Project, []models.Task, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, nil, err
	}

	tasks, err := s.taskRepo.FindTasksByProject(project.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load project tasks: %w", err)
	}

	return project, tasks, nil
}

// CreateProject creates a project owned by input.CreatedBy
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := checkDateOrder(input.StartDate, input.DueDate); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.ProjectStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	project := &models.Project{
		Name:          input.Name,
		Description:   input.Description,
		CreatedBy:     input.CreatedBy,
		Status:        input.Status,
		Priority:      input.Priority,
		StartDate:     input.StartDate,
		DueDate:       input.DueDate,
		CompletedDate: input.CompletedDate,
		Progress:      *input.Progress,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// UpdateProject merges the provided fields into the project
func (s *ProjectService) UpdateProject(id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.Priority != nil {
		project.Priority = *input.Priority
	}
	if input.Progress != nil {
		project.Progress = *input.Progress
	}
	project.StartDate = mergeDate(project.StartDate, input.StartDate, input.ClearStartDate)
	project.DueDate = mergeDate(project.DueDate, input.DueDate, input.ClearDueDate)
	project.CompletedDate = mergeDate(project.CompletedDate, input.CompletedDate, input.ClearCompletedDate)

	if err := checkDateOrder(project.StartDate, project.DueDate); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and all of its tasks
func (s *ProjectService) DeleteProject(id uint64) error {
	if _, err := s.findProject(id); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) findProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// checkDateOrder rejects a due date that falls before the start date.
func checkDateOrder(start, due *time.Time) error {
	if start != nil && due != nil && due.Before(*start) {
		return validation.NewError("due_date", validation.MsgDueBeforeStart)
	}
	return nil
}

func mergeDate(current, next *time.Time, reset bool) *time.Time {
	if reset {
		return nil
	}
	if next != nil {
		return next
	}
	return current
}
