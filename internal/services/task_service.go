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

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrNotTaskAssignee  = errors.New("only the assignee can change the status of this task")
	ErrFailedToSaveTask = errors.New("failed to save task")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// ListTasksInput represents filters for listing tasks. A zero Page lists
// everything.
type ListTasksInput struct {
	ProjectID  *uint64
	AssignedTo *uint64
	Status     *models.TaskStatus `json:"status" validate:"omitempty,oneof=pending in_progress completed overdue"`
	Page       int
	PageSize   int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID      uint64            `json:"project_id" validate:"required"`
	Title          string            `json:"title" validate:"required,max=255"`
	Description    string            `json:"description"`
	AssignedTo     *uint64           `json:"assigned_to"`
	Status         models.TaskStatus `json:"status" validate:"omitempty,oneof=pending in_progress completed overdue"`
	Priority       models.Priority   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	StartDate      *time.Time        `json:"start_date"`
	DueDate        *time.Time        `json:"due_date"`
	CompletedDate  *time.Time        `json:"completed_date"`
	EstimatedHours *int              `json:"estimated_hours" validate:"omitempty,min=0"`
	ActualHours    *int              `json:"actual_hours" validate:"omitempty,min=0"`
	QualityScore   *float64          `json:"quality_score" validate:"omitempty,min=0,max=100"`
	CreatedBy      uint64            `json:"-"`
}

// UpdateTaskInput represents input for updating a task. Clear* flags null
// out the matching field.
type UpdateTaskInput struct {
	ProjectID           *uint64            `json:"project_id"`
	Title               *string            `json:"title" validate:"omitempty,min=1,max=255"`
	Description         *string            `json:"description"`
	AssignedTo          *uint64            `json:"assigned_to"`
	ClearAssignedTo     bool               `json:"-"`
	Status              *models.TaskStatus `json:"status" validate:"omitempty,oneof=pending in_progress completed overdue"`
	Priority            *models.Priority   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	StartDate           *time.Time         `json:"start_date"`
	ClearStartDate      bool               `json:"-"`
	DueDate             *time.Time         `json:"due_date"`
	ClearDueDate        bool               `json:"-"`
	CompletedDate       *time.Time         `json:"completed_date"`
	ClearCompletedDate  bool               `json:"-"`
	EstimatedHours      *int               `json:"estimated_hours" validate:"omitempty,min=0"`
	ClearEstimatedHours bool               `json:"-"`
	ActualHours         *int               `json:"actual_hours" validate:"omitempty,min=0"`
	ClearActualHours    bool               `json:"-"`
	QualityScore        *float64           `json:"quality_score" validate:"omitempty,min=0,max=100"`
	ClearQualityScore   bool               `json:"-"`
}

type statusInput struct {
	Status models.TaskStatus `json:"status" validate:"required,oneof=pending in_progress completed overdue"`
}

// ListTasks returns tasks matching the filters and the total match count
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	if err := validation.Struct(input); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		ProjectID:  input.ProjectID,
		AssignedTo: input.AssignedTo,
		Status:     input.Status,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListAssignedTasks returns every task assigned to the user
func (s *TaskService) ListAssignedTasks(userID uint64) ([]models.Task, error) {
	tasks, _, err := s.taskRepo.List(repository.TaskFilter{AssignedTo: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a task with its assignee
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a new task in an existing project
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	verr := &validation.Error{}
	if err := s.checkReferences(verr, &input.ProjectID, input.AssignedTo); err != nil {
		return nil, err
	}
	if err := checkDateOrder(input.StartDate, input.DueDate); err != nil {
		verr.Add("due_date", validation.MsgDueBeforeStart)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	task := &models.Task{
		ProjectID:      input.ProjectID,
		Title:          input.Title,
		Description:    input.Description,
		AssignedTo:     input.AssignedTo,
		CreatedBy:      input.CreatedBy,
		Status:         input.Status,
		Priority:       input.Priority,
		StartDate:      input.StartDate,
		DueDate:        input.DueDate,
		CompletedDate:  input.CompletedDate,
		EstimatedHours: input.EstimatedHours,
		ActualHours:    input.ActualHours,
		QualityScore:   input.QualityScore,
	}
	s.stampCompletion(task)

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToSaveTask, err)
	}

	return s.GetTask(task.ID)
}

// UpdateTask merges the provided fields into the task
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		input.Title = &title
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	verr := &validation.Error{}
	if err := s.checkReferences(verr, input.ProjectID, input.AssignedTo); err != nil {
		return nil, err
	}

	if input.ProjectID != nil {
		task.ProjectID = *input.ProjectID
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearAssignedTo {
		task.AssignedTo = nil
	} else if input.AssignedTo != nil {
		task.AssignedTo = input.AssignedTo
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	task.StartDate = mergeDate(task.StartDate, input.StartDate, input.ClearStartDate)
	task.DueDate = mergeDate(task.DueDate, input.DueDate, input.ClearDueDate)
	task.CompletedDate = mergeDate(task.CompletedDate, input.CompletedDate, input.ClearCompletedDate)
	task.EstimatedHours = mergeInt(task.EstimatedHours, input.EstimatedHours, input.ClearEstimatedHours)
	task.ActualHours = mergeInt(task.ActualHours, input.ActualHours, input.ClearActualHours)
	if input.ClearQualityScore {
		task.QualityScore = nil
	} else if input.QualityScore != nil {
		task.QualityScore = input.QualityScore
	}

	if err := checkDateOrder(task.StartDate, task.DueDate); err != nil {
		verr.Add("due_date", validation.MsgDueBeforeStart)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	s.stampCompletion(task)
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToSaveTask, err)
	}

	return s.GetTask(task.ID)
}

// UpdateAssignedTaskStatus lets the assignee of a task move it between
// statuses.
func (s *TaskService) UpdateAssignedTaskStatus(taskID, userID uint64, status models.TaskStatus) (*models.Task, error) {
	if err := validation.Struct(statusInput{Status: status}); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.AssignedTo == nil || *task.AssignedTo != userID {
		return nil, ErrNotTaskAssignee
	}

	task.Status = status
	s.stampCompletion(task)
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToSaveTask, err)
	}

	return s.GetTask(task.ID)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// checkReferences records field errors for a project or assignee that does
// not exist. Only lookup failures are returned.
func (s *TaskService) checkReferences(verr *validation.Error, projectID, assignedTo *uint64) error {
	if projectID != nil {
		exists, err := s.projectRepo.ExistsByID(*projectID)
		if err != nil {
			return fmt.Errorf("failed to find project: %w", err)
		}
		if !exists {
			verr.Add("project_id", validation.MsgDoesNotExist)
		}
	}

	if assignedTo != nil {
		exists, err := s.userRepo.ExistsByID(*assignedTo)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		if !exists {
			verr.Add("assigned_to", validation.MsgDoesNotExist)
		}
	}

	return nil
}

// stampCompletion dates a completed task today unless a date was given.
func (s *TaskService) stampCompletion(task *models.Task) {
	if task.Status == models.TaskStatusCompleted && task.CompletedDate == nil {
		today := startOfDay(s.now())
		task.CompletedDate = &today
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mergeInt(current, next *int, reset bool) *int {
	if reset {
		return nil
	}
	if next != nil {
		return next
	}
	return current
}
