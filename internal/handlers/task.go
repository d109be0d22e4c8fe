package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/dto"
	apierrors "github.com/yukikurage/rbac-admin-api/internal/errors"
	"github.com/yukikurage/rbac-admin-api/internal/middleware"
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/services"
	"github.com/yukikurage/rbac-admin-api/internal/utils"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks lists tasks, optionally filtered by project_id, assigned_to and
// status. Pagination applies only when "page" is given.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, ok := queryID(c, "project_id")
	if !ok {
		return
	}
	assignedTo, ok := queryID(c, "assigned_to")
	if !ok {
		return
	}

	input := services.ListTasksInput{
		ProjectID:  projectID,
		AssignedTo: assignedTo,
	}
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}

	var page *utils.PaginationParams
	if params, requested := utils.GetPaginationParams(c); requested {
		page = &params
		input.Page = params.Page
		input.PageSize = params.Limit
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, page, total))
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		ProjectID      uint64            `json:"project_id"`
		Title          string            `json:"title"`
		Description    string            `json:"description"`
		AssignedTo     *uint64           `json:"assigned_to"`
		Status         models.TaskStatus `json:"status"`
		Priority       models.Priority   `json:"priority"`
		StartDate      *dto.Date         `json:"start_date"`
		DueDate        *dto.Date         `json:"due_date"`
		CompletedDate  *dto.Date         `json:"completed_date"`
		EstimatedHours *int              `json:"estimated_hours"`
		ActualHours    *int              `json:"actual_hours"`
		QualityScore   *float64          `json:"quality_score"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		AssignedTo:     req.AssignedTo,
		Status:         req.Status,
		Priority:       req.Priority,
		StartDate:      req.StartDate.Ptr(),
		DueDate:        req.DueDate.Ptr(),
		CompletedDate:  req.CompletedDate.Ptr(),
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		QualityScore:   req.QualityScore,
		CreatedBy:      userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update; null clears nullable fields
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		ProjectID      *uint64                `json:"project_id"`
		Title          *string                `json:"title"`
		Description    *string                `json:"description"`
		AssignedTo     dto.Nullable[uint64]   `json:"assigned_to"`
		Status         *models.TaskStatus     `json:"status"`
		Priority       *models.Priority       `json:"priority"`
		StartDate      dto.Nullable[dto.Date] `json:"start_date"`
		DueDate        dto.Nullable[dto.Date] `json:"due_date"`
		CompletedDate  dto.Nullable[dto.Date] `json:"completed_date"`
		EstimatedHours dto.Nullable[int]      `json:"estimated_hours"`
		ActualHours    dto.Nullable[int]      `json:"actual_hours"`
		QualityScore   dto.Nullable[float64]  `json:"quality_score"`
	}

	id, ok := resourceID(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	input.AssignedTo, input.ClearAssignedTo = nullable(req.AssignedTo)
	input.StartDate, input.ClearStartDate = nullableDate(req.StartDate)
	input.DueDate, input.ClearDueDate = nullableDate(req.DueDate)
	input.CompletedDate, input.ClearCompletedDate = nullableDate(req.CompletedDate)
	input.EstimatedHours, input.ClearEstimatedHours = nullable(req.EstimatedHours)
	input.ActualHours, input.ClearActualHours = nullable(req.ActualHours)
	input.QualityScore, input.ClearQualityScore = nullable(req.QualityScore)

	task, err := h.taskService.UpdateTask(id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ListMyTasks returns the tasks assigned to the caller
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListAssignedTasks(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// UpdateMyTaskStatus lets the assignee move a task between statuses
func (h *TaskHandler) UpdateMyTaskStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := resourceID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateAssignedTaskStatus(id, userID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}
