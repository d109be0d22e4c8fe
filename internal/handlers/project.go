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
)

// ProjectHandler serves project CRUD
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns every project with task counts
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectListDTO(projects)})
}

// GetProject returns a project with its tasks
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	project, tasks, err := h.projectService.GetProject(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project, tasks))
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name          string               `json:"name"`
		Description   string               `json:"description"`
		Status        models.ProjectStatus `json:"status"`
		Priority      models.Priority      `json:"priority"`
		StartDate     *dto.Date            `json:"start_date"`
		DueDate       *dto.Date            `json:"due_date"`
		CompletedDate *dto.Date            `json:"completed_date"`
		Progress      *float64             `json:"progress"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		StartDate:     req.StartDate.Ptr(),
		DueDate:       req.DueDate.Ptr(),
		CompletedDate: req.CompletedDate.Ptr(),
		Progress:      req.Progress,
		CreatedBy:     userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/projects/%d", project.ID))
	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject applies a partial update; null clears a date
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name          *string                `json:"name"`
		Description   *string                `json:"description"`
		Status        *models.ProjectStatus  `json:"status"`
		Priority      *models.Priority       `json:"priority"`
		StartDate     dto.Nullable[dto.Date] `json:"start_date"`
		DueDate       dto.Nullable[dto.Date] `json:"due_date"`
		CompletedDate dto.Nullable[dto.Date] `json:"completed_date"`
		Progress      *float64               `json:"progress"`
	}

	id, ok := resourceID(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Progress:    req.Progress,
	}
	input.StartDate, input.ClearStartDate = nullableDate(req.StartDate)
	input.DueDate, input.ClearDueDate = nullableDate(req.DueDate)
	input.CompletedDate, input.ClearCompletedDate = nullableDate(req.CompletedDate)

	project, err := h.projectService.UpdateProject(id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}
