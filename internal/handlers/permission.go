package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/dto"
	apierrors "github.com/yukikurage/rbac-admin-api/internal/errors"
	"github.com/yukikurage/rbac-admin-api/internal/services"
)

// PermissionHandler serves the permission catalogue
type PermissionHandler struct {
	permissionService *services.PermissionService
}

// NewPermissionHandler creates a new PermissionHandler
func NewPermissionHandler(permissionService *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.permissionService.ListPermissions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": dto.ToPermissionDTOs(permissions)})
}

func (h *PermissionHandler) GetPermission(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	permission, err := h.permissionService.GetPermission(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPermissionDTO(*permission))
}

func (h *PermissionHandler) CreatePermission(c *gin.Context) {
	var req services.PermissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	permission, err := h.permissionService.CreatePermission(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/permissions/%d", permission.ID))
	c.JSON(http.StatusCreated, dto.ToPermissionDTO(*permission))
}

func (h *PermissionHandler) UpdatePermission(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	var req services.PermissionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	permission, err := h.permissionService.UpdatePermission(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPermissionDTO(*permission))
}

// DeletePermission removes a permission from every role and deletes it
func (h *PermissionHandler) DeletePermission(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	if err := h.permissionService.DeletePermission(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Permission deleted successfully",
	})
}
