package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/dto"
	apierrors "github.com/yukikurage/rbac-admin-api/internal/errors"
	"github.com/yukikurage/rbac-admin-api/internal/services"
)

// RoleHandler serves role administration
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": dto.ToRoleDTOs(roles)})
}

func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	role, err := h.roleService.GetRole(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleDTO(*role))
}

func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req services.RoleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.CreateRole(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/roles/%d", role.ID))
	c.JSON(http.StatusCreated, dto.ToRoleDTO(*role))
}

// UpdateRole renames a role and replaces its permissions with the given set
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	var req services.RoleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.UpdateRole(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleDTO(*role))
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role deleted successfully",
	})
}
