package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/dto"
	apierrors "github.com/yukikurage/rbac-admin-api/internal/errors"
	"github.com/yukikurage/rbac-admin-api/internal/services"
)

// UserHandler serves user administration
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns every user with roles and assigned task counts
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, roles, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserListDTO(users, roles)})
}

// GetUser returns a single user
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetUserPermissions returns the effective permissions of a user
func (h *UserHandler) GetUserPermissions(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	perms, err := h.userService.EffectivePermissions(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": id, "permissions": perms})
}

// CreateUser creates a user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/users/%d", user.ID))
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial update. Omitting "roles" keeps the current
// assignments; sending it replaces them.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	var req services.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser deletes a user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}
