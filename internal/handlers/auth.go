package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/rbac-admin-api/internal/constants"
	"github.com/yukikurage/rbac-admin-api/internal/dto"
	apierrors "github.com/yukikurage/rbac-admin-api/internal/errors"
	"github.com/yukikurage/rbac-admin-api/internal/middleware"
	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService   *services.AuthService
	accessService *services.AccessService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, accessService *services.AccessService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		accessService: accessService,
	}
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !startSession(c, user.ID) {
		return
	}

	h.respondCurrentUser(c, http.StatusCreated, user)
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !startSession(c, user.ID) {
		return
	}

	user, err = h.authService.GetUser(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCurrentUser(c, http.StatusOK, user)
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user with its effective
// permissions.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCurrentUser(c, http.StatusOK, user)
}

func (h *AuthHandler) respondCurrentUser(c *gin.Context, status int, user *models.User) {
	perms, err := h.accessService.EffectivePermissions(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(status, dto.CurrentUserDTO{
		UserDTO:     dto.ToUserDTO(*user),
		Permissions: perms.Names(),
	})
}

func startSession(c *gin.Context, userID uint64) bool {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}
