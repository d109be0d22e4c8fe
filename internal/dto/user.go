package dto

import (
	"time"

	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
)

// UserSummaryDTO is the short form of a user embedded in other resources
type UserSummaryDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Roles      []string  `json:"roles"`
	TasksCount *int64    `json:"tasks_count,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CurrentUserDTO is returned by the session endpoints
type CurrentUserDTO struct {
	UserDTO
	Permissions []string `json:"permissions"`
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserDTO converts a User model to UserDTO. Roles are included when
// preloaded.
func ToUserDTO(user models.User) UserDTO {
	roles := make([]string, len(user.Roles))
	for i, role := range user.Roles {
		roles[i] = role.Name
	}

	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Roles:     roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserListDTO converts list rows, carrying the assigned task count
func ToUserListDTO(rows []repository.UserWithTaskCount, rolesByUser map[uint64][]string) []UserDTO {
	users := make([]UserDTO, len(rows))
	for i, row := range rows {
		count := row.TasksCount
		users[i] = ToUserDTO(row.User)
		users[i].TasksCount = &count
		if names, ok := rolesByUser[row.ID]; ok {
			users[i].Roles = names
		}
	}
	return users
}
