package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yukikurage/rbac-admin-api/internal/models"
	"github.com/yukikurage/rbac-admin-api/internal/repository"
	"github.com/yukikurage/rbac-admin-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	defaultRole string
}

// NewAuthService creates a new AuthService. Self-registered users receive
// defaultRole when a role with that name exists.
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, defaultRole string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		defaultRole: defaultRole,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,max=72,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register creates a new user with the default role.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := ensureEmailAvailable(s.userRepo, input.Email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var roleIDs []uint64
	if s.defaultRole != "" {
		role, err := s.roleRepo.FindByName(s.defaultRole)
		switch {
		case err == nil:
			roleIDs = []uint64{role.ID}
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("Default role %q does not exist, registering without a role", s.defaultRole)
		default:
			return nil, fmt.Errorf("failed to find default role: %w", err)
		}
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user, roleIDs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return s.GetUser(user.ID)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID with its roles.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Roles")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword hashes with bcrypt, which only accepts up to 72 bytes. Multibyte
// passwords can pass the character limit and still be too long.
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", validation.NewError("password", "may not be longer than 72 bytes")
	}
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}

// ensureEmailAvailable fails with a field error when another user already
// owns the address. selfID is ignored so a user can keep their own email.
func ensureEmailAvailable(repo repository.UserRepository, email string, selfID uint64) error {
	existing, err := repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != selfID {
		return validation.NewError("email", validation.MsgTaken)
	}
	return nil
}
