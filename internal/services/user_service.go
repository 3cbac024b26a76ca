package services

import (
	"fmt"

	"belanja/internal/apperrors"
	"belanja/internal/models"
	"belanja/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles admin user management: listing accounts, provisioning
// users with an explicit role and changing roles after the fact. Public
// self-registration lives in AuthService and always creates a regular user.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// ListUsers retrieves every user account.
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.repo.GetAll()
}

// GetUser retrieves a single user by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	return s.repo.GetByID(id)
}

// CreateUser provisions a user account with the given role. This is how the
// first and any further admins come to exist.
func (s *UserService) CreateUser(user *models.User) error {
	if !user.Role.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("invalid role: %s", user.Role))
	}

	if existing, err := s.repo.GetByUsername(user.Username); err == nil && existing != nil {
		return apperrors.Conflict(fmt.Sprintf("username '%s' already taken", user.Username))
	}
	if existing, err := s.repo.GetByEmail(user.Email); err == nil && existing != nil {
		return apperrors.Conflict(fmt.Sprintf("email '%s' already registered", user.Email))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.repo.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUserRole changes a user's role. Role changes take effect on the
// user's next login; already-issued tokens keep their old role claim until
// they expire.
func (s *UserService) UpdateUserRole(id string, role string) (*models.User, error) {
	parsed := models.Role(role)
	if !parsed.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid role: %s", role))
	}

	rows, err := s.repo.UpdateRole(id, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to update role for user %s: %w", id, err)
	}
	if rows == 0 {
		return nil, apperrors.NotFound("user not found")
	}

	return s.repo.GetByID(id)
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(id string) error {
	return s.repo.Delete(id)
}
