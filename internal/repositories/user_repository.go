package repositories

import "belanja/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetAll() ([]models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// UpdateRole sets the role of an existing user. Returns the number of
	// rows affected; zero means no such user.
	UpdateRole(id string, role models.Role) (int64, error)
	Delete(id string) error
}
