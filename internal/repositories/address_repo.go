package repositories

import "belanja/internal/models"

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	GetByUserID(userID string) ([]models.Address, error)
	GetByID(id string) (*models.Address, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(id string) error
}
