package repositories

import "belanja/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	GetByID(id string) (*models.Review, error)
	GetByProductID(productID string) ([]models.Review, error)
	GetByUserAndProduct(userID, productID string) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(id string) error
}
