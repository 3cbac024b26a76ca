package services

import (
	"belanja/internal/apperrors"
	"belanja/internal/models"
	"belanja/internal/repositories"
)

// ReviewService handles business logic related to product reviews.
type ReviewService struct {
	repo        repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(repo repositories.ReviewRepository, productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		repo:        repo,
		productRepo: productRepo,
	}
}

// CreateReview creates a review for a product. A user may review a given
// product at most once.
func (s *ReviewService) CreateReview(userID string, review *models.Review) error {
	if _, err := s.productRepo.GetByID(review.ProductID); err != nil {
		return err
	}

	if existing, err := s.repo.GetByUserAndProduct(userID, review.ProductID); err == nil && existing != nil {
		return apperrors.Conflict("you already reviewed this product")
	}

	review.UserID = userID
	return s.repo.Create(review)
}

// GetProductReviews retrieves all reviews for a product.
func (s *ReviewService) GetProductReviews(productID string) ([]models.Review, error) {
	return s.repo.GetByProductID(productID)
}

// UpdateReview updates a review owned by the user. A review owned by someone
// else behaves like a missing one.
func (s *ReviewService) UpdateReview(id, userID string, rating int, content string) (*models.Review, error) {
	review, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, apperrors.NotFound("review not found")
	}

	review.Rating = rating
	review.Content = content

	if err := s.repo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview deletes a review owned by the user.
func (s *ReviewService) DeleteReview(id, userID string) error {
	review, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return apperrors.NotFound("review not found")
	}
	return s.repo.Delete(id)
}
