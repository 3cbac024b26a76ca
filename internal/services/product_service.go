package services

import (
	"belanja/internal/apperrors"
	"belanja/internal/models"
	"belanja/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// ListProducts retrieves one page of the catalog. The query is normalized
// here (paging defaults, sort-column validation) and returned so callers can
// report the effective page window alongside the total match count.
func (s *ProductService) ListProducts(query repositories.ProductListQuery) ([]models.Product, int64, repositories.ProductListQuery, error) {
	if err := query.Normalize(); err != nil {
		return nil, 0, query, err
	}
	products, total, err := s.repo.List(query)
	return products, total, query, err
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product. The price must be strictly positive
// and any referenced category must exist.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if !product.Price.IsPositive() {
		return apperrors.InvalidInput("price must be > 0")
	}
	if err := s.checkCategory(product.CategoryID); err != nil {
		return err
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if !product.Price.IsPositive() {
		return apperrors.InvalidInput("price must be > 0")
	}
	if err := s.checkCategory(product.CategoryID); err != nil {
		return err
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

func (s *ProductService) checkCategory(categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.GetByID(*categoryID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.InvalidInput("category does not exist")
		}
		return err
	}
	return nil
}
