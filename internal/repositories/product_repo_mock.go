package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"belanja/internal/apperrors"
	"belanja/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// List returns one page of products matching the query plus the total count.
func (r *MockProductRepository) List(query ProductListQuery) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if query.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(query.Name)) {
			continue
		}
		if query.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != query.CategoryID) {
			continue
		}
		if query.PriceGTE != nil && p.Price.LessThan(*query.PriceGTE) {
			continue
		}
		if query.PriceLTE != nil && p.Price.GreaterThan(*query.PriceLTE) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch query.SortBy {
		case "name":
			less = matched[i].Name < matched[j].Name
		case "price":
			less = matched[i].Price.LessThan(matched[j].Price)
		case "stock":
			less = matched[i].Stock < matched[j].Stock
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if query.SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	start := query.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + query.Limit
	if query.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("product %s not found", id))
	}
	return &product, nil
}

// GetByIDs returns the products matching the given IDs. Missing IDs are
// simply absent from the result.
func (r *MockProductRepository) GetByIDs(ids []string) (map[string]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]models.Product)
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return apperrors.NotFound(fmt.Sprintf("product %s not found", product.ID))
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return apperrors.NotFound(fmt.Sprintf("product %s not found", id))
	}
	delete(r.products, id)
	return nil
}
