package repositories

import (
	"fmt"

	"belanja/internal/apperrors"
	"belanja/internal/models"

	"github.com/shopspring/decimal"
)

// Paging defaults for product listings.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// productSortColumns are the columns a listing may be sorted on. The sort
// column is interpolated into the ORDER BY clause, so it must come from this
// closed set, never from raw client input.
var productSortColumns = map[string]struct{}{
	"name":       {},
	"price":      {},
	"stock":      {},
	"created_at": {},
}

// ProductListQuery captures the filters, sort and page window for a product
// listing. Zero values mean "no filter".
type ProductListQuery struct {
	Name       string // substring match, case-insensitive
	CategoryID string
	PriceGTE   *decimal.Decimal
	PriceLTE   *decimal.Decimal
	SortBy     string
	SortDesc   bool
	Page       int
	Limit      int
}

// Normalize applies paging defaults, caps the page size and validates the
// sort column against the allowed set.
func (q *ProductListQuery) Normalize() error {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.SortBy == "" {
		q.SortBy = "created_at"
	}
	if _, ok := productSortColumns[q.SortBy]; !ok {
		return apperrors.InvalidInput(fmt.Sprintf("cannot sort products by %s", q.SortBy))
	}
	return nil
}

// Offset returns the row offset of the requested page.
func (q ProductListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// List returns one page of products matching the query plus the total
	// match count across all pages. The query must be normalized first.
	List(query ProductListQuery) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	// GetByIDs resolves a set of product IDs in a single query. Duplicates
	// are collapsed; IDs with no matching product are absent from the result.
	GetByIDs(ids []string) (map[string]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
