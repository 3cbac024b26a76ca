package repositories_test

import (
	"testing"

	"belanja/internal/apperrors"
	"belanja/internal/models"
	"belanja/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMProductRepository_GetByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	seedProduct(t, db, "prod-a", "5.00")
	seedProduct(t, db, "prod-b", "3.50")

	products, err := repo.GetByIDs([]string{"prod-a", "prod-b", "prod-missing"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products["prod-a"].Price.Equal(dec("5.00")))
	assert.True(t, products["prod-b"].Price.Equal(dec("3.50")))
	_, ok := products["prod-missing"]
	assert.False(t, ok, "missing IDs are absent from the result")
}

func TestGORMProductRepository_List_FiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	require.NoError(t, db.Create(&models.Category{ID: "cat-1", Name: "Kopi"}).Error)
	categoryID := "cat-1"
	require.NoError(t, db.Create(&models.Product{ID: "p1", Name: "Kopi Gayo", Price: dec("12.50"), CategoryID: &categoryID}).Error)
	require.NoError(t, db.Create(&models.Product{ID: "p2", Name: "Kopi Toraja", Price: dec("15.00"), CategoryID: &categoryID}).Error)
	require.NoError(t, db.Create(&models.Product{ID: "p3", Name: "Teh Melati", Price: dec("8.00")}).Error)

	// Case-insensitive substring filter on name.
	query := repositories.ProductListQuery{Name: "kopi"}
	require.NoError(t, query.Normalize())
	products, total, err := repo.List(query)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)

	// Category filter.
	query = repositories.ProductListQuery{CategoryID: "cat-1"}
	require.NoError(t, query.Normalize())
	_, total, err = repo.List(query)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// Price range.
	gte, lte := dec("10.00"), dec("13.00")
	query = repositories.ProductListQuery{PriceGTE: &gte, PriceLTE: &lte}
	require.NoError(t, query.Normalize())
	products, total, err = repo.List(query)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "p1", products[0].ID)

	// Sort by price descending.
	query = repositories.ProductListQuery{SortBy: "price", SortDesc: true}
	require.NoError(t, query.Normalize())
	products, _, err = repo.List(query)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "p2", products[0].ID)
	assert.Equal(t, "p3", products[2].ID)

	// Pagination: total counts every match, not just the page.
	query = repositories.ProductListQuery{SortBy: "price", Page: 2, Limit: 2}
	require.NoError(t, query.Normalize())
	products, total, err = repo.List(query)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
}

func TestProductListQuery_Normalize(t *testing.T) {
	query := repositories.ProductListQuery{}
	require.NoError(t, query.Normalize())
	assert.Equal(t, 1, query.Page)
	assert.Equal(t, repositories.DefaultPageSize, query.Limit)
	assert.Equal(t, "created_at", query.SortBy)

	query = repositories.ProductListQuery{Limit: 10000}
	require.NoError(t, query.Normalize())
	assert.Equal(t, repositories.MaxPageSize, query.Limit)

	// The sort column is interpolated into SQL; anything outside the allowed
	// set is rejected outright.
	query = repositories.ProductListQuery{SortBy: "password; DROP TABLE products"}
	err := query.Normalize()
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestGORMProductRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewGORMProductRepository(db)

	product := &models.Product{Name: "Kopi Gayo", Price: dec("12.50"), Stock: 10}
	require.NoError(t, repo.Create(product))
	require.NotEmpty(t, product.ID)

	got, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kopi Gayo", got.Name)

	got.Stock = 7
	require.NoError(t, repo.Update(got))

	require.NoError(t, repo.Delete(product.ID))
	_, err = repo.GetByID(product.ID)
	assert.True(t, apperrors.IsNotFound(err))

	err = repo.Delete(product.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
