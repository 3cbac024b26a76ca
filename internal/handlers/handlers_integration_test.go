package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"belanja/internal/handlers"
	"belanja/internal/middleware"
	"belanja/internal/models"
	"belanja/internal/repositories"
	"belanja/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp builds the full HTTP application against an isolated in-memory
// SQLite database, wired exactly like main but without the message broker.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Address{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(userRepo, "integration-test-secret")
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo, categoryRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	addressService := services.NewAddressService(addressRepo)
	reviewService := services.NewReviewService(reviewRepo, productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, nil)

	app := fiber.New()

	authMW := middleware.AuthRequired(authService)
	adminMW := middleware.RequireRole(models.RoleAdmin)

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1, authMW, adminMW)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(apiV1, authMW, adminMW)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	reviewHandler.RegisterPublicRoutes(apiV1)
	reviewHandler.RegisterRoutes(apiV1, authMW)
	handlers.NewAddressHandler(addressService).RegisterRoutes(apiV1, authMW)
	handlers.NewCartHandler(cartService).RegisterRoutes(apiV1, authMW)
	orderHandler := handlers.NewOrderHandler(orderService)
	orderHandler.RegisterRoutes(apiV1, authMW)

	adminGroup := apiV1.Group("/admin", authMW, adminMW)
	orderHandler.RegisterAdminRoutes(adminGroup)
	handlers.NewUserHandler(userService).RegisterAdminRoutes(adminGroup)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	fields := map[string]json.RawMessage{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &fields), "body: %s", raw)
	}
	return resp, fields
}

func decodeField(t *testing.T, fields map[string]json.RawMessage, key string, out interface{}) {
	t.Helper()
	raw, ok := fields[key]
	require.True(t, ok, "response is missing %q", key)
	require.NoError(t, json.Unmarshal(raw, out))
}

// registerAndLogin creates a user through the public API and returns its id
// and a fresh token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) (string, string) {
	t.Helper()

	resp, fields := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "rahasia123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user models.User
	decodeField(t, fields, "user", &user)
	require.NotEmpty(t, user.ID)

	return user.ID, login(t, app, username)
}

func login(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	resp, fields := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "rahasia123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token string
	decodeField(t, fields, "token", &token)
	require.NotEmpty(t, token)
	return token
}

// promoteToAdmin flips a user's role directly in the database; admins are
// provisioned out of band, never through the public API.
func promoteToAdmin(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", models.RoleAdmin).Error)
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, id, price string) {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Product{
		ID:    id,
		Name:  "Product " + id,
		Price: p,
		Stock: 100,
	}).Error)
}

func TestIntegration_AuthFlow(t *testing.T) {
	app, _ := setupApp(t)

	_, token := registerAndLogin(t, app, "budi")
	assert.NotEmpty(t, token)

	// Duplicate username.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "budi",
		"email":    "other@example.com",
		"password": "rahasia123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "budi",
		"password": "salah",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_OrdersRequireAuth(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/orders/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_OrderLifecycle(t *testing.T) {
	app, db := setupApp(t)
	seedCatalogProduct(t, db, "prod-a", "5.00")
	seedCatalogProduct(t, db, "prod-b", "3.50")

	_, token := registerAndLogin(t, app, "pembeli")

	// Create: the server prices the order itself.
	resp, fields := doJSON(t, app, http.MethodPost, "/api/v1/orders/", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-a", "quantity": 2},
			{"product_id": "prod-b", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	decodeField(t, fields, "order", &order)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("13.50")), "total was %s", order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)

	// List.
	resp, fields = doJSON(t, app, http.MethodGet, "/api/v1/orders/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results int
	decodeField(t, fields, "results", &results)
	assert.Equal(t, 1, results)

	// Get by id.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Another user cannot see it; the response is indistinguishable from a
	// missing order.
	_, otherToken := registerAndLogin(t, app, "penyusup")
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Nor cancel it.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/cancel", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner cancels.
	resp, fields = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeField(t, fields, "order", &order)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	require.NotNil(t, order.CancelledBy)
	assert.Equal(t, models.CancelledByUser, *order.CancelledBy)
	assert.NotNil(t, order.CancelledAt)

	// Cancelling twice conflicts.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestIntegration_OrderValidation(t *testing.T) {
	app, db := setupApp(t)
	seedCatalogProduct(t, db, "prod-a", "5.00")

	_, token := registerAndLogin(t, app, "pembeli")

	// Empty items.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/orders/", token, map[string]interface{}{
		"items": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown product.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders/", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-ghost", "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Zero quantity.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders/", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-a", "quantity": 0},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Nothing was persisted by any of the rejected requests.
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIntegration_AdminOrderRoutes(t *testing.T) {
	app, db := setupApp(t)
	seedCatalogProduct(t, db, "prod-a", "5.00")

	_, userToken := registerAndLogin(t, app, "pembeli")
	adminID, _ := registerAndLogin(t, app, "petugas")
	promoteToAdmin(t, db, adminID)
	adminToken := login(t, app, "petugas")

	// Place an order as the regular user.
	resp, fields := doJSON(t, app, http.MethodPost, "/api/v1/orders/", userToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-a", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeField(t, fields, "order", &order)

	// Non-admins never reach the admin surface.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", userToken, map[string]string{
		"status": "PAID",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Invalid status value.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", adminToken, map[string]string{
		"status": "TELEPORTED",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing order.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/missing/status", adminToken, map[string]string{
		"status": "PAID",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Move the order to PROCESSING.
	resp, fields = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", adminToken, map[string]string{
		"status": "PROCESSING",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeField(t, fields, "order", &order)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	// The owner can no longer cancel it.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/cancel", userToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// But the admin can.
	resp, fields = doJSON(t, app, http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/cancel", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeField(t, fields, "order", &order)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	require.NotNil(t, order.CancelledBy)
	assert.Equal(t, models.CancelledByAdmin, *order.CancelledBy)
}

func TestIntegration_AdminProductRoutes(t *testing.T) {
	app, db := setupApp(t)

	_, userToken := registerAndLogin(t, app, "pembeli")
	adminID, _ := registerAndLogin(t, app, "petugas")
	promoteToAdmin(t, db, adminID)
	adminToken := login(t, app, "petugas")

	// Catalog reads are public.
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/products/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Writes are admin only.
	body := map[string]interface{}{
		"name":  "Kopi Gayo",
		"price": "12.50",
		"stock": 10,
	}
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/products/", userToken, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, fields := doJSON(t, app, http.MethodPost, "/api/v1/products/", adminToken, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decodeField(t, fields, "product", &product)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("12.50")))

	// Non-decimal prices are rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/products/", adminToken, map[string]interface{}{
		"name":  "Teh Melati",
		"price": "banyak",
		"stock": 10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIntegration_ProductCatalogListing(t *testing.T) {
	app, db := setupApp(t)
	seedCatalogProduct(t, db, "p1", "12.50")
	seedCatalogProduct(t, db, "p2", "15.00")
	seedCatalogProduct(t, db, "p3", "8.00")

	// Filter by price range.
	resp, fields := doJSON(t, app, http.MethodGet, "/api/v1/products/?price_gte=10&price_lte=13", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results int
	decodeField(t, fields, "results", &results)
	assert.Equal(t, 1, results)

	// Paginate sorted by price: page 2 of size 2 holds the most expensive
	// product, while total still counts every match.
	resp, fields = doJSON(t, app, http.MethodGet, "/api/v1/products/?sort_by=price&page=2&limit=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	decodeField(t, fields, "products", &products)
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)

	var pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
		HasNext    bool  `json:"has_next"`
		HasPrev    bool  `json:"has_prev"`
	}
	decodeField(t, fields, "pagination", &pagination)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, int64(2), pagination.TotalPages)
	assert.False(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)

	// Substring name filter.
	resp, fields = doJSON(t, app, http.MethodGet, "/api/v1/products/?name=product%20p1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeField(t, fields, "results", &results)
	assert.Equal(t, 1, results)

	// Unknown sort columns and bad order values are rejected.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/?sort_by=password", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/?order=sideways", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIntegration_AdminUserRoutes(t *testing.T) {
	app, db := setupApp(t)

	userID, userToken := registerAndLogin(t, app, "pembeli")
	adminID, _ := registerAndLogin(t, app, "petugas")
	promoteToAdmin(t, db, adminID)
	adminToken := login(t, app, "petugas")

	// The user-management surface is admin only.
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// List.
	resp, fields := doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results int
	decodeField(t, fields, "results", &results)
	assert.Equal(t, 2, results)

	// Get one.
	resp, fields = doJSON(t, app, http.MethodGet, "/api/v1/admin/users/"+userID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user models.User
	decodeField(t, fields, "user", &user)
	assert.Equal(t, "pembeli", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)

	// Provision another admin through the API.
	resp, fields = doJSON(t, app, http.MethodPost, "/api/v1/admin/users/", adminToken, map[string]string{
		"username": "petugas2",
		"email":    "petugas2@example.com",
		"password": "rahasia123",
		"role":     "ADMIN",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The new admin's token carries the admin role immediately.
	newAdminToken := login(t, app, "petugas2")
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", newAdminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown roles are rejected at the API boundary.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/admin/users/", adminToken, map[string]string{
		"username": "petugas3",
		"email":    "petugas3@example.com",
		"password": "rahasia123",
		"role":     "SUPERUSER",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Promote the regular user; the change shows on their next login.
	resp, fields = doJSON(t, app, http.MethodPatch, "/api/v1/admin/users/"+userID, adminToken, map[string]string{
		"role": "ADMIN",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeField(t, fields, "user", &user)
	assert.Equal(t, models.RoleAdmin, user.Role)

	promotedToken := login(t, app, "pembeli")
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/admin/users/", promotedToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Role changes on missing users are a 404.
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/v1/admin/users/missing", adminToken, map[string]string{
		"role": "ADMIN",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Delete an account; its credentials stop working.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/admin/users/"+userID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "pembeli",
		"password": "rahasia123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/admin/users/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIntegration_CartFlow(t *testing.T) {
	app, db := setupApp(t)
	seedCatalogProduct(t, db, "prod-a", "5.00")

	_, token := registerAndLogin(t, app, "pembeli")

	// Add an item.
	resp, fields := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "prod-a",
		"quantity":   2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item models.CartItem
	decodeField(t, fields, "item", &item)
	assert.Equal(t, 2, item.Quantity)

	// Adding the same product again bumps the quantity.
	resp, fields = doJSON(t, app, http.MethodPost, "/api/v1/cart/items", token, map[string]interface{}{
		"product_id": "prod-a",
		"quantity":   1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeField(t, fields, "item", &item)
	assert.Equal(t, 3, item.Quantity)

	// Set an explicit quantity.
	resp, fields = doJSON(t, app, http.MethodPatch, "/api/v1/cart/items/"+item.ID, token, map[string]interface{}{
		"quantity": 5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeField(t, fields, "item", &item)
	assert.Equal(t, 5, item.Quantity)

	// The cart shows it.
	resp, fields = doJSON(t, app, http.MethodGet, "/api/v1/cart/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart models.Cart
	decodeField(t, fields, "cart", &cart)
	require.Len(t, cart.Items, 1)

	// Clear it.
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/cart/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, fields = doJSON(t, app, http.MethodGet, "/api/v1/cart/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeField(t, fields, "cart", &cart)
	assert.Empty(t, cart.Items)
}
