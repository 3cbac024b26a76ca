package services

import (
	"fmt"

	"belanja/internal/apperrors"
	"belanja/internal/models"
	"belanja/internal/repositories"
)

// CartService handles business logic related to shopping carts. A user's
// cart is created lazily on first access.
type CartService struct {
	repo        repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(repo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		repo:        repo,
		productRepo: productRepo,
	}
}

// GetMyCart retrieves the user's cart, creating an empty one if needed.
func (s *CartService) GetMyCart(userID string) (*models.Cart, error) {
	cart, err := s.repo.GetByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	if err := s.repo.Create(cart); err != nil {
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
	}
	return cart, nil
}

// AddItem adds a product to the user's cart.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be > 0")
	}

	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}

	cart, err := s.GetMyCart(userID)
	if err != nil {
		return nil, err
	}

	// If the product is already in the cart, bump the quantity instead of
	// adding a duplicate row.
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			newQuantity := cart.Items[i].Quantity + quantity
			if err := s.repo.UpdateItemQuantity(cart.Items[i].ID, newQuantity); err != nil {
				return nil, err
			}
			cart.Items[i].Quantity = newQuantity
			return &cart.Items[i], nil
		}
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.repo.AddItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem sets the quantity of an item in the user's cart.
func (s *CartService) UpdateItem(userID, itemID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be > 0")
	}

	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// RemoveItem removes an item from the user's cart.
func (s *CartService) RemoveItem(userID, itemID string) error {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return err
	}
	return s.repo.DeleteItem(item.ID)
}

// ClearCart removes every item from the user's cart.
func (s *CartService) ClearCart(userID string) error {
	cart, err := s.GetMyCart(userID)
	if err != nil {
		return err
	}
	return s.repo.ClearItems(cart.ID)
}

// ownedItem resolves a cart item and verifies it belongs to the user's cart.
// Items in other carts behave like missing ones.
func (s *CartService) ownedItem(userID, itemID string) (*models.CartItem, error) {
	item, err := s.repo.GetItem(itemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.GetByUserID(userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("cart item not found")
		}
		return nil, err
	}

	if item.CartID != cart.ID {
		return nil, apperrors.NotFound("cart item not found")
	}
	return item, nil
}
