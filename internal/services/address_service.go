package services

import (
	"belanja/internal/apperrors"
	"belanja/internal/models"
	"belanja/internal/repositories"
)

// AddressService handles business logic related to delivery addresses.
// Every operation is scoped to the owning user: an address owned by someone
// else is indistinguishable from a missing one.
type AddressService struct {
	repo repositories.AddressRepository
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{
		repo: repo,
	}
}

// CreateAddress creates a new address for the given user.
func (s *AddressService) CreateAddress(userID string, address *models.Address) error {
	address.UserID = userID
	return s.repo.Create(address)
}

// GetMyAddresses retrieves all addresses owned by the user.
func (s *AddressService) GetMyAddresses(userID string) ([]models.Address, error) {
	return s.repo.GetByUserID(userID)
}

// GetAddress retrieves a single address owned by the user.
func (s *AddressService) GetAddress(id, userID string) (*models.Address, error) {
	address, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		return nil, apperrors.NotFound("address not found")
	}
	return address, nil
}

// UpdateAddress updates an address owned by the user.
func (s *AddressService) UpdateAddress(id, userID string, update *models.Address) (*models.Address, error) {
	address, err := s.GetAddress(id, userID)
	if err != nil {
		return nil, err
	}

	address.Street = update.Street
	address.City = update.City
	address.PostalCode = update.PostalCode
	address.Country = update.Country

	if err := s.repo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress deletes an address owned by the user.
func (s *AddressService) DeleteAddress(id, userID string) error {
	if _, err := s.GetAddress(id, userID); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
