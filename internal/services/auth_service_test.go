package services_test

import (
	"testing"

	"belanja/internal/models"
	"belanja/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepo is a testify mock of repositories.UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepo) UpdateRole(id string, role models.Role) (int64, error) {
	args := m.Called(id, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepo) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_RegisterUser(t *testing.T) {
	userRepo := new(MockUserRepo)
	service := services.NewAuthService(userRepo, "test-secret")

	userRepo.On("GetByUsername", "budi").Return(nil, assert.AnError).Once()
	userRepo.On("GetByEmail", "budi@example.com").Return(nil, assert.AnError).Once()
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user := &models.User{
		ID:       "user-1",
		Username: "budi",
		Email:    "budi@example.com",
		Password: "rahasia123",
	}
	err := service.RegisterUser(user)

	assert.NoError(t, err)
	// Password is stored hashed, never in plaintext.
	assert.NotEqual(t, "rahasia123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("rahasia123")))
	// Public registration defaults to the regular role.
	assert.Equal(t, models.RoleUser, user.Role)
	userRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateUsername(t *testing.T) {
	userRepo := new(MockUserRepo)
	service := services.NewAuthService(userRepo, "test-secret")

	userRepo.On("GetByUsername", "budi").Return(&models.User{ID: "user-0", Username: "budi"}, nil).Once()

	err := service.RegisterUser(&models.User{Username: "budi", Email: "new@example.com", Password: "x"})

	assert.Error(t, err)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_LoginUser_And_ValidateToken(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	userRepo := new(MockUserRepo)
	service := services.NewAuthService(userRepo, "test-secret")

	userRepo.On("GetByUsername", "budi").Return(&models.User{
		ID:       "user-1",
		Username: "budi",
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}, nil)

	token, err := service.LoginUser("budi", "rahasia123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "budi", claims["username"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestAuthService_LoginUser_WrongPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	userRepo := new(MockUserRepo)
	service := services.NewAuthService(userRepo, "test-secret")

	userRepo.On("GetByUsername", "budi").Return(&models.User{
		ID:       "user-1",
		Username: "budi",
		Password: string(hashed),
	}, nil).Once()

	_, err = service.LoginUser("budi", "salah")
	assert.EqualError(t, err, "invalid credentials")

	// Unknown usernames produce the same error.
	userRepo.On("GetByUsername", "ghost").Return(nil, assert.AnError).Once()
	_, err = service.LoginUser("ghost", "rahasia123")
	assert.EqualError(t, err, "invalid credentials")
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)

	userRepo := new(MockUserRepo)
	userRepo.On("GetByUsername", "budi").Return(&models.User{
		ID: "user-1", Username: "budi", Password: string(hashed), Role: models.RoleUser,
	}, nil)

	issuer := services.NewAuthService(userRepo, "secret-a")
	verifier := services.NewAuthService(userRepo, "secret-b")

	token, err := issuer.LoginUser("budi", "pw")
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
