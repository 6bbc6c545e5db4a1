package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"gerai/internal/models"
	"gerai/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockCustomerRepository is a mock implementation of repositories.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) CreateWithUser(user *models.User, customer *models.Customer) error {
	args := m.Called(user, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByUserID(userID string) (*models.Customer, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetByID(id string) (*models.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

// MockAdminRepository is a mock implementation of repositories.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) GetByUserID(userID string) (*models.Admin, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(os.Stdout) // Changed to stdout to see logs if any, can be changed to ioutil.Discard
	code := m.Run()
	os.Exit(code)
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(users *MockUserRepository, customers *MockCustomerRepository, admins *MockAdminRepository) *services.AuthService {
	return services.NewAuthService(users, customers, admins, testJWTSecret)
}

func TestAuthService_RegisterCustomer(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCustomers := new(MockCustomerRepository)
	mockAdmins := new(MockAdminRepository)
	authService := newAuthService(mockUsers, mockCustomers, mockAdmins)

	input := services.RegisterInput{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
		FullName: "Test Customer",
		Address:  "12 Harbour Road",
	}

	// Test successful registration: identity and profile created, token issued.
	mockUsers.On("GetByUsername", input.Username).Return(nil, fmt.Errorf("user: %w", models.ErrNotFound)).Once()
	mockUsers.On("GetByEmail", input.Email).Return(nil, fmt.Errorf("user: %w", models.ErrNotFound)).Once()
	mockCustomers.On("CreateWithUser", mock.AnythingOfType("*models.User"), mock.AnythingOfType("*models.Customer")).
		Run(func(args mock.Arguments) {
			user := args.Get(0).(*models.User)
			customer := args.Get(1).(*models.Customer)
			// The stored password must be a bcrypt hash, never the plaintext.
			assert.NotEqual(t, input.Password, user.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)))
			assert.Equal(t, input.FullName, customer.FullName)
		}).Return(nil).Once()

	token, customer, err := authService.RegisterCustomer(input)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, customer)
	mockUsers.AssertExpectations(t)
	mockCustomers.AssertExpectations(t)

	// Test username already taken
	mockUsers.On("GetByUsername", input.Username).Return(&models.User{ID: "1"}, nil).Once()
	_, _, err = authService.RegisterCustomer(input)
	assert.ErrorIs(t, err, models.ErrDuplicateIdentity)
	mockUsers.AssertExpectations(t)

	// Test email already registered
	mockUsers.On("GetByUsername", input.Username).Return(nil, fmt.Errorf("user: %w", models.ErrNotFound)).Once()
	mockUsers.On("GetByEmail", input.Email).Return(&models.User{ID: "1"}, nil).Once()
	_, _, err = authService.RegisterCustomer(input)
	assert.ErrorIs(t, err, models.ErrDuplicateIdentity)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCustomers := new(MockCustomerRepository)
	mockAdmins := new(MockAdminRepository)
	authService := newAuthService(mockUsers, mockCustomers, mockAdmins)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Test successful login
	mockUsers.On("GetByUsername", user.Username).Return(user, nil).Once()
	token, err := authService.Login("testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the token structure (optional, but good to check)
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	mockUsers.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockUsers.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, err = authService.Login("testuser", "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockUsers.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockUsers.On("GetByUsername", "nonexistentuser").Return(nil, fmt.Errorf("user with username nonexistentuser: %w", models.ErrNotFound)).Once()
	_, err = authService.Login("nonexistentuser", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials") // Should return generic invalid credentials message
	mockUsers.AssertExpectations(t)
}

func TestAuthService_LoginAdmin(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCustomers := new(MockCustomerRepository)
	mockAdmins := new(MockAdminRepository)
	authService := newAuthService(mockUsers, mockCustomers, mockAdmins)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-123", Username: "storeadmin", Password: string(hashedPassword)}

	// A valid identity with an Admin record gets in.
	mockUsers.On("GetByUsername", user.Username).Return(user, nil).Once()
	mockAdmins.On("GetByUserID", user.ID).Return(&models.Admin{ID: "admin-1", UserID: user.ID}, nil).Once()
	token, err := authService.LoginAdmin("storeadmin", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	mockAdmins.AssertExpectations(t)

	// A plain customer gets the same opaque refusal as a bad password.
	mockUsers.On("GetByUsername", user.Username).Return(user, nil).Once()
	mockAdmins.On("GetByUserID", user.ID).Return(nil, fmt.Errorf("admin for user %s: %w", user.ID, models.ErrNotFound)).Once()
	_, err = authService.LoginAdmin("storeadmin", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockAdmins.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCustomers := new(MockCustomerRepository)
	mockAdmins := new(MockAdminRepository)
	authService := newAuthService(mockUsers, mockCustomers, mockAdmins)

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(), // Expires in 1 hour
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Test invalid token (wrong secret)
	invalidTokenString := "invalid.token.string"
	_, err = authService.ValidateToken(invalidTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(), // Expired 1 hour ago
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_IsAdmin(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockCustomers := new(MockCustomerRepository)
	mockAdmins := new(MockAdminRepository)
	authService := newAuthService(mockUsers, mockCustomers, mockAdmins)

	mockAdmins.On("GetByUserID", "user-1").Return(&models.Admin{ID: "admin-1", UserID: "user-1"}, nil).Once()
	isAdmin, err := authService.IsAdmin("user-1")
	assert.NoError(t, err)
	assert.True(t, isAdmin)

	// Not having an Admin record is an answer, not an error.
	mockAdmins.On("GetByUserID", "user-2").Return(nil, fmt.Errorf("admin for user user-2: %w", models.ErrNotFound)).Once()
	isAdmin, err = authService.IsAdmin("user-2")
	assert.NoError(t, err)
	assert.False(t, isAdmin)
	mockAdmins.AssertExpectations(t)
}
