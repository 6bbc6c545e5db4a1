package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gerai/internal/models"
	"gerai/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the customer registration form.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2,max=200"`
	Address  string `json:"address" validate:"omitempty,max=300"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo     repositories.UserRepository
	customerRepo repositories.CustomerRepository
	adminRepo    repositories.AdminRepository
	jwtSecret    []byte
	tokenDurat   time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repositories.UserRepository,
	customerRepo repositories.CustomerRepository,
	adminRepo repositories.AdminRepository,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		adminRepo:    adminRepo,
		jwtSecret:    []byte(jwtSecret),
		tokenDurat:   24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterCustomer creates the login identity and customer profile, then logs
// the new customer straight in by returning a token. Reusing a username or
// email fails with models.ErrDuplicateIdentity.
func (s *AuthService) RegisterCustomer(input RegisterInput) (string, *models.Customer, error) {
	if existing, err := s.userRepo.GetByUsername(input.Username); err == nil && existing != nil {
		return "", nil, fmt.Errorf("username %q already taken: %w", input.Username, models.ErrDuplicateIdentity)
	}
	if existing, err := s.userRepo.GetByEmail(input.Email); err == nil && existing != nil {
		return "", nil, fmt.Errorf("email %q already registered: %w", input.Email, models.ErrDuplicateIdentity)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
	}
	customer := &models.Customer{
		FullName: input.FullName,
		Address:  input.Address,
	}
	if err := s.customerRepo.CreateWithUser(user, customer); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, customer, nil
}

// Login authenticates a user and returns a JWT token if successful.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		// It's good practice not to reveal if the username exists or not for security
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	return s.generateToken(user)
}

// LoginAdmin authenticates like Login but additionally requires an Admin
// record, so a plain customer cannot reach the administrative area.
func (s *AuthService) LoginAdmin(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if _, err := s.adminRepo.GetByUserID(user.ID); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	return s.generateToken(user)
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":      time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// CustomerFor resolves the customer profile behind an authenticated user.
func (s *AuthService) CustomerFor(userID string) (*models.Customer, error) {
	return s.customerRepo.GetByUserID(userID)
}

// IsAdmin reports whether the authenticated user has an Admin record.
func (s *AuthService) IsAdmin(userID string) (bool, error) {
	if _, err := s.adminRepo.GetByUserID(userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
