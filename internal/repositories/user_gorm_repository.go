package repositories

import (
	"fmt"

	"gerai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with username %s: %w", username, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

// NewGORMCustomerRepository creates a new instance of GORMCustomerRepository.
func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{
		db: db,
	}
}

// CreateWithUser persists the login identity and the customer profile in one
// transaction so a failed registration leaves nothing behind.
func (r *GORMCustomerRepository) CreateWithUser(user *models.User, customer *models.Customer) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	customer.UserID = user.ID

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(customer).Error
	})
	if err != nil {
		return fmt.Errorf("failed to register customer: %w", err)
	}
	return nil
}

// GetByUserID retrieves the customer profile for a login identity.
func (r *GORMCustomerRepository) GetByUserID(userID string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("customer for user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer for user %s: %w", userID, err)
	}
	return &customer, nil
}

// GetByID retrieves a customer by their ID.
func (r *GORMCustomerRepository) GetByID(id string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Preload("User").First(&customer, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("customer with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer by ID %s: %w", id, err)
	}
	return &customer, nil
}

// GORMAdminRepository is a GORM implementation of AdminRepository.
type GORMAdminRepository struct {
	db *gorm.DB
}

// NewGORMAdminRepository creates a new instance of GORMAdminRepository.
func NewGORMAdminRepository(db *gorm.DB) *GORMAdminRepository {
	return &GORMAdminRepository{
		db: db,
	}
}

// GetByUserID retrieves the admin record for a login identity, if any.
func (r *GORMAdminRepository) GetByUserID(userID string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("admin for user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin for user %s: %w", userID, err)
	}
	return &admin, nil
}
