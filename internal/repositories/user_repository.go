package repositories

import "gerai/internal/models"

// UserRepository defines the interface for login identity data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}

// CustomerRepository defines the interface for customer profile data access.
type CustomerRepository interface {
	// CreateWithUser persists the login identity and the customer profile in
	// one transaction so registration cannot half-complete.
	CreateWithUser(user *models.User, customer *models.Customer) error
	GetByUserID(userID string) (*models.Customer, error)
	GetByID(id string) (*models.Customer, error)
}

// AdminRepository defines the interface for administrator lookups.
type AdminRepository interface {
	GetByUserID(userID string) (*models.Admin, error)
}
