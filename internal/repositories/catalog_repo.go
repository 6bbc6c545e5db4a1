package repositories

import (
	"gerai/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(offset, limit int) ([]models.Product, int64, error)
	ListByCategory(categorySlug string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	IncrementViewCount(id string) error
	Search(query string) ([]models.Product, error)
	Create(product *models.Product, extraImages []string) error
	GetAll() ([]models.Product, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Create(category *models.Category) error
	GetBySlug(slug string) (*models.Category, error)
	GetAll() ([]models.Category, error)
	// DeleteCascade removes the category together with its products and their
	// gallery images, all inside one transaction.
	DeleteCascade(id string) error
}
