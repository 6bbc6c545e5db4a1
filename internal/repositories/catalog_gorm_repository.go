package repositories

import (
	"fmt"
	"strings"

	"gerai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves one page of products, newest first, plus the total count.
func (r *GORMProductRepository) List(offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// ListByCategory retrieves the products belonging to the category with the given slug.
func (r *GORMProductRepository) ListByCategory(categorySlug string) ([]models.Product, error) {
	var category models.Category
	if err := r.db.First(&category, "slug = ?", categorySlug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("category with slug %s: %w", categorySlug, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by slug %s: %w", categorySlug, err)
	}

	var products []models.Product
	err := r.db.Where("category_id = ?", category.ID).Order("created_at DESC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products for category %s: %w", categorySlug, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetBySlug retrieves a single product by its slug, gallery images included.
func (r *GORMProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Images").First(&product, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with slug %s: %w", slug, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by slug %s: %w", slug, err)
	}
	return &product, nil
}

// IncrementViewCount bumps the product's view counter by one.
func (r *GORMProductRepository) IncrementViewCount(id string) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment view count for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Search finds products whose title, description or return policy contains the
// query, case-insensitively.
func (r *GORMProductRepository) Search(query string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var products []models.Product
	err := r.db.
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(return_policy) LIKE ?",
			pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Create persists the product together with any extra gallery images.
func (r *GORMProductRepository) Create(product *models.Product, extraImages []string) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		for _, image := range extraImages {
			productImage := models.ProductImage{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				Image:     image,
			}
			if err := tx.Create(&productImage).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetAll retrieves every product, newest first.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{
		db: db,
	}
}

// Create persists a new category.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetBySlug retrieves a category by its slug.
func (r *GORMCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("category with slug %s: %w", slug, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by slug %s: %w", slug, err)
	}
	return &category, nil
}

// GetAll retrieves every category with its products, newest first.
func (r *GORMCategoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Preload("Products").Order("created_at DESC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// DeleteCascade removes the category, its products and their gallery images in
// one transaction. The cascade is explicit here rather than left to the
// storage layer so the policy is visible and testable.
func (r *GORMCategoryRepository) DeleteCascade(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("category with ID %s: %w", id, models.ErrNotFound)
			}
			return err
		}

		var productIDs []string
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).
			Pluck("id", &productIDs).Error; err != nil {
			return err
		}

		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).
				Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", productIDs).
				Delete(&models.Product{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&category).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}
