package services

import (
	"strings"

	"gerai/internal/models"
	"gerai/internal/repositories"
)

// DefaultPageSize is how many products a storefront listing page shows.
const DefaultPageSize = 4

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
	Total      int64            `json:"total"`
}

// CatalogService handles business logic for categories and products.
type CatalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ListProducts retrieves one storefront page of products, newest first.
func (s *CatalogService) ListProducts(page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * DefaultPageSize
	products, total, err := s.productRepo.List(offset, DefaultPageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + DefaultPageSize - 1) / DefaultPageSize)
	return &ProductPage{
		Products:   products,
		Page:       page,
		PerPage:    DefaultPageSize,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// ProductsByCategory retrieves the products of the category with the given slug.
func (s *CatalogService) ProductsByCategory(categorySlug string) ([]models.Product, error) {
	return s.productRepo.ListByCategory(categorySlug)
}

// ProductBySlug retrieves a product for its detail page and counts the view.
func (s *CatalogService) ProductBySlug(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.IncrementViewCount(product.ID); err != nil {
		return nil, err
	}
	product.ViewCount++
	return product, nil
}

// SearchProducts finds products whose title, description or return policy
// contains the query, case-insensitively. A blank query matches nothing.
func (s *CatalogService) SearchProducts(query string) ([]models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Product{}, nil
	}
	return s.productRepo.Search(query)
}

// CreateProduct persists a new product with its extra gallery images.
func (s *CatalogService) CreateProduct(product *models.Product, extraImages []string) error {
	return s.productRepo.Create(product, extraImages)
}

// CreateCategory persists a new category.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	return s.categoryRepo.Create(category)
}

// DeleteCategory removes the category and, by policy, every product in it.
func (s *CatalogService) DeleteCategory(id string) error {
	return s.categoryRepo.DeleteCascade(id)
}

// AllProducts retrieves every product for the admin listing.
func (s *CatalogService) AllProducts() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// AllCategories retrieves every category with its products.
func (s *CatalogService) AllCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}
