package handlers

import (
	"fmt"
	"log"

	"gerai/internal/models"
	"gerai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/:slug", h.HandleProductDetail)
	router.Get("/categories", h.HandleListCategories)
	router.Get("/categories/:slug/products", h.HandleProductsByCategory)
	router.Get("/search", h.HandleSearch)
}

// RegisterAdminRoutes registers the catalog management routes. The caller is
// expected to wrap the router group in the admin guard.
func (h *CatalogHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/products", h.HandleCreateProduct)
	router.Get("/products", h.HandleAllProducts)
	router.Post("/categories", h.HandleCreateCategory)
	router.Get("/categories", h.HandleAllCategories)
	router.Delete("/categories/:id", h.HandleDeleteCategory)
}

// HandleListProducts returns one storefront page of products.
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	page, err := h.service.ListProducts(c.QueryInt("page", 1))
	if err != nil {
		return writeError(c, err, "Could not retrieve products")
	}
	return c.JSON(page)
}

// HandleProductDetail returns one product by slug and counts the view.
func (h *CatalogHandler) HandleProductDetail(c *fiber.Ctx) error {
	product, err := h.service.ProductBySlug(c.Params("slug"))
	if err != nil {
		return writeError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleListCategories returns every category with its products.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.AllCategories()
	if err != nil {
		return writeError(c, err, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

// HandleProductsByCategory returns the products of one category.
func (h *CatalogHandler) HandleProductsByCategory(c *fiber.Ctx) error {
	products, err := h.service.ProductsByCategory(c.Params("slug"))
	if err != nil {
		return writeError(c, err, "Could not retrieve category products")
	}
	return c.JSON(products)
}

// HandleSearch returns the products matching the q query parameter.
func (h *CatalogHandler) HandleSearch(c *fiber.Ctx) error {
	products, err := h.service.SearchProducts(c.Query("q"))
	if err != nil {
		return writeError(c, err, "Could not search products")
	}
	return c.JSON(products)
}

// CreateProductRequest is the admin form for adding a product. MoreImages
// holds references to already-uploaded gallery images beyond the main one.
type CreateProductRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=200"`
	Slug         string   `json:"slug" validate:"required,min=2,max=200"`
	CategoryID   string   `json:"category_id" validate:"required,uuid"`
	Image        string   `json:"image" validate:"omitempty,max=500"`
	MarkedPrice  uint     `json:"marked_price" validate:"gte=0"`
	SellingPrice uint     `json:"selling_price" validate:"gte=0"`
	Description  string   `json:"description" validate:"omitempty,max=2000"`
	Warranty     string   `json:"warranty" validate:"omitempty,max=300"`
	ReturnPolicy string   `json:"return_policy" validate:"omitempty,max=300"`
	MoreImages   []string `json:"more_images" validate:"omitempty,dive,max=500"`
}

// HandleCreateProduct creates a new product with its gallery images.
func (h *CatalogHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	product := models.Product{
		Title:        req.Title,
		Slug:         req.Slug,
		CategoryID:   req.CategoryID,
		Image:        req.Image,
		MarkedPrice:  req.MarkedPrice,
		SellingPrice: req.SellingPrice,
		Description:  req.Description,
		Warranty:     req.Warranty,
		ReturnPolicy: req.ReturnPolicy,
	}
	if err := h.service.CreateProduct(&product, req.MoreImages); err != nil {
		return writeError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleAllProducts returns every product for the admin listing.
func (h *CatalogHandler) HandleAllProducts(c *fiber.Ctx) error {
	products, err := h.service.AllProducts()
	if err != nil {
		return writeError(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// CreateCategoryRequest is the admin form for adding a category.
type CreateCategoryRequest struct {
	Title string `json:"title" validate:"required,min=2,max=200"`
	Slug  string `json:"slug" validate:"required,min=2,max=200"`
}

// HandleCreateCategory creates a new category.
func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create category body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	category := models.Category{Title: req.Title, Slug: req.Slug}
	if err := h.service.CreateCategory(&category); err != nil {
		return writeError(c, err, "Could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleAllCategories returns every category for the admin listing.
func (h *CatalogHandler) HandleAllCategories(c *fiber.Ctx) error {
	categories, err := h.service.AllCategories()
	if err != nil {
		return writeError(c, err, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

// HandleDeleteCategory deletes a category and, by policy, its products.
func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteCategory(id); err != nil {
		return writeError(c, err, "Could not delete category")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Category %s and its products deleted successfully", id),
	})
}
