package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"gerai/internal/handlers"
	"gerai/internal/middleware"
	"gerai/internal/models"
	"gerai/internal/repositories"
	"gerai/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSessionCookie = "gerai_session"

// setupApp builds the full Fiber app over a named in-memory SQLite database,
// wired exactly like the production composition.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Admin{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartLine{},
		&models.CartSession{},
		&models.Order{},
	)
	assert.NoError(t, err)

	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	customerRepo := repositories.NewGORMCustomerRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)

	catalogService := services.NewCatalogService(productRepo, categoryRepo)
	cartService := services.NewCartService(cartRepo, sessionRepo, productRepo, customerRepo)
	checkoutService := services.NewCheckoutService(orderRepo, sessionRepo, nil) // nil broker
	orderService := services.NewOrderService(orderRepo, nil)
	authService := services.NewAuthService(userRepo, customerRepo, adminRepo, "test_jwt_secret")

	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService, checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService, authService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1",
		middleware.CartSession(testSessionCookie),
		middleware.CurrentUser(authService),
		middleware.BindCartCustomer(cartService),
	)

	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1, middleware.AuthRequired(authService))

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	orderHandler.RegisterCustomerRoutes(protectedRoutes)

	adminRoutes := apiV1.Group("/admin",
		middleware.AuthRequired(authService),
		middleware.AdminRequired(authService),
	)
	catalogHandler.RegisterAdminRoutes(adminRoutes)
	orderHandler.RegisterAdminRoutes(adminRoutes)

	return app, db
}

// testClient plays one browser: it carries the session cookie between requests
// and, once logged in, the bearer token.
type testClient struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
	token   string
}

func newClient(t *testing.T, app *fiber.App) *testClient {
	return &testClient{t: t, app: app, cookies: make(map[string]string)}
}

func (tc *testClient) do(method, path string, body interface{}) *http.Response {
	tc.t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(tc.t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}
	for name, value := range tc.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := tc.app.Test(req, -1) // -1 for no timeout
	assert.NoError(tc.t, err)
	for _, cookie := range resp.Cookies() {
		tc.cookies[cookie.Name] = cookie.Value
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

// register signs the client up as a customer and keeps the returned token.
func (tc *testClient) register(username, email string) {
	tc.t.Helper()

	resp := tc.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":  username,
		"email":     email,
		"password":  "password123",
		"full_name": "Test Customer",
		"address":   "12 Harbour Road",
	})
	assert.Equal(tc.t, http.StatusCreated, resp.StatusCode)

	var registerResp map[string]interface{}
	decodeBody(tc.t, resp, &registerResp)
	token, _ := registerResp["token"].(string)
	assert.NotEmpty(tc.t, token)
	tc.token = token
}

// seedAdmin creates a login identity with an Admin record straight in the
// database, the way an operator would provision one.
func seedAdmin(t *testing.T, db *gorm.DB, username, password string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	assert.NoError(t, db.Create(user).Error)
	assert.NoError(t, db.Create(&models.Admin{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		FullName: "Store Admin",
	}).Error)
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.Category, *models.Product) {
	t.Helper()

	categories := repositories.NewGORMCategoryRepository(db)
	products := repositories.NewGORMProductRepository(db)

	category := &models.Category{Title: "Peripherals", Slug: "peripherals"}
	assert.NoError(t, categories.Create(category))
	product := &models.Product{
		Title:        "Mechanical Keyboard",
		Slug:         "mechanical-keyboard",
		CategoryID:   category.ID,
		MarkedPrice:  600,
		SellingPrice: 500,
		Description:  "Hot-swappable switches",
	}
	assert.NoError(t, products.Create(product, nil))
	return category, product
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestStorefrontCatalog(t *testing.T) {
	app, db := setupApp(t)
	client := newClient(t, app)
	category, product := seedCatalog(t, db)

	products := repositories.NewGORMProductRepository(db)
	for i := 0; i < 4; i++ {
		extra := &models.Product{
			Title:        fmt.Sprintf("USB Hub %d", i),
			Slug:         fmt.Sprintf("usb-hub-%d", i),
			CategoryID:   category.ID,
			SellingPrice: 120,
		}
		assert.NoError(t, products.Create(extra, nil))
	}

	// Five products make two storefront pages of four.
	resp := client.do(http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page services.ProductPage
	decodeBody(t, resp, &page)
	assert.Len(t, page.Products, 4)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(5), page.Total)

	resp = client.do(http.MethodGet, "/api/v1/products?page=2", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &page)
	assert.Len(t, page.Products, 1)
	assert.Equal(t, 2, page.Page)

	// The detail page counts views.
	resp = client.do(http.MethodGet, "/api/v1/products/mechanical-keyboard", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var detail models.Product
	decodeBody(t, resp, &detail)
	assert.Equal(t, product.ID, detail.ID)
	assert.Equal(t, uint(1), detail.ViewCount)

	resp = client.do(http.MethodGet, "/api/v1/products/mechanical-keyboard", nil)
	decodeBody(t, resp, &detail)
	assert.Equal(t, uint(2), detail.ViewCount)

	// Unknown slug
	resp = client.do(http.MethodGet, "/api/v1/products/no-such-product", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Category browsing
	resp = client.do(http.MethodGet, "/api/v1/categories/peripherals/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var inCategory []models.Product
	decodeBody(t, resp, &inCategory)
	assert.Len(t, inCategory, 5)

	// Search matches the title case-insensitively.
	resp = client.do(http.MethodGet, "/api/v1/search?q=KEYBOARD", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var found []models.Product
	decodeBody(t, resp, &found)
	assert.Len(t, found, 1)

	// A blank query matches nothing rather than everything.
	resp = client.do(http.MethodGet, "/api/v1/search?q=", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &found)
	assert.Empty(t, found)
}

type cartPayload struct {
	Cart *models.Cart `json:"cart"`
}

func TestCartAndCheckoutFlow(t *testing.T) {
	app, db := setupApp(t)
	client := newClient(t, app)
	_, product := seedCatalog(t, db)

	// A fresh session has no cart.
	resp := client.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var payload cartPayload
	decodeBody(t, resp, &payload)
	assert.Nil(t, payload.Cart)

	// Anonymous shoppers can fill a cart.
	resp = client.do(http.MethodPost, "/api/v1/cart/items/"+product.ID, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &payload)
	assert.Len(t, payload.Cart.Lines, 1)
	assert.Equal(t, uint(500), payload.Cart.Total)

	resp = client.do(http.MethodPost, "/api/v1/cart/items/"+product.ID, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &payload)
	assert.Len(t, payload.Cart.Lines, 1)
	assert.Equal(t, uint(2), payload.Cart.Lines[0].Quantity)
	assert.Equal(t, uint(1000), payload.Cart.Total)

	lineID := payload.Cart.Lines[0].ID
	resp = client.do(http.MethodPatch, "/api/v1/cart/lines/"+lineID+"?action=decrease", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &payload)
	assert.Equal(t, uint(500), payload.Cart.Total)

	// An unknown action is rejected with the offending field.
	resp = client.do(http.MethodPatch, "/api/v1/cart/lines/"+lineID+"?action=obliterate", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Checkout requires login; the refusal points at the login flow.
	resp = client.do(http.MethodPost, "/api/v1/checkout", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var unauth map[string]string
	decodeBody(t, resp, &unauth)
	assert.Contains(t, unauth["login"], "/api/v1/auth/login?next=")

	client.register("shopper", "shopper@example.com")

	// Bad form data keeps the cart intact.
	resp = client.do(http.MethodPost, "/api/v1/checkout", map[string]string{
		"ordered_by": "X",
		"mobile":     "1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	resp = client.do(http.MethodGet, "/api/v1/cart", nil)
	decodeBody(t, resp, &payload)
	assert.NotNil(t, payload.Cart)
	cartID := payload.Cart.ID

	// A valid form converts the cart into an order.
	resp = client.do(http.MethodPost, "/api/v1/checkout", map[string]string{
		"ordered_by":       "Test Customer",
		"shipping_address": "12 Harbour Road, Springfield",
		"mobile":           "08123456789",
		"email":            "shopper@example.com",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, cartID, order.CartID)
	assert.Equal(t, uint(500), order.Subtotal)
	assert.Equal(t, uint(0), order.Discount)
	assert.Equal(t, uint(500), order.Total)
	assert.Equal(t, models.StatusReceived, order.OrderStatus)

	// The session starts over with no cart.
	resp = client.do(http.MethodGet, "/api/v1/cart", nil)
	decodeBody(t, resp, &payload)
	assert.Nil(t, payload.Cart)

	// Checking out again has nothing to convert.
	resp = client.do(http.MethodPost, "/api/v1/checkout", map[string]string{
		"ordered_by":       "Test Customer",
		"shipping_address": "12 Harbour Road, Springfield",
		"mobile":           "08123456789",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The order shows up in the customer's profile.
	resp = client.do(http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		Customer *models.Customer `json:"customer"`
		Orders   []models.Order   `json:"orders"`
	}
	decodeBody(t, resp, &profile)
	assert.NotNil(t, profile.Customer)
	assert.Len(t, profile.Orders, 1)
	assert.Equal(t, order.ID, profile.Orders[0].ID)

	resp = client.do(http.MethodGet, "/api/v1/profile/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var detail models.Order
	decodeBody(t, resp, &detail)
	assert.Equal(t, order.ID, detail.ID)
}

func TestProfileRefusesAnonymousIdentity(t *testing.T) {
	// The profile routes check the identity themselves, so a composition that
	// leaves out the login guard still turns anonymous requests away and points
	// them at the login flow.
	_, db := setupApp(t)

	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	customerRepo := repositories.NewGORMCustomerRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)
	authService := services.NewAuthService(userRepo, customerRepo, adminRepo, "test_jwt_secret")
	orderService := services.NewOrderService(orderRepo, nil)
	orderHandler := handlers.NewOrderHandler(orderService, authService)

	app := fiber.New()
	unguarded := app.Group("/api/v1",
		middleware.CartSession(testSessionCookie),
		middleware.CurrentUser(authService),
	)
	orderHandler.RegisterCustomerRoutes(unguarded)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var refusal map[string]string
	decodeBody(t, resp, &refusal)
	assert.Contains(t, refusal["login"], "next=/api/v1/profile")
}

func TestOrderOwnership(t *testing.T) {
	app, db := setupApp(t)
	_, product := seedCatalog(t, db)

	owner := newClient(t, app)
	owner.register("owner", "owner@example.com")
	resp := owner.do(http.MethodPost, "/api/v1/cart/items/"+product.ID, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = owner.do(http.MethodPost, "/api/v1/checkout", map[string]string{
		"ordered_by":       "Order Owner",
		"shipping_address": "12 Harbour Road, Springfield",
		"mobile":           "08123456789",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)

	// A different customer is refused without learning the order exists.
	intruder := newClient(t, app)
	intruder.register("intruder", "intruder@example.com")
	resp = intruder.do(http.MethodGet, "/api/v1/profile/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var refusal map[string]string
	decodeBody(t, resp, &refusal)
	assert.Equal(t, "/api/v1/profile", refusal["redirect"])

	// The owner still sees it.
	resp = owner.do(http.MethodGet, "/api/v1/profile/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminWorkflow(t *testing.T) {
	app, db := setupApp(t)
	seedAdmin(t, db, "storeadmin", "adminpass")
	_, product := seedCatalog(t, db)

	// Anonymous and customer access to the admin area is refused.
	anonymous := newClient(t, app)
	resp := anonymous.do(http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	customer := newClient(t, app)
	customer.register("plaincustomer", "plain@example.com")
	resp = customer.do(http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The customer places an order for the admin to work on.
	resp = customer.do(http.MethodPost, "/api/v1/cart/items/"+product.ID, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = customer.do(http.MethodPost, "/api/v1/checkout", map[string]string{
		"ordered_by":       "Plain Customer",
		"shipping_address": "12 Harbour Road, Springfield",
		"mobile":           "08123456789",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)

	// Admin login uses its own endpoint.
	admin := newClient(t, app)
	resp = admin.do(http.MethodPost, "/api/v1/auth/admin-login", map[string]string{
		"username": "storeadmin",
		"password": "adminpass",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	admin.token = loginResp["token"]
	assert.NotEmpty(t, admin.token)

	// A plain customer cannot use the admin login.
	resp = anonymous.do(http.MethodPost, "/api/v1/auth/admin-login", map[string]string{
		"username": "plaincustomer",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// The new order sits in the pending queue.
	resp = admin.do(http.MethodGet, "/api/v1/admin/orders/pending", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []models.Order
	decodeBody(t, resp, &pending)
	assert.Len(t, pending, 1)
	assert.Equal(t, order.ID, pending[0].ID)

	// The detail view offers the status choices.
	resp = admin.do(http.MethodGet, "/api/v1/admin/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var adminDetail struct {
		Order    *models.Order `json:"order"`
		Statuses []string      `json:"statuses"`
	}
	decodeBody(t, resp, &adminDetail)
	assert.Equal(t, order.ID, adminDetail.Order.ID)
	assert.Equal(t, models.OrderStatuses, adminDetail.Statuses)

	// An unknown status is rejected and changes nothing.
	resp = admin.do(http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", map[string]string{
		"status": "Shipped",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// So is skipping ahead in the workflow.
	resp = admin.do(http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", map[string]string{
		"status": models.StatusCompleted,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = admin.do(http.MethodPatch, "/api/v1/admin/orders/"+order.ID+"/status", map[string]string{
		"status": models.StatusProcessing,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = admin.do(http.MethodGet, "/api/v1/admin/orders/"+order.ID, nil)
	decodeBody(t, resp, &adminDetail)
	assert.Equal(t, models.StatusProcessing, adminDetail.Order.OrderStatus)

	// Once processed, the pending queue is empty again.
	resp = admin.do(http.MethodGet, "/api/v1/admin/orders/pending", nil)
	decodeBody(t, resp, &pending)
	assert.Empty(t, pending)
}

func TestAdminCatalogManagement(t *testing.T) {
	app, db := setupApp(t)
	seedAdmin(t, db, "storeadmin", "adminpass")

	admin := newClient(t, app)
	resp := admin.do(http.MethodPost, "/api/v1/auth/admin-login", map[string]string{
		"username": "storeadmin",
		"password": "adminpass",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	admin.token = loginResp["token"]

	resp = admin.do(http.MethodPost, "/api/v1/admin/categories", map[string]string{
		"title": "Peripherals",
		"slug":  "peripherals",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var category models.Category
	decodeBody(t, resp, &category)
	assert.NotEmpty(t, category.ID)

	resp = admin.do(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"title":         "Mechanical Keyboard",
		"slug":          "mechanical-keyboard",
		"category_id":   category.ID,
		"marked_price":  600,
		"selling_price": 500,
		"more_images":   []string{"/images/keyboard-side.jpg"},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)
	assert.NotEmpty(t, product.ID)

	// Validation failures name the offending fields.
	resp = admin.do(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"title": "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The new product is live on the storefront.
	resp = admin.do(http.MethodGet, "/api/v1/products/mechanical-keyboard", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var detail models.Product
	decodeBody(t, resp, &detail)
	assert.Len(t, detail.Images, 1)

	// Deleting the category takes its products with it.
	resp = admin.do(http.MethodDelete, "/api/v1/admin/categories/"+category.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = admin.do(http.MethodGet, "/api/v1/products/mechanical-keyboard", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
