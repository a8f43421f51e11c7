package product

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/tahaql/ecommerce-api/internal/user"
)

func newTestApp(seed []Product) *fiber.App {
	handler := NewHandler(NewService(NewInMemoryRepository(seed)))
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-User-ID"); raw != "" {
			id, _ := strconv.Atoi(raw)
			claims := jwt.MapClaims{"user_id": float64(id), "role": c.Get("X-User-Role")}
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		return c.Next()
	})
	handler.RegisterPublicRoutes(app)
	handler.RegisterProtectedRoutes(app)
	return app
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func request(t *testing.T, app *fiber.App, method, path string, body any, role string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-User-ID", "1")
		req.Header.Set("X-User-Role", role)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, env
}

func TestList_HidesInactiveFromCustomers(t *testing.T) {
	app := newTestApp([]Product{
		{ID: 1, Name: "Dog Food 5kg", Price: 10.00, Stock: 40, IsActive: true},
		{ID: 2, Name: "Retired Toy", Price: 2.00, Stock: 0, IsActive: false},
	})

	status, env := request(t, app, http.MethodGet, "/api/v1/products", nil, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	products, _ := env.Data["products"].([]any)
	if len(products) != 1 {
		t.Fatalf("expected only the active product, got %d", len(products))
	}

	status, env = request(t, app, http.MethodGet, "/api/v1/products", nil, user.RoleAdmin)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	products, _ = env.Data["products"].([]any)
	if len(products) != 2 {
		t.Fatalf("expected admin to see both products, got %d", len(products))
	}
}

func TestGet_InactiveHiddenFromCustomers(t *testing.T) {
	app := newTestApp([]Product{
		{ID: 2, Name: "Retired Toy", Price: 2.00, Stock: 0, IsActive: false},
	})

	status, _ := request(t, app, http.MethodGet, "/api/v1/products/2", nil, "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for customer, got %d", status)
	}
	status, _ = request(t, app, http.MethodGet, "/api/v1/products/2", nil, user.RoleAdmin)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", status)
	}
}

func TestCreate_AdminOnly(t *testing.T) {
	app := newTestApp(nil)
	payload := fiber.Map{"name": "Bird Seed", "price": 5.00, "stock": 10, "isActive": true}

	status, _ := request(t, app, http.MethodPost, "/api/v1/products", payload, user.RoleCustomer)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", status)
	}

	status, env := request(t, app, http.MethodPost, "/api/v1/products", payload, user.RoleAdmin)
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("expected 201, got %d (%s)", status, env.Message)
	}

	status, _ = request(t, app, http.MethodPost, "/api/v1/products", fiber.Map{"price": -1}, user.RoleAdmin)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid product, got %d", status)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	app := newTestApp(nil)
	payload := fiber.Map{"name": "Bird Seed", "price": 5.00, "stock": 10}

	status, _ := request(t, app, http.MethodPut, "/api/v1/products/99", payload, user.RoleAdmin)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}
