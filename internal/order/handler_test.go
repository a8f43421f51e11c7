package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/tahaql/ecommerce-api/internal/product"
	"github.com/tahaql/ecommerce-api/internal/user"
)

// newTestApp stands in for the JWT middleware: X-User-ID and
// X-User-Role headers become the claims the handlers read.
func newTestApp(f *fixture) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-User-ID"); raw != "" {
			id, _ := strconv.Atoi(raw)
			claims := jwt.MapClaims{"user_id": float64(id), "role": c.Get("X-User-Role")}
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		return c.Next()
	})
	NewHandler(f.svc).RegisterProtectedRoutes(app)
	return app
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, userID int, role string) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(userID))
	}
	if role != "" {
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

func seededFixture() *fixture {
	return newFixture([]product.Product{
		{ID: 1, Name: "Dog Food 5kg", Price: 10.00, Stock: 5, IsActive: true},
	})
}

func TestHandlerCheckout(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)
	f.mustAdd(t, 7, 1, 2)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/orders", fiber.Map{"paymentMethod": "CREDIT_CARD"}, 7, "")
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("expected 201, got %d (%s)", status, env.Message)
	}
	if env.Message != "Order created successfully" {
		t.Errorf("unexpected message %q", env.Message)
	}
	ord, _ := env.Data["order"].(map[string]any)
	if ord == nil {
		t.Fatal("expected an order in the response")
	}
	if ord["totalAmount"] != 20.00 || ord["status"] != "PENDING" {
		t.Errorf("unexpected order payload: %+v", ord)
	}
	if !numberPattern.MatchString(fmt.Sprint(ord["orderNumber"])) {
		t.Errorf("bad order number %v", ord["orderNumber"])
	}

	summary, _ := f.carts.Get(7)
	if summary.ItemCount != 0 {
		t.Errorf("expected cart cleared, got %d lines", summary.ItemCount)
	}
}

func TestHandlerCheckout_Unauthorized(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/orders", fiber.Map{"paymentMethod": "CREDIT_CARD"}, 0, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestHandlerCheckout_EmptyCart(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/orders", fiber.Map{"paymentMethod": "CREDIT_CARD"}, 7, "")
	if status != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400, got %d", status)
	}
	if env.Message != "Cart is empty" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestHandlerCheckout_InsufficientStock(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)
	f.mustAdd(t, 7, 1, 9)

	status, env := doJSON(t, app, http.MethodPost, "/api/v1/orders", fiber.Map{"paymentMethod": "CREDIT_CARD"}, 7, "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if !strings.HasPrefix(env.Message, "Insufficient stock for") {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestHandlerCheckout_BadMethod(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)
	f.mustAdd(t, 7, 1, 1)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/orders", fiber.Map{"paymentMethod": "IOU"}, 7, "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestHandlerGet_ForeignOrderHidden(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)
	f.mustAdd(t, 7, 1, 1)
	ord, err := f.svc.PlaceOrder(7, PlaceOrderInput{PaymentMethod: MethodCreditCard})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	status, env := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", ord.ID), nil, 8, "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if env.Message != "Order not found" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestHandlerCancel(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)
	f.mustAdd(t, 7, 1, 2)
	ord, err := f.svc.PlaceOrder(7, PlaceOrderInput{PaymentMethod: MethodCreditCard})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	path := fmt.Sprintf("/api/v1/orders/%d/cancel", ord.ID)
	status, env := doJSON(t, app, http.MethodPatch, path, nil, 7, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d (%s)", status, env.Message)
	}
	if got := f.ledger.Stock(1); got != 5 {
		t.Errorf("expected stock restored, got %d", got)
	}

	status, env = doJSON(t, app, http.MethodPatch, path, nil, 7, "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 on second cancel, got %d", status)
	}
	if env.Message != "Order cannot be cancelled at this stage" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestHandlerAdminList(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)
	f.mustAdd(t, 7, 1, 1)
	if _, err := f.svc.PlaceOrder(7, PlaceOrderInput{PaymentMethod: MethodCreditCard}); err != nil {
		t.Fatalf("place order: %v", err)
	}

	status, env := doJSON(t, app, http.MethodGet, "/api/v1/admin/orders", nil, 8, "")
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", status)
	}
	if env.Message != "Admin access required" {
		t.Errorf("unexpected message %q", env.Message)
	}

	status, env = doJSON(t, app, http.MethodGet, "/api/v1/admin/orders?page=1&limit=10", nil, 8, user.RoleAdmin)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("expected 200 for admin, got %d", status)
	}
	orders, _ := env.Data["orders"].([]any)
	if len(orders) != 1 {
		t.Errorf("expected 1 order, got %d", len(orders))
	}
	pagination, _ := env.Data["pagination"].(map[string]any)
	if pagination == nil || pagination["totalItems"] != 1.0 {
		t.Errorf("unexpected pagination: %+v", pagination)
	}
}

func TestHandlerAdminUpdateStatus(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)
	f.mustAdd(t, 7, 1, 1)
	ord, err := f.svc.PlaceOrder(7, PlaceOrderInput{PaymentMethod: MethodCreditCard})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	path := fmt.Sprintf("/api/v1/admin/orders/%d/status", ord.ID)

	status, _ := doJSON(t, app, http.MethodPatch, path, fiber.Map{"status": "CONFIRMED"}, 7, "")
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", status)
	}

	status, _ = doJSON(t, app, http.MethodPatch, path, fiber.Map{"status": "BOGUS"}, 8, user.RoleAdmin)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", status)
	}

	status, env := doJSON(t, app, http.MethodPatch, path, fiber.Map{"status": "CONFIRMED"}, 8, user.RoleAdmin)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, env.Message)
	}
	updated, _ := env.Data["order"].(map[string]any)
	if updated["status"] != "CONFIRMED" {
		t.Errorf("unexpected status %v", updated["status"])
	}
}

func TestHandlerListOwn(t *testing.T) {
	f := seededFixture()
	app := newTestApp(f)
	for _, uid := range []int{7, 8} {
		f.mustAdd(t, uid, 1, 1)
		if _, err := f.svc.PlaceOrder(uid, PlaceOrderInput{PaymentMethod: MethodCreditCard}); err != nil {
			t.Fatalf("place order for %d: %v", uid, err)
		}
	}

	status, env := doJSON(t, app, http.MethodGet, "/api/v1/orders", nil, 7, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	orders, _ := env.Data["orders"].([]any)
	if len(orders) != 1 {
		t.Fatalf("expected only the caller's order, got %d", len(orders))
	}
	ord, _ := orders[0].(map[string]any)
	if ord["userId"] != 7.0 {
		t.Errorf("expected order for user 7, got %v", ord["userId"])
	}
}
