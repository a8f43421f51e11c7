package order

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tahaql/ecommerce-api/internal/address"
	"github.com/tahaql/ecommerce-api/internal/inventory"
	"github.com/tahaql/ecommerce-api/internal/response"
	"github.com/tahaql/ecommerce-api/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.checkout)
	app.Get("/api/v1/orders", h.listOwn)
	app.Get("/api/v1/orders/:id<[0-9]+>", h.get)
	app.Patch("/api/v1/orders/:id<[0-9]+>/cancel", h.cancel)
	app.Get("/api/v1/admin/orders", h.listAll)
	app.Patch("/api/v1/admin/orders/:id<[0-9]+>/status", h.updateStatus)
}

type checkoutRequest struct {
	PaymentMethod     string           `json:"paymentMethod"`
	ShippingAddressID *int             `json:"shippingAddressId,omitempty"`
	ShippingAddress   *address.Address `json:"shippingAddress,omitempty"`
	Notes             string           `json:"notes,omitempty"`
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := new(checkoutRequest)
	if err := c.BodyParser(payload); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	ord, err := h.service.PlaceOrder(userID, PlaceOrderInput{
		PaymentMethod:     payload.PaymentMethod,
		ShippingAddressID: payload.ShippingAddressID,
		ShippingAddress:   payload.ShippingAddress,
		Notes:             payload.Notes,
	})
	if err != nil {
		return failFromError(c, err)
	}
	return response.Created(c, "Order created successfully", fiber.Map{"order": ord})
}

func (h *Handler) listOwn(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return h.list(c, &userID)
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return response.Fail(c, fiber.StatusForbidden, "Admin access required")
	}
	return h.list(c, nil)
}

func (h *Handler) list(c *fiber.Ctx, userID *int) error {
	params := ListParams{
		UserID:    userID,
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", defaultPageSize),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	// an unknown status filter is ignored, matching the lenient sort
	// handling
	if raw := c.Query("status"); raw != "" {
		if status, ok := ParseStatus(raw); ok {
			params.Status = &status
		}
	}

	orders, pagination, err := h.service.List(params)
	if err != nil {
		return failFromError(c, err)
	}
	return response.OK(c, "Orders retrieved successfully", fiber.Map{"orders": orders, "pagination": pagination})
}

func (h *Handler) get(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid order id")
	}

	ord, err := h.service.GetByID(orderID, userID)
	if err != nil {
		return failFromError(c, err)
	}
	return response.OK(c, "Order retrieved successfully", fiber.Map{"order": ord})
}

func (h *Handler) cancel(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid order id")
	}

	ord, err := h.service.Cancel(orderID, userID)
	if err != nil {
		return failFromError(c, err)
	}
	return response.OK(c, "Order cancelled successfully", fiber.Map{"order": ord})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return response.Fail(c, fiber.StatusForbidden, "Admin access required")
	}

	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid order id")
	}

	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	ord, err := h.service.UpdateStatus(orderID, payload.Status)
	if err != nil {
		return failFromError(c, err)
	}
	return response.OK(c, "Order status updated successfully", fiber.Map{"order": ord})
}

// failFromError maps business failures onto client statuses. Expected
// failures are not logged; anything unrecognized is logged and hidden
// behind a generic message.
func failFromError(c *fiber.Ctx, err error) error {
	var short *inventory.InsufficientStockError
	var unavailable *UnavailableProductError
	var transition *TransitionError

	switch {
	case errors.Is(err, ErrEmptyCart):
		return response.Fail(c, fiber.StatusBadRequest, "Cart is empty")
	case errors.As(err, &short):
		return response.Fail(c, fiber.StatusBadRequest, short.Error())
	case errors.As(err, &unavailable):
		return response.Fail(c, fiber.StatusBadRequest, unavailable.Error())
	case errors.As(err, &transition):
		return response.Fail(c, fiber.StatusBadRequest, "Order cannot be cancelled at this stage")
	case errors.Is(err, ErrInvalidMethod):
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, address.ErrIncomplete):
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return response.Fail(c, fiber.StatusNotFound, "Order not found")
	default:
		log.Printf("order: %v", err)
		return response.Fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
