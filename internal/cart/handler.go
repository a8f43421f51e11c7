package cart

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

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
	app.Get("/api/v1/cart", h.get)
	app.Post("/api/v1/cart", h.add)
	app.Put("/api/v1/cart/:productId<[0-9]+>", h.setQuantity)
	app.Delete("/api/v1/cart/:productId<[0-9]+>", h.remove)
	app.Delete("/api/v1/cart", h.clear)
}

type addRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) get(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := h.service.Get(userID)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to retrieve cart")
	}
	return response.OK(c, "Cart retrieved successfully", summary)
}

func (h *Handler) add(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	if payload.ProductID <= 0 {
		return response.Fail(c, fiber.StatusBadRequest, "productId is required")
	}

	summary, err := h.service.Add(userID, payload.ProductID, payload.Quantity)
	if err != nil {
		switch err {
		case ErrInvalidQuantity:
			return response.Fail(c, fiber.StatusBadRequest, err.Error())
		case ErrProductUnavailable:
			return response.Fail(c, fiber.StatusNotFound, "Product not found or inactive")
		default:
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to add to cart")
		}
	}
	return response.OK(c, "Item added to cart", summary)
}

func (h *Handler) setQuantity(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid product id")
	}

	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.service.SetQuantity(userID, productID, payload.Quantity)
	if err != nil {
		switch err {
		case ErrInvalidQuantity:
			return response.Fail(c, fiber.StatusBadRequest, err.Error())
		case ErrLineNotFound:
			return response.Fail(c, fiber.StatusNotFound, "Cart item not found")
		default:
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to update cart")
		}
	}
	return response.OK(c, "Cart updated", summary)
}

func (h *Handler) remove(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid product id")
	}

	summary, err := h.service.Remove(userID, productID)
	if err != nil {
		if err == ErrLineNotFound {
			return response.Fail(c, fiber.StatusNotFound, "Cart item not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to remove from cart")
	}
	return response.OK(c, "Item removed from cart", summary)
}

func (h *Handler) clear(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.service.Clear(userID); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to clear cart")
	}
	return response.OK(c, "Cart cleared", nil)
}
