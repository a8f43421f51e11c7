package product

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

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.list)
	app.Get("/api/v1/products/:id<[0-9]+>", h.get)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/products", h.create)
	app.Put("/api/v1/products/:id<[0-9]+>", h.update)
}

func (h *Handler) list(c *fiber.Ctx) error {
	// admins see inactive products too
	products, err := h.service.List(!user.IsAdmin(c))
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to retrieve products")
	}
	return response.OK(c, "Products retrieved successfully", fiber.Map{"products": products})
}

func (h *Handler) get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid product id")
	}

	p, err := h.service.GetByID(id)
	if err != nil || (!p.IsActive && !user.IsAdmin(c)) {
		return response.Fail(c, fiber.StatusNotFound, "Product not found")
	}
	return response.OK(c, "Product retrieved successfully", fiber.Map{"product": p})
}

func (h *Handler) create(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return response.Fail(c, fiber.StatusForbidden, "Admin access required")
	}

	payload := new(Product)
	if err := c.BodyParser(payload); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(*payload)
	if err != nil {
		if err == ErrInvalidProduct {
			return response.Fail(c, fiber.StatusBadRequest, err.Error())
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to create product")
	}
	return response.Created(c, "Product created successfully", fiber.Map{"product": created})
}

func (h *Handler) update(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return response.Fail(c, fiber.StatusForbidden, "Admin access required")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid product id")
	}

	payload := new(Product)
	if err := c.BodyParser(payload); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Update(id, *payload)
	if err != nil {
		switch err {
		case ErrNotFound:
			return response.Fail(c, fiber.StatusNotFound, "Product not found")
		case ErrInvalidProduct:
			return response.Fail(c, fiber.StatusBadRequest, err.Error())
		default:
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to update product")
		}
	}
	return response.OK(c, "Product updated successfully", fiber.Map{"product": updated})
}
