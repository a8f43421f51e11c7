package category

import (
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
	app.Get("/api/v1/categories", h.list)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/categories", h.create)
}

func (h *Handler) list(c *fiber.Ctx) error {
	categories, err := h.service.List()
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to retrieve categories")
	}
	return response.OK(c, "Categories retrieved successfully", fiber.Map{"categories": categories})
}

func (h *Handler) create(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return response.Fail(c, fiber.StatusForbidden, "Admin access required")
	}

	payload := new(Category)
	if err := c.BodyParser(payload); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(*payload)
	if err != nil {
		switch err {
		case ErrNameRequired:
			return response.Fail(c, fiber.StatusBadRequest, err.Error())
		case ErrNameExists:
			return response.Fail(c, fiber.StatusConflict, "Category name already exists")
		default:
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to create category")
		}
	}
	return response.Created(c, "Category created successfully", fiber.Map{"category": created})
}
