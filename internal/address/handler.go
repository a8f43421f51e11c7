package address

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

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/addresses", h.list)
	app.Post("/api/v1/addresses", h.create)
}

func (h *Handler) list(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	addresses, err := h.service.ListByUser(userID)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to retrieve addresses")
	}
	return response.OK(c, "Addresses retrieved successfully", fiber.Map{"addresses": addresses})
}

func (h *Handler) create(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := new(Address)
	if err := c.BodyParser(payload); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(userID, *payload)
	if err != nil {
		if err == ErrIncomplete {
			return response.Fail(c, fiber.StatusBadRequest, err.Error())
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to create address")
	}
	return response.Created(c, "Address created successfully", fiber.Map{"address": created})
}
