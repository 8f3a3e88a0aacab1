package handlers

import (
	"errors"

	"github.com/campuseats/backend/internal/authz"
	"github.com/campuseats/backend/internal/dto"
	"github.com/campuseats/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MenuHandler struct {
	menuService *services.MenuService
}

func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func (h *MenuHandler) ListMenu(c *fiber.Ctx) error {
	canteenID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid canteen id",
		})
	}

	items, err := h.menuService.ListMenu(canteenID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list menu",
		})
	}
	return c.JSON(items)
}

func (h *MenuHandler) CreateItem(c *fiber.Ctx) error {
	user, err := authz.User(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateMenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	item, err := h.menuService.CreateItem(user, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotCanteenStaff) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *MenuHandler) UpdateItem(c *fiber.Ctx) error {
	user, err := authz.User(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid item id",
		})
	}

	var req dto.UpdateMenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	item, err := h.menuService.UpdateItem(user, id, &req)
	if err != nil {
		return menuError(c, err)
	}
	return c.JSON(item)
}

func (h *MenuHandler) DeleteItem(c *fiber.Ctx) error {
	user, err := authz.User(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid item id",
		})
	}

	if err := h.menuService.DeleteItem(user, id); err != nil {
		return menuError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Menu item deleted"})
}

func menuError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrMenuItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotCanteenStaff):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
}
