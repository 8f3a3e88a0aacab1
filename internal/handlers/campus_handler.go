package handlers

import (
	"errors"

	"github.com/campuseats/backend/internal/dto"
	"github.com/campuseats/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CampusHandler struct {
	campusService *services.CampusService
}

func NewCampusHandler(campusService *services.CampusService) *CampusHandler {
	return &CampusHandler{campusService: campusService}
}

func (h *CampusHandler) ListCampuses(c *fiber.Ctx) error {
	campuses, err := h.campusService.ListCampuses()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list campuses",
		})
	}
	return c.JSON(campuses)
}

func (h *CampusHandler) CreateCampus(c *fiber.Ctx) error {
	var req dto.CreateCampusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	campus, err := h.campusService.CreateCampus(&req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(campus)
}

func (h *CampusHandler) ListCanteens(c *fiber.Ctx) error {
	campusID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid campus id",
		})
	}

	canteens, err := h.campusService.ListCanteens(campusID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list canteens",
		})
	}
	return c.JSON(canteens)
}

func (h *CampusHandler) CreateCanteen(c *fiber.Ctx) error {
	var req dto.CreateCanteenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	canteen, err := h.campusService.CreateCanteen(&req)
	if err != nil {
		if errors.Is(err, services.ErrCampusNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(canteen)
}

func (h *CampusHandler) UpdateCanteen(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid canteen id",
		})
	}

	var req dto.UpdateCanteenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	canteen, err := h.campusService.UpdateCanteen(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrCanteenNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update canteen",
		})
	}
	return c.JSON(canteen)
}
