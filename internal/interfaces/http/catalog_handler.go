package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/application/usecase"
)

// CatalogHandler maneja categorías y laboratorios.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateCategory registra una categoría (POST /api/categorias).
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateCategory(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCategories lista las categorías con total de productos (GET /api/categorias).
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateCategory actualiza una categoría (PUT /api/categorias/:id).
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	var in dto.CreateCatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateCategory(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteCategory elimina una categoría sin productos (DELETE /api/categorias/:id).
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.uc.DeleteCategory(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "categoría eliminada"})
}

// CreateLaboratory registra un laboratorio (POST /api/laboratorios).
func (h *CatalogHandler) CreateLaboratory(c *fiber.Ctx) error {
	var in dto.CreateCatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateLaboratory(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLaboratories lista los laboratorios con total de productos (GET /api/laboratorios).
func (h *CatalogHandler) ListLaboratories(c *fiber.Ctx) error {
	out, err := h.uc.ListLaboratories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateLaboratory actualiza un laboratorio (PUT /api/laboratorios/:id).
func (h *CatalogHandler) UpdateLaboratory(c *fiber.Ctx) error {
	var in dto.CreateCatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateLaboratory(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteLaboratory elimina un laboratorio sin productos (DELETE /api/laboratorios/:id).
func (h *CatalogHandler) DeleteLaboratory(c *fiber.Ctx) error {
	if err := h.uc.DeleteLaboratory(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "laboratorio eliminado"})
}
