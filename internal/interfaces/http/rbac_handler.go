package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/application/rbac"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
)

// RBACHandler expone la administración de módulos y permisos por rol (solo admin).
type RBACHandler struct {
	engine   *rbac.Engine
	userRepo repository.UserRepository
}

// NewRBACHandler construye el handler.
func NewRBACHandler(engine *rbac.Engine, userRepo repository.UserRepository) *RBACHandler {
	return &RBACHandler{engine: engine, userRepo: userRepo}
}

// ListModules lista los módulos activos del sistema (GET /api/roles/modulos).
func (h *RBACHandler) ListModules(c *fiber.Ctx) error {
	out, err := h.engine.ListModules()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListPermissions lista los permisos de un rol (GET /api/roles/permisos/:rol).
// Para admin la lista se sintetiza con todo permitido.
func (h *RBACHandler) ListPermissions(c *fiber.Ctx) error {
	out, err := h.engine.ListPermissions(entity.Role(c.Params("rol")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListPermissionsForUser resuelve el rol del usuario y lista sus permisos
// (GET /api/roles/usuario/:usuarioId).
func (h *RBACHandler) ListPermissionsForUser(c *fiber.Ctx) error {
	out, err := h.engine.ListPermissionsForUser(h.userRepo, c.Params("usuarioId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpsertPermission crea o actualiza el permiso de un rol sobre un módulo
// (POST /api/roles/permiso). Los permisos de admin son inmutables.
func (h *RBACHandler) UpsertPermission(c *fiber.Ctx) error {
	var in dto.UpsertPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.engine.UpsertPermission(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdatePermission actualiza las banderas de un permiso existente
// (PUT /api/roles/permiso/:id).
func (h *RBACHandler) UpdatePermission(c *fiber.Ctx) error {
	var in dto.UpdatePermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.engine.UpdatePermission(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
