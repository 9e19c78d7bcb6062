package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
)

// permissionChecker es el contrato mínimo que necesita el middleware para
// verificar permisos. Lo implementa *rbac.Engine; el uso de interfaz evita
// el import circular.
type permissionChecker interface {
	Check(role entity.Role, moduleName string, action entity.Action) (bool, error)
}

// RequirePermission devuelve un middleware que verifica si el rol del token
// puede ejecutar la acción sobre el módulo. Debe usarse DESPUÉS de
// AuthMiddleware (necesita LocalRole).
//
// Comportamiento:
//   - 401 → token sin rol (AuthMiddleware debería haberlo puesto).
//   - 403 → el rol no tiene el flag de la acción, o el módulo está inactivo.
//   - 503 → fallo de infraestructura al consultar los permisos.
func RequirePermission(moduleName string, action entity.Action, checker permissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "token sin rol",
			})
		}

		allowed, err := checker.Check(entity.Role(role), moduleName, action)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "no se pudo verificar el permiso, intente más tarde",
			})
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "sin permiso de " + string(action) + " sobre '" + moduleName + "'",
			})
		}
		return c.Next()
	}
}
