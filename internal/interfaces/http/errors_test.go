package http

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmaven/farmacia-api/internal/domain"
)

// TestRespondError_MapeoDeCodigos verifica el código HTTP de cada error de
// dominio. Los conflictos de datos (duplicados, recursos en uso) responden
// 400; solo los conflictos de estado (pedido recibido, permisos del admin)
// responden 409.
func TestRespondError_MapeoDeCodigos(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"usuario no encontrado", domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"entrada invalida", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"clave duplicada", domain.ErrDuplicate, fiber.StatusBadRequest, "DUPLICATE"},
		{"email duplicado", domain.ErrEmailAlreadyExists, fiber.StatusBadRequest, "EMAIL_EXISTS"},
		{"recurso en uso", domain.ErrConflictInUse, fiber.StatusBadRequest, "IN_USE"},
		{"pedido ya recibido", domain.ErrOrderAlreadyReceived, fiber.StatusConflict, "ALREADY_RECEIVED"},
		{"permisos de admin", domain.ErrPermissionImmutable, fiber.StatusConflict, "PERMISSION_IMMUTABLE"},
		{"acceso denegado", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{"no autorizado", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"herramienta externa", domain.ErrExternalTool, fiber.StatusBadGateway, "EXTERNAL_TOOL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body := make([]byte, 256)
			n, _ := resp.Body.Read(body)
			assert.Contains(t, string(body[:n]), fmt.Sprintf("%q", tc.code))
		})
	}
}

// TestRespondError_EnvueltoYDesconocido cubre errores envueltos y no mapeados.
func TestRespondError_EnvueltoYDesconocido(t *testing.T) {
	app := fiber.New()
	app.Get("/envuelto", func(c *fiber.Ctx) error {
		return respondError(c, fmt.Errorf("eliminar producto: %w", domain.ErrConflictInUse))
	})
	app.Get("/desconocido", func(c *fiber.Ctx) error {
		return respondError(c, fmt.Errorf("fallo en la base de datos"))
	})

	// Caso 1: un error envuelto conserva el mapeo del sentinel.
	resp, err := app.Test(httptest.NewRequest("GET", "/envuelto", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Caso 2: un error sin mapeo responde 500 sin exponer el detalle.
	resp, err = app.Test(httptest.NewRequest("GET", "/desconocido", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := make([]byte, 256)
	n, _ := resp.Body.Read(body)
	assert.NotContains(t, string(body[:n]), "base de datos")
}
