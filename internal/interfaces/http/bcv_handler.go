package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmaven/farmacia-api/internal/infrastructure/bcv"
)

// BCVHandler expone la tasa de cambio oficial (público, sin token).
type BCVHandler struct {
	client *bcv.Client
}

// NewBCVHandler construye el handler.
func NewBCVHandler(client *bcv.Client) *BCVHandler {
	return &BCVHandler{client: client}
}

// GetRate godoc
// @Summary      Tasa de cambio USD/EUR del BCV
// @Description  Responde siempre 200: caché fresca, caché vencida o valores de respaldo.
// @Tags         bcv
// @Produce      json
// @Success      200  {object}  dto.RateResponse
// @Router       /api/bcv/tasa [get]
func (h *BCVHandler) GetRate(c *fiber.Ctx) error {
	out, err := h.client.GetRate()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
