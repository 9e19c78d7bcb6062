package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmaven/farmacia-api/internal/application/backup"
	"github.com/farmaven/farmacia-api/internal/application/dto"
)

// BackupHandler administra respaldos de la base de datos (solo admin).
type BackupHandler struct {
	uc        *backup.UseCase
	scheduler *backup.Scheduler
}

// NewBackupHandler construye el handler.
func NewBackupHandler(uc *backup.UseCase, scheduler *backup.Scheduler) *BackupHandler {
	return &BackupHandler{uc: uc, scheduler: scheduler}
}

// reloadScheduler reprograma los cron jobs tras cambiar configuraciones.
// Un fallo al recargar no invalida el cambio ya persistido.
func (h *BackupHandler) reloadScheduler() {
	if h.scheduler == nil {
		return
	}
	_ = h.scheduler.Reload()
}

// CreateConfig registra una configuración programada (POST /api/backups/configuraciones).
func (h *BackupHandler) CreateConfig(c *fiber.Ctx) error {
	var in dto.CreateBackupConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateConfig(GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	h.reloadScheduler()
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListConfigs lista las configuraciones (GET /api/backups/configuraciones).
func (h *BackupHandler) ListConfigs(c *fiber.Ctx) error {
	out, err := h.uc.ListConfigs()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateConfig actualiza una configuración (PUT /api/backups/configuraciones/:id).
func (h *BackupHandler) UpdateConfig(c *fiber.Ctx) error {
	var in dto.CreateBackupConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateConfig(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	h.reloadScheduler()
	return c.JSON(out)
}

// DeleteConfig elimina una configuración (DELETE /api/backups/configuraciones/:id).
func (h *BackupHandler) DeleteConfig(c *fiber.Ctx) error {
	if err := h.uc.DeleteConfig(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	h.reloadScheduler()
	return c.JSON(dto.MessageResponse{Message: "configuración eliminada"})
}

// Run ejecuta un respaldo manual o de una configuración (POST /api/backups/ejecutar).
// Un dump fallido responde 200 con el registro en estado "fallido".
func (h *BackupHandler) Run(c *fiber.Ctx) error {
	var in dto.RunBackupRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Run(c.UserContext(), GetUserID(c), in.ConfigID, in.CustomName)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History lista el historial de respaldos (GET /api/backups/historial).
func (h *BackupHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Download descarga el archivo de un respaldo exitoso (GET /api/backups/descargar/:id).
func (h *BackupHandler) Download(c *fiber.Ctx) error {
	path, filename, err := h.uc.FileForDownload(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Download(path, filename)
}

// Restore restaura la base desde un respaldo exitoso (POST /api/backups/restaurar/:id).
func (h *BackupHandler) Restore(c *fiber.Ctx) error {
	if err := h.uc.Restore(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "base de datos restaurada"})
}
