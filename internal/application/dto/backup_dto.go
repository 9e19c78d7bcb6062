package dto

// CreateBackupConfigRequest body para POST /api/backups/configuracion.
type CreateBackupConfigRequest struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description,omitempty"`
	ScheduleType  string `json:"schedule_type" validate:"required,oneof=diario semanal mensual"`
	Time          string `json:"time" validate:"required"` // "HH:MM"
	DayOfWeek     int    `json:"day_of_week" validate:"min=0,max=6"`
	DayOfMonth    int    `json:"day_of_month" validate:"min=0,max=31"`
	Active        bool   `json:"active"`
	IncludeSchema bool   `json:"include_schema"`
	IncludeData   bool   `json:"include_data"`
	NotifyEmail   bool   `json:"notify_email"`
	NotifyAddress string `json:"notify_address,omitempty" validate:"omitempty,email"`
	Compress      bool   `json:"compress"`
	RetainCount   int    `json:"retain_count" validate:"min=0"`
}

// BackupConfigResponse configuración de respaldo en respuestas.
type BackupConfigResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ScheduleType  string `json:"schedule_type"`
	Time          string `json:"time"`
	DayOfWeek     int    `json:"day_of_week"`
	DayOfMonth    int    `json:"day_of_month"`
	Active        bool   `json:"active"`
	IncludeSchema bool   `json:"include_schema"`
	IncludeData   bool   `json:"include_data"`
	NotifyEmail   bool   `json:"notify_email"`
	NotifyAddress string `json:"notify_address,omitempty"`
	Compress      bool   `json:"compress"`
	RetainCount   int    `json:"retain_count"`
	CreatedAt     string `json:"created_at"`
}

// RunBackupRequest body para POST /api/backups/ejecutar.
// ConfigID opcional: vacío ejecuta un respaldo manual con opciones por defecto.
// CustomName opcional: nombre base del archivo en respaldos manuales.
type RunBackupRequest struct {
	ConfigID   string `json:"config_id,omitempty"`
	CustomName string `json:"custom_name,omitempty"`
}

// BackupRecordResponse fila del historial de respaldos.
type BackupRecordResponse struct {
	ID          string `json:"id"`
	ConfigID    string `json:"config_id,omitempty"`
	ConfigName  string `json:"config_name,omitempty"`
	Filename    string `json:"filename"`
	SizeBytes   int64  `json:"size_bytes"`
	PerformedBy string `json:"performed_by,omitempty"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	CreatedAt   string `json:"created_at"`
}
