package entity

import "time"

// Tipos de programación de un respaldo.
const (
	BackupScheduleDaily   = "diario"
	BackupScheduleWeekly  = "semanal"
	BackupScheduleMonthly = "mensual"
)

// Estados de una ejecución de respaldo.
const (
	BackupStatusSuccess = "exitoso"
	BackupStatusFailed  = "fallido"
)

// BackupConfig define una política de respaldo programado con retención.
type BackupConfig struct {
	ID            string
	Name          string
	Description   string
	ScheduleType  string // diario, semanal, mensual
	Time          string // "HH:MM"
	DayOfWeek     int    // 0-6 (domingo=0), solo semanal
	DayOfMonth    int    // 1-31, solo mensual
	Active        bool
	IncludeSchema bool
	IncludeData   bool
	NotifyEmail   bool
	NotifyAddress string
	Compress      bool
	RetainCount   int // 0 = sin rotación
	CreatedBy     string
	CreatedAt     time.Time
}

// BackupRecord es el historial de una ejecución (manual o programada).
type BackupRecord struct {
	ID          string
	ConfigID    string // vacío en ejecuciones manuales sin configuración
	Filename    string
	Path        string
	SizeBytes   int64
	PerformedBy string
	Status      string // exitoso, fallido
	Message     string
	CreatedAt   time.Time
}
