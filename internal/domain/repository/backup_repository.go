package repository

import "github.com/farmaven/farmacia-api/internal/domain/entity"

// BackupRecordListItem es una fila de historial con nombres de configuración y usuario unidos.
type BackupRecordListItem struct {
	Record     entity.BackupRecord
	ConfigName string
	UserName   string
}

// BackupConfigRepository define el puerto de persistencia para BackupConfig.
type BackupConfigRepository interface {
	Create(config *entity.BackupConfig) error
	GetByID(id string) (*entity.BackupConfig, error)
	List() ([]*entity.BackupConfig, error)
	ListActive() ([]*entity.BackupConfig, error)
	Update(config *entity.BackupConfig) error
	Delete(id string) error
}

// BackupRecordRepository define el puerto de persistencia para el historial de respaldos.
type BackupRecordRepository interface {
	Create(record *entity.BackupRecord) error
	GetByID(id string) (*entity.BackupRecord, error)
	// ListSuccessfulByConfig devuelve los respaldos exitosos de una configuración,
	// ordenados del más reciente al más antiguo (para la rotación).
	ListSuccessfulByConfig(configID string) ([]*entity.BackupRecord, error)
	List() ([]*BackupRecordListItem, error)
	Delete(id string) error
}
