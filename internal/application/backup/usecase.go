package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
	"github.com/farmaven/farmacia-api/pkg/validate"
)

// Dumper vuelca la base de datos a un archivo SQL plano.
type Dumper interface {
	Dump(ctx context.Context, outPath string, includeSchema, includeData bool) error
}

// Restorer aplica un archivo SQL plano sobre la base de datos.
type Restorer interface {
	Restore(ctx context.Context, sqlPath string) error
}

// Compressor comprime y descomprime archivos de respaldo (gzip).
type Compressor interface {
	// Compress comprime path en sitio y devuelve la ruta resultante (path + ".gz").
	Compress(ctx context.Context, path string) (string, error)
	// Decompress descomprime path (.gz) y devuelve la ruta del archivo plano.
	Decompress(ctx context.Context, path string) (string, error)
}

// UseCase respaldos de la base de datos: configuración programada,
// ejecución manual, historial, rotación por retención y restauración.
type UseCase struct {
	configRepo repository.BackupConfigRepository
	recordRepo repository.BackupRecordRepository
	dumper     Dumper
	restorer   Restorer
	compressor Compressor
	dir        string
	log        *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	configRepo repository.BackupConfigRepository,
	recordRepo repository.BackupRecordRepository,
	dumper Dumper,
	restorer Restorer,
	compressor Compressor,
	dir string,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		configRepo: configRepo,
		recordRepo: recordRepo,
		dumper:     dumper,
		restorer:   restorer,
		compressor: compressor,
		dir:        dir,
		log:        log,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuraciones
// ──────────────────────────────────────────────────────────────────────────────

// CreateConfig registra una configuración de respaldo programado.
func (uc *UseCase) CreateConfig(userID string, in dto.CreateBackupConfigRequest) (*dto.BackupConfigResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if err := validateSchedule(in); err != nil {
		return nil, err
	}

	config := &entity.BackupConfig{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Description:   in.Description,
		ScheduleType:  in.ScheduleType,
		Time:          in.Time,
		DayOfWeek:     in.DayOfWeek,
		DayOfMonth:    in.DayOfMonth,
		Active:        in.Active,
		IncludeSchema: in.IncludeSchema,
		IncludeData:   in.IncludeData,
		NotifyEmail:   in.NotifyEmail,
		NotifyAddress: in.NotifyAddress,
		Compress:      in.Compress,
		RetainCount:   in.RetainCount,
		CreatedBy:     userID,
		CreatedAt:     time.Now(),
	}
	if err := uc.configRepo.Create(config); err != nil {
		return nil, err
	}
	uc.log.Info().Str("name", config.Name).Str("schedule", config.ScheduleType).Msg("configuración de respaldo creada")
	return configToResponse(config), nil
}

// ListConfigs lista todas las configuraciones.
func (uc *UseCase) ListConfigs() ([]dto.BackupConfigResponse, error) {
	configs, err := uc.configRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.BackupConfigResponse, 0, len(configs))
	for _, c := range configs {
		out = append(out, *configToResponse(c))
	}
	return out, nil
}

// UpdateConfig actualiza una configuración existente.
func (uc *UseCase) UpdateConfig(id string, in dto.CreateBackupConfigRequest) (*dto.BackupConfigResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	if err := validateSchedule(in); err != nil {
		return nil, err
	}

	config, err := uc.configRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, domain.ErrNotFound
	}

	config.Name = in.Name
	config.Description = in.Description
	config.ScheduleType = in.ScheduleType
	config.Time = in.Time
	config.DayOfWeek = in.DayOfWeek
	config.DayOfMonth = in.DayOfMonth
	config.Active = in.Active
	config.IncludeSchema = in.IncludeSchema
	config.IncludeData = in.IncludeData
	config.NotifyEmail = in.NotifyEmail
	config.NotifyAddress = in.NotifyAddress
	config.Compress = in.Compress
	config.RetainCount = in.RetainCount

	if err := uc.configRepo.Update(config); err != nil {
		return nil, err
	}
	return configToResponse(config), nil
}

// DeleteConfig elimina una configuración. El historial asociado se conserva.
func (uc *UseCase) DeleteConfig(id string) error {
	config, err := uc.configRepo.GetByID(id)
	if err != nil {
		return err
	}
	if config == nil {
		return domain.ErrNotFound
	}
	return uc.configRepo.Delete(id)
}

func validateSchedule(in dto.CreateBackupConfigRequest) error {
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return domain.ErrInvalidInput
	}
	if in.ScheduleType == entity.BackupScheduleMonthly && (in.DayOfMonth < 1 || in.DayOfMonth > 31) {
		return domain.ErrInvalidInput
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Ejecución
// ──────────────────────────────────────────────────────────────────────────────

// Run ejecuta un respaldo, manual o asociado a una configuración.
// Sin configuración aplica los valores por defecto (esquema, datos y
// compresión activos) y usa customName como base del archivo si se indicó.
// El fallo del volcado no se propaga como error: se registra una fila
// fallida en el historial y se devuelve, para que el operador la vea.
func (uc *UseCase) Run(ctx context.Context, userID, configID, customName string) (*dto.BackupRecordResponse, error) {
	var config *entity.BackupConfig
	if configID != "" {
		var err error
		config, err = uc.configRepo.GetByID(configID)
		if err != nil {
			return nil, err
		}
		if config == nil {
			return nil, domain.ErrNotFound
		}
	}

	includeSchema, includeData, compress := true, true, true
	retain := 0
	name := "backup"
	if config != nil {
		name = sanitizeName(config.Name)
		includeSchema, includeData = config.IncludeSchema, config.IncludeData
		compress = config.Compress
		retain = config.RetainCount
	}
	// El nombre indicado en la petición manda sobre el de la configuración.
	if customName != "" {
		name = sanitizeName(customName)
	}

	if err := os.MkdirAll(uc.dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de respaldos: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.sql", name, time.Now().Format("20060102_150405"))
	path := filepath.Join(uc.dir, filename)

	record := &entity.BackupRecord{
		ID:          uuid.New().String(),
		Filename:    filename,
		Path:        path,
		PerformedBy: userID,
		Status:      entity.BackupStatusSuccess,
		CreatedAt:   time.Now(),
	}
	if config != nil {
		record.ConfigID = config.ID
	}

	err := uc.dumper.Dump(ctx, path, includeSchema, includeData)
	if err == nil && compress {
		var compressed string
		compressed, err = uc.compressor.Compress(ctx, path)
		if err == nil {
			record.Filename = filepath.Base(compressed)
			record.Path = compressed
		}
	}

	if err != nil {
		uc.log.Error().Err(err).Str("filename", filename).Msg("respaldo fallido")
		record.Status = entity.BackupStatusFailed
		record.Message = err.Error()
		_ = os.Remove(path)
	} else if info, statErr := os.Stat(record.Path); statErr == nil {
		record.SizeBytes = info.Size()
	}

	if createErr := uc.recordRepo.Create(record); createErr != nil {
		return nil, createErr
	}

	if record.Status == entity.BackupStatusSuccess {
		uc.log.Info().Str("filename", record.Filename).Int64("size", record.SizeBytes).Msg("respaldo completado")
		if config != nil && retain > 0 {
			uc.rotate(config.ID, retain)
		}
	}

	return recordToResponse(record, name, ""), nil
}

// rotate conserva los retain respaldos exitosos más recientes de la
// configuración y elimina el resto (archivo y fila). Un archivo que ya no
// existe en disco no detiene la rotación.
func (uc *UseCase) rotate(configID string, retain int) {
	records, err := uc.recordRepo.ListSuccessfulByConfig(configID)
	if err != nil {
		uc.log.Error().Err(err).Msg("rotación: no se pudo listar el historial")
		return
	}
	if len(records) <= retain {
		return
	}
	for _, old := range records[retain:] {
		if err := os.Remove(old.Path); err != nil && !os.IsNotExist(err) {
			uc.log.Warn().Err(err).Str("path", old.Path).Msg("rotación: no se pudo borrar el archivo")
		}
		if err := uc.recordRepo.Delete(old.ID); err != nil {
			uc.log.Error().Err(err).Str("id", old.ID).Msg("rotación: no se pudo borrar la fila")
			continue
		}
		uc.log.Info().Str("filename", old.Filename).Msg("respaldo rotado por retención")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial, descarga y restauración
// ──────────────────────────────────────────────────────────────────────────────

// History lista el historial completo, lo más reciente primero.
func (uc *UseCase) History() ([]dto.BackupRecordResponse, error) {
	items, err := uc.recordRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.BackupRecordResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *recordToResponse(&it.Record, it.ConfigName, it.UserName))
	}
	return out, nil
}

// FileForDownload devuelve la ruta y el nombre del archivo de un respaldo exitoso.
func (uc *UseCase) FileForDownload(id string) (path, filename string, err error) {
	record, err := uc.recordRepo.GetByID(id)
	if err != nil {
		return "", "", err
	}
	if record == nil || record.Status != entity.BackupStatusSuccess {
		return "", "", domain.ErrNotFound
	}
	if _, err := os.Stat(record.Path); err != nil {
		return "", "", domain.ErrNotFound
	}
	return record.Path, record.Filename, nil
}

// Restore aplica un respaldo exitoso sobre la base de datos.
// Si el archivo está comprimido se descomprime a un temporal que se borra al final.
func (uc *UseCase) Restore(ctx context.Context, id string) error {
	record, err := uc.recordRepo.GetByID(id)
	if err != nil {
		return err
	}
	if record == nil || record.Status != entity.BackupStatusSuccess {
		return domain.ErrNotFound
	}
	if _, err := os.Stat(record.Path); err != nil {
		return domain.ErrNotFound
	}

	sqlPath := record.Path
	if strings.HasSuffix(record.Path, ".gz") {
		sqlPath, err = uc.compressor.Decompress(ctx, record.Path)
		if err != nil {
			return err
		}
		defer func() { _ = os.Remove(sqlPath) }()
	}

	if err := uc.restorer.Restore(ctx, sqlPath); err != nil {
		uc.log.Error().Err(err).Str("filename", record.Filename).Msg("restauración fallida")
		return err
	}
	uc.log.Info().Str("filename", record.Filename).Msg("base de datos restaurada")
	return nil
}

// sanitizeName deja el nombre apto para formar un nombre de archivo.
func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "backup"
	}
	return b.String()
}

func configToResponse(c *entity.BackupConfig) *dto.BackupConfigResponse {
	return &dto.BackupConfigResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		ScheduleType:  c.ScheduleType,
		Time:          c.Time,
		DayOfWeek:     c.DayOfWeek,
		DayOfMonth:    c.DayOfMonth,
		Active:        c.Active,
		IncludeSchema: c.IncludeSchema,
		IncludeData:   c.IncludeData,
		NotifyEmail:   c.NotifyEmail,
		NotifyAddress: c.NotifyAddress,
		Compress:      c.Compress,
		RetainCount:   c.RetainCount,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}

func recordToResponse(r *entity.BackupRecord, configName, userName string) *dto.BackupRecordResponse {
	return &dto.BackupRecordResponse{
		ID:          r.ID,
		ConfigID:    r.ConfigID,
		ConfigName:  configName,
		Filename:    r.Filename,
		SizeBytes:   r.SizeBytes,
		PerformedBy: userName,
		Status:      r.Status,
		Message:     r.Message,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}
