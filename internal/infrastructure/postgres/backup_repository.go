package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
)

var _ repository.BackupConfigRepository = (*BackupConfigRepo)(nil)
var _ repository.BackupRecordRepository = (*BackupRecordRepo)(nil)

const backupConfigColumns = `id, name, description, schedule_type, run_time, day_of_week, day_of_month,
	active, include_schema, include_data, notify_email, notify_address, compress, retain_count, created_by, created_at`

// BackupConfigRepo implementación del puerto BackupConfigRepository sobre PostgreSQL.
type BackupConfigRepo struct {
	q Querier
}

// NewBackupConfigRepository construye el adaptador de configuraciones de respaldo.
func NewBackupConfigRepository(q Querier) *BackupConfigRepo {
	return &BackupConfigRepo{q: q}
}

// Create persiste una configuración de respaldo nueva.
func (r *BackupConfigRepo) Create(c *entity.BackupConfig) error {
	query := `
		INSERT INTO backup_configs (id, name, description, schedule_type, run_time, day_of_week, day_of_month,
			active, include_schema, include_data, notify_email, notify_address, compress, retain_count, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, nullIfEmpty(c.Description), c.ScheduleType, c.Time, c.DayOfWeek, c.DayOfMonth,
		c.Active, c.IncludeSchema, c.IncludeData, c.NotifyEmail, nullIfEmpty(c.NotifyAddress),
		c.Compress, c.RetainCount, c.CreatedBy, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert backup config: %w", err)
	}
	return nil
}

// GetByID obtiene una configuración por ID.
func (r *BackupConfigRepo) GetByID(id string) (*entity.BackupConfig, error) {
	query := `SELECT ` + backupConfigColumns + ` FROM backup_configs WHERE id = $1`
	var c entity.BackupConfig
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.ScheduleType, &c.Time, &c.DayOfWeek, &c.DayOfMonth,
		&c.Active, &c.IncludeSchema, &c.IncludeData, &c.NotifyEmail, &c.NotifyAddress,
		&c.Compress, &c.RetainCount, &c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get backup config: %w", err)
	}
	return &c, nil
}

// List lista todas las configuraciones, las más recientes primero.
func (r *BackupConfigRepo) List() ([]*entity.BackupConfig, error) {
	return r.list(`SELECT ` + backupConfigColumns + ` FROM backup_configs ORDER BY created_at DESC`)
}

// ListActive lista las configuraciones activas (entrada del planificador).
func (r *BackupConfigRepo) ListActive() ([]*entity.BackupConfig, error) {
	return r.list(`SELECT ` + backupConfigColumns + ` FROM backup_configs WHERE active = true ORDER BY created_at DESC`)
}

func (r *BackupConfigRepo) list(query string) ([]*entity.BackupConfig, error) {
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list backup configs: %w", err)
	}
	defer rows.Close()
	var list []*entity.BackupConfig
	for rows.Next() {
		var c entity.BackupConfig
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.ScheduleType, &c.Time, &c.DayOfWeek, &c.DayOfMonth,
			&c.Active, &c.IncludeSchema, &c.IncludeData, &c.NotifyEmail, &c.NotifyAddress,
			&c.Compress, &c.RetainCount, &c.CreatedBy, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan backup config: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza una configuración de respaldo existente.
func (r *BackupConfigRepo) Update(c *entity.BackupConfig) error {
	query := `
		UPDATE backup_configs
		SET name = $2, description = $3, schedule_type = $4, run_time = $5, day_of_week = $6,
			day_of_month = $7, active = $8, include_schema = $9, include_data = $10,
			notify_email = $11, notify_address = $12, compress = $13, retain_count = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, nullIfEmpty(c.Description), c.ScheduleType, c.Time, c.DayOfWeek,
		c.DayOfMonth, c.Active, c.IncludeSchema, c.IncludeData,
		c.NotifyEmail, nullIfEmpty(c.NotifyAddress), c.Compress, c.RetainCount,
	)
	if err != nil {
		return fmt.Errorf("update backup config: %w", err)
	}
	return nil
}

// Delete elimina una configuración por ID.
func (r *BackupConfigRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM backup_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete backup config: %w", err)
	}
	return nil
}

const backupRecordColumns = `id, COALESCE(config_id, ''), filename, path, size_bytes, performed_by, status, COALESCE(message, ''), created_at`

// BackupRecordRepo implementación del puerto BackupRecordRepository sobre PostgreSQL.
type BackupRecordRepo struct {
	q Querier
}

// NewBackupRecordRepository construye el adaptador del historial de respaldos.
func NewBackupRecordRepository(q Querier) *BackupRecordRepo {
	return &BackupRecordRepo{q: q}
}

// Create persiste una ejecución de respaldo.
func (r *BackupRecordRepo) Create(rec *entity.BackupRecord) error {
	query := `
		INSERT INTO backup_records (id, config_id, filename, path, size_bytes, performed_by, status, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, nullIfEmpty(rec.ConfigID), rec.Filename, rec.Path, rec.SizeBytes,
		rec.PerformedBy, rec.Status, nullIfEmpty(rec.Message), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert backup record: %w", err)
	}
	return nil
}

// GetByID obtiene una ejecución por ID.
func (r *BackupRecordRepo) GetByID(id string) (*entity.BackupRecord, error) {
	query := `SELECT ` + backupRecordColumns + ` FROM backup_records WHERE id = $1`
	var rec entity.BackupRecord
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rec.ID, &rec.ConfigID, &rec.Filename, &rec.Path, &rec.SizeBytes,
		&rec.PerformedBy, &rec.Status, &rec.Message, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get backup record: %w", err)
	}
	return &rec, nil
}

// ListSuccessfulByConfig devuelve los respaldos exitosos de una configuración,
// del más reciente al más antiguo. Lo consume la rotación por retención.
func (r *BackupRecordRepo) ListSuccessfulByConfig(configID string) ([]*entity.BackupRecord, error) {
	query := `
		SELECT ` + backupRecordColumns + `
		FROM backup_records
		WHERE config_id = $1 AND status = $2
		ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, configID, entity.BackupStatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("list successful backups: %w", err)
	}
	defer rows.Close()
	var list []*entity.BackupRecord
	for rows.Next() {
		var rec entity.BackupRecord
		if err := rows.Scan(
			&rec.ID, &rec.ConfigID, &rec.Filename, &rec.Path, &rec.SizeBytes,
			&rec.PerformedBy, &rec.Status, &rec.Message, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan backup record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// List lista el historial completo con nombres unidos, lo más reciente primero.
func (r *BackupRecordRepo) List() ([]*repository.BackupRecordListItem, error) {
	query := `
		SELECT b.id, COALESCE(b.config_id, ''), b.filename, b.path, b.size_bytes, b.performed_by,
		       b.status, COALESCE(b.message, ''), b.created_at,
		       COALESCE(c.name, ''), COALESCE(u.name, '')
		FROM backup_records b
		LEFT JOIN backup_configs c ON b.config_id = c.id
		LEFT JOIN users u ON b.performed_by = u.id
		ORDER BY b.created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list backup records: %w", err)
	}
	defer rows.Close()
	var list []*repository.BackupRecordListItem
	for rows.Next() {
		var it repository.BackupRecordListItem
		if err := rows.Scan(
			&it.Record.ID, &it.Record.ConfigID, &it.Record.Filename, &it.Record.Path,
			&it.Record.SizeBytes, &it.Record.PerformedBy, &it.Record.Status, &it.Record.Message,
			&it.Record.CreatedAt, &it.ConfigName, &it.UserName,
		); err != nil {
			return nil, fmt.Errorf("scan backup record: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Delete elimina una fila del historial (rotación por retención).
func (r *BackupRecordRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM backup_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete backup record: %w", err)
	}
	return nil
}
