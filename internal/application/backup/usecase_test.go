package backup_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmaven/farmacia-api/internal/application/backup"
	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memConfigRepo struct {
	configs map[string]*entity.BackupConfig
}

func (r *memConfigRepo) Create(c *entity.BackupConfig) error {
	cp := *c
	r.configs[c.ID] = &cp
	return nil
}

func (r *memConfigRepo) GetByID(id string) (*entity.BackupConfig, error) {
	if c, ok := r.configs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memConfigRepo) List() ([]*entity.BackupConfig, error) {
	var out []*entity.BackupConfig
	for _, c := range r.configs {
		out = append(out, c)
	}
	return out, nil
}

func (r *memConfigRepo) ListActive() ([]*entity.BackupConfig, error) {
	var out []*entity.BackupConfig
	for _, c := range r.configs {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memConfigRepo) Update(c *entity.BackupConfig) error {
	cp := *c
	r.configs[c.ID] = &cp
	return nil
}

func (r *memConfigRepo) Delete(id string) error {
	delete(r.configs, id)
	return nil
}

type memRecordRepo struct {
	records []*entity.BackupRecord
}

func (r *memRecordRepo) Create(rec *entity.BackupRecord) error {
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

func (r *memRecordRepo) GetByID(id string) (*entity.BackupRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRecordRepo) ListSuccessfulByConfig(configID string) ([]*entity.BackupRecord, error) {
	var out []*entity.BackupRecord
	// los tests insertan en orden cronológico; devolver del más reciente al más antiguo
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if rec.ConfigID == configID && rec.Status == entity.BackupStatusSuccess {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRecordRepo) List() ([]*repository.BackupRecordListItem, error) {
	var out []*repository.BackupRecordListItem
	for _, rec := range r.records {
		out = append(out, &repository.BackupRecordListItem{Record: *rec})
	}
	return out, nil
}

func (r *memRecordRepo) Delete(id string) error {
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeDumper escribe un archivo con contenido fijo, o falla si fail es true.
type fakeDumper struct {
	fail bool
}

func (d *fakeDumper) Dump(_ context.Context, outPath string, _, _ bool) error {
	if d.fail {
		return errors.New("pg_dump: connection refused")
	}
	return os.WriteFile(outPath, []byte("-- volcado de prueba\n"), 0o644)
}

type fakeRestorer struct {
	restored []string
}

func (r *fakeRestorer) Restore(_ context.Context, sqlPath string) error {
	r.restored = append(r.restored, sqlPath)
	return nil
}

// fakeCompressor renombra a .gz / quita el .gz sin comprimir de verdad.
type fakeCompressor struct{}

func (fakeCompressor) Compress(_ context.Context, path string) (string, error) {
	out := path + ".gz"
	return out, os.Rename(path, out)
}

func (fakeCompressor) Decompress(_ context.Context, path string) (string, error) {
	out := path[:len(path)-len(".gz")]
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return out, os.WriteFile(out, data, 0o644)
}

func newTestUseCase(t *testing.T, dumpFails bool) (*backup.UseCase, *memConfigRepo, *memRecordRepo, *fakeRestorer, string) {
	t.Helper()
	dir := t.TempDir()
	configs := &memConfigRepo{configs: map[string]*entity.BackupConfig{}}
	records := &memRecordRepo{}
	restorer := &fakeRestorer{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := backup.NewUseCase(configs, records, &fakeDumper{fail: dumpFails}, restorer, fakeCompressor{}, dir, log)
	return uc, configs, records, restorer, dir
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: respaldo manual exitoso escribe el archivo y registra la fila.
// Sin configuración aplican los valores por defecto: base "backup",
// esquema + datos y compresión activa.
func TestRun_ManualExitoso(t *testing.T) {
	uc, _, records, _, dir := newTestUseCase(t, false)

	resp, err := uc.Run(context.Background(), "u1", "", "")
	require.NoError(t, err)

	assert.Equal(t, entity.BackupStatusSuccess, resp.Status)
	assert.Contains(t, resp.Filename, "backup_")
	assert.Contains(t, resp.Filename, ".sql.gz", "el respaldo manual se comprime por defecto")
	assert.Greater(t, resp.SizeBytes, int64(0))

	require.Len(t, records.records, 1)
	assert.Equal(t, "u1", records.records[0].PerformedBy)
	_, err = os.Stat(filepath.Join(dir, resp.Filename))
	assert.NoError(t, err, "el archivo debe existir en el directorio de respaldos")
}

// Caso 1b: el nombre personalizado reemplaza la base del archivo, saneado,
// incluso cuando la ejecución referencia una configuración.
func TestRun_ManualConNombrePersonalizado(t *testing.T) {
	uc, configs, _, _, _ := newTestUseCase(t, false)

	resp, err := uc.Run(context.Background(), "u1", "", "Cierre de Mes")
	require.NoError(t, err)

	assert.Equal(t, entity.BackupStatusSuccess, resp.Status)
	assert.Contains(t, resp.Filename, "cierre_de_mes_")

	configs.configs["cfg1"] = &entity.BackupConfig{
		ID: "cfg1", Name: "Nocturno", ScheduleType: entity.BackupScheduleDaily,
		Time: "02:00", IncludeSchema: true, IncludeData: true, Active: true,
	}
	resp, err = uc.Run(context.Background(), "u1", "cfg1", "Auditoria")
	require.NoError(t, err)
	assert.Contains(t, resp.Filename, "auditoria_",
		"el nombre de la petición manda sobre el de la configuración")
}

// Caso 2: el fallo del volcado registra una fila fallida, no lanza error.
func TestRun_FalloRegistraFilaFallida(t *testing.T) {
	uc, _, records, _, _ := newTestUseCase(t, true)

	resp, err := uc.Run(context.Background(), "u1", "", "")
	require.NoError(t, err, "el fallo del dump no debe propagarse como error")

	assert.Equal(t, entity.BackupStatusFailed, resp.Status)
	assert.Contains(t, resp.Message, "pg_dump")
	require.Len(t, records.records, 1)
	assert.Equal(t, entity.BackupStatusFailed, records.records[0].Status)
}

// Caso 3: configuración con compresión produce archivo .gz.
func TestRun_ConCompresion(t *testing.T) {
	uc, configs, _, _, _ := newTestUseCase(t, false)
	configs.configs["cfg1"] = &entity.BackupConfig{
		ID: "cfg1", Name: "Nocturno", ScheduleType: entity.BackupScheduleDaily,
		Time: "02:00", IncludeSchema: true, IncludeData: true, Compress: true,
	}

	resp, err := uc.Run(context.Background(), "u1", "cfg1", "")
	require.NoError(t, err)
	assert.Equal(t, entity.BackupStatusSuccess, resp.Status)
	assert.Contains(t, resp.Filename, ".sql.gz")
	assert.Contains(t, resp.Filename, "nocturno_")
}

// Caso 4: la rotación conserva los N exitosos más recientes y borra el resto,
// archivo incluido. Las filas fallidas no cuentan para la retención.
func TestRun_RotacionPorRetencion(t *testing.T) {
	uc, configs, records, _, _ := newTestUseCase(t, false)
	configs.configs["cfg1"] = &entity.BackupConfig{
		ID: "cfg1", Name: "Rotado", ScheduleType: entity.BackupScheduleDaily,
		Time: "02:00", IncludeSchema: true, IncludeData: true, RetainCount: 2,
	}

	var paths []string
	for i := 0; i < 3; i++ {
		resp, err := uc.Run(context.Background(), "u1", "cfg1", "")
		require.NoError(t, err)
		require.Equal(t, entity.BackupStatusSuccess, resp.Status)
		for _, rec := range records.records {
			if rec.ID == resp.ID {
				paths = append(paths, rec.Path)
			}
		}
		time.Sleep(1100 * time.Millisecond) // nombres con timestamp por segundo
	}

	remaining, err := records.ListSuccessfulByConfig("cfg1")
	require.NoError(t, err)
	assert.Len(t, remaining, 2, "deben quedar solo los 2 más recientes")

	_, err = os.Stat(paths[0])
	assert.True(t, os.IsNotExist(err), "el archivo más antiguo debe haberse borrado")
	_, err = os.Stat(paths[2])
	assert.NoError(t, err, "el más reciente debe conservarse")
}

// Caso 5: restaurar un respaldo comprimido descomprime a un temporal y lo limpia.
func TestRestore_ComprimidoLimpiaTemporal(t *testing.T) {
	uc, configs, _, restorer, _ := newTestUseCase(t, false)
	configs.configs["cfg1"] = &entity.BackupConfig{
		ID: "cfg1", Name: "Nocturno", ScheduleType: entity.BackupScheduleDaily,
		Time: "02:00", IncludeSchema: true, IncludeData: true, Compress: true,
	}

	resp, err := uc.Run(context.Background(), "u1", "cfg1", "")
	require.NoError(t, err)

	require.NoError(t, uc.Restore(context.Background(), resp.ID))
	require.Len(t, restorer.restored, 1)
	assert.NotContains(t, restorer.restored[0], ".gz", "debe restaurarse el SQL plano")

	_, err = os.Stat(restorer.restored[0])
	assert.True(t, os.IsNotExist(err), "el temporal descomprimido debe borrarse")
}

// Caso 6: no se puede restaurar ni descargar una fila fallida.
func TestRestore_FallidoNoRestaurable(t *testing.T) {
	uc, _, records, _, _ := newTestUseCase(t, true)

	resp, err := uc.Run(context.Background(), "u1", "", "")
	require.NoError(t, err)
	require.Equal(t, entity.BackupStatusFailed, resp.Status)

	err = uc.Restore(context.Background(), resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = uc.FileForDownload(records.records[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Caso 7: las ejecuciones programadas se atribuyen al creador de la configuración.
func TestScheduler_AtribuyeAlCreador(t *testing.T) {
	uc, configs, records, _, _ := newTestUseCase(t, false)
	cfg := &entity.BackupConfig{
		ID: "cfg1", Name: "Nocturno", ScheduleType: entity.BackupScheduleDaily,
		Time: "02:00", IncludeSchema: true, IncludeData: true,
		Active: true, CreatedBy: "admin-1",
	}
	configs.configs["cfg1"] = cfg

	log := logger.New(logger.Config{Env: "development", Level: "error"})
	sched := backup.NewScheduler(uc, log)
	sched.RunConfig(cfg)

	require.Len(t, records.records, 1)
	assert.Equal(t, "admin-1", records.records[0].PerformedBy,
		"el historial debe atribuir el respaldo al creador de la configuración")
}

// Caso 8: la configuración valida la hora y el día del mes.
func TestCreateConfig_ValidaHorario(t *testing.T) {
	uc, _, _, _, _ := newTestUseCase(t, false)

	_, err := uc.CreateConfig("u1", dto.CreateBackupConfigRequest{
		Name: "Malo", ScheduleType: "diario", Time: "25:99",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "hora inválida")

	_, err = uc.CreateConfig("u1", dto.CreateBackupConfigRequest{
		Name: "Mensual sin día", ScheduleType: "mensual", Time: "02:00",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "mensual requiere día del mes")

	resp, err := uc.CreateConfig("u1", dto.CreateBackupConfigRequest{
		Name: "Bueno", ScheduleType: "diario", Time: "02:30", IncludeSchema: true, IncludeData: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "02:30", resp.Time)
}
