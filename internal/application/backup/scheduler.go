package backup

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/pkg/logger"
)

// Scheduler dispara los respaldos programados según sus configuraciones
// activas. Las ejecuciones programadas se atribuyen en el historial al
// creador de la configuración.
type Scheduler struct {
	uc  *UseCase
	log *logger.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewScheduler construye el planificador.
func NewScheduler(uc *UseCase, log *logger.Logger) *Scheduler {
	return &Scheduler{uc: uc, log: log}
}

// Start carga las configuraciones activas y arranca el cron.
func (s *Scheduler) Start() error {
	return s.Reload()
}

// Reload reconstruye el cron desde las configuraciones activas.
// Se invoca al arrancar y cada vez que cambia una configuración.
func (s *Scheduler) Reload() error {
	configs, err := s.uc.configRepo.ListActive()
	if err != nil {
		return fmt.Errorf("cargar configuraciones de respaldo: %w", err)
	}

	c := cron.New()
	for _, config := range configs {
		spec, err := cronSpec(config)
		if err != nil {
			s.log.Warn().Err(err).Str("name", config.Name).Msg("configuración de respaldo ignorada")
			continue
		}
		cfg := config
		if _, err := c.AddFunc(spec, func() { s.runConfig(cfg) }); err != nil {
			s.log.Warn().Err(err).Str("name", cfg.Name).Str("spec", spec).Msg("expresión cron inválida")
			continue
		}
		s.log.Info().Str("name", cfg.Name).Str("spec", spec).Msg("respaldo programado registrado")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
	}
	s.cron = c
	s.cron.Start()
	return nil
}

// runConfig ejecuta el respaldo de una configuración, atribuido a su creador.
func (s *Scheduler) runConfig(config *entity.BackupConfig) {
	s.log.Info().Str("name", config.Name).Msg("respaldo programado iniciado")
	if _, err := s.uc.Run(context.Background(), config.CreatedBy, config.ID, ""); err != nil {
		s.log.Error().Err(err).Str("name", config.Name).Msg("respaldo programado fallido")
	}
}

// Stop detiene el cron y espera las ejecuciones en curso.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.cron = nil
	}
}

// cronSpec traduce la configuración a una expresión cron de cinco campos.
func cronSpec(config *entity.BackupConfig) (string, error) {
	parts := strings.SplitN(config.Time, ":", 2)
	if len(parts) != 2 {
		return "", domain.ErrInvalidInput
	}
	hour, minute := parts[0], parts[1]

	switch config.ScheduleType {
	case entity.BackupScheduleDaily:
		return fmt.Sprintf("%s %s * * *", minute, hour), nil
	case entity.BackupScheduleWeekly:
		return fmt.Sprintf("%s %s * * %d", minute, hour, config.DayOfWeek), nil
	case entity.BackupScheduleMonthly:
		return fmt.Sprintf("%s %s %d * *", minute, hour, config.DayOfMonth), nil
	}
	return "", domain.ErrInvalidInput
}
