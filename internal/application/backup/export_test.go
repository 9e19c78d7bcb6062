package backup

import "github.com/farmaven/farmacia-api/internal/domain/entity"

// RunConfig ejecuta el ciclo de un respaldo programado sin esperar al cron.
func (s *Scheduler) RunConfig(config *entity.BackupConfig) { s.runConfig(config) }
