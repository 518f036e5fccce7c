package jobs

import (
	"context"

	"github.com/wonny/squadpick/internal/store"
	"github.com/wonny/squadpick/pkg/config"
	"github.com/wonny/squadpick/pkg/logger"
)

// StoreBackupJob copies the JSON document store into the backup directory
type StoreBackupJob struct {
	store    store.Backuper
	cfg      config.BackupConfig
	logger   *logger.Logger
	lastPath string
}

// NewStoreBackupJob creates a new store backup job
func NewStoreBackupJob(s store.Backuper, cfg config.BackupConfig, log *logger.Logger) *StoreBackupJob {
	return &StoreBackupJob{
		store:  s,
		cfg:    cfg,
		logger: log,
	}
}

// Name returns the job name
func (j *StoreBackupJob) Name() string {
	return "store_backup"
}

// Schedule returns the configured cron schedule
func (j *StoreBackupJob) Schedule() string {
	return j.cfg.Schedule
}

// Run writes one timestamped copy and prunes old ones
func (j *StoreBackupJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := j.store.Backup(j.cfg.Dir, j.cfg.Keep)
	if err != nil {
		return err
	}
	j.lastPath = path

	j.logger.WithFields(map[string]interface{}{
		"path": path,
		"keep": j.cfg.Keep,
	}).Info("Store backup written")
	return nil
}

// LastPath returns the file written by the most recent successful run
func (j *StoreBackupJob) LastPath() string {
	return j.lastPath
}
