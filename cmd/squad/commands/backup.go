package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/squadpick/internal/scheduler"
	"github.com/wonny/squadpick/internal/scheduler/jobs"
	"github.com/wonny/squadpick/internal/store"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write one timestamped copy of the JSON store",
	Long: `Runs the store_backup job once, outside its schedule.
Only the json store driver supports backups.

Example:
  go run ./cmd/squad backup
  go run ./cmd/squad backup --dir /var/backups/squad --keep 30`,
	RunE: runBackup,
}

var (
	backupDir  string
	backupKeep int
)

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVar(&backupDir, "dir", "", "backup directory (default BACKUP_DIR)")
	backupCmd.Flags().IntVar(&backupKeep, "keep", -1, "copies to keep, 0 keeps all (default BACKUP_KEEP)")
}

func runBackup(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	b, ok := a.store.(store.Backuper)
	if !ok {
		return fmt.Errorf("store driver %q does not support backups", a.cfg.Store.Driver)
	}

	cfg := a.cfg.Backup
	if backupDir != "" {
		cfg.Dir = backupDir
	}
	if backupKeep >= 0 {
		cfg.Keep = backupKeep
	}

	job := jobs.NewStoreBackupJob(b, cfg, a.log)
	sched := scheduler.New(a.log, scheduler.WithRetry(0, 0))
	if err := sched.AddJob(job); err != nil {
		return err
	}

	result, err := sched.RunNow(cmd.Context(), job.Name())
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("backup failed: %s", result.Error)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Backup written to %s\n", job.LastPath())
	return nil
}
