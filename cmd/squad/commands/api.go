package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/squadpick/internal/api"
	"github.com/wonny/squadpick/internal/scheduler"
	"github.com/wonny/squadpick/internal/scheduler/jobs"
	"github.com/wonny/squadpick/internal/store"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API",
	Long: `Starts the REST API.

Endpoints:
  GET    /health          - Health check
  POST   /api/register    - Create an account
  POST   /api/login       - Get a bearer token
  GET    /api/            - All players with average rating
  GET    /api/me          - Own profile
  PUT    /api/me          - Update own profile
  DELETE /api/me          - Delete own account
  PUT    /api/{id}        - Update any profile (admin)
  DELETE /api/{id}        - Delete any account (admin)
  POST   /api/rate/{id}   - Rate a player 1-10
  POST   /api/teams       - Split ready players into teams

Example:
  go run ./cmd/squad api
  go run ./cmd/squad api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	router := api.NewRouter(api.Deps{
		Config:  a.cfg,
		Service: a.service,
		Tokens:  a.tokens,
		Redis:   a.redis,
		Metrics: a.metrics,
		Logger:  log,
	})
	server := api.New(a.cfg, log, router)

	errCh := make(chan error, 2)
	go func() { errCh <- server.Start() }()

	var metricsServer *api.Server
	if a.metrics != nil {
		metricsServer = api.NewMetricsServer(a.cfg, log, a.metrics.Handler())
		go func() { errCh <- metricsServer.Start() }()
	}

	// 스케줄러: JSON 저장소 백업
	var sched *scheduler.Scheduler
	if a.cfg.Backup.Enabled {
		if b, ok := a.store.(store.Backuper); ok {
			sched = scheduler.New(log)
			if err := sched.AddJob(jobs.NewStoreBackupJob(b, a.cfg.Backup, log)); err != nil {
				return fmt.Errorf("schedule backup: %w", err)
			}
			sched.Start()
		} else {
			log.Warn("BACKUP_ENABLED is set but the store driver does not support backups")
		}
	}

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop()
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Metrics server shutdown failed")
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return runErr
}
