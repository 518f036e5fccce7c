// Package store opens the configured roster store driver
package store

import (
	"context"
	"fmt"

	"github.com/wonny/squadpick/internal/contracts"
	"github.com/wonny/squadpick/internal/store/jsonfile"
	"github.com/wonny/squadpick/internal/store/postgres"
	"github.com/wonny/squadpick/pkg/config"
	"github.com/wonny/squadpick/pkg/database"
	"github.com/wonny/squadpick/pkg/logger"
)

// Sentinel errors shared by every driver
var (
	ErrNotFound          = contracts.ErrNotFound
	ErrDuplicateUsername = contracts.ErrDuplicateUsername
)

// Open returns the store selected by cfg.Store.Driver
// ⭐ SSOT: 저장소 드라이버 선택은 여기서만
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (contracts.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreJSON:
		s, err := jsonfile.New(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open json store: %w", err)
		}
		log.WithField("path", cfg.Store.Path).Info("Using JSON document store")
		return s, nil

	case config.StorePostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		log.Info("Using PostgreSQL store")
		return postgres.New(db), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// Backuper is implemented by drivers that can snapshot themselves to disk
type Backuper interface {
	Backup(dir string, keep int) (string, error)
}
