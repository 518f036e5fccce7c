package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/squadpick/internal/auth"
	"github.com/wonny/squadpick/internal/contracts"
	"github.com/wonny/squadpick/internal/metrics"
	"github.com/wonny/squadpick/internal/roster"
	"github.com/wonny/squadpick/internal/store"
	"github.com/wonny/squadpick/internal/teamgen"
	"github.com/wonny/squadpick/pkg/config"
	"github.com/wonny/squadpick/pkg/logger"
	"github.com/wonny/squadpick/pkg/redis"
)

// app bundles the components every command wires the same way
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   contracts.Store
	redis   *redis.Client
	tokens  *auth.TokenIssuer
	metrics *metrics.Recorder
	service *roster.Service
}

type appOptions struct {
	generator contracts.TeamGenerator
}

// bootstrap loads config and opens the store, redis and the roster service
func bootstrap(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.Open(openCtx, cfg, log)
	if err != nil {
		return nil, err
	}

	rc, err := redis.New(openCtx, cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		st.Close()
		rc.Close()
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: st, redis: rc, tokens: tokens}

	svcOpts := []roster.Option{}
	if cfg.MetricsEnabled {
		a.metrics = metrics.New()
		svcOpts = append(svcOpts, roster.WithRecorder(a.metrics))
	}
	if rc.Enabled() {
		svcOpts = append(svcOpts, roster.WithCache(redis.NewCache(rc, logger.ServiceName)))
		log.Info("Player cache enabled")
	}
	if opts.generator != nil {
		svcOpts = append(svcOpts, roster.WithGenerator(opts.generator))
	}

	a.service = roster.New(st, auth.NewHasher(cfg.Auth.BcryptCost), tokens, log, svcOpts...)
	return a, nil
}

// generatorFor returns a reproducible generator for a non-zero seed
func generatorFor(seed uint64) contracts.TeamGenerator {
	if seed == 0 {
		return nil
	}
	return teamgen.New(teamgen.NewSeededSource(seed))
}

// Close releases the store and redis connections
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close store")
	}
}
