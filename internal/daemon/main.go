// Package daemon wires the permission engine and runs the web service.
package daemon

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/permgate/permgate/internal/cache"
	"github.com/permgate/permgate/internal/config"
	"github.com/permgate/permgate/internal/db"
	"github.com/permgate/permgate/internal/logger/adapter/gormlogger"
	"github.com/permgate/permgate/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	cache      *cache.Cache
	webService *web.Service
}

// Start runs the web service until a termination signal is received.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	if errClose := d.cache.Close(); errClose != nil {
		log.Error().Err(errClose).Msg("failed to close cache")
	}

	return err
}

// New opens and migrates the database, seeds it and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil, nil
	}

	conn, err := db.Open(cfg, &gorm.Config{Logger: gormlogger.New(cfg.Log.SlowQuery)})
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(conn); err != nil {
		return nil, err
	}

	if err = seed(ctx, cfg, conn); err != nil {
		return nil, err
	}

	backend, err := NewBackend(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	c := cache.New(backend)

	service, err := Wire(ctx, cfg, conn, c)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	log.Info().
		Str("mode", cfg.Permissions.Mode).
		Str("cache", cfg.Cache.Driver).
		Str("engine", cfg.DB.GormEngine).
		Msg("permission engine ready")

	return &Daemon{cfg: cfg, cache: c, webService: service}, nil
}
