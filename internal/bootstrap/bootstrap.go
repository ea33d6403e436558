// Package bootstrap assembles the inventory from configuration: logger,
// database, hierarchy store and application facade.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"scaffale/internal/adapters/sqlite"
	"scaffale/internal/application"
	"scaffale/internal/config"
	"scaffale/internal/hierarchy"
	"scaffale/internal/logging"
)

// App is a loaded inventory and the resources behind it
type App struct {
	Config    config.Config
	Log       *logging.Logger
	Gateway   *sqlite.Gateway
	Store     *hierarchy.Store
	Inventory *application.Inventory
}

// Open resolves the configuration in v, opens and migrates the database and
// loads the location tree and the item index. Log lines go to logOut unless
// a log file is configured.
func Open(ctx context.Context, v *viper.Viper, logOut io.Writer) (*App, error) {
	cfg := config.Load(v)

	builder := logging.New().Level(cfg.LogLevel)
	if cfg.LogFile != "" {
		builder = builder.FromPath(cfg.LogFile).Console(true)
	} else {
		builder = builder.FromWriter(logOut).Console(true)
	}
	log, err := builder.Make()
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	g, err := sqlite.Open(ctx, cfg.Database,
		sqlite.WithLogger(log.Logger),
		sqlite.WithBusyTimeout(cfg.BusyTimeout),
	)
	if err != nil {
		log.Close()
		return nil, err
	}

	coord := application.NewCoordinator(log.Logger)
	items := sqlite.NewItemRepository(g)
	store := hierarchy.New(sqlite.NewLocationRepository(g), items, g,
		hierarchy.WithObserver(coord),
		hierarchy.WithLogger(log.Logger),
		hierarchy.WithPathSeparator(cfg.PathSeparator),
	)
	inv := application.NewInventory(store, items, sqlite.NewRuleRepository(g), coord, cfg.PathSeparator, log.Logger)

	app := &App{
		Config:    cfg,
		Log:       log,
		Gateway:   g,
		Store:     store,
		Inventory: inv,
	}

	report, err := store.Load(ctx)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	if err := inv.Load(ctx); err != nil {
		app.Close()
		return nil, err
	}

	log.Debug().
		Str("database", cfg.Database).
		Int("locations", report.Decoded).
		Int("skipped", report.Skipped).
		Msg("inventory loaded")
	return app, nil
}

// Close releases the database and the log file
func (a *App) Close() error {
	return errors.Join(a.Gateway.Close(), a.Log.Close())
}
