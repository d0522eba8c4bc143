// Package app wires the application components together and manages their
// lifecycle: the interactive console session and the background scheduler.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/rayanearaujoc/mefirstapp/internal/config"
	"github.com/rayanearaujoc/mefirstapp/internal/console"
	"github.com/rayanearaujoc/mefirstapp/internal/database"
)

// errConsoleClosed trips the run group when the interactive session ends
// normally, so the scheduler goroutine unblocks.
var errConsoleClosed = errors.New("console closed")

// App holds the running components of the application.
type App struct {
	logger    *slog.Logger
	cfg       *config.Config
	db        *sqlx.DB
	store     database.Store
	console   *console.Console
	scheduler *Scheduler
}

// New creates the application from its already-initialized components.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	db *sqlx.DB,
	store database.Store,
	cons *console.Console,
	scheduler *Scheduler,
) *App {
	return &App{
		logger:    logger.With("component", "app"),
		cfg:       cfg,
		db:        db,
		store:     store,
		console:   cons,
		scheduler: scheduler,
	}
}

// RegisterMaintenance schedules the database maintenance task when enabled
// in the configuration.
func (a *App) RegisterMaintenance() error {
	if !a.cfg.Maintenance.Enabled {
		a.logger.Debug("Database maintenance task disabled")
		return nil
	}
	return a.scheduler.AddCronJob("db_maintenance", a.cfg.Maintenance.Schedule, a.store.RunMaintenance)
}

// Run starts the console loop and the scheduler, and blocks until the
// console session ends, the context is cancelled, or a component fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting application...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.console.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("console session failed: %w", err)
		}
		return errConsoleClosed
	})

	g.Go(func() error {
		if err := a.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		a.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := a.scheduler.Stop(); err != nil {
			a.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, errConsoleClosed) && !errors.Is(err, context.Canceled) {
		a.logger.Error("Application stopped due to error", "error", err)
		return err
	}

	a.logger.Info("Application stopped gracefully.")
	return nil
}
