// Package main contains the entrypoint for the MeFirst support chatbot.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rayanearaujoc/mefirstapp/internal/app"
	"github.com/rayanearaujoc/mefirstapp/internal/config"
	"github.com/rayanearaujoc/mefirstapp/internal/console"
	"github.com/rayanearaujoc/mefirstapp/internal/database"
	"github.com/rayanearaujoc/mefirstapp/internal/gemini"
	"github.com/rayanearaujoc/mefirstapp/internal/language"
	"github.com/rayanearaujoc/mefirstapp/internal/logger"
	"github.com/rayanearaujoc/mefirstapp/internal/report"
	"github.com/rayanearaujoc/mefirstapp/internal/session"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, db, gateways,
// controller, console), runs the interactive session, and returns an exit
// code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	// Credentials may come from a local .env file; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	genClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	analyzer, err := language.NewAnalyzer(ctx, cfg.Language, log)
	if err != nil {
		log.Error("Failed to initialize language analyzer", "error", err)
		return 1
	}
	defer func() {
		if err := analyzer.Close(); err != nil {
			log.Error("Error closing language analyzer", "error", err)
		}
	}()

	controller := session.NewController(store, genClient, cfg.Chat.Greeting, log)
	aggregator := report.NewAggregator(analyzer, genClient, log)

	cons := console.New(console.Deps{
		Logger:     log,
		Controller: controller,
		Aggregator: aggregator,
	}, os.Stdin, os.Stdout)

	sched, err := app.NewScheduler(log)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	application := app.New(log, cfg, db, store, cons, sched)
	if err := application.RegisterMaintenance(); err != nil {
		log.Error("Failed to register maintenance task", "error", err)
		return 1
	}

	if err := application.Run(ctx); err != nil {
		log.Error("Application stopped due to error", "error", err)
		return 1
	}
	return 0
}
