// Package main is the bot entry point.
// Loads configuration, initializes the application and runs it.
// Supports graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/app"
	"card-collection-bot/internal/config"
)

func main() {
	setupLogging()

	// .env is optional, real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Debug(".env loaded")
	}

	log.Info("=== Bot starting ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}

	if err := application.Scheduler.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start scheduler")
	}
	defer application.Scheduler.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go application.Bot.Start(ctx)

	log.Info("=== Bot ready ===")

	sig := <-quit
	log.Infof("Received signal %s, shutting down...", sig)

	cancel()

	log.Info("=== Bot stopped ===")
}

// setupLogging configures the log format.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
