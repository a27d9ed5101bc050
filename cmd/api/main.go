package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/app"
	"github.com/markdave123-py/docscan/internal/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		cancel()
	}()

	cfg := config.LoadConfig()
	setupLogging(cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		logrus.Fatalf("startup failed: %v", err)
	}
	defer application.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- application.Server.Start() }()

	logrus.WithFields(logrus.Fields{
		"version":  app.Version,
		"database": cfg.DatabaseEnabled(),
		"archive":  cfg.ArchiveEnabled(),
	}).Info("docscan is running")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logrus.WithError(err).Error("server error")
		}
		cancel()
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("graceful shutdown failed")
	}
	if application.Archiver != nil {
		application.Archiver.Wait()
	}
	logrus.Info("shutting down...")
}

func setupLogging(cfg *config.Config) {
	if cfg.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
