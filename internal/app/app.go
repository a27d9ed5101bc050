// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/config"
	"github.com/markdave123-py/docscan/internal/core"
	"github.com/markdave123-py/docscan/internal/core/archive"
	db "github.com/markdave123-py/docscan/internal/core/database"
	objectclient "github.com/markdave123-py/docscan/internal/core/object-client"
	"github.com/markdave123-py/docscan/internal/core/recognizer"
	"github.com/markdave123-py/docscan/internal/core/recognizer/gemini"
	"github.com/markdave123-py/docscan/internal/core/recognizer/pdftext"
	"github.com/markdave123-py/docscan/internal/core/recognizer/tesseract"
	"github.com/markdave123-py/docscan/internal/services"
)

// Version is reported by the health endpoint and the CLI.
const Version = "1.0.0"

type App struct {
	Store    core.ScanStore
	Archiver *archive.Archiver
	Service  *services.OCRService
	Server   *Server

	closers []func() error
}

// NewApp wires the OCR pipeline and, when configured, the scans database and
// the S3 archive. Archive workers run until ctx is cancelled.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	a := &App{}

	rec, closeRec, err := NewRecognizer(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	if closeRec != nil {
		a.closers = append(a.closers, closeRec)
	}
	logrus.WithField("engine", rec.Engine()).Info("OCR engine ready.")

	var store core.ScanStore
	if cfg.DatabaseEnabled() {
		store, err = db.NewDatabaseClient(appCtx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Store = store
		a.closers = append(a.closers, store.Close)
		logrus.Info("Database initialized and ready.")
	}

	var archiver core.Archiver
	var objClient core.ObjectClient
	if cfg.ArchiveEnabled() {
		objClient, err = objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Archiver = archive.NewArchiver(store, objClient, archive.DefaultQueueSize)
		a.Archiver.Start(ctx, cfg.ArchiveWorkers)
		archiver = a.Archiver
		logrus.WithField("workers", cfg.ArchiveWorkers).Info("Object client initialized and archive workers started.")
	}

	stats := services.NewStatsService()
	a.Service = services.NewOCRService(rec, pdftext.NewExtractor(), store, archiver, stats, cfg.MaxImageSide)
	a.Server = NewServer(cfg, a.Service, stats, store, objClient)

	return a, nil
}

// NewRecognizer builds the engine selected by OCR_ENGINE. The returned close
// function may be nil.
func NewRecognizer(ctx context.Context, cfg *config.Config) (core.Recognizer, func() error, error) {
	switch cfg.OCREngine {
	case "", "tesseract":
		return recognizer.New(tesseract.New(cfg.TessdataPrefix)), nil, nil
	case "gemini":
		g, err := gemini.New(ctx, cfg.AIAPIKey, cfg.GenModel)
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't initialize the gemini recognizer: %w", err)
		}
		// Gemini reads the whole page in a single pass.
		return recognizer.New(g, recognizer.PresetFullPage), g.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown OCR_ENGINE %q", cfg.OCREngine)
	}
}

// Close releases the database pool and engine clients. Call Archiver.Wait
// first so pending uploads can still update their scan rows.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logrus.WithError(err).Warn("close failed")
		}
	}
	a.closers = nil
}
