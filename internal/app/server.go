package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/docscan/internal/api/middlewares"
	"github.com/markdave123-py/docscan/internal/config"
	"github.com/markdave123-py/docscan/internal/core"
	"github.com/markdave123-py/docscan/internal/models"
	"github.com/markdave123-py/docscan/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes. store and obj may be nil, in which
// case the scans endpoints are not mounted.
func NewServer(cfg *config.Config, svc *services.OCRService, stats *services.StatsService, store core.ScanStore, obj core.ObjectClient) *Server {
	limiter := services.NewRateLimiter(cfg.APIKeys, cfg.RateLimitPerMinute)

	endpoints := []string{
		"POST /ocr/upload",
		"POST /ocr/camera",
		"GET /api/stats",
		"POST /api/stats/reset",
		"GET /api/health",
	}
	if store != nil {
		endpoints = append(endpoints, "GET /api/scans/{id}")
		if obj != nil {
			endpoints = append(endpoints, "GET /api/scans/{id}/original")
		}
	}

	ocrHandler := handlers.NewOCRHandler(svc, cfg.MaxUploadBytes, models.OCRSettings{
		Language:     cfg.OCRLanguage,
		DocumentType: "generic",
		Enhanced:     cfg.OCREnhanced,
	})
	statsHandler := handlers.NewStatsHandler(stats, limiter, handlers.ServiceInfo{
		Version:   Version,
		Engine:    svc.Engine(),
		Database:  store != nil,
		Archive:   cfg.ArchiveEnabled(),
		Endpoints: endpoints,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logrus.StandardLogger(), NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.RequestTimeoutSec) * time.Second))
	r.Use(appMiddleware.SecurityHeaders)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
	}))

	// Serve the web UI
	r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))

	// OCR endpoints require an API key when keys are configured
	r.Group(func(protected chi.Router) {
		protected.Use(appMiddleware.APIKey(cfg.APIKeys, limiter))
		protected.Post("/ocr/upload", ocrHandler.Upload)
		protected.Post("/ocr/camera", ocrHandler.Camera)
		if store != nil {
			scanHandler := handlers.NewScanHandler(store, obj)
			protected.Get("/api/scans/{id}", scanHandler.GetScan)
			if obj != nil {
				protected.Get("/api/scans/{id}/original", scanHandler.GetOriginal)
			}
		}
	})

	r.Get("/api/stats", statsHandler.Stats)
	r.Get("/api/health", statsHandler.Health)
	r.With(appMiddleware.AdminJWT(cfg.JWTSecret)).Post("/api/stats/reset", statsHandler.Reset)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{httpServer: httpSrv}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	logrus.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logrus.Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
