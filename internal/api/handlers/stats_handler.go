package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/markdave123-py/docscan/internal/models"
	"github.com/markdave123-py/docscan/internal/services"
)

// ServiceInfo describes the running server for the health endpoint.
type ServiceInfo struct {
	Version   string
	Engine    string
	Database  bool
	Archive   bool
	Endpoints []string
}

type StatsHandler struct {
	stats   *services.StatsService
	limiter *services.RateLimiter
	info    ServiceInfo
	now     func() time.Time
}

func NewStatsHandler(stats *services.StatsService, limiter *services.RateLimiter, info ServiceInfo) *StatsHandler {
	return &StatsHandler{stats: stats, limiter: limiter, info: info, now: time.Now}
}

func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats.Snapshot())
}

// Reset clears the statistics and every rate-limit window.
func (h *StatsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.stats.Reset()
	if h.limiter != nil {
		h.limiter.Reset()
	}
	logrus.Info("stats: counters reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "statistics reset"})
}

func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Version:   h.info.Version,
		Engine:    h.info.Engine,
		Database:  h.info.Database,
		Archive:   h.info.Archive,
		Endpoints: h.info.Endpoints,
		Time:      h.now().UTC(),
	})
}
