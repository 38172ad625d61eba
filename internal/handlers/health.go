package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/nearby-rouen/nearby/internal/metrics"
	"github.com/nearby-rouen/nearby/internal/models"
	"github.com/nearby-rouen/nearby/internal/nearby"
)

// Pinger checks that the storage backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatasetReporter describes the contents of the facility dataset
type DatasetReporter interface {
	DatasetSummary(ctx context.Context) (*models.DatasetSummary, error)
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db      Pinger
	dataset DatasetReporter
}

// NewHealthHandler creates a new handler checking the given storage
func NewHealthHandler(db Pinger, dataset DatasetReporter) *HealthHandler {
	return &HealthHandler{db: db, dataset: dataset}
}

// GetHealth handles GET /health
// Returns 503 when the database cannot be reached
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "error",
			"database":  "disconnected",
			"kind":      nearby.Reason(err),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC(),
	})
}

// GetDataset handles GET /api/health/data
// Returns the number of stops, routes and cycle docks imported per source
func (h *HealthHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.dataset.DatasetSummary(ctx)
	if err != nil {
		writeSearchError(w, r, metrics.KindDataset, "Failed to summarize dataset", err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	writeJSON(w, http.StatusOK, summary)
}

// GetLiveness handles GET /healthz
func (h *HealthHandler) GetLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
