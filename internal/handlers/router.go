package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the HTTP settings of the API
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	StaticDir      string // Served under / when set
}

// NewRouter wires every endpoint of the API
func NewRouter(cfg RouterConfig, facilities *FacilityHandler, health *HealthHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", health.GetHealth)
	r.Get("/healthz", health.GetLiveness)
	r.Get("/api/health/data", health.GetDataset)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/transport_facilities/{latitude}/{longitude}", facilities.GetTransportFacilities)
	r.Get("/api/stations", facilities.GetStations)
	r.Get("/api/cycle-stops", facilities.GetCycleStops)

	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
