package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nearby-rouen/nearby/internal/geo"
	"github.com/nearby-rouen/nearby/internal/metrics"
	"github.com/nearby-rouen/nearby/internal/models"
)

// FacilityService defines the search operations served over HTTP
type FacilityService interface {
	FindStations(ctx context.Context, lat, lon, maxDistance float64) ([]models.StationRecord, error)
	FindCycleStops(ctx context.Context, lat, lon, maxDistance float64) ([]models.CycleDockRecord, error)
	PrettyFindStations(ctx context.Context, lat, lon, maxDistance float64) (*models.GroupedResults[models.StationPoint], error)
	PrettyFindCycleStops(ctx context.Context, lat, lon, maxDistance float64) (*models.GroupedResults[models.CyclePoint], error)
}

// FacilityHandler handles HTTP requests for nearby stations and cycle docks
type FacilityHandler struct {
	service       FacilityService
	stationRadius float64
	cycleRadius   float64
}

// NewFacilityHandler creates a new handler. The radii, in meters, apply when
// a request does not set its own.
func NewFacilityHandler(service FacilityService, stationRadius, cycleRadius float64) *FacilityHandler {
	return &FacilityHandler{
		service:       service,
		stationRadius: stationRadius,
		cycleRadius:   cycleRadius,
	}
}

// TransportFacilitiesResponse is the JSON response for GET /transport_facilities/{latitude}/{longitude}
type TransportFacilitiesResponse struct {
	Stations   *models.GroupedResults[models.StationPoint] `json:"stations"`
	CycleStops *models.GroupedResults[models.CyclePoint]   `json:"cycle_stops"`
}

// GetStationsResponse is the JSON response for GET /api/stations
type GetStationsResponse struct {
	Stations []models.StationRecord `json:"stations"`
	Count    int                    `json:"count"`
}

// CycleStop is a cycle dock record with its direction from the query point
type CycleStop struct {
	models.CycleDockRecord
	Direction geo.Direction `json:"direction"`
}

// GetCycleStopsResponse is the JSON response for GET /api/cycle-stops
type GetCycleStopsResponse struct {
	CycleStops []CycleStop `json:"cycleStops"`
	Count      int         `json:"count"`
}

// GetTransportFacilities handles GET /transport_facilities/{latitude}/{longitude}
// Returns stations and cycle docks grouped by name. Optional station_radius
// and cycle_radius query parameters override the configured radii.
func (h *FacilityHandler) GetTransportFacilities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lat, err := strconv.ParseFloat(chi.URLParam(r, "latitude"), 64)
	if err != nil {
		badRequest(w, "latitude must be a number", map[string]interface{}{"latitude": chi.URLParam(r, "latitude")})
		return
	}
	lon, err := strconv.ParseFloat(chi.URLParam(r, "longitude"), 64)
	if err != nil {
		badRequest(w, "longitude must be a number", map[string]interface{}{"longitude": chi.URLParam(r, "longitude")})
		return
	}

	stationRadius, ok := radiusParam(w, r, "station_radius", h.stationRadius)
	if !ok {
		return
	}
	cycleRadius, ok := radiusParam(w, r, "cycle_radius", h.cycleRadius)
	if !ok {
		return
	}

	stations, err := h.service.PrettyFindStations(ctx, lat, lon, stationRadius)
	if err != nil {
		writeSearchError(w, r, metrics.KindStations, "Failed to find stations", err)
		return
	}

	cycleStops, err := h.service.PrettyFindCycleStops(ctx, lat, lon, cycleRadius)
	if err != nil {
		writeSearchError(w, r, metrics.KindCycleStops, "Failed to find cycle stops", err)
		return
	}

	// The dataset only changes on import
	w.Header().Set("Cache-Control", "public, max-age=300, stale-while-revalidate=60")
	w.Header().Set("Vary", "Accept-Encoding")
	writeJSON(w, http.StatusOK, TransportFacilitiesResponse{
		Stations:   stations,
		CycleStops: cycleStops,
	})
}

// GetStations handles GET /api/stations?lat=&lon=&radius=
// Returns one record per (stop, route) pair, closest first
func (h *FacilityHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := pointParams(w, r)
	if !ok {
		return
	}
	radius, ok := radiusParam(w, r, "radius", h.stationRadius)
	if !ok {
		return
	}

	stations, err := h.service.FindStations(r.Context(), lat, lon, radius)
	if err != nil {
		writeSearchError(w, r, metrics.KindStations, "Failed to find stations", err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300, stale-while-revalidate=60")
	writeJSON(w, http.StatusOK, GetStationsResponse{
		Stations: stations,
		Count:    len(stations),
	})
}

// GetCycleStops handles GET /api/cycle-stops?lat=&lon=&radius=
// Returns cycle docks closest first, each with its direction from the query point
func (h *FacilityHandler) GetCycleStops(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := pointParams(w, r)
	if !ok {
		return
	}
	radius, ok := radiusParam(w, r, "radius", h.cycleRadius)
	if !ok {
		return
	}

	docks, err := h.service.FindCycleStops(r.Context(), lat, lon, radius)
	if err != nil {
		writeSearchError(w, r, metrics.KindCycleStops, "Failed to find cycle stops", err)
		return
	}

	cycleStops := make([]CycleStop, 0, len(docks))
	for _, d := range docks {
		cycleStops = append(cycleStops, CycleStop{
			CycleDockRecord: d,
			Direction:       geo.Classify(lat, lon, d.Latitude, d.Longitude),
		})
	}

	w.Header().Set("Cache-Control", "public, max-age=300, stale-while-revalidate=60")
	writeJSON(w, http.StatusOK, GetCycleStopsResponse{
		CycleStops: cycleStops,
		Count:      len(cycleStops),
	})
}

// pointParams parses the lat and lon query parameters, both required
func pointParams(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	query := r.URL.Query()
	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		badRequest(w, "lat parameter is required and must be a number", map[string]interface{}{"lat": query.Get("lat")})
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		badRequest(w, "lon parameter is required and must be a number", map[string]interface{}{"lon": query.Get("lon")})
		return 0, 0, false
	}
	return lat, lon, true
}

// radiusParam parses an optional radius in meters. Range checks happen in the service.
func radiusParam(w http.ResponseWriter, r *http.Request, name string, defaultValue float64) (float64, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defaultValue, true
	}
	radius, err := strconv.ParseFloat(value, 64)
	if err != nil {
		badRequest(w, name+" must be a number of meters", map[string]interface{}{name: value})
		return 0, false
	}
	return radius, true
}
