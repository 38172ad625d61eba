package nearby

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nearby-rouen/nearby/internal/metrics"
	"github.com/nearby-rouen/nearby/internal/models"
)

// Finder runs proximity searches against a facility dataset. Results are
// ordered by distance ascending (stations then by school flag) and only
// include facilities strictly closer than maxDistance meters.
type Finder interface {
	FindStations(ctx context.Context, lat, lon, maxDistance float64) ([]models.StationRecord, error)
	FindCycleStops(ctx context.Context, lat, lon, maxDistance float64) ([]models.CycleDockRecord, error)
}

// Service answers "what is near this point?" on top of a Finder
type Service struct {
	finder Finder
}

// NewService creates a new Service searching with the given finder
func NewService(finder Finder) *Service {
	return &Service{finder: finder}
}

// FindStations returns the (stop, route) pairs within maxDistance meters of (lat, lon)
func (s *Service) FindStations(ctx context.Context, lat, lon, maxDistance float64) ([]models.StationRecord, error) {
	if err := ValidateQuery(lat, lon, maxDistance); err != nil {
		return nil, err
	}

	started := time.Now()
	records, err := s.finder.FindStations(ctx, lat, lon, maxDistance)
	metrics.ObserveSearch(metrics.KindStations, started, len(records), Reason(err))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.StationRecord{}
	}

	log.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Float64("radius", maxDistance).
		Int("records", len(records)).
		Dur("took", time.Since(started)).
		Msg("station search")
	return records, nil
}

// FindCycleStops returns the cycle docks within maxDistance meters of (lat, lon)
func (s *Service) FindCycleStops(ctx context.Context, lat, lon, maxDistance float64) ([]models.CycleDockRecord, error) {
	if err := ValidateQuery(lat, lon, maxDistance); err != nil {
		return nil, err
	}

	started := time.Now()
	records, err := s.finder.FindCycleStops(ctx, lat, lon, maxDistance)
	metrics.ObserveSearch(metrics.KindCycleStops, started, len(records), Reason(err))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.CycleDockRecord{}
	}

	log.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Float64("radius", maxDistance).
		Int("records", len(records)).
		Dur("took", time.Since(started)).
		Msg("cycle stop search")
	return records, nil
}

// PrettyFindStations returns nearby stations grouped by stop name, see GroupStations
func (s *Service) PrettyFindStations(ctx context.Context, lat, lon, maxDistance float64) (*models.GroupedResults[models.StationPoint], error) {
	records, err := s.FindStations(ctx, lat, lon, maxDistance)
	if err != nil {
		return nil, err
	}
	return GroupStations(records), nil
}

// PrettyFindCycleStops returns nearby cycle docks grouped by name, see GroupCycleStops
func (s *Service) PrettyFindCycleStops(ctx context.Context, lat, lon, maxDistance float64) (*models.GroupedResults[models.CyclePoint], error) {
	records, err := s.FindCycleStops(ctx, lat, lon, maxDistance)
	if err != nil {
		return nil, err
	}
	return GroupCycleStops(lat, lon, records), nil
}
