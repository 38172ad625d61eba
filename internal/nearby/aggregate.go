package nearby

import (
	"math"

	"github.com/nearby-rouen/nearby/internal/geo"
	"github.com/nearby-rouen/nearby/internal/models"
)

// routeKey identifies a route variant already shown to the caller
type routeKey struct {
	school    bool
	shortName string
}

// GroupStations groups station records by stop name, keeping the first
// (closest) occurrence of each route. A school variant is dropped once the
// regular variant of the same route has been kept. records must be ordered
// by distance.
func GroupStations(records []models.StationRecord) *models.GroupedResults[models.StationPoint] {
	results := models.NewGroupedResults[models.StationPoint]()
	seen := make(map[routeKey]struct{}, len(records))

	for _, r := range records {
		key := routeKey{school: r.School, shortName: r.RouteShortName}
		if _, dup := seen[key]; dup {
			continue
		}
		if r.School {
			if _, regular := seen[routeKey{school: false, shortName: r.RouteShortName}]; regular {
				continue
			}
		}
		seen[key] = struct{}{}

		results.Add(r.StopName, models.StationPoint{
			Name:       r.RouteShortName,
			LongName:   r.RouteLongName,
			School:     r.School,
			Type:       models.GetOperatorLabel(r.ID),
			Coordinate: r.Coordinate,
		}, roundMeters(r.Distance))
	}

	return results
}

// GroupCycleStops groups cycle docks by name, unnamed docks under
// models.UnnamedGroup, annotating each with its direction from (lat, lon).
func GroupCycleStops(lat, lon float64, records []models.CycleDockRecord) *models.GroupedResults[models.CyclePoint] {
	results := models.NewGroupedResults[models.CyclePoint]()

	for _, r := range records {
		distance := roundMeters(r.Distance)
		results.Add(r.DisplayName(), models.CyclePoint{
			ID:         r.ID,
			Name:       r.Name,
			Type:       r.Type,
			TypeName:   r.Type.String(),
			Free:       r.Free,
			Distance:   distance,
			Direction:  geo.Classify(lat, lon, r.Latitude, r.Longitude),
			Coordinate: r.Coordinate,
		}, distance)
	}

	return results
}

func roundMeters(distance float64) int {
	return int(math.Round(distance))
}
