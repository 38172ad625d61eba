package importer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jamespfennell/gtfs"
	"github.com/rs/zerolog/log"

	"github.com/nearby-rouen/nearby/internal/geo"
)

// Feed describes a GTFS archive and the prefix its identifiers get in the dataset
type Feed struct {
	Path   string
	Prefix string // "AST-", "ATM-", "FLX-"
}

// Identifier prefixes of the supported feeds
const (
	PrefixAstuce  = "AST-"
	PrefixAtoumod = "ATM-"
	PrefixFlixbus = "FLX-"
)

// GTFSStats summarizes one feed import
type GTFSStats struct {
	Stops         int
	Routes        int
	StopRoutes    int
	SkippedStops  int // Outside the area or elevator stops
	ElevatorTrips int
}

// schoolServicePrefix marks Astuce services that only run on school days
const schoolServicePrefix = PrefixAstuce + "IST"

// isSchoolService reports whether a prefixed service id is a school service
func isSchoolService(serviceID string) bool {
	return strings.HasPrefix(serviceID, schoolServicePrefix)
}

// isElevatorService matches the Astuce pseudo-services running the Rouen
// elevators: "AST-ASCESC..." and "AST-xxxASC"
func isElevatorService(serviceID string) bool {
	if strings.HasPrefix(serviceID, PrefixAstuce+"ASCESC") {
		return true
	}
	return isElevatorStop(serviceID)
}

// isElevatorStop matches elevator stop ids, "AST-" then three characters then "ASC"
func isElevatorStop(stopID string) bool {
	rest, ok := strings.CutPrefix(stopID, PrefixAstuce)
	return ok && len([]rune(rest)) == 6 && strings.HasSuffix(rest, "ASC")
}

// ImportGTFS loads the stops inside area, the routes, and the stop/route
// relation of a GTFS archive. Trips serving elevators are dropped along with
// every stop and route they touch.
func ImportGTFS(ctx context.Context, db *DB, feed Feed, area Area) (GTFSStats, error) {
	var stats GTFSStats

	data, err := os.ReadFile(feed.Path)
	if err != nil {
		return stats, fmt.Errorf("failed to read %s: %w", feed.Path, err)
	}

	static, err := gtfs.ParseStatic(data, gtfs.ParseStaticOptions{})
	if err != nil {
		return stats, fmt.Errorf("failed to parse %s: %w", feed.Path, err)
	}

	log.Info().
		Str("feed", feed.Path).
		Int("routes", len(static.Routes)).
		Int("stops", len(static.Stops)).
		Int("trips", len(static.Trips)).
		Msg("parsed GTFS feed")

	// Stops and routes touched by elevator trips
	droppedStops := make(map[string]bool)
	droppedRoutes := make(map[string]bool)
	for i := range static.Trips {
		trip := &static.Trips[i]
		if trip.Service == nil || !isElevatorService(feed.Prefix+trip.Service.Id) {
			continue
		}
		stats.ElevatorTrips++
		if trip.Route != nil {
			droppedRoutes[trip.Route.Id] = true
		}
		for _, st := range trip.StopTimes {
			if st.Stop != nil {
				droppedStops[st.Stop.Id] = true
			}
		}
	}

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		insertStop, err := tx.PrepareContext(ctx,
			"INSERT OR REPLACE INTO stops(stop_id, stop_name, stop_lat, stop_lon) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare stop insert: %w", err)
		}
		defer insertStop.Close()

		insertRoute, err := tx.PrepareContext(ctx,
			"INSERT OR REPLACE INTO routes(route_id, route_short_name, route_long_name, route_type) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare route insert: %w", err)
		}
		defer insertRoute.Close()

		insertStopRoute, err := tx.PrepareContext(ctx,
			"INSERT OR IGNORE INTO cache_stop_routes(stop_id, route_id, school) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare stop route insert: %w", err)
		}
		defer insertStopRoute.Close()

		kept := make(map[string]bool, len(static.Stops))
		for i := range static.Stops {
			stop := &static.Stops[i]
			id := feed.Prefix + stop.Id
			if stop.Latitude == nil || stop.Longitude == nil ||
				!area.Contains(*stop.Latitude, *stop.Longitude) ||
				droppedStops[stop.Id] || isElevatorStop(id) {
				stats.SkippedStops++
				continue
			}

			_, err := insertStop.ExecContext(ctx, id, NormalizeName(stop.Name),
				geo.ToRadians(*stop.Latitude), geo.ToRadians(*stop.Longitude))
			if err != nil {
				return fmt.Errorf("failed to insert stop %s: %w", id, err)
			}
			kept[stop.Id] = true
			stats.Stops++
		}

		for i := range static.Routes {
			route := &static.Routes[i]
			if droppedRoutes[route.Id] {
				continue
			}
			_, err := insertRoute.ExecContext(ctx, feed.Prefix+route.Id, route.ShortName,
				NormalizeName(route.LongName), int(route.Type))
			if err != nil {
				return fmt.Errorf("failed to insert route %s: %w", route.Id, err)
			}
			stats.Routes++
		}

		type stopRoute struct {
			stopID, routeID string
			school          bool
		}
		seen := make(map[stopRoute]bool)
		for i := range static.Trips {
			trip := &static.Trips[i]
			if trip.Route == nil || trip.Service == nil || droppedRoutes[trip.Route.Id] {
				continue
			}
			school := isSchoolService(feed.Prefix + trip.Service.Id)
			for _, st := range trip.StopTimes {
				if st.Stop == nil || !kept[st.Stop.Id] {
					continue
				}
				key := stopRoute{stopID: st.Stop.Id, routeID: trip.Route.Id, school: school}
				if seen[key] {
					continue
				}
				seen[key] = true

				_, err := insertStopRoute.ExecContext(ctx, feed.Prefix+key.stopID, feed.Prefix+key.routeID, boolToInt(school))
				if err != nil {
					return fmt.Errorf("failed to link stop %s to route %s: %w", key.stopID, key.routeID, err)
				}
				stats.StopRoutes++
			}
		}

		return nil
	})
	if err != nil {
		return stats, err
	}

	log.Info().
		Str("feed", feed.Path).
		Int("stops", stats.Stops).
		Int("routes", stats.Routes).
		Int("stop_routes", stats.StopRoutes).
		Int("skipped_stops", stats.SkippedStops).
		Int("elevator_trips", stats.ElevatorTrips).
		Msg("imported GTFS feed")
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
