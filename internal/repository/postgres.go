package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nearby-rouen/nearby/internal/geo"
	"github.com/nearby-rouen/nearby/internal/models"
	"github.com/nearby-rouen/nearby/internal/nearby"
)

// PostgresFacilityRepository runs proximity searches on a PostgreSQL copy of
// the dataset. Tables follow schema.sql, coordinates in radians.
type PostgresFacilityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFacilityRepository connects to databaseURL
func NewPostgresFacilityRepository(ctx context.Context, databaseURL string) (*PostgresFacilityRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w: %w", nearby.ErrStorageUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w: %w", nearby.ErrStorageUnavailable, err)
	}

	return &PostgresFacilityRepository{pool: pool}, nil
}

// Close closes every connection of the pool
func (r *PostgresFacilityRepository) Close() {
	r.pool.Close()
}

// Ping checks that the database is still reachable
func (r *PostgresFacilityRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w: %w", nearby.ErrStorageUnavailable, err)
	}
	return nil
}

// haversineSQL is geo.DistanceRadians in SQL. $1 is the Earth diameter,
// $2/$3 the query point in radians.
const haversineSQL = `$1 * asin(least(1, sqrt(
	power(sin(($2 - %[1]s) / 2), 2) +
	cos($2) * cos(%[1]s) * power(sin(($3 - %[2]s) / 2), 2)
)))`

// FindStations returns every (stop, route) pair closer than maxDistance meters
// to (lat, lon), ordered by distance then school flag
func (r *PostgresFacilityRepository) FindStations(ctx context.Context, lat, lon, maxDistance float64) ([]models.StationRecord, error) {
	query := `
		SELECT stop_id, stop_name, route_short_name, route_long_name, school, stop_lat, stop_lon, distance
		FROM (
			SELECT
				stops.stop_id,
				stops.stop_name,
				routes.route_short_name,
				routes.route_long_name,
				cache_stop_routes.school <> 0 AS school,
				stops.stop_lat,
				stops.stop_lon,
				` + fmt.Sprintf(haversineSQL, "stops.stop_lat", "stops.stop_lon") + ` AS distance
			FROM stops
			INNER JOIN cache_stop_routes ON stops.stop_id = cache_stop_routes.stop_id
			INNER JOIN routes ON cache_stop_routes.route_id = routes.route_id
			WHERE stops.stop_lat BETWEEN $4 AND $5
			  AND stops.stop_lon BETWEEN $6 AND $7
		) candidates
		WHERE distance < $8
		ORDER BY distance, school
	`

	rows, err := r.pool.Query(ctx, query, postgresSearchArgs(lat, lon, maxDistance)...)
	if err != nil {
		return nil, translateError("query stations", err)
	}
	defer rows.Close()

	stations := []models.StationRecord{}
	for rows.Next() {
		var s models.StationRecord
		var latRad, lonRad float64
		err := rows.Scan(
			&s.ID,
			&s.StopName,
			&s.RouteShortName,
			&s.RouteLongName,
			&s.School,
			&latRad,
			&lonRad,
			&s.Distance,
		)
		if err != nil {
			return nil, translateError("scan station", err)
		}
		s.Latitude = geo.ToDegrees(latRad)
		s.Longitude = geo.ToDegrees(lonRad)
		stations = append(stations, s)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError("iterate stations", err)
	}

	return stations, nil
}

// FindCycleStops returns every cycle dock closer than maxDistance meters to
// (lat, lon), ordered by distance
func (r *PostgresFacilityRepository) FindCycleStops(ctx context.Context, lat, lon, maxDistance float64) ([]models.CycleDockRecord, error) {
	query := `
		SELECT cycle_id, cycle_name, cycle_type, cycle_free, cycle_lat, cycle_lon, distance
		FROM (
			SELECT
				cycle_id,
				cycle_name,
				cycle_type,
				cycle_free <> 0 AS cycle_free,
				cycle_lat,
				cycle_lon,
				` + fmt.Sprintf(haversineSQL, "cycle_lat", "cycle_lon") + ` AS distance
			FROM cycle_stops
			WHERE cycle_lat BETWEEN $4 AND $5
			  AND cycle_lon BETWEEN $6 AND $7
		) candidates
		WHERE distance < $8
		ORDER BY distance
	`

	rows, err := r.pool.Query(ctx, query, postgresSearchArgs(lat, lon, maxDistance)...)
	if err != nil {
		return nil, translateError("query cycle stops", err)
	}
	defer rows.Close()

	docks := []models.CycleDockRecord{}
	for rows.Next() {
		var d models.CycleDockRecord
		var dockType int
		var latRad, lonRad float64
		err := rows.Scan(
			&d.ID,
			&d.Name,
			&dockType,
			&d.Free,
			&latRad,
			&lonRad,
			&d.Distance,
		)
		if err != nil {
			return nil, translateError("scan cycle stop", err)
		}
		d.Type = models.DockType(dockType)
		d.Latitude = geo.ToDegrees(latRad)
		d.Longitude = geo.ToDegrees(lonRad)
		docks = append(docks, d)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError("iterate cycle stops", err)
	}

	return docks, nil
}

func postgresSearchArgs(lat, lon, maxDistance float64) []any {
	return append([]any{float64(geo.EarthDiameterMeters)}, searchArgs(lat, lon, maxDistance)...)
}
