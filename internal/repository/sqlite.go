package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"

	"github.com/nearby-rouen/nearby/internal/geo"
	"github.com/nearby-rouen/nearby/internal/models"
	"github.com/nearby-rouen/nearby/internal/nearby"
)

// DistanceFunction is the SQL name of geo.DistanceRadians on SQLite connections
const DistanceFunction = "nearby_distance"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(DistanceFunction, 4, sqlDistance)
}

// sqlDistance implements nearby_distance(lat1, lon1, lat2, lon2), all in radians.
// Any NULL argument yields NULL, which never satisfies the range filter.
func sqlDistance(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	var coords [4]float64
	for i, arg := range args {
		switch v := arg.(type) {
		case float64:
			coords[i] = v
		case int64:
			coords[i] = float64(v)
		case nil:
			return nil, nil
		default:
			return nil, fmt.Errorf("%s: argument %d is %T, not a number", DistanceFunction, i+1, arg)
		}
	}
	return geo.DistanceRadians(coords[0], coords[1], coords[2], coords[3]), nil
}

// readPragmas are passed in the DSN as _pragma parameters
var readPragmas = url.Values{"_pragma": {
	"query_only(1)",
	"temp_store(2)",      // MEMORY
	"cache_size(-64000)", // 64MB
	"mmap_size(268435456)",
}}

// SQLiteDB wraps a read-only SQL connection to the facility dataset
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens the dataset at dbPath and checks its integrity.
// A missing file is reported as nearby.ErrStorageUnavailable rather than
// silently creating an empty database.
func NewSQLiteDB(ctx context.Context, dbPath string) (*SQLiteDB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w: %w", dbPath, nearby.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?"+readPragmas.Encode())
	if err != nil {
		return nil, translateError("open database", err)
	}

	// Read-only workload, served from a single connection and its page cache.
	// The driver applies readPragmas to every connection it opens, so they
	// survive connection recycling.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, translateError("ping database", err)
	}

	s := &SQLiteDB{db: db}
	if err := s.CheckIntegrity(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("path", dbPath).Msg("connected to SQLite database")
	return s, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *SQLiteDB) GetDB() *sql.DB {
	return s.db
}

// Ping checks that the database is still reachable
func (s *SQLiteDB) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return translateError("ping database", err)
	}
	return nil
}

// CheckIntegrity runs PRAGMA quick_check and reports anything but "ok" as
// nearby.ErrStorageCorrupt
func (s *SQLiteDB) CheckIntegrity(ctx context.Context) error {
	var result string
	if err := s.db.QueryRowContext(ctx, "PRAGMA quick_check(1)").Scan(&result); err != nil {
		return translateError("check database integrity", err)
	}
	if result != "ok" {
		return fmt.Errorf("failed to check database integrity: %w: %s", nearby.ErrStorageCorrupt, result)
	}
	return nil
}

// SQLiteFacilityRepository runs proximity searches on the SQLite dataset
type SQLiteFacilityRepository struct {
	db *sql.DB
}

// NewSQLiteFacilityRepository creates a new SQLiteFacilityRepository
func NewSQLiteFacilityRepository(db *sql.DB) *SQLiteFacilityRepository {
	return &SQLiteFacilityRepository{db: db}
}

// FindStations returns every (stop, route) pair closer than maxDistance meters
// to (lat, lon), ordered by distance then school flag
func (r *SQLiteFacilityRepository) FindStations(ctx context.Context, lat, lon, maxDistance float64) ([]models.StationRecord, error) {
	query := `
		SELECT
			stops.stop_id,
			stops.stop_name,
			routes.route_short_name,
			routes.route_long_name,
			cache_stop_routes.school,
			stops.stop_lat,
			stops.stop_lon,
			nearby_distance(?1, ?2, stops.stop_lat, stops.stop_lon) AS distance
		FROM stops
		INNER JOIN cache_stop_routes ON stops.stop_id = cache_stop_routes.stop_id
		INNER JOIN routes ON cache_stop_routes.route_id = routes.route_id
		WHERE stops.stop_lat BETWEEN ?3 AND ?4
		  AND stops.stop_lon BETWEEN ?5 AND ?6
		  AND nearby_distance(?1, ?2, stops.stop_lat, stops.stop_lon) < ?7
		ORDER BY distance, cache_stop_routes.school
	`

	rows, err := r.db.QueryContext(ctx, query, searchArgs(lat, lon, maxDistance)...)
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
func (r *SQLiteFacilityRepository) FindCycleStops(ctx context.Context, lat, lon, maxDistance float64) ([]models.CycleDockRecord, error) {
	query := `
		SELECT
			cycle_id,
			cycle_name,
			cycle_type,
			cycle_free,
			cycle_lat,
			cycle_lon,
			nearby_distance(?1, ?2, cycle_lat, cycle_lon) AS distance
		FROM cycle_stops
		WHERE cycle_lat BETWEEN ?3 AND ?4
		  AND cycle_lon BETWEEN ?5 AND ?6
		  AND nearby_distance(?1, ?2, cycle_lat, cycle_lon) < ?7
		ORDER BY distance
	`

	rows, err := r.db.QueryContext(ctx, query, searchArgs(lat, lon, maxDistance)...)
	if err != nil {
		return nil, translateError("query cycle stops", err)
	}
	defer rows.Close()

	docks := []models.CycleDockRecord{}
	for rows.Next() {
		var d models.CycleDockRecord
		var name sql.NullString
		var dockType int
		var latRad, lonRad float64
		err := rows.Scan(
			&d.ID,
			&name,
			&dockType,
			&d.Free,
			&latRad,
			&lonRad,
			&d.Distance,
		)
		if err != nil {
			return nil, translateError("scan cycle stop", err)
		}
		if name.Valid {
			d.Name = &name.String
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

// searchArgs binds the query point (radians), its bounding rectangle and the radius
func searchArgs(lat, lon, maxDistance float64) []any {
	b := geo.SearchBounds(lat, lon, maxDistance)
	return []any{
		geo.ToRadians(lat),
		geo.ToRadians(lon),
		b.MinLat,
		b.MaxLat,
		b.MinLon,
		b.MaxLon,
		maxDistance,
	}
}
