package importer

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nearby-rouen/nearby/internal/geo"
	"github.com/nearby-rouen/nearby/internal/models"
)

// Identifier prefixes of cycle docks
const (
	PrefixCycling = "CYC-"
	PrefixLovelo  = "LOV-"
)

// freeAccess is the "acces" value of docks anyone can use
const freeAccess = "LIBRE ACCES"

// CycleStats summarizes a cycle dock import
type CycleStats struct {
	Docks   int
	Skipped int // Rows without usable coordinates
}

// ImportCycling loads the Métropole cycle parking CSV (';' separated, with
// id_local, coordonneesxy, mobilier and acces columns)
func ImportCycling(ctx context.Context, db *DB, path string) (CycleStats, error) {
	var stats CycleStats

	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return stats, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, required := range []string{"id_local", "coordonneesxy", "mobilier", "acces"} {
		if _, ok := columns[required]; !ok {
			return stats, fmt.Errorf("%s: missing column %q", path, required)
		}
	}
	field := func(record []string, name string) string {
		if i := columns[name]; i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		insert, err := prepareDockInsert(ctx, tx)
		if err != nil {
			return err
		}
		defer insert.Close()

		for {
			record, err := r.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			id := PrefixCycling + field(record, "id_local")
			lat, lon, err := parseCoordinatesXY(field(record, "coordonneesxy"))
			if err != nil {
				log.Warn().Err(err).Str("id", id).Msg("skipping cycle dock")
				stats.Skipped++
				continue
			}

			_, err = insert.ExecContext(ctx, id, nil,
				geo.ToRadians(lat), geo.ToRadians(lon),
				int(models.ParseDockType(field(record, "mobilier"))),
				boolToInt(field(record, "acces") == freeAccess))
			if err != nil {
				return fmt.Errorf("failed to insert cycle dock %s: %w", id, err)
			}
			stats.Docks++
		}
	})
	if err != nil {
		return stats, err
	}

	log.Info().Str("file", path).Int("docks", stats.Docks).Int("skipped", stats.Skipped).Msg("imported cycle docks")
	return stats, nil
}

// parseCoordinatesXY parses "(x, y)", x being the longitude and y the latitude
func parseCoordinatesXY(value string) (lat, lon float64, err error) {
	x, y, ok := strings.Cut(strings.Trim(value, "()[] "), ",")
	if !ok {
		return 0, 0, fmt.Errorf("malformed coordinates %q", value)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(x), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude in %q: %w", value, err)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude in %q: %w", value, err)
	}
	if !geo.IsValidLatLon(lat, lon) {
		return 0, 0, fmt.Errorf("coordinates out of range %q", value)
	}
	return lat, lon, nil
}

func prepareDockInsert(ctx context.Context, tx *sql.Tx) (*sql.Stmt, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO cycle_stops(cycle_id, cycle_name, cycle_lat, cycle_lon, cycle_type, cycle_free)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare cycle dock insert: %w", err)
	}
	return stmt, nil
}
