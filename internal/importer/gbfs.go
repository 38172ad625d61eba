package importer

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/nearby-rouen/nearby/internal/geo"
	"github.com/nearby-rouen/nearby/internal/models"
)

// ImportLovelo loads the Lovélo bike-share stations from a GBFS
// station_information.json file. Stations are named paid docks.
func ImportLovelo(ctx context.Context, db *DB, path string) (CycleStats, error) {
	var stats CycleStats

	data, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return stats, fmt.Errorf("%s: invalid JSON", path)
	}

	stations := gjson.GetBytes(data, "data.stations")
	if !stations.IsArray() {
		return stats, fmt.Errorf("%s: no data.stations array, not a GBFS station_information feed", path)
	}

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		insert, err := prepareDockInsert(ctx, tx)
		if err != nil {
			return err
		}
		defer insert.Close()

		var insertErr error
		stations.ForEach(func(_, station gjson.Result) bool {
			id := PrefixLovelo + station.Get("station_id").String()
			lat, lon := station.Get("lat"), station.Get("lon")
			if !lat.Exists() || !lon.Exists() || !geo.IsValidLatLon(lat.Float(), lon.Float()) {
				log.Warn().Str("id", id).Msg("skipping Lovélo station without coordinates")
				stats.Skipped++
				return true
			}

			var name interface{}
			if n := NormalizeName(station.Get("name").String()); n != "" {
				name = n
			}

			_, insertErr = insert.ExecContext(ctx, id, name,
				geo.ToRadians(lat.Float()), geo.ToRadians(lon.Float()),
				int(models.DockLovelo), 0)
			if insertErr != nil {
				insertErr = fmt.Errorf("failed to insert Lovélo station %s: %w", id, insertErr)
				return false
			}
			stats.Docks++
			return true
		})
		return insertErr
	})
	if err != nil {
		return stats, err
	}

	log.Info().Str("file", path).Int("stations", stats.Docks).Int("skipped", stats.Skipped).Msg("imported Lovélo stations")
	return stats, nil
}
