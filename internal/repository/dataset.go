package repository

import (
	"context"
	"time"

	"github.com/nearby-rouen/nearby/internal/models"
)

// datasetSummaryQuery counts rows per table and identifier prefix. It runs
// unchanged on SQLite and PostgreSQL.
const datasetSummaryQuery = `
	SELECT 'stops', substr(stop_id, 1, 3), COUNT(*) FROM stops GROUP BY 2
	UNION ALL
	SELECT 'routes', substr(route_id, 1, 3), COUNT(*) FROM routes GROUP BY 2
	UNION ALL
	SELECT 'cycle_stops', substr(cycle_id, 1, 3), COUNT(*) FROM cycle_stops GROUP BY 2
	ORDER BY 2, 1
`

// summaryRows is the part of *sql.Rows and pgx.Rows the summary reads
type summaryRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanDatasetSummary(rows summaryRows) (*models.DatasetSummary, error) {
	summary := models.NewDatasetSummary(time.Now().UTC())
	for rows.Next() {
		var table, prefix string
		var count int
		if err := rows.Scan(&table, &prefix, &count); err != nil {
			return nil, translateError("scan dataset summary", err)
		}
		summary.Add(table, prefix, count)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("iterate dataset summary", err)
	}
	return summary, nil
}

// DatasetSummary counts the imported stops, routes and cycle docks per source
func (r *SQLiteFacilityRepository) DatasetSummary(ctx context.Context) (*models.DatasetSummary, error) {
	rows, err := r.db.QueryContext(ctx, datasetSummaryQuery)
	if err != nil {
		return nil, translateError("query dataset summary", err)
	}
	defer rows.Close()

	return scanDatasetSummary(rows)
}

// DatasetSummary counts the imported stops, routes and cycle docks per source
func (r *PostgresFacilityRepository) DatasetSummary(ctx context.Context) (*models.DatasetSummary, error) {
	rows, err := r.pool.Query(ctx, datasetSummaryQuery)
	if err != nil {
		return nil, translateError("query dataset summary", err)
	}
	defer rows.Close()

	return scanDatasetSummary(rows)
}
