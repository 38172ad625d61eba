package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearby-rouen/nearby/internal/models"
	"github.com/nearby-rouen/nearby/internal/nearby"
)

func TestDatasetSummary(t *testing.T) {
	path := createDataset(t, []testStop{
		{id: "AST-A", name: "Gare Rue Verte", north: 10, routes: []testRoute{{id: "AST-T2", short: "T2"}, {id: "AST-T3", short: "T3"}}},
		{id: "AST-B", name: "Gare Rue Verte", east: 10, routes: []testRoute{{id: "AST-T4", short: "T4"}}},
		{id: "FLX-9", name: "Rouen Centre", north: 800, routes: []testRoute{{id: "FLX-N1", short: "N1"}}},
	}, []testDock{
		{id: "CYC-3", north: -20, dockType: models.DockArceau, free: true},
	})

	summary, err := openRepository(t, path).DatasetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.DatasetReady, summary.Status)
	assert.Equal(t, []models.SourceSummary{
		{Source: "astuce", Stops: 2, Routes: 3},
		{Source: "cycling", CycleDocks: 1},
		{Source: "flixbus", Stops: 1, Routes: 1},
	}, summary.Sources)
	assert.False(t, summary.CheckedAt.IsZero())
}

func TestDatasetSummaryEmpty(t *testing.T) {
	summary, err := openRepository(t, createDataset(t, nil, nil)).DatasetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DatasetEmpty, summary.Status)
	assert.Empty(t, summary.Sources)
}

func TestDatasetSummaryWithoutTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE stops(stop_id TEXT PRIMARY KEY)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = openRepository(t, path).DatasetSummary(context.Background())
	assert.ErrorIs(t, err, nearby.ErrQueryFailed)
}
