package nearby

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearby-rouen/nearby/internal/geo"
	"github.com/nearby-rouen/nearby/internal/models"
)

// fakeFinder returns canned records and counts calls
type fakeFinder struct {
	stations   []models.StationRecord
	cycleStops []models.CycleDockRecord
	err        error
	calls      int
}

func (f *fakeFinder) FindStations(ctx context.Context, lat, lon, maxDistance float64) ([]models.StationRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.stations, nil
}

func (f *fakeFinder) FindCycleStops(ctx context.Context, lat, lon, maxDistance float64) ([]models.CycleDockRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.cycleStops, nil
}

const (
	queryLat = 49.44211427302438
	queryLon = 1.1128162664422916
)

func station(id, stop, route string, school bool, distance float64) models.StationRecord {
	return models.StationRecord{
		ID:             id,
		StopName:       stop,
		RouteShortName: route,
		RouteLongName:  "Ligne " + route,
		School:         school,
		Coordinate:     models.Coordinate{Latitude: queryLat, Longitude: queryLon},
		Distance:       distance,
	}
}

func TestPrettyFindStationsDeduplicatesRoutes(t *testing.T) {
	finder := &fakeFinder{stations: []models.StationRecord{
		station("AST-MRIB1", "Mont-Riboudet", "27", false, 50.4),
		station("AST-MRIB1", "Mont-Riboudet", "27", true, 50.4),
		station("AST-MRIB1", "Mont-Riboudet", "T4", false, 50.4),
		station("AST-KIND2", "Kindarena", "27", false, 120.6),
		station("ATM-38211", "Kindarena", "305", true, 130.5),
		station("FLX-9f0c", "Kindarena", "N123", false, 140.2),
	}}
	service := NewService(finder)

	results, err := service.PrettyFindStations(context.Background(), queryLat, queryLon, 300)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mont-Riboudet", "Kindarena"}, results.Keys())

	mont, ok := results.Get("Mont-Riboudet")
	require.True(t, ok)
	require.Len(t, mont.Points, 2)
	assert.Equal(t, "27", mont.Points[0].Name)
	assert.False(t, mont.Points[0].School)
	assert.Equal(t, "Ligne 27", mont.Points[0].LongName)
	assert.Equal(t, "astuce", mont.Points[0].Type)
	assert.Equal(t, "T4", mont.Points[1].Name)
	assert.Equal(t, 50, mont.DistanceMin)
	assert.Equal(t, 50, mont.DistanceMax)

	kind, ok := results.Get("Kindarena")
	require.True(t, ok)
	require.Len(t, kind.Points, 2)
	assert.Equal(t, "305", kind.Points[0].Name)
	assert.True(t, kind.Points[0].School)
	assert.Equal(t, "atoumod", kind.Points[0].Type)
	assert.Equal(t, "N123", kind.Points[1].Name)
	assert.Equal(t, "flixbus", kind.Points[1].Type)
	assert.Equal(t, 131, kind.DistanceMin)
	assert.Equal(t, 140, kind.DistanceMax)
}

func TestGroupStationsKeepsRegularAfterSchool(t *testing.T) {
	results := GroupStations([]models.StationRecord{
		station("AST-A", "Place Saint-Paul", "20", true, 30),
		station("AST-A", "Place Saint-Paul", "20", false, 40),
		station("AST-B", "Eauplet", "20", true, 90),
	})

	group, ok := results.Get("Place Saint-Paul")
	require.True(t, ok)
	require.Len(t, group.Points, 2)
	assert.True(t, group.Points[0].School)
	assert.False(t, group.Points[1].School)
	assert.Equal(t, 30, group.DistanceMin)
	assert.Equal(t, 40, group.DistanceMax)

	_, ok = results.Get("Eauplet")
	assert.False(t, ok)
}

func TestGroupStationsUnknownOperator(t *testing.T) {
	results := GroupStations([]models.StationRecord{station("SNCF-1", "Gare", "K", false, 10)})
	group, _ := results.Get("Gare")
	require.Len(t, group.Points, 1)
	assert.Equal(t, models.UnknownOperator, group.Points[0].Type)
}

// offset returns a point metersNorth / metersEast away from the query point
func offset(metersNorth, metersEast float64) models.Coordinate {
	degPerMeter := 360 / (math.Pi * geo.EarthDiameterMeters)
	return models.Coordinate{
		Latitude:  queryLat + metersNorth*degPerMeter,
		Longitude: queryLon + metersEast*degPerMeter/math.Cos(geo.ToRadians(queryLat)),
	}
}

func TestPrettyFindCycleStops(t *testing.T) {
	lovelo := "Théâtre des Arts"
	empty := ""
	north := offset(40, 0)
	west := offset(0, -60)
	near := offset(2, 1)

	finder := &fakeFinder{cycleStops: []models.CycleDockRecord{
		{ID: "CYC-1", Type: models.DockArceau, Free: true, Coordinate: near, Distance: geo.Distance(queryLat, queryLon, near.Latitude, near.Longitude)},
		{ID: "LOV-7", Name: &lovelo, Type: models.DockLovelo, Coordinate: north, Distance: geo.Distance(queryLat, queryLon, north.Latitude, north.Longitude)},
		{ID: "CYC-2", Name: &empty, Type: models.DockRatelier, Free: true, Coordinate: west, Distance: geo.Distance(queryLat, queryLon, west.Latitude, west.Longitude)},
	}}
	service := NewService(finder)

	results, err := service.PrettyFindCycleStops(context.Background(), queryLat, queryLon, 150)
	require.NoError(t, err)
	assert.Equal(t, []string{models.UnnamedGroup, lovelo}, results.Keys())

	unnamed, ok := results.Get(models.UnnamedGroup)
	require.True(t, ok)
	require.Len(t, unnamed.Points, 2)
	assert.Equal(t, "CYC-1", unnamed.Points[0].ID)
	assert.Nil(t, unnamed.Points[0].Name)
	assert.Equal(t, geo.None, unnamed.Points[0].Direction)
	assert.Equal(t, 2, unnamed.Points[0].Distance)
	assert.Equal(t, "ARCEAU", unnamed.Points[0].TypeName)
	assert.Equal(t, "CYC-2", unnamed.Points[1].ID)
	assert.Equal(t, geo.West, unnamed.Points[1].Direction)
	assert.Equal(t, 60, unnamed.Points[1].Distance)
	assert.Equal(t, 2, unnamed.DistanceMin)
	assert.Equal(t, 60, unnamed.DistanceMax)

	named, ok := results.Get(lovelo)
	require.True(t, ok)
	require.Len(t, named.Points, 1)
	assert.Equal(t, geo.North, named.Points[0].Direction)
	assert.Equal(t, "LOVELO", named.Points[0].TypeName)
	assert.False(t, named.Points[0].Free)
	assert.Equal(t, 40, named.DistanceMin)
}

func TestCycleStopDirectionMatchesClassifier(t *testing.T) {
	var records []models.CycleDockRecord
	for i := 0; i < 8; i++ {
		angle := float64(i) * math.Pi / 4
		c := offset(80*math.Cos(angle), 80*math.Sin(angle))
		records = append(records, models.CycleDockRecord{
			ID:         fmt.Sprintf("CYC-%d", i),
			Type:       models.DockPotelet,
			Coordinate: c,
			Distance:   geo.Distance(queryLat, queryLon, c.Latitude, c.Longitude),
		})
	}

	results := GroupCycleStops(queryLat, queryLon, records)
	group, ok := results.Get(models.UnnamedGroup)
	require.True(t, ok)
	require.Len(t, group.Points, 8)

	want := []geo.Direction{geo.North, geo.NorthEast, geo.East, geo.SouthEast, geo.South, geo.SouthWest, geo.West, geo.NorthWest}
	for i, p := range group.Points {
		assert.True(t, p.Direction.Valid())
		assert.Equal(t, geo.Classify(queryLat, queryLon, p.Latitude, p.Longitude), p.Direction)
		assert.Equal(t, want[i], p.Direction, "dock %s", p.ID)
	}
}

func TestServiceEmptyResults(t *testing.T) {
	service := NewService(&fakeFinder{})

	stations, err := service.FindStations(context.Background(), queryLat, queryLon, 300)
	require.NoError(t, err)
	assert.NotNil(t, stations)
	assert.Empty(t, stations)

	grouped, err := service.PrettyFindCycleStops(context.Background(), queryLat, queryLon, 150)
	require.NoError(t, err)
	assert.Equal(t, 0, grouped.Len())
}

func TestServiceValidation(t *testing.T) {
	tests := []struct {
		name             string
		lat, lon, radius float64
	}{
		{"latitude too large", 91, 1.1, 300},
		{"latitude too small", -90.5, 1.1, 300},
		{"longitude too large", 49.4, 180.5, 300},
		{"NaN latitude", math.NaN(), 1.1, 300},
		{"infinite longitude", 49.4, math.Inf(-1), 300},
		{"zero radius", 49.4, 1.1, 0},
		{"negative radius", 49.4, 1.1, -10},
		{"NaN radius", 49.4, 1.1, math.NaN()},
		{"infinite radius", 49.4, 1.1, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &fakeFinder{}
			service := NewService(finder)

			_, err := service.PrettyFindStations(context.Background(), tt.lat, tt.lon, tt.radius)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			_, err = service.FindCycleStops(context.Background(), tt.lat, tt.lon, tt.radius)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			assert.Zero(t, finder.calls)
		})
	}
}

func TestServicePropagatesStorageErrors(t *testing.T) {
	for _, kind := range []error{ErrStorageUnavailable, ErrStorageCorrupt, ErrQueryFailed, ErrCanceled} {
		t.Run(Reason(kind), func(t *testing.T) {
			service := NewService(&fakeFinder{err: fmt.Errorf("failed to query stations: %w", kind)})

			results, err := service.PrettyFindStations(context.Background(), queryLat, queryLon, 300)
			assert.ErrorIs(t, err, kind)
			assert.Nil(t, results)

			cycle, err := service.PrettyFindCycleStops(context.Background(), queryLat, queryLon, 150)
			assert.ErrorIs(t, err, kind)
			assert.Nil(t, cycle)
		})
	}
}

func TestPrettyFindIsIdempotent(t *testing.T) {
	name := "Boulingrin"
	c := offset(-30, 25)
	finder := &fakeFinder{
		stations: []models.StationRecord{
			station("AST-BOU", "Boulingrin", "T1", false, 12.2),
			station("AST-BOU", "Boulingrin", "F5", true, 12.2),
		},
		cycleStops: []models.CycleDockRecord{
			{ID: "LOV-3", Name: &name, Type: models.DockLovelo, Coordinate: c, Distance: geo.Distance(queryLat, queryLon, c.Latitude, c.Longitude)},
		},
	}
	service := NewService(finder)
	ctx := context.Background()

	encode := func() string {
		stations, err := service.PrettyFindStations(ctx, queryLat, queryLon, 300)
		require.NoError(t, err)
		cycle, err := service.PrettyFindCycleStops(ctx, queryLat, queryLon, 150)
		require.NoError(t, err)
		data, err := json.Marshal(map[string]any{"stations": stations, "cycle_stops": cycle})
		require.NoError(t, err)
		return string(data)
	}

	assert.Equal(t, encode(), encode())
}

func TestReason(t *testing.T) {
	assert.Equal(t, "", Reason(nil))
	assert.Equal(t, "invalid_argument", Reason(fmt.Errorf("bad: %w", ErrInvalidArgument)))
	assert.Equal(t, "storage_corrupt", Reason(ErrStorageCorrupt))
	assert.Equal(t, "canceled", Reason(fmt.Errorf("failed to query stations: %w: %w", ErrCanceled, context.DeadlineExceeded)))
	assert.Equal(t, "internal", Reason(context.Canceled))
}
