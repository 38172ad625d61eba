package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var rouenPoints = map[string][2]float64{
	"ei":   {49.438890217904074, 1.0917218961064563},
	"fb":   {49.436875053104544, 1.1118279406028548},
	"vf":   {49.43800735961855, 1.142694196803923},
	"csc":  {49.43351963077896, 1.1100699256053772},
	"emmn": {49.44344, 1.10493},
	"pss":  {49.43066, 1.0853},
	"hdv":  {49.44327, 1.09983},
}

func TestDistanceSamePointIsZero(t *testing.T) {
	for name, p := range rouenPoints {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0.0, Distance(p[0], p[1], p[0], p[1]))
		})
	}

	assert.Equal(t, 0.0, Distance(0, 0, 0, 0))
	assert.Equal(t, 0.0, Distance(-33.8688, 151.2093, -33.8688, 151.2093))
}

func TestDistanceIsSymmetric(t *testing.T) {
	for nameA, a := range rouenPoints {
		for nameB, b := range rouenPoints {
			ab := Distance(a[0], a[1], b[0], b[1])
			ba := Distance(b[0], b[1], a[0], a[1])
			assert.InEpsilon(t, ab+1, ba+1, 1e-6, "%s <-> %s", nameA, nameB)
		}
	}

	// Long distances too
	ab := Distance(49.44, 1.10, -33.87, 151.21)
	ba := Distance(-33.87, 151.21, 49.44, 1.10)
	assert.InEpsilon(t, ab, ba, 1e-6)
}

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
		delta    float64
	}{
		{
			name: "one degree of latitude",
			lat1: 0, lon1: 0, lat2: 1, lon2: 0,
			expected: EarthDiameterMeters / 2 * math.Pi / 180,
			delta:    1e-6,
		},
		{
			name: "one degree of longitude on the equator",
			lat1: 0, lon1: 0, lat2: 0, lon2: 1,
			expected: EarthDiameterMeters / 2 * math.Pi / 180,
			delta:    1e-6,
		},
		{
			name: "antipodal points",
			lat1: 0, lon1: 0, lat2: 0, lon2: 180,
			expected: EarthDiameterMeters / 2 * math.Pi,
			delta:    1e-3,
		},
		{
			name: "Rouen city hall to Rouen cathedral area",
			lat1: 49.44327, lon1: 1.09983, lat2: 49.44344, lon2: 1.10493,
			expected: 369.2,
			delta:    1.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Distance(tc.lat1, tc.lon1, tc.lat2, tc.lon2), tc.delta)
		})
	}
}

func TestDistanceRadiansMatchesDistance(t *testing.T) {
	a := rouenPoints["emmn"]
	b := rouenPoints["vf"]

	fromDegrees := Distance(a[0], a[1], b[0], b[1])
	fromRadians := DistanceRadians(ToRadians(a[0]), ToRadians(a[1]), ToRadians(b[0]), ToRadians(b[1]))

	assert.Equal(t, fromDegrees, fromRadians)
}

func TestDegreesRadiansRoundTrip(t *testing.T) {
	for _, deg := range []float64{-180, -90, -1.5, 0, 1.1128162664422916, 49.44, 180} {
		assert.InDelta(t, deg, ToDegrees(ToRadians(deg)), 1e-12)
	}
}
