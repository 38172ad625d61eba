package geo

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// boundsMargin widens search rectangles by roughly 6 mm so that points lying
// exactly on the search circle are never pruned by rounding.
const boundsMargin = 1e-9

// Bounds is a latitude/longitude rectangle in radians
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains checks whether a point in radians lies inside the rectangle
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// SearchBounds returns a rectangle, in radians, containing every point whose
// Distance to (lat, lon) is at most maxDistance meters. It is only ever a
// superset of the search circle: storage queries use it to prune candidates
// through the coordinate index and still apply the exact distance filter.
//
// When the circle crosses the antimeridian or covers a pole, the longitude
// range is the whole [-pi, pi] interval.
func SearchBounds(lat, lon, maxDistance float64) Bounds {
	angle := math.Min(math.Pi, 2*maxDistance/EarthDiameterMeters)

	center := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	rect := s2.CapFromCenterAngle(center, s1.Angle(angle)).RectBound()
	rect = rect.Expanded(s2.LatLng{Lat: s1.Angle(boundsMargin), Lng: s1.Angle(boundsMargin)})

	bounds := Bounds{
		MinLat: rect.Lat.Lo,
		MaxLat: rect.Lat.Hi,
		MinLon: -math.Pi,
		MaxLon: math.Pi,
	}
	if !rect.Lng.IsFull() && !rect.Lng.IsInverted() {
		bounds.MinLon = rect.Lng.Lo
		bounds.MaxLon = rect.Lng.Hi
	}

	return bounds
}

// IsValidLatLon returns true if the latitude and longitude, in degrees, are
// finite and within [-90, 90] and [-180, 180].
func IsValidLatLon(lat, lon float64) bool {
	if math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}
