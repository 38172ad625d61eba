package geo

import "math"

// EarthDiameterMeters is the sphere diameter used by Distance, Classify and by
// every storage query that filters candidates by distance. The range filter
// and the recomputed distances only agree as long as all of them use it.
const EarthDiameterMeters = 12742000

// ToRadians converts an angle from degrees to radians
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ToDegrees converts an angle from radians to degrees
func ToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Distance returns the haversine distance in meters between two points
// expressed in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceRadians(ToRadians(lat1), ToRadians(lon1), ToRadians(lat2), ToRadians(lon2))
}

// DistanceRadians is Distance for coordinates already converted to radians.
// The SQLite backend registers it as the nearby_distance SQL function.
func DistanceRadians(lat1, lon1, lat2, lon2 float64) float64 {
	sinDeltaLat := math.Sin((lat2 - lat1) / 2)
	sinDeltaLon := math.Sin((lon2 - lon1) / 2)

	h := sinDeltaLat*sinDeltaLat +
		math.Cos(lat1)*math.Cos(lat2)*sinDeltaLon*sinDeltaLon

	// Rounding can push h a hair above 1 for antipodal points
	return EarthDiameterMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
