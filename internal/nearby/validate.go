package nearby

import (
	"fmt"
	"math"

	"github.com/nearby-rouen/nearby/internal/geo"
)

// ValidateQuery checks a search point in degrees and a radius in meters
func ValidateQuery(lat, lon, maxDistance float64) error {
	if !geo.IsValidLatLon(lat, lon) {
		return fmt.Errorf("%w: coordinates out of range: (%v, %v)", ErrInvalidArgument, lat, lon)
	}
	if math.IsNaN(maxDistance) || math.IsInf(maxDistance, 0) || maxDistance <= 0 {
		return fmt.Errorf("%w: search radius must be a positive number of meters, got %v", ErrInvalidArgument, maxDistance)
	}
	return nil
}
