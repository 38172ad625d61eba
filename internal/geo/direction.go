package geo

import (
	"fmt"
	"math"
)

// Direction is a compass octant, or None. The north/south axis and the
// east/west axis each own a pair of bits and a Direction is the OR of at most
// one bit from each pair.
type Direction uint8

const (
	None  Direction = 0
	North Direction = 1
	South Direction = 2
	East  Direction = 4
	West  Direction = 8

	NorthEast = North | East
	SouthEast = South | East
	SouthWest = South | West
	NorthWest = North | West
)

const (
	northSouthMask = North | South
	eastWestMask   = East | West
)

// MinClassifyDistance is the distance in meters under which two points are
// considered too close to have a heading.
const MinClassifyDistance = 5.0

// sinHalfSector splits the compass in 8 sectors of 45 degrees.
var sinHalfSector = math.Sin(ToRadians(45.0 / 2))

var directionCodes = map[Direction]string{
	None:      "",
	North:     "N",
	NorthEast: "NE",
	East:      "E",
	SouthEast: "SE",
	South:     "S",
	SouthWest: "SW",
	West:      "W",
	NorthWest: "NW",
}

// Classify returns the direction of point 2 as seen from point 1, both in
// degrees.
//
// Each axis deviation is approximated independently as
// asin(delta) * EarthDiameterMeters / distance instead of computing a true
// bearing. Results for points more than a few kilometers apart are not
// meaningful, but the sector boundaries match the historical output.
func Classify(lat1, lon1, lat2, lon2 float64) Direction {
	phi1, lambda1 := ToRadians(lat1), ToRadians(lon1)
	phi2, lambda2 := ToRadians(lat2), ToRadians(lon2)

	distance := DistanceRadians(phi1, lambda1, phi2, lambda2)
	if distance < MinClassifyDistance {
		return None
	}

	latDeviation := math.Asin(phi2-phi1) * EarthDiameterMeters / distance
	lonDeviation := math.Asin(lambda2-lambda1) * EarthDiameterMeters / distance

	return Compose(
		axisDirection(latDeviation, North, South),
		axisDirection(lonDeviation, East, West),
	)
}

func axisDirection(deviation float64, positive, negative Direction) Direction {
	switch {
	case deviation > sinHalfSector:
		return positive
	case deviation < -sinHalfSector:
		return negative
	default:
		return None
	}
}

// Compose combines a north/south component with an east/west component.
// Bits belonging to the wrong axis are dropped.
func Compose(northSouth, eastWest Direction) Direction {
	d := northSouth&northSouthMask | eastWest&eastWestMask
	if !d.Valid() {
		return None
	}
	return d
}

// Valid reports whether d is one of the nine defined states
func (d Direction) Valid() bool {
	_, ok := directionCodes[d]
	return ok
}

// String returns the compass code ("N", "SW", ...) or "NONE"
func (d Direction) String() string {
	if d == None {
		return "NONE"
	}
	if code, ok := directionCodes[d]; ok {
		return code
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// MarshalText encodes None as an empty string and other states as their code
func (d Direction) MarshalText() ([]byte, error) {
	code, ok := directionCodes[d]
	if !ok {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(code), nil
}

// UnmarshalText is the inverse of MarshalText
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection parses a compass code. The empty string and "NONE" are None.
func ParseDirection(code string) (Direction, error) {
	if code == "NONE" {
		return None, nil
	}
	for d, c := range directionCodes {
		if c == code {
			return d, nil
		}
	}
	return None, fmt.Errorf("unknown direction %q", code)
}
