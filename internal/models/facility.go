package models

// Coordinate is a WGS84 position in degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StationRecord is one (stop, route) candidate returned by a proximity search.
// A stop served by several routes yields one record per route.
type StationRecord struct {
	ID             string `json:"id"`       // "AST-TEOR3", prefix identifies the operator
	StopName       string `json:"stopName"` // Display name, used as the grouping key
	RouteShortName string `json:"routeShortName"`
	RouteLongName  string `json:"routeLongName"`
	School         bool   `json:"school"` // Route only runs as a school service

	Coordinate

	Distance float64 `json:"distance"` // Meters from the query point
}

// CycleDockRecord is one cycle parking or bike-share station returned by a
// proximity search
type CycleDockRecord struct {
	ID   string  `json:"id"`
	Name *string `json:"name"` // Only bike-share stations are named

	Type DockType `json:"type"`
	Free bool     `json:"free"` // Free access, as opposed to a paid service

	Coordinate

	Distance float64 `json:"distance"` // Meters from the query point
}

// DisplayName returns the dock name, or an empty string when it has none
func (r CycleDockRecord) DisplayName() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}
