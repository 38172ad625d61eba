package models

import "strings"

// DockType is the kind of cycle parking furniture, as stored in cycle_stops.cycle_type
type DockType int

const (
	DockUnknown  DockType = -1
	DockArceau   DockType = 0 // Bike stand
	DockParc     DockType = 1 // Sheltered bike park
	DockPotelet  DockType = 2 // Bollard
	DockRatelier DockType = 3 // Bike rack
	DockLovelo   DockType = 4 // Lovélo bike-share station
)

// dockTypeNames maps dock types to the furniture names used by the
// Métropole Rouen Normandie cycling dataset
var dockTypeNames = map[DockType]string{
	DockArceau:   "ARCEAU",
	DockParc:     "PARC",
	DockPotelet:  "POTELET",
	DockRatelier: "RATELIER",
	DockLovelo:   "LOVELO",
}

// String returns the furniture name, or "UNKNOWN" for unrecognized codes
func (t DockType) String() string {
	if name, ok := dockTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseDockType maps a furniture name ("ARCEAU", "parc", ...) to its code.
// Anything else returns DockUnknown.
func ParseDockType(mobilier string) DockType {
	mobilier = strings.ToUpper(strings.TrimSpace(mobilier))
	for t, name := range dockTypeNames {
		if name == mobilier {
			return t
		}
	}
	return DockUnknown
}
