package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/nearby-rouen/nearby/internal/geo"
)

// UnnamedGroup is the grouping key of facilities without a display name
const UnnamedGroup = ""

// StationPoint is one route serving a stop
type StationPoint struct {
	Name     string `json:"name"`      // Route short name
	LongName string `json:"long_name"` // Route long name
	School   bool   `json:"school"`
	Type     string `json:"type"` // Operator label, see GetOperatorLabel

	Coordinate
}

// CyclePoint is one cycle dock, annotated with its direction from the query point
type CyclePoint struct {
	ID        string        `json:"id"`
	Name      *string       `json:"name"`
	Type      DockType      `json:"type"`
	TypeName  string        `json:"type_name"`
	Free      bool          `json:"free"`
	Distance  int           `json:"distance"`
	Direction geo.Direction `json:"direction"`

	Coordinate
}

// Group accumulates the points sharing a display name. DistanceMin and
// DistanceMax are folded over every point ever added.
type Group[P any] struct {
	Points      []P `json:"points"`
	DistanceMin int `json:"distance_min"`
	DistanceMax int `json:"distance_max"`
}

func (g *Group[P]) add(point P, distance int) {
	if len(g.Points) == 0 {
		g.DistanceMin = distance
		g.DistanceMax = distance
	}
	g.DistanceMin = min(g.DistanceMin, distance)
	g.DistanceMax = max(g.DistanceMax, distance)
	g.Points = append(g.Points, point)
}

// GroupedResults maps display names to groups, remembering the order in which
// names were first seen. It encodes to a JSON object with keys in that order.
type GroupedResults[P any] struct {
	keys   []string
	groups map[string]*Group[P]
}

// NewGroupedResults creates an empty result set
func NewGroupedResults[P any]() *GroupedResults[P] {
	return &GroupedResults[P]{groups: make(map[string]*Group[P])}
}

// Add appends a point to the group named key, creating the group if needed
func (r *GroupedResults[P]) Add(key string, point P, distance int) {
	g, ok := r.groups[key]
	if !ok {
		g = &Group[P]{}
		r.groups[key] = g
		r.keys = append(r.keys, key)
	}
	g.add(point, distance)
}

// Len returns the number of groups
func (r *GroupedResults[P]) Len() int {
	return len(r.keys)
}

// Keys returns the group names in insertion order
func (r *GroupedResults[P]) Keys() []string {
	return slices.Clone(r.keys)
}

// Get returns a copy of the group named key
func (r *GroupedResults[P]) Get(key string) (Group[P], bool) {
	g, ok := r.groups[key]
	if !ok {
		return Group[P]{}, false
	}
	return Group[P]{
		Points:      slices.Clone(g.Points),
		DistanceMin: g.DistanceMin,
		DistanceMax: g.DistanceMax,
	}, true
}

// MarshalJSON encodes the groups as an object keyed by name, in insertion order
func (r *GroupedResults[P]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.groups[key])
		if err != nil {
			return nil, fmt.Errorf("failed to encode group %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object produced by MarshalJSON, keeping key order
func (r *GroupedResults[P]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("grouped results: expected object, got %v", tok)
	}

	r.keys = nil
	r.groups = make(map[string]*Group[P])

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("grouped results: expected key, got %v", tok)
		}

		var g Group[P]
		if err := dec.Decode(&g); err != nil {
			return fmt.Errorf("grouped results: group %q: %w", key, err)
		}
		if _, dup := r.groups[key]; !dup {
			r.keys = append(r.keys, key)
		}
		r.groups[key] = &g
	}

	_, err = dec.Token()
	return err
}
