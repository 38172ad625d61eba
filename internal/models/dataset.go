package models

import (
	"strings"
	"time"
)

// Dataset status constants
const (
	DatasetReady = "ready" // At least one stop or cycle dock
	DatasetEmpty = "empty"
)

// SourceLabels maps identifier prefixes to the dataset source they were
// imported from. Transit operators share OperatorLabels.
var SourceLabels = map[string]string{
	"AST": OperatorLabels["AST"],
	"ATM": OperatorLabels["ATM"],
	"FLX": OperatorLabels["FLX"],
	"CYC": "cycling", // Métropole cycle parking
	"LOV": "lovelo",  // Lovélo bike share
}

// GetSourceLabel returns the source label for an identifier prefix such as "LOV"
func GetSourceLabel(prefix string) string {
	if label, ok := SourceLabels[strings.ToUpper(prefix)]; ok {
		return label
	}
	return UnknownOperator
}

// SourceSummary counts the rows imported from one source
type SourceSummary struct {
	Source     string `json:"source"`
	Stops      int    `json:"stops"`
	Routes     int    `json:"routes"`
	CycleDocks int    `json:"cycleDocks"`
}

// DatasetSummary describes what the facility dataset contains
type DatasetSummary struct {
	Status    string          `json:"status"`
	Sources   []SourceSummary `json:"sources"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// NewDatasetSummary creates an empty summary
func NewDatasetSummary(checkedAt time.Time) *DatasetSummary {
	return &DatasetSummary{
		Status:    DatasetEmpty,
		Sources:   []SourceSummary{},
		CheckedAt: checkedAt,
	}
}

// Add records count rows of table ("stops", "routes" or "cycle_stops")
// imported under prefix. Sources keep the order they were first added in.
func (d *DatasetSummary) Add(table, prefix string, count int) {
	label := GetSourceLabel(prefix)

	i := 0
	for i < len(d.Sources) && d.Sources[i].Source != label {
		i++
	}
	if i == len(d.Sources) {
		d.Sources = append(d.Sources, SourceSummary{Source: label})
	}

	switch table {
	case "stops":
		d.Sources[i].Stops += count
	case "routes":
		d.Sources[i].Routes += count
	case "cycle_stops":
		d.Sources[i].CycleDocks += count
	}

	if count > 0 && table != "routes" {
		d.Status = DatasetReady
	}
}
