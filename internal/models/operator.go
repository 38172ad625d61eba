package models

import "strings"

// UnknownOperator is the label of identifiers without a known prefix
const UnknownOperator = "unknown"

// OperatorLabels maps identifier prefixes to the operator they were imported from.
// Extend it when a new GTFS feed is imported under a new prefix.
var OperatorLabels = map[string]string{
	"AST": "astuce",  // Réseau Astuce (Métropole Rouen Normandie)
	"ATM": "atoumod", // AtouMod (Région Normandie)
	"FLX": "flixbus", // FlixBus
}

// GetOperatorLabel returns the operator label for an identifier such as
// "ATM-12345". The prefix is everything before the first dash.
func GetOperatorLabel(id string) string {
	prefix, _, found := strings.Cut(id, "-")
	if !found {
		return UnknownOperator
	}
	if label, ok := OperatorLabels[prefix]; ok {
		return label
	}
	return UnknownOperator
}
