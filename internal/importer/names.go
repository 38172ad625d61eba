package importer

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.French)

// NormalizeName title-cases an upper-case dataset label such as
// "THEATRE DES ARTS" and collapses runs of whitespace
func NormalizeName(name string) string {
	return titleCaser.String(collapseSpaces(name))
}
