// Package risk maps risk levels to display metadata and turns server
// identifiers into human-readable labels.
package risk

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Iron-Ham/contractlens/internal/contract"
)

// Meta is the display metadata for one risk level.
type Meta struct {
	Label string
	// Class is a stable style key used by themes and JSON output.
	Class string
	// Icon is a short glyph shown before the label in badges.
	Icon string
}

var taxonomy = map[contract.RiskLevel]Meta{
	contract.RiskLow:    {Label: "Low", Class: "risk-low", Icon: "●"},
	contract.RiskMedium: {Label: "Medium", Class: "risk-medium", Icon: "▲"},
	contract.RiskHigh:   {Label: "High", Class: "risk-high", Icon: "■"},
}

// unknownMeta is used for absent or unrecognized levels.
var unknownMeta = Meta{Label: "Unknown", Class: "risk-unknown", Icon: "?"}

// For returns the display metadata for level.
func For(level contract.RiskLevel) Meta {
	if m, ok := taxonomy[level]; ok {
		return m
	}
	return unknownMeta
}

// title returns a fresh caser; casers carry state and are not shared.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// Label converts an identifier such as "missing_termination-clause" into
// "Missing Termination Clause".
func Label(identifier string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ").Replace(identifier)
	fields := strings.Fields(replaced)
	if len(fields) == 0 {
		return ""
	}
	return title(strings.Join(fields, " "))
}

// Title title-cases free text such as a contract type.
func Title(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return title(s)
}
