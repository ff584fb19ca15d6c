// Package palette resolves display colors for categories, flows and legend
// entries of the flow diagram.
//
// Category colors follow each service's brand color. Names missing from the
// table get [Fallback]. Flow colors are translucent so overlapping flows stay
// readable; only flows leaving an "Unknown" node at the resolution boundary
// are colored by the phase that resolved them.
package palette

import (
	"github.com/matzehuels/stageflow/pkg/flow"
)

// Fallback is the neutral color for categories missing from the table.
const Fallback = "#7F8C8D"

// NeutralLink is the color of every flow not colored by phase.
const NeutralLink = "rgba(189, 195, 199, 0.3)"

var categories = map[string]string{
	"NULL":                  "#C0C0C0",
	"Linear TV":             "#E74C3C",
	"Unknown":               "#95A5A6",
	"Paramount+":            "#0064FF",
	"Netflix":               "#E50914",
	"Amazon Prime":          "#00A8E1",
	"Hulu":                  "#1CE783",
	"Disney+":               "#113CCF",
	"Apple TV+":             "#000000",
	"HBO Max":               "#9D4EDD",
	"Google Play Store":     "#4285F4",
	"Dish":                  "#F77F00",
	"Xfinity Stream":        "#990000",
	"YouTube":               "#FF0000",
	"YouTube Premium":       "#FF0000",
	"YouTube TV":            "#FF0000",
	"Plex":                  "#E5A00D",
	"Fubo":                  "#FF6600",
	"Peacock":               "#000000",
	"Microsoft Movies & TV": "#00A4EF",
	"Spectrum On Demand":    "#0476D9",
	"Vudu":                  "#0088CC",
	"Optimum TV":            "#002D5C",
	"Sling TV":              "#0061FF",
	"CBS":                   "#000080",
}

// Resolve returns the display color of a category.
func Resolve(name string) string {
	if c, ok := categories[name]; ok {
		return c
	}
	return Fallback
}

// Known reports whether name has its own entry in the color table.
func Known(name string) bool {
	_, ok := categories[name]
	return ok
}

// phaseLinks colors flows leaving "Unknown" at the resolution boundary.
var phaseLinks = map[flow.Phase]string{
	flow.Phase1:  "rgba(46, 204, 113, 0.5)",
	flow.Phase2A: "rgba(52, 152, 219, 0.5)",
	flow.Phase2B: "rgba(155, 89, 182, 0.5)",
}

// Link returns the color of a flow between stage pair and pair+1.
//
// Only the resolution boundary (pair 3) with an "Unknown" source is colored by
// phase; PhaseNone and every other pair get NeutralLink.
func Link(pair int, source string, phase flow.Phase) string {
	if pair != flow.ResolutionPair || source != flow.Unknown {
		return NeutralLink
	}
	if c, ok := phaseLinks[phase]; ok {
		return c
	}
	return NeutralLink
}

var legendColors = map[flow.Phase]string{
	flow.Phase1:  "#2ECC71",
	flow.Phase2A: "#3498DB",
	flow.Phase2B: "#9B59B6",
}

// LegendDetail is the color of legend description lines.
const LegendDetail = "#666666"

// HeaderText is the color of stage header annotations.
const HeaderText = "#2C3E50"

// Legend returns the solid legend color for a resolved phase, or Fallback.
func Legend(p flow.Phase) string {
	if c, ok := legendColors[p]; ok {
		return c
	}
	return Fallback
}
