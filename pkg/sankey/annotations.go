package sankey

import (
	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/palette"
)

const fontFamily = "Arial"

// StageTitles are the column headers, one per stage.
var StageTitles = [flow.StageCount]string{
	"Stage 1: Raw Input",
	"Stage 2: Linear Reassignment\n(MVPD + Daily Detection)",
	"Stage 3: PPV Detection\n& Freevee Isolation",
	"Stage 4: APV Addon\n& Disney/Hulu Assignment",
	"Stage 5: Unknown Resolution\n(User-Specific & Population)",
}

type legendEntry struct {
	phase   flow.Phase
	lead    string
	title   string
	detail  string
	y       float64
	detailY float64
}

var legendEntries = []legendEntry{
	{flow.Phase1, "Phase 1:", "User-Specific History", "(Individual viewing for this title/season)", 0.54, 0.515},
	{flow.Phase2A, "Phase 2A:", "User Preferences + Title Patterns", "(General user behavior + population data)", 0.48, 0.455},
	{flow.Phase2B, "Phase 2B:", "Population Patterns Only", "(No user data available)", 0.42, 0.395},
}

// Headers returns the stage header annotations placed just above the plot.
func Headers() []Annotation {
	out := make([]Annotation, flow.StageCount)
	for i, title := range StageTitles {
		out[i] = Annotation{
			Text:    title,
			Bold:    true,
			X:       float64(i) / float64(flow.StageCount-1),
			Y:       1.015,
			XAnchor: "center",
			YAnchor: "bottom",
			Font:    Font{Size: 10, Color: palette.HeaderText, Family: fontFamily},
		}
	}
	return out
}

// Legend returns the phase legend placed right of the plot: a title and a
// description line per resolved phase.
func Legend() []Annotation {
	out := make([]Annotation, 0, 2*len(legendEntries))
	for _, e := range legendEntries {
		out = append(out,
			Annotation{
				Lead:    e.lead,
				Text:    e.title,
				X:       1.02,
				Y:       e.y,
				XAnchor: "left",
				Font:    Font{Size: 10, Color: palette.Legend(e.phase), Family: fontFamily},
			},
			Annotation{
				Text:    e.detail,
				X:       1.02,
				Y:       e.detailY,
				XAnchor: "left",
				Font:    Font{Size: 8, Color: palette.LegendDetail, Family: fontFamily},
			},
		)
	}
	return out
}
