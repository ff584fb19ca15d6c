package plotly

import (
	"encoding/json"
	"html"
	"strings"

	"github.com/matzehuels/stageflow/pkg/sankey"
)

// Layout constants of the exported figure.
const (
	NodePad       = 15
	NodeThickness = 20
	Height        = 800
	LabelSize     = 11
	FontFamily    = "Arial"
)

// Figure is a Plotly figure with a single sankey trace.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a Plotly sankey trace.
type Trace struct {
	Type        string `json:"type"`
	Arrangement string `json:"arrangement"`
	Node        Nodes  `json:"node"`
	Link        Links  `json:"link"`
	TextFont    Font   `json:"textfont"`
}

// Nodes holds the parallel node arrays of a sankey trace.
type Nodes struct {
	Pad           int       `json:"pad"`
	Thickness     int       `json:"thickness"`
	Line          Line      `json:"line"`
	Label         []string  `json:"label"`
	Color         []string  `json:"color"`
	X             []float64 `json:"x"`
	Y             []float64 `json:"y"`
	HoverTemplate string    `json:"hovertemplate"`
}

// Links holds the parallel link arrays of a sankey trace.
type Links struct {
	Source []int     `json:"source"`
	Target []int     `json:"target"`
	Value  []float64 `json:"value"`
	Color  []string  `json:"color"`
}

type Line struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type Font struct {
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Family string `json:"family,omitempty"`
}

type Margin struct {
	T int `json:"t"`
	B int `json:"b"`
	L int `json:"l"`
	R int `json:"r"`
}

// Annotation is a Plotly layout annotation in paper coordinates.
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	ShowArrow bool    `json:"showarrow"`
	XAnchor   string  `json:"xanchor,omitempty"`
	YAnchor   string  `json:"yanchor,omitempty"`
	Align     string  `json:"align,omitempty"`
	Font      Font    `json:"font"`
}

// Layout is the Plotly figure layout.
type Layout struct {
	Font         Font         `json:"font"`
	Height       int          `json:"height"`
	PlotBGColor  string       `json:"plot_bgcolor"`
	PaperBGColor string       `json:"paper_bgcolor"`
	Margin       Margin       `json:"margin"`
	Annotations  []Annotation `json:"annotations"`
}

// FromGraph converts a flow diagram to a Plotly figure. Node labels are
// HTML-escaped and forced black; annotation line breaks become <br>.
func FromGraph(g *sankey.Graph) *Figure {
	n := Nodes{
		Pad:           NodePad,
		Thickness:     NodeThickness,
		Line:          Line{Color: "rgba(0,0,0,0)", Width: 0},
		Label:         make([]string, len(g.Nodes)),
		Color:         make([]string, len(g.Nodes)),
		X:             make([]float64, len(g.Nodes)),
		Y:             make([]float64, len(g.Nodes)),
		HoverTemplate: "%{label}<br>%{value:,.0f}<extra></extra>",
	}
	for i, node := range g.Nodes {
		n.Label[i] = `<span style="color:black">` + html.EscapeString(node.Label) + `</span>`
		n.Color[i] = node.Color
		n.X[i] = node.X
		n.Y[i] = node.Y
	}

	l := Links{
		Source: make([]int, len(g.Edges)),
		Target: make([]int, len(g.Edges)),
		Value:  make([]float64, len(g.Edges)),
		Color:  make([]string, len(g.Edges)),
	}
	for i, e := range g.Edges {
		l.Source[i] = e.Source
		l.Target[i] = e.Target
		l.Value[i] = e.Weight
		l.Color[i] = e.Color
	}

	anns := make([]Annotation, 0, len(g.Headers)+len(g.Legend))
	for _, a := range g.Headers {
		anns = append(anns, annotation(a))
	}
	for _, a := range g.Legend {
		anns = append(anns, annotation(a))
	}

	return &Figure{
		Data: []Trace{{
			Type:        "sankey",
			Arrangement: "snap",
			Node:        n,
			Link:        l,
			TextFont:    Font{Size: LabelSize, Color: "black", Family: FontFamily},
		}},
		Layout: Layout{
			Font:         Font{Size: LabelSize, Color: "black", Family: FontFamily},
			Height:       Height,
			PlotBGColor:  "white",
			PaperBGColor: "white",
			Margin:       Margin{T: 60, B: 50, L: 50, R: 250},
			Annotations:  anns,
		},
	}
}

func annotation(a sankey.Annotation) Annotation {
	text := strings.ReplaceAll(html.EscapeString(a.Text), "\n", "<br>")
	if a.Bold {
		text = "<b>" + text + "</b>"
	}
	if a.Lead != "" {
		text = "<b>" + html.EscapeString(a.Lead) + "</b> " + text
	}
	align := ""
	if a.XAnchor == "center" {
		align = "center"
	}
	return Annotation{
		Text:      text,
		X:         a.X,
		Y:         a.Y,
		XRef:      "paper",
		YRef:      "paper",
		ShowArrow: false,
		XAnchor:   a.XAnchor,
		YAnchor:   a.YAnchor,
		Align:     align,
		Font:      Font{Size: a.Font.Size, Color: a.Font.Color, Family: a.Font.Family},
	}
}

// JSON returns the figure as indented JSON.
func (f *Figure) JSON() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}
