package sankey

import (
	"github.com/matzehuels/stageflow/pkg/flow"
)

// Node is a distinct category value at one stage.
type Node struct {
	Index  int     `json:"index" bson:"index"`
	Stage  int     `json:"stage" bson:"stage"`
	Rank   int     `json:"rank" bson:"rank"`
	Label  string  `json:"label" bson:"label"`
	Color  string  `json:"color" bson:"color"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Weight float64 `json:"weight" bson:"weight"`
}

// Edge is a weighted transition from a node at stage i to a node at stage i+1.
type Edge struct {
	Source int        `json:"source" bson:"source"`
	Target int        `json:"target" bson:"target"`
	Weight float64    `json:"weight" bson:"weight"`
	Color  string     `json:"color" bson:"color"`
	Phase  flow.Phase `json:"phase" bson:"phase"`
}

// Font describes annotation text styling.
type Font struct {
	Size   int    `json:"size" bson:"size"`
	Color  string `json:"color" bson:"color"`
	Family string `json:"family" bson:"family"`
}

// Annotation is static text placed in normalized paper coordinates, where
// (0,0)-(1,1) is the plot area. Bold applies to the whole text; Lead is an
// emphasized prefix rendered before Text.
type Annotation struct {
	Lead    string  `json:"lead,omitempty" bson:"lead,omitempty"`
	Text    string  `json:"text" bson:"text"`
	Bold    bool    `json:"bold,omitempty" bson:"bold,omitempty"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	XAnchor string  `json:"xanchor" bson:"xanchor"`
	YAnchor string  `json:"yanchor,omitempty" bson:"yanchor,omitempty"`
	Font    Font    `json:"font" bson:"font"`
}

// Stats summarizes a build.
type Stats struct {
	Records     int     `json:"records" bson:"records"`
	Shown       int     `json:"shown" bson:"shown"`
	TotalWeight float64 `json:"total_weight" bson:"total_weight"`
	Crossings   int     `json:"crossings" bson:"crossings"`
}

// Graph is the drawable flow diagram.
type Graph struct {
	Nodes   []Node       `json:"nodes" bson:"nodes"`
	Edges   []Edge       `json:"edges" bson:"edges"`
	Headers []Annotation `json:"headers" bson:"headers"`
	Legend  []Annotation `json:"legend" bson:"legend"`
	Stats   Stats        `json:"stats" bson:"stats"`
}

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.Nodes) == 0 }

// NodesInStage returns the nodes of one stage in rank order.
func (g *Graph) NodesInStage(stage int) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Stage == stage {
			out = append(out, n)
		}
	}
	return out
}

// Outgoing returns the edges leaving node index in emission order.
func (g *Graph) Outgoing(index int) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == index {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering node index in emission order.
func (g *Graph) Incoming(index int) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Target == index {
			out = append(out, e)
		}
	}
	return out
}
