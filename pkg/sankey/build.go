package sankey

import (
	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
)

// Options configures Build.
type Options struct {
	// TopN limits the build to the first TopN records. Zero means
	// flow.DefaultTopN; negative values are rejected.
	TopN int `json:"top_n,omitempty"`
}

// Build turns flow records into a diagram.
//
// Records must be in descending weight order; Build keeps the first TopN of
// them without re-sorting. All records are validated first and any invalid
// record fails the build with INVALID_RECORD. The input slice is not modified.
func Build(records []flow.Record, opts Options) (*Graph, error) {
	topN := opts.TopN
	if topN == 0 {
		topN = flow.DefaultTopN
	}
	if err := errors.ValidateTopN(topN); err != nil {
		return nil, err
	}
	if err := flow.ValidateAll(records); err != nil {
		return nil, err
	}

	shown := flow.Limit(records, topN)
	flow.SortByPhase(shown)

	g := &Graph{
		Nodes:   []Node{},
		Edges:   make([]Edge, 0, len(shown)*flow.PairCount),
		Headers: Headers(),
		Legend:  Legend(),
	}

	idx := make(Index)
	for stage := range flow.StageCount {
		nodes := BuildNodes(stage, len(g.Nodes), shown)
		idx.Add(nodes...)
		g.Nodes = append(g.Nodes, nodes...)
	}

	for pair := range flow.PairCount {
		edges, err := BuildEdges(pair, shown, idx)
		if err != nil {
			return nil, err
		}
		g.Edges = append(g.Edges, edges...)
	}

	g.Stats = Stats{
		Records:     len(records),
		Shown:       len(shown),
		TotalWeight: flow.TotalWeight(shown),
		Crossings:   CountCrossings(g),
	}
	return g, nil
}
