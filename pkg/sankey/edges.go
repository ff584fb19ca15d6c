package sankey

import (
	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/palette"
)

// BuildEdges emits one edge per record between stage pair and pair+1, in
// record order. A category missing from idx is an internal consistency
// failure: nodes and edges derive from the same records, so it only happens
// when the index was built from different input.
func BuildEdges(pair int, records []flow.Record, idx Index) ([]Edge, error) {
	edges := make([]Edge, 0, len(records))
	for i, r := range records {
		from, to := r.Stages[pair], r.Stages[pair+1]

		src, ok := idx.Lookup(pair, from)
		if !ok {
			return nil, errors.New(errors.ErrCodeInternalConsistency,
				"record %d: no node for %q at stage %d", i, from, pair+1)
		}
		dst, ok := idx.Lookup(pair+1, to)
		if !ok {
			return nil, errors.New(errors.ErrCodeInternalConsistency,
				"record %d: no node for %q at stage %d", i, to, pair+2)
		}

		edges = append(edges, Edge{
			Source: src,
			Target: dst,
			Weight: r.Weight,
			Color:  palette.Link(pair, from, r.Phase),
			Phase:  r.Phase,
		})
	}
	return edges, nil
}
