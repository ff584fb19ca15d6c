package sankey

import (
	"cmp"
	"slices"

	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/palette"
)

const (
	yTop  = 0.05
	ySpan = 0.9
)

type nodeKey struct {
	stage int
	label string
}

// Index maps (stage, label) to a global node index.
type Index map[nodeKey]int

// Add registers nodes in the index.
func (idx Index) Add(nodes ...Node) {
	for _, n := range nodes {
		idx[nodeKey{n.Stage, n.Label}] = n.Index
	}
}

// Lookup returns the node index of label at stage.
func (idx Index) Lookup(stage int, label string) (int, bool) {
	i, ok := idx[nodeKey{stage, label}]
	return i, ok
}

type total struct {
	label  string
	weight float64
}

// stageTotals groups records by their category at stage and sums weights,
// keeping first-encounter order.
func stageTotals(stage int, records []flow.Record) []total {
	pos := make(map[string]int)
	var totals []total
	for _, r := range records {
		label := r.Stages[stage]
		i, ok := pos[label]
		if !ok {
			i = len(totals)
			pos[label] = i
			totals = append(totals, total{label: label})
		}
		totals[i].weight += r.Weight
	}
	return totals
}

// BuildNodes builds the nodes of one stage. Indices start at start and
// increase with rank. Nodes are ranked by total weight descending; ties keep
// the order in which categories first appear in records.
func BuildNodes(stage, start int, records []flow.Record) []Node {
	totals := stageTotals(stage, records)
	slices.SortStableFunc(totals, func(a, b total) int {
		return cmp.Compare(b.weight, a.weight)
	})

	n := len(totals)
	step := ySpan / float64(max(n-1, 1))
	x := float64(stage) / float64(flow.StageCount-1)

	nodes := make([]Node, n)
	for r, t := range totals {
		nodes[r] = Node{
			Index:  start + r,
			Stage:  stage,
			Rank:   r,
			Label:  t.label,
			Color:  palette.Resolve(t.label),
			X:      x,
			Y:      yTop + float64(r)*step,
			Weight: t.weight,
		}
	}
	return nodes
}
