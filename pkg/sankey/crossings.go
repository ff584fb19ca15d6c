package sankey

import (
	"slices"
)

// CountCrossings returns the number of edge crossings in g given the vertical
// node order of each stage. Two edges between the same stage pair cross when
// one starts above the other but ends below it; edges sharing a source or a
// target never cross.
func CountCrossings(g *Graph) int {
	if len(g.Edges) < 2 {
		return 0
	}

	byIndex := make(map[int]Node, len(g.Nodes))
	width := 0
	for _, n := range g.Nodes {
		byIndex[n.Index] = n
		width = max(width, n.Rank+1)
	}

	pairs := make(map[int][]rankPair)
	for _, e := range g.Edges {
		src, dst := byIndex[e.Source], byIndex[e.Target]
		pairs[src.Stage] = append(pairs[src.Stage], rankPair{src.Rank, dst.Rank})
	}

	crossings := 0
	for _, edges := range pairs {
		crossings += countInversions(edges, width)
	}
	return crossings
}

type rankPair struct{ upper, lower int }

// countInversions counts pairs with upper1 < upper2 and lower1 > lower2
// using a Fenwick tree over lower ranks.
func countInversions(edges []rankPair, width int) int {
	if len(edges) < 2 {
		return 0
	}

	edges = slices.Clone(edges)
	slices.SortFunc(edges, func(a, b rankPair) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, width+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for q := e.lower + 1; q <= width; q += q & (-q) {
			fenwick[q]++
		}
	}
	return crossings
}
