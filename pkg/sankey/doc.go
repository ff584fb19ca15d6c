// Package sankey builds drawable flow diagrams from aggregated stage records.
//
// # Overview
//
// The diagram is a ranked multipartite graph: one column of nodes per stage,
// one node per distinct category observed at that stage, and one edge per
// record and consecutive stage pair. [Build] runs the whole transform:
//
//  1. Validate every record (any invalid record rejects the build)
//  2. Keep the first TopN records ([flow.Limit])
//  3. Order records by phase priority, then weight ([flow.SortByPhase])
//  4. Build nodes stage by stage ([BuildNodes])
//  5. Build edges pair by pair ([BuildEdges])
//  6. Attach the fixed stage headers and phase legend
//
// The transform is pure and deterministic: identical input yields an
// identical [Graph], down to node indices, positions and edge order.
//
// # Nodes
//
// Node identity is (stage, label). The same category appearing at two stages
// produces two distinct nodes. Within a stage nodes are ordered by total
// weight descending, ties keeping first-encounter order, and spread evenly
// between y=0.05 and y=0.95. Stage columns sit at x = stage/4.
//
// The sentinels "NULL" and "Unknown" are regular labels and always render.
//
// # Edges
//
// Edges are never merged: two records sharing a transition produce two
// parallel edges and the renderer sums them visually. Edges leaving an
// "Unknown" node at the resolution boundary (stage 4 to 5) are colored by the
// record's phase; all other edges use a neutral color.
//
// # Errors
//
// Invalid records fail with INVALID_RECORD. An edge endpoint missing from the
// node index fails with INTERNAL_CONSISTENCY; it indicates a bug, never bad
// data. An empty record set is not an error and yields an empty graph.
package sankey
