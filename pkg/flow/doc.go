// Package flow defines the input side of the flow diagram engine: aggregated
// multi-stage path records, their classification phases, and the rank limiter.
//
// # Records
//
// A [Record] is one distinct path of category values through the five stages
// of the assignment pipeline, together with the aggregated weight of all
// items that followed it and the [Phase] that resolved its final stage:
//
//	r := flow.Record{
//	    Stages: [flow.StageCount]string{"NULL", "Netflix", "Netflix", "Unknown", "Hulu"},
//	    Phase:  flow.Phase1,
//	    Weight: 1250,
//	}
//
// Unassigned stages carry the sentinel [Null]; stages that could not be
// classified carry [Unknown]. Both are ordinary categories and are never
// filtered.
//
// # Ordering
//
// Records arrive sorted by descending weight from the aggregation query.
// [Limit] takes a prefix of that order without re-sorting, then [SortByPhase]
// groups records by phase priority so that the diagram stacks them
// deterministically.
package flow
