// Package io reads flow records from files and writes built diagrams as JSON.
//
// # Record Formats
//
// Records can be read from CSV, JSON or YAML. The format is chosen from the
// file extension by [FormatFromPath] or passed explicitly to [ReadRecords].
//
// CSV files need a header row. The columns stage1 to stage5 and value (or
// weight) are required; assignment_phase (or phase) is optional and defaults
// to "none". Other columns, such as session_count, are ignored. This matches
// the result set of the aggregation query:
//
//	stage1,stage2,stage3,stage4,stage5,assignment_phase,value
//	NULL,Linear TV,Linear TV,Linear TV,Linear TV,none,18250
//	Netflix,Netflix,Netflix,Unknown,Netflix,phase1,920
//
// JSON and YAML files hold a list of records:
//
//	[
//	  {"stages": ["NULL", "Netflix", "Netflix", "Unknown", "Netflix"], "phase": "phase1", "weight": 920}
//	]
//
// Every decoded record is validated. A record with the wrong number of stages,
// a missing, negative or NaN weight, or an unknown phase fails the whole read
// with an INVALID_RECORD error naming its position; records are never
// silently dropped.
//
// # Diagram Export
//
// [WriteGraph] and [ExportGraph] write a [sankey.Graph] as indented JSON.
// [ReadGraph] decodes it again, which the pipeline cache relies on.
//
// [sankey.Graph]: github.com/matzehuels/stageflow/pkg/sankey.Graph
package io
