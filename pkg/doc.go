// Package pkg provides the libraries behind Stageflow's service flow diagrams.
//
// # Overview
//
// Stageflow turns aggregated five-stage flow records into a Sankey diagram:
// one column per stage, one node per distinct category in that stage, and
// one edge per record between consecutive stages. The build is a pure,
// deterministic transform; everything around it loads records, caches and
// renders results, or serves them.
//
//	Records (CSV / JSON / YAML file, MongoDB)
//	         ↓
//	    [source] / [io] (load + validate)
//	         ↓
//	    [flow] (top-N limit, phase ordering)
//	         ↓
//	    [sankey] (nodes, edges, headers, legend)
//	         ↓
//	    [render] (Plotly JSON/HTML, DOT/SVG/PNG/PDF)
//
// # Quick Start
//
//	records, _ := io.ImportRecords("flows.csv")
//	g, _ := sankey.Build(records, sankey.Options{TopN: 30})
//	fig := plotly.FromGraph(g)
//	_ = plotly.WriteHTML(os.Stdout, fig, "Service Flow")
//
// # Main Packages
//
// ## Core
//
// [flow] - Records, assignment phases, the top-N limiter and phase ordering.
//
// [palette] - Category and link colors.
//
// [sankey] - The diagram builder: ranked nodes, phase-ordered edges, stage
// headers, legend annotations and crossing statistics.
//
// ## Input and Output
//
// [io] - Record import (CSV, JSON, YAML) and graph JSON export.
//
// [source] - Record sources: local files and MongoDB.
//
// [render] - Plotly figures and pages ([render/plotly]) and Graphviz drawings
// ([render/nodelink]).
//
// ## Infrastructure
//
// [pipeline] - Load, build and render with caching; shared by the CLI and
// the HTTP server.
//
// [cache] - File, Redis and no-op caches with key derivation.
//
// [server] - HTTP API.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// [errors] - Structured errors with codes.
//
// [buildinfo] - Version metadata set at link time.
package pkg
