// Package render provides output formats for built flow diagrams.
//
// # Overview
//
// A [sankey.Graph] carries everything a renderer needs: node labels, colors
// and normalized positions, weighted edges with colors, and the static stage
// headers and phase legend. This package and its subpackages turn it into
// files:
//
//   - [plotly]: Plotly Sankey figure JSON and a standalone HTML page
//   - [nodelink]: Graphviz DOT, rendered in-process to SVG
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(nodelink.ToDOT(g, nodelink.Options{}))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sankey.Graph]: github.com/matzehuels/stageflow/pkg/sankey.Graph
// [plotly]: github.com/matzehuels/stageflow/pkg/render/plotly
// [nodelink]: github.com/matzehuels/stageflow/pkg/render/nodelink
package render
