// Package nodelink draws flow diagrams with Graphviz.
//
// Stages are laid out left to right. Each stage is a rank=same column of
// filled boxes in their category colors, top to bottom in rank order, under
// a plain-text stage header. Edges are never merged: every flow becomes its
// own arrow, with pen width proportional to its weight and the phase color
// as stroke.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot, 2)
//
// SVG is rendered in-process by [github.com/goccy/go-graphviz]. PNG and PDF
// go through rsvg-convert (see [render.ToPNG]).
//
// [render.ToPNG]: github.com/matzehuels/stageflow/pkg/render.ToPNG
package nodelink
