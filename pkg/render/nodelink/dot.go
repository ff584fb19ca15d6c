package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/render"
	"github.com/matzehuels/stageflow/pkg/sankey"
)

const (
	minPenWidth = 1.0
	maxPenWidth = 12.0
)

// Options configures node-link rendering.
type Options struct {
	// Detailed adds the node weight to each label.
	Detailed bool
}

// ToDOT converts a flow diagram to Graphviz DOT. Stages become left-to-right
// ranks; node order within a rank follows node rank.
func ToDOT(g *sankey.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Arial\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=2.0;\n")
	buf.WriteString("  nodesep=0.2;\n")

	for stage := range flow.StageCount {
		nodes := g.NodesInStage(stage)
		fmt.Fprintf(&buf, "\n  subgraph cluster_stage%d {\n", stage)
		buf.WriteString("    style=invis;\n")
		if stage < len(g.Headers) {
			fmt.Fprintf(&buf, "    label=%q;\n", g.Headers[stage].Text)
		}
		for _, n := range nodes {
			fmt.Fprintf(&buf, "    %s [%s];\n", nodeID(n.Index), strings.Join(fmtAttrs(n, opts), ", "))
		}
		// Invisible chain keeps rank order top to bottom.
		for i := 1; i < len(nodes); i++ {
			fmt.Fprintf(&buf, "    %s -> %s [style=invis];\n", nodeID(nodes[i-1].Index), nodeID(nodes[i].Index))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	maxWeight := 0.0
	for _, e := range g.Edges {
		maxWeight = max(maxWeight, e.Weight)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [color=%q, penwidth=%.2f];\n",
			nodeID(e.Source), nodeID(e.Target), toHex(e.Color), penWidth(e.Weight, maxWeight))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "n" + strconv.Itoa(i) }

func fmtLabel(n sankey.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\n%s", n.Label, strconv.FormatFloat(n.Weight, 'f', -1, 64))
}

func fmtAttrs(n sankey.Node, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", n.Color),
	}
	if dark(n.Color) {
		attrs = append(attrs, "fontcolor=white")
	}
	return attrs
}

func penWidth(w, maxWeight float64) float64 {
	if maxWeight <= 0 {
		return minPenWidth
	}
	return minPenWidth + (maxPenWidth-minPenWidth)*w/maxWeight
}

var rgbaRe = regexp.MustCompile(`^rgba\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*([0-9.]+)\s*\)$`)

// toHex converts "rgba(r, g, b, a)" to Graphviz "#RRGGBBAA". Other color
// strings pass through unchanged.
func toHex(c string) string {
	m := rgbaRe.FindStringSubmatch(c)
	if m == nil {
		return c
	}
	r, _ := strconv.Atoi(m[1])
	g, _ := strconv.Atoi(m[2])
	b, _ := strconv.Atoi(m[3])
	a, _ := strconv.ParseFloat(m[4], 64)
	return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, int(a*255+0.5))
}

// dark reports whether a "#RRGGBB" color needs light text.
func dark(hex string) bool {
	if len(hex) != 7 || hex[0] != '#' {
		return false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return false
	}
	r, g, b := float64(v>>16&0xFF), float64(v>>8&0xFF), float64(v&0xFF)
	return 0.299*r+0.587*g+0.114*b < 128
}

// RenderSVG lays out dot with the bundled Graphviz and returns the SVG,
// sized in pixels instead of points so browsers show it at its natural size.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse dot")
	}
	defer parsed.Close()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "start graphviz")
	}
	defer gv.Close()

	var out bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "graphviz svg")
	}
	return pixelSize(out.Bytes()), nil
}

var (
	svgOpenRe  = regexp.MustCompile(`<svg\b[^>]*>`)
	pointDimRe = regexp.MustCompile(`\b(width|height)="([0-9.]+)pt"`)
)

// pixelSize rewrites the width="..pt" and height="..pt" attributes of the
// root svg element to whole pixels. The viewBox is left alone.
func pixelSize(svg []byte) []byte {
	loc := svgOpenRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	tag := pointDimRe.ReplaceAllFunc(svg[loc[0]:loc[1]], func(attr []byte) []byte {
		m := pointDimRe.FindSubmatch(attr)
		v, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil {
			return attr
		}
		return fmt.Appendf(nil, `%s="%.0f"`, m[1], v)
	})
	out := make([]byte, 0, len(svg)+len(tag)-(loc[1]-loc[0]))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	return append(out, svg[loc[1]:]...)
}

// RenderPDF draws dot as SVG and converts it with rsvg-convert.
func RenderPDF(dot string) ([]byte, error) {
	return viaSVG(dot, render.ToPDF)
}

// RenderPNG draws dot as SVG and rasterizes it at the given zoom.
func RenderPNG(dot string, zoom float64) ([]byte, error) {
	return viaSVG(dot, func(svg []byte) ([]byte, error) { return render.ToPNG(svg, zoom) })
}

func viaSVG(dot string, convert func([]byte) ([]byte, error)) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return convert(svg)
}
