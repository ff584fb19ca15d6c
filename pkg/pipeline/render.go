package pipeline

import (
	"bytes"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/io"
	"github.com/matzehuels/stageflow/pkg/render/nodelink"
	"github.com/matzehuels/stageflow/pkg/render/plotly"
	"github.com/matzehuels/stageflow/pkg/sankey"
)

// Build turns records into a diagram.
func Build(records []flow.Record, opts Options) (*sankey.Graph, error) {
	return sankey.Build(records, sankey.Options{TopN: opts.TopN})
}

// Render generates output artifacts in the requested formats.
// The DOT source is generated at most once per call.
func Render(g *sankey.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = io.WriteGraph(g, &buf)
			data = buf.Bytes()
		case FormatPlotly:
			data, err = plotly.FromGraph(g).JSON()
		case FormatHTML:
			var buf bytes.Buffer
			err = plotly.WriteHTML(&buf, plotly.FromGraph(g), opts.Title)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dotSource())
		case FormatSVG:
			data, err = nodelink.RenderSVG(dotSource())
		case FormatPNG:
			data, err = nodelink.RenderPNG(dotSource(), DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dotSource())
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
		}

		if err != nil {
			return nil, errors.Annotate(err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
