package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stageflow/pkg/pipeline"
)

// renderCommand creates the render command for producing diagram files.
func (c *CLI) renderCommand() *cobra.Command {
	var opts buildOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render [records]",
		Short: "Render flow records as Plotly HTML, SVG, PNG, PDF, DOT or JSON",
		Long: `Render builds the diagram and writes it in one or more formats:

  json     diagram as JSON
  plotly   Plotly figure JSON
  html     standalone page drawing the Plotly figure
  dot      Graphviz source
  svg      Graphviz drawing
  png/pdf  Graphviz drawing converted with rsvg-convert`,
		Args: opts.src.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := pipeline.ParseFormats(formatsStr)
			if len(formats) == 0 {
				formats = c.cfg.Build.Formats
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runFormats(cmd, args, &opts, formats)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated: "+strings.Join(pipeline.FormatNames, ", "))
	return cmd
}

// basePath derives the base output path. With no output it is the input
// file name without extension (or the app name for non-file sources); an
// output ending in a requested format's extension has it stripped.
func basePath(output, sourceName string, formats []string) string {
	if output == "" {
		if path, ok := strings.CutPrefix(sourceName, "file:"); ok {
			return strings.TrimSuffix(path, filepath.Ext(path))
		}
		return appName
	}
	for _, f := range formats {
		if ext := "." + pipeline.Extension(f); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPath returns where a format is written. A single format with an
// explicit output is written there verbatim.
func outputPath(output, base, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return base + "." + pipeline.Extension(format)
}
