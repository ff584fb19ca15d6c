package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/pipeline"
)

// buildOpts holds the flags shared by build and render.
type buildOpts struct {
	src     sourceOpts
	topN    int    // flows kept in the diagram (0 = config default)
	output  string // output file or base path
	noCache bool   // bypass the cache entirely
	refresh bool   // rebuild even when cached
	table   bool   // print the shown records as a table
	stdout  bool   // write to stdout when no output is given
}

func (o *buildOpts) register(cmd *cobra.Command) {
	o.src.register(cmd)
	cmd.Flags().IntVarP(&o.topN, "top-n", "n", 0, "number of top flows to show (default from config, 30)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "rebuild even if cached")
	cmd.Flags().BoolVar(&o.table, "table", false, "print the shown flows as a table")
}

// buildCommand creates the build command, which writes the diagram as JSON.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{stdout: true}

	cmd := &cobra.Command{
		Use:   "build [records]",
		Short: "Build a Sankey diagram from flow records and write it as JSON",
		Long: `Build reads aggregated flow records (CSV, JSON or YAML, or MongoDB with
--source mongo), keeps the top flows and writes the diagram as JSON.

Records must already be sorted by value, largest first. The JSON goes to
stdout unless --output is given.`,
		Args: opts.src.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFormats(cmd, args, &opts, []string{pipeline.FormatJSON})
		},
	}
	opts.register(cmd)
	return cmd
}

// runFormats runs the pipeline and writes each requested format.
// Build with no --output writes to stdout; otherwise files are written
// next to the input.
func (c *CLI) runFormats(cmd *cobra.Command, args []string, opts *buildOpts, formats []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	src, closeSrc, err := c.openSource(ctx, &opts.src, args)
	if err != nil {
		return err
	}
	defer closeSrc()

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	topN := opts.topN
	if topN == 0 {
		topN = c.cfg.Build.TopN
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		Source:  src,
		TopN:    topN,
		Formats: formats,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if opts.table {
		fmt.Fprintln(os.Stderr, recordTable(res.Shown))
	}

	if opts.output == "" && opts.stdout {
		_, err := os.Stdout.Write(res.Artifacts[formats[0]])
		return err
	}

	base := basePath(opts.output, src.Name(), formats)
	var paths []string
	for _, f := range formats {
		path := outputPath(opts.output, base, f, len(formats))
		if err := os.WriteFile(path, res.Artifacts[f], 0644); err != nil {
			return errors.Annotate(err, "write %s", path)
		}
		paths = append(paths, path)
	}
	prog.done("wrote outputs", "files", len(paths))

	if res.Stats.Shown == 0 {
		printWarning("No flows to show")
	} else {
		printSuccess("Built diagram")
	}
	printStats(res)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
