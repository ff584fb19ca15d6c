// Package cli implements the stageflow command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stageflow/internal/config"
	"github.com/matzehuels/stageflow/pkg/buildinfo"
	"github.com/matzehuels/stageflow/pkg/cache"
	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/pipeline"
	"github.com/matzehuels/stageflow/pkg/source"
	"github.com/matzehuels/stageflow/pkg/source/mongo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stageflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stageflow draws service flows through pipeline stages as Sankey diagrams",
		Long: `Stageflow turns aggregated five-stage flow records into a deterministic Sankey
diagram: one column per stage, nodes ranked by weight, and the unknown-resolution
stage colored by assignment phase.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/stageflow/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner using the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = c.cfg.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.cfg.Cache.RedisAddr,
			Password: c.cfg.Cache.RedisPassword,
			DB:       c.cfg.Cache.RedisDB,
		})
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Source Flags
// =============================================================================

const (
	sourceFile  = "file"
	sourceMongo = "mongo"
)

// sourceOpts holds the flags that select where records come from.
type sourceOpts struct {
	kind       string // "file" or "mongo"
	month      string // mongo: start_month filter
	titleID    string // mongo: title_id filter
	collection string // mongo: overrides the configured collection
}

func (o *sourceOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.kind, "source", sourceFile, "record source: file, mongo")
	cmd.Flags().StringVar(&o.month, "month", "", "mongo: only flows for this start month")
	cmd.Flags().StringVar(&o.titleID, "title-id", "", "mongo: only flows for this title")
	cmd.Flags().StringVar(&o.collection, "collection", "", "mongo: collection (overrides config)")
}

// args returns the positional argument rule for the chosen source.
func (o *sourceOpts) args(cmd *cobra.Command, args []string) error {
	if o.kind == sourceMongo {
		return cobra.NoArgs(cmd, args)
	}
	return cobra.ExactArgs(1)(cmd, args)
}

// open returns the record source and a cleanup function.
func (c *CLI) openSource(ctx context.Context, o *sourceOpts, args []string) (source.Source, func(), error) {
	switch o.kind {
	case sourceFile:
		return source.NewFile(args[0]), func() {}, nil
	case sourceMongo:
		cfg := mongo.Config{
			URI:        c.cfg.Mongo.URI,
			Database:   c.cfg.Mongo.Database,
			Collection: c.cfg.Mongo.Collection,
			Month:      o.month,
			TitleID:    o.titleID,
			Timeout:    c.cfg.Mongo.Timeout.Duration,
		}
		if o.collection != "" {
			cfg.Collection = o.collection
		}
		spin := newSpinner(ctx, "Connecting to MongoDB")
		src, err := mongo.Connect(ctx, cfg)
		spin.Stop()
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close(context.Background()) }, nil
	}
	return nil, nil, errors.New(errors.ErrCodeInvalidInput, "invalid source %q (must be one of: file, mongo)", o.kind)
}
