package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stageflow/pkg/cache"
	"github.com/matzehuels/stageflow/pkg/errors"
	"github.com/matzehuels/stageflow/pkg/flow"
	"github.com/matzehuels/stageflow/pkg/io"
	"github.com/matzehuels/stageflow/pkg/observability"
	"github.com/matzehuels/stageflow/pkg/sankey"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL applies to every cache write. Zero means cache.DefaultTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete load → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	records, err := r.Load(ctx, opts)
	if err != nil {
		return nil, errors.Annotate(err, "load")
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Retrieved = len(records)
	result.Shown = flow.Limit(records, opts.TopN)
	result.Stats.Shown = len(result.Shown)

	logger.Info(fmt.Sprintf("Retrieved %d flows (showing top %d)", result.Stats.Retrieved, result.Stats.Shown),
		"source", opts.Source.Name(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	g, buildHit, err := r.BuildWithCacheInfo(ctx, records, opts)
	if err != nil {
		return nil, errors.Annotate(err, "build")
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	result.CacheInfo.BuildHit = buildHit
	if data, err := json.Marshal(g); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	logger.Info("built diagram",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"crossings", g.Stats.Crossings,
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, errors.Annotate(err, "render")
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads records from the configured source.
func (r *Runner) Load(ctx context.Context, opts Options) ([]flow.Record, error) {
	name := opts.Source.Name()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()
	records, err := opts.Source.Records(ctx)
	hooks.OnLoadComplete(ctx, name, len(records), time.Since(start), err)
	return records, err
}

// BuildWithCacheInfo builds a diagram with caching and returns cache hit info.
// The cache key covers the full record list, not only the shown prefix, so
// that Stats.Records stays correct on hits.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, records []flow.Record, opts Options) (*sankey.Graph, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}

	recordsHash, err := cache.HashJSON(records)
	if err != nil {
		return nil, false, errors.Annotate(err, "hash records")
	}
	cacheKey := r.Keyer.GraphKey(recordsHash, opts.GraphKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := io.ReadGraph(bytes.NewReader(data)); err == nil {
				hooks.OnCacheHit(ctx, "graph")
				return g, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
	}
	hooks.OnCacheMiss(ctx, "graph")

	observability.Pipeline().OnBuildStart(ctx, len(records), opts.TopN)
	start := time.Now()
	g, err := Build(records, opts)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnBuildComplete(ctx, len(g.Nodes), len(g.Edges), time.Since(start), nil)

	if data, err := json.Marshal(g); err == nil {
		r.store(ctx, "graph", cacheKey, data)
	}
	return g, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *sankey.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	graphData, err := json.Marshal(g)
	if err != nil {
		return nil, false, errors.Annotate(err, "encode graph for cache key")
	}
	graphHash := cache.Hash(graphData)
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, "artifact")

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(g, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.store(ctx, "artifact", r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format)), data)
	}
	return rendered, false, nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte) {
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
