// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; the defaults do
// nothing. Applications register real implementations at startup, such as
// the Prometheus collector in this package:
//
//	m := observability.NewPrometheus("stageflow")
//	defer observability.Register(m.Hooks())()
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnBuildStart(ctx, len(records), topN)
//	// ... build ...
//	observability.Pipeline().OnBuildComplete(ctx, nodes, edges, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes the three pipeline steps. Each step reports a
// start event and a completion event carrying its duration and error.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, records int, duration time.Duration, err error)
	OnBuildStart(ctx context.Context, records, topN int)
	OnBuildComplete(ctx context.Context, nodes, edges int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes graph and artifact cache lookups. keyType is "graph"
// or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes finished API requests. route is the chi route
// pattern, not the raw path.
type HTTPHooks interface {
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// Noop implements every hook interface and ignores all events. Embed it to
// implement only part of an interface.
type Noop struct{}

var (
	_ PipelineHooks = Noop{}
	_ CacheHooks    = Noop{}
	_ HTTPHooks     = Noop{}
)

func (Noop) OnLoadStart(context.Context, string)                               {}
func (Noop) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (Noop) OnBuildStart(context.Context, int, int)                            {}
func (Noop) OnBuildComplete(context.Context, int, int, time.Duration, error)   {}
func (Noop) OnRenderStart(context.Context, []string)                           {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error)  {}
func (Noop) OnCacheHit(context.Context, string)                                {}
func (Noop) OnCacheMiss(context.Context, string)                               {}
func (Noop) OnCacheSet(context.Context, string, int)                           {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)    {}

// Hooks bundles one implementation of each hook set. Nil fields fall back to
// [Noop].
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func (h Hooks) withDefaults() *Hooks {
	if h.Pipeline == nil {
		h.Pipeline = Noop{}
	}
	if h.Cache == nil {
		h.Cache = Noop{}
	}
	if h.HTTP == nil {
		h.HTTP = Noop{}
	}
	return &h
}

var current atomic.Pointer[Hooks]

func init() { current.Store(Hooks{}.withDefaults()) }

// Register installs h for the whole process and returns a function that
// restores the hooks that were installed before. Call it once at startup:
//
//	defer observability.Register(m.Hooks())()
func Register(h Hooks) (restore func()) {
	prev := current.Swap(h.withDefaults())
	return func() { current.Store(prev) }
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().Pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }
