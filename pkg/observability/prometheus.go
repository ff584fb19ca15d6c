package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface by recording Prometheus
// metrics in its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	loads        *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	loadRecords  prometheus.Histogram

	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	graphNodes    prometheus.Histogram
	graphEdges    prometheus.Histogram

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheus creates a collector whose metrics live under namespace.
func NewPrometheus(namespace string) *Prometheus {
	sizeBuckets := prometheus.ExponentialBuckets(1, 2, 12)
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Total number of record loads",
		}, []string{"source", "status"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Record load duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		loadRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_records",
			Help:      "Number of records per load",
			Buckets:   sizeBuckets,
		}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Total number of graph builds",
		}, []string{"status"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Graph build duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		graphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes per built graph",
			Buckets:   sizeBuckets,
		}),
		graphEdges: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Number of edges per built graph",
			Buckets:   sizeBuckets,
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of rendered formats",
		}, []string{"format", "status"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}, []string{"type"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}, []string{"type"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Total bytes written to the cache",
		}, []string{"type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	p.registry.MustRegister(
		p.loads, p.loadDuration, p.loadRecords,
		p.builds, p.buildDuration, p.graphNodes, p.graphEdges,
		p.renders, p.renderDuration,
		p.cacheHits, p.cacheMisses, p.cacheBytes,
		p.httpRequests, p.httpDuration,
	)
	return p
}

// Registry returns the registry holding the collector's metrics.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Hooks returns p as all three hook sets, ready for Register.
func (p *Prometheus) Hooks() Hooks {
	return Hooks{Pipeline: p, Cache: p, HTTP: p}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnLoadStart(context.Context, string) {}

func (p *Prometheus) OnLoadComplete(_ context.Context, source string, records int, d time.Duration, err error) {
	p.loads.WithLabelValues(source, status(err)).Inc()
	p.loadDuration.WithLabelValues(source).Observe(d.Seconds())
	if err == nil {
		p.loadRecords.Observe(float64(records))
	}
}

func (p *Prometheus) OnBuildStart(context.Context, int, int) {}

func (p *Prometheus) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	p.builds.WithLabelValues(status(err)).Inc()
	p.buildDuration.Observe(d.Seconds())
	if err == nil {
		p.graphNodes.Observe(float64(nodes))
		p.graphEdges.Observe(float64(edges))
	}
}

func (p *Prometheus) OnRenderStart(context.Context, []string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	for _, f := range formats {
		p.renders.WithLabelValues(f, status(err)).Inc()
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheHits.WithLabelValues(keyType).Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheMisses.WithLabelValues(keyType).Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
