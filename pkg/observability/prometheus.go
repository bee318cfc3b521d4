package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "uniquepaths"

// PrometheusHooks implements every hook interface by recording Prometheus
// metrics. Register one instance for all three categories.
type PrometheusHooks struct {
	// StageDuration measures pipeline stage latency.
	// Labels: stage, status (success, error)
	StageDuration *prometheus.HistogramVec

	// ComponentsAggregated counts sampled components.
	ComponentsAggregated prometheus.Counter

	// ComponentSize observes the node count of sampled components.
	ComponentSize prometheus.Histogram

	// RunsTotal counts completed runs.
	// Labels: status (success, error)
	RunsTotal *prometheus.CounterVec

	// CacheOps counts cache lookups and writes.
	// Labels: key_type, result (hit, miss, set)
	CacheOps *prometheus.CounterVec

	// HTTPRequests counts served requests.
	// Labels: method, route, code
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration measures request latency.
	// Labels: method, route
	HTTPDuration *prometheus.HistogramVec

	// HTTPInFlight tracks requests currently being served.
	HTTPInFlight prometheus.Gauge
}

// NewPrometheusHooks creates the metrics and registers them with reg.
// It panics if a metric is already registered, as promauto does.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage", "status"}),
		ComponentsAggregated: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "components_aggregated_total",
			Help:      "Number of strongly connected components sampled",
		}),
		ComponentSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "component_size_nodes",
			Help:      "Node count of sampled components",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 12),
		}),
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Number of completed counting runs by status",
		}, []string{"status"}),
		CacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache operations by key type and result",
		}, []string{"key_type", "result"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (p *PrometheusHooks) OnStageStart(context.Context, string) {}

func (p *PrometheusHooks) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	p.StageDuration.WithLabelValues(stage, status(err)).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnComponentAggregated(_ context.Context, size int, _ int64) {
	p.ComponentsAggregated.Inc()
	p.ComponentSize.Observe(float64(size))
}

func (p *PrometheusHooks) OnRunComplete(_ context.Context, _ int64, _ time.Duration, err error) {
	p.RunsTotal.WithLabelValues(status(err)).Inc()
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.CacheOps.WithLabelValues(keyType, "set").Inc()
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {
	p.HTTPInFlight.Inc()
}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.HTTPInFlight.Dec()
	p.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
