package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	GraphNodes      prometheus.Gauge
	GraphComponents prometheus.Gauge
	Steps           prometheus.Counter
	StepDuration    prometheus.Histogram
	StepEnergy      prometheus.Gauge

	Calls            *prometheus.CounterVec
	CallDuration     *prometheus.HistogramVec
	Served           *prometheus.CounterVec
	UnmatchedReplies *prometheus.CounterVec

	QueueDepth       prometheus.Gauge
	Inflight         prometheus.Gauge
	QueueWait        prometheus.Histogram
	CallsDone        *prometheus.CounterVec
	ThrottleDuration prometheus.Histogram

	CacheOps   *prometheus.CounterVec
	CacheBytes *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewPrometheus registers the collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		GraphNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "wikigraph_graph_nodes",
			Help: "Number of nodes in the loaded graph",
		}),
		GraphComponents: f.NewGauge(prometheus.GaugeOpts{
			Name: "wikigraph_graph_components",
			Help: "Number of weakly connected components in the loaded graph",
		}),
		Steps: f.NewCounter(prometheus.CounterOpts{
			Name: "wikigraph_layout_steps_total",
			Help: "Total number of layout steps",
		}),
		StepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wikigraph_layout_step_duration_seconds",
			Help:    "Layout step duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		StepEnergy: f.NewGauge(prometheus.GaugeOpts{
			Name: "wikigraph_layout_energy",
			Help: "Mean node displacement of the last step",
		}),

		Calls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wikigraph_rpc_calls_total",
			Help: "Total number of channel calls issued",
		}, []string{"op", "status"}),
		CallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wikigraph_rpc_call_duration_seconds",
			Help:    "Channel call round-trip duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}, []string{"op"}),
		Served: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wikigraph_rpc_served_total",
			Help: "Total number of channel requests handled",
		}, []string{"op", "status"}),
		UnmatchedReplies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wikigraph_rpc_unmatched_replies_total",
			Help: "Replies with a known tag but no pending correlation id",
		}, []string{"tag"}),

		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "wikigraph_throttle_queue_depth",
			Help: "Calls waiting in the scheduler queue",
		}),
		Inflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "wikigraph_throttle_inflight",
			Help: "Calls currently dispatched",
		}),
		QueueWait: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wikigraph_throttle_wait_seconds",
			Help:    "Time between submission and dispatch",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 5, 10, 30},
		}),
		CallsDone: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wikigraph_throttle_calls_total",
			Help: "Total number of scheduled calls completed",
		}, []string{"status"}),
		ThrottleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "wikigraph_throttle_call_duration_seconds",
			Help:    "Scheduled call duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 5},
		}),

		CacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wikigraph_cache_operations_total",
			Help: "Cache operations by backend and result",
		}, []string{"backend", "result"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wikigraph_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}, []string{"backend"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wikigraph_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"method", "route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wikigraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnGraphLoaded(_ context.Context, nodes, _, components int) {
	p.GraphNodes.Set(float64(nodes))
	p.GraphComponents.Set(float64(components))
}

func (p *Prometheus) OnStep(_ context.Context, _ int, d time.Duration, energy float64) {
	p.Steps.Inc()
	p.StepDuration.Observe(d.Seconds())
	p.StepEnergy.Set(energy)
}

func (p *Prometheus) OnCall(_ context.Context, op string, d time.Duration, err error) {
	p.Calls.WithLabelValues(op, status(err)).Inc()
	p.CallDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (p *Prometheus) OnServe(_ context.Context, op string, _ time.Duration, err error) {
	p.Served.WithLabelValues(op, status(err)).Inc()
}

func (p *Prometheus) OnUnmatchedReply(_ context.Context, tag, _ string) {
	p.UnmatchedReplies.WithLabelValues(tag).Inc()
}

func (p *Prometheus) OnQueued(_ context.Context, depth int) {
	p.QueueDepth.Set(float64(depth))
}

func (p *Prometheus) OnDispatch(_ context.Context, inflight int, wait time.Duration) {
	p.Inflight.Set(float64(inflight))
	p.QueueWait.Observe(wait.Seconds())
}

func (p *Prometheus) OnComplete(_ context.Context, d time.Duration, err error) {
	p.CallsDone.WithLabelValues(status(err)).Inc()
	p.ThrottleDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, backend string) {
	p.CacheOps.WithLabelValues(backend, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, backend string) {
	p.CacheOps.WithLabelValues(backend, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, backend string, size int) {
	p.CacheOps.WithLabelValues(backend, "set").Inc()
	p.CacheBytes.WithLabelValues(backend).Add(float64(size))
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var _ AllHooks = (*Prometheus)(nil)
