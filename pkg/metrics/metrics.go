// Package metrics exposes Prometheus collectors for the solver, the cache and
// the HTTP API, and a [Hooks] type that feeds them from the observability
// hooks.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/knapset/pkg/observability"
)

// Collectors are registered with the default registry on package load.
var (
	SolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knapset_solves_total",
			Help: "Searches finished, by outcome (optimal, partial, error, cached)",
		},
		[]string{"outcome"},
	)

	SolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "knapset_solve_duration_seconds",
			Help:    "Wall-clock duration of searches",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
	)

	SolveSteps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "knapset_solve_steps",
			Help:    "Decision steps explored per search",
			Buckets: prometheus.ExponentialBuckets(1, 10, 9),
		},
	)

	InstanceVertices = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "knapset_instance_vertices",
			Help:    "Vertex count of solved instances",
			Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000},
		},
	)

	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knapset_verifications_total",
			Help: "Solution verifications, by result",
		},
		[]string{"feasible"},
	)

	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knapset_renders_total",
			Help: "Rendered artifacts, by format and status",
		},
		[]string{"format", "status"},
	)

	CacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knapset_cache_operations_total",
			Help: "Cache lookups and writes, by entry kind and result",
		},
		[]string{"kind", "result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "knapset_http_requests_total",
			Help: "HTTP requests processed, by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "knapset_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"method", "route"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "knapset_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }

// Hooks implements every observability hook interface on top of the
// package collectors.
type Hooks struct{}

// NewHooks returns hooks backed by the package collectors.
func NewHooks() *Hooks { return &Hooks{} }

// Register installs h as the solver, cache and HTTP hooks.
func (h *Hooks) Register() {
	observability.SetSolverHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *Hooks) OnSolveStart(_ context.Context, _ string, vertices, _ int) {
	InstanceVertices.Observe(float64(vertices))
}

func (h *Hooks) OnSolveComplete(_ context.Context, _ string, out observability.SolveOutcome, d time.Duration, err error) {
	SolvesTotal.WithLabelValues(outcome(out, err)).Inc()
	if out.CacheHit {
		return
	}
	SolveDuration.Observe(d.Seconds())
	SolveSteps.Observe(float64(out.Steps))
}

func (h *Hooks) OnVerify(_ context.Context, _ string, feasible bool) {
	VerificationsTotal.WithLabelValues(strconv.FormatBool(feasible)).Inc()
}

func (h *Hooks) OnRenderStart(context.Context, string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, format string, _ time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	RendersTotal.WithLabelValues(format, status).Inc()
}

func (h *Hooks) OnCacheHit(_ context.Context, kind string) {
	CacheOpsTotal.WithLabelValues(kind, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, kind string) {
	CacheOpsTotal.WithLabelValues(kind, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, kind string, _ int) {
	CacheOpsTotal.WithLabelValues(kind, "set").Inc()
}

func (h *Hooks) OnRequest(context.Context, string, string) {
	HTTPInFlight.Inc()
}

func (h *Hooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	HTTPInFlight.Dec()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (h *Hooks) OnError(context.Context, string, string, error) {}

func outcome(out observability.SolveOutcome, err error) string {
	switch {
	case out.CacheHit:
		return "cached"
	case out.Optimal:
		return "optimal"
	case err != nil && out.Steps == 0:
		return "error"
	default:
		return "partial"
	}
}

var (
	_ observability.SolverHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
	_ observability.HTTPHooks   = (*Hooks)(nil)
)
