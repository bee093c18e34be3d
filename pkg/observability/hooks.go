// Package observability lets the solver, the cache and the HTTP server
// report events without depending on a metrics backend.
//
// Each event family has an interface with a no-op default. A process swaps
// in real implementations once at startup; pkg/metrics provides the
// Prometheus one and the serve command registers it:
//
//	h := metrics.NewHooks()
//	observability.SetSolverHooks(h)
//	observability.SetCacheHooks(h)
//	observability.SetHTTPHooks(h)
//
// Instrumented code fetches the current hooks at the call site:
//
//	observability.Solver().OnSolveStart(ctx, name, vertices, edges)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolveOutcome summarizes a finished search for hooks.
type SolveOutcome struct {
	Value    int
	Steps    int64
	Prunes   int64
	Optimal  bool
	CacheHit bool
}

// SolverHooks receives events from the solve pipeline.
type SolverHooks interface {
	// Search events
	OnSolveStart(ctx context.Context, instance string, vertices, edges int)
	OnSolveComplete(ctx context.Context, instance string, out SolveOutcome, duration time.Duration, err error)

	// Verification events
	OnVerify(ctx context.Context, instance string, feasible bool)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request before routing.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response. route is the matched
	// pattern, not the raw path, so IDs do not explode label cardinality.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error response.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolveStart(context.Context, string, int, int) {}
func (NoopSolverHooks) OnSolveComplete(context.Context, string, SolveOutcome, time.Duration, error) {
}
func (NoopSolverHooks) OnVerify(context.Context, string, bool)                       {}
func (NoopSolverHooks) OnRenderStart(context.Context, string)                        {}
func (NoopSolverHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

type registry struct {
	mu     sync.RWMutex
	solver SolverHooks
	cache  CacheHooks
	http   HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{solver: NoopSolverHooks{}, cache: NoopCacheHooks{}, http: NoopHTTPHooks{}}
}

// SetSolverHooks installs h as the solver hooks. A nil h is ignored.
func SetSolverHooks(h SolverHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.solver = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h as the cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetHTTPHooks installs h as the HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

func Solver() SolverHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.solver
}

func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset reinstalls the no-op hooks. Tests use it in t.Cleanup.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	hooks.solver, hooks.cache, hooks.http = fresh.solver, fresh.cache, fresh.http
	hooks.mu.Unlock()
}
