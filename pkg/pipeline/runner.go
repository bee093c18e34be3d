package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/knapset/pkg/cache"
	"github.com/matzehuels/knapset/pkg/instance"
	kio "github.com/matzehuels/knapset/pkg/io"
	"github.com/matzehuels/knapset/pkg/observability"
	"github.com/matzehuels/knapset/pkg/solver"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no results of its own. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.SolutionTTL and cache.ArtifactTTL when > 0.
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
	}
}

// Execute runs the complete solve → verify → render pipeline with caching.
//
// If the search stops early the partial result is still verified and
// rendered, and the stop error is returned alongside it.
func (r *Runner) Execute(ctx context.Context, inst *instance.Instance, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{Instance: inst}

	hash, err := InstanceHash(inst)
	if err != nil {
		return nil, err
	}
	result.InstanceHash = hash

	// Stage 1: Solve
	solveStart := time.Now()
	sol, solveHit, stop := r.SolveWithCacheInfo(ctx, inst, opts)
	if stop != nil && !Partial(stop) {
		return nil, fmt.Errorf("solve: %w", stop)
	}
	result.Solution = sol
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = solveHit

	r.Logger.Info("solved instance",
		"vertices", inst.VertexCount(),
		"value", sol.Value,
		"optimal", sol.Optimal,
		"duration", result.Stats.SolveTime)

	// Stage 2: Verify
	verifyStart := time.Now()
	report, err := r.Verify(ctx, inst, sol.Vertices)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	result.Report = report
	result.Stats.VerifyTime = time.Since(verifyStart)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, inst, sol, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, stop
}

// SolveWithCacheInfo searches inst for a best set and reports whether the
// result came from the cache. Only optimal results are read from or written
// to the cache. An early stop returns the partial result with the solver's
// stop error.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, inst *instance.Instance, opts Options) (solver.Result, bool, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return solver.Result{}, false, err
	}
	r.applyLogger(&opts)
	if inst == nil {
		return solver.Result{}, false, fmt.Errorf("instance is nil")
	}

	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, inst.Name, inst.VertexCount(), inst.EdgeCount())
	start := time.Now()

	var cacheKey string
	if !opts.NoCache {
		hash, err := InstanceHash(inst)
		if err != nil {
			return solver.Result{}, false, err
		}
		cacheKey = r.Keyer.SolutionKey(hash, opts.SolutionKeyOpts())
		if res, ok := r.cachedSolution(ctx, inst, cacheKey); ok {
			opts.Logger.Debug("solution cache hit", "instance", inst.Name)
			hooks.OnSolveComplete(ctx, inst.Name, outcome(res, true), time.Since(start), nil)
			return res, true, nil
		}
	}

	res, err := solver.Solve(ctx, inst, opts.SolverOptions())
	hooks.OnSolveComplete(ctx, inst.Name, outcome(res, false), time.Since(start), err)
	if err != nil {
		return res, false, err
	}

	if cacheKey != "" && res.Optimal {
		if data, err := json.Marshal(res); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.SolutionTTL)); err != nil {
				opts.Logger.Warn("cache write failed", "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "solution", len(data))
			}
		}
	}
	return res, false, nil
}

// Solve is a convenience wrapper that discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, inst *instance.Instance, opts Options) (solver.Result, error) {
	res, _, err := r.SolveWithCacheInfo(ctx, inst, opts)
	return res, err
}

// cachedSolution loads a solution and rebuilds its indices. An entry that
// no longer matches the instance counts as a miss.
func (r *Runner) cachedSolution(ctx context.Context, inst *instance.Instance, key string) (solver.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "solution")
		return solver.Result{}, false
	}
	var res solver.Result
	if err := json.Unmarshal(data, &res); err != nil || !res.Optimal {
		observability.Cache().OnCacheMiss(ctx, "solution")
		return solver.Result{}, false
	}
	res.Indices = make([]int, len(res.Vertices))
	for k, id := range res.Vertices {
		i, ok := inst.Index(id)
		if !ok {
			observability.Cache().OnCacheMiss(ctx, "solution")
			return solver.Result{}, false
		}
		res.Indices[k] = i
	}
	observability.Cache().OnCacheHit(ctx, "solution")
	return res, true
}

// Verify re-checks ids against inst and records the outcome.
func (r *Runner) Verify(ctx context.Context, inst *instance.Instance, ids []string) (solver.Report, error) {
	report, err := solver.Verify(inst, ids)
	if inst != nil {
		observability.Solver().OnVerify(ctx, inst.Name, err == nil && report.Feasible())
	}
	return report, err
}

// RenderWithCacheInfo renders sol in every requested format and reports
// whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, inst *instance.Instance, sol solver.Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hash, err := SolutionHash(inst, sol)
	if err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		allCached = false

		data, err := RenderFormat(ctx, inst, sol, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.ArtifactTTL)); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, inst *instance.Instance, sol solver.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, inst, sol, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// InstanceHash returns the content hash of inst. The name is left out, so
// two copies of one instance under different file names hash equally.
func InstanceHash(inst *instance.Instance) (string, error) {
	if inst == nil {
		return "", fmt.Errorf("instance is nil")
	}
	anon := inst.Clone()
	anon.Name = ""
	var buf bytes.Buffer
	if err := kio.WriteJSON(anon, &buf); err != nil {
		return "", fmt.Errorf("hash instance: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// SolutionHash returns the content hash of a solved set on inst. Artifacts
// embed the instance name, so unlike InstanceHash it is included.
func SolutionHash(inst *instance.Instance, sol solver.Result) (string, error) {
	h, err := InstanceHash(inst)
	if err != nil {
		return "", err
	}
	return cache.HashJSON(struct {
		Instance string   `json:"instance"`
		Name     string   `json:"name"`
		Vertices []string `json:"vertices"`
		Optimal  bool     `json:"optimal"`
	}{h, inst.Name, sol.Vertices, sol.Optimal})
}

func outcome(res solver.Result, hit bool) observability.SolveOutcome {
	return observability.SolveOutcome{
		Value:    res.Value,
		Steps:    res.Stats.Steps,
		Prunes:   res.Stats.Prunes,
		Optimal:  res.Optimal,
		CacheHit: hit,
	}
}
