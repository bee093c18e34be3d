// Package pipeline provides the solve → verify → render pipeline shared by
// the CLI and the HTTP API.
//
// Centralizing the pipeline keeps caching, hooks, and defaults identical
// across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Solve: run the branch-and-bound search (or load a cached optimum)
//  2. Verify: re-check the selected set against the instance
//  3. Render: produce artifacts in the requested formats (DOT, SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, inst, pipeline.Options{
//	    TimeLimit: 30 * time.Second,
//	    Formats:   []string{"svg"},
//	})
//	if err != nil && !pipeline.Partial(err) {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// When the search stops on its step budget or time limit, Execute still
// verifies and renders the best set found, and returns it together with the
// stop error. [Partial] tells such errors apart from real failures.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/knapset/pkg/cache"
	"github.com/matzehuels/knapset/pkg/instance"
	"github.com/matzehuels/knapset/pkg/render"
	"github.com/matzehuels/knapset/pkg/solver"
)

// SolverVersion is part of every solution cache key. Bump it whenever a
// change to the search could change which optimal set is returned.
const SolverVersion = "bb-1"

// DefaultFormat is the render format used when none is requested.
const DefaultFormat = string(render.FormatSVG)

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Solve options
	TimeLimit time.Duration `json:"time_limit,omitempty"`
	MaxSteps  int64         `json:"max_steps,omitempty"`
	NoCache   bool          `json:"no_cache,omitempty"` // neither read nor write cached solutions

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Observer solver.Observer `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Instance is the solved instance.
	Instance *instance.Instance

	// InstanceHash is the content hash of the instance.
	InstanceHash string

	// Solution is the search result, possibly loaded from the cache.
	Solution solver.Result

	// Report is the independent verification of Solution.
	Report solver.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline timing information.
type Stats struct {
	SolveTime  time.Duration
	VerifyTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool // solution came from cache
	RenderHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format name is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(render.Formats, render.Format(format)) {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSolve checks the search limits.
func (o *Options) ValidateForSolve() error {
	if o.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be >= 0, got %d", o.MaxSteps)
	}
	if o.TimeLimit < 0 {
		return fmt.Errorf("time_limit must be >= 0, got %s", o.TimeLimit)
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SolverOptions returns the search options.
func (o *Options) SolverOptions() solver.Options {
	return solver.Options{
		MaxSteps:  o.MaxSteps,
		TimeLimit: o.TimeLimit,
		Observer:  o.Observer,
	}
}

// SolutionKeyOpts returns cache key options for a solution.
func (o *Options) SolutionKeyOpts() cache.SolutionKeyOpts {
	return cache.SolutionKeyOpts{SolverVersion: SolverVersion}
}

// ArtifactKeyOpts returns cache key options for an artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
}

// Partial reports whether err only means the search stopped on its step
// budget or time limit. The accompanying result is then the best set found.
func Partial(err error) bool {
	return errors.Is(err, solver.ErrBudgetExhausted) || errors.Is(err, solver.ErrTimeLimit)
}
