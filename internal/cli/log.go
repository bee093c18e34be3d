// Package cli implements the knapset command-line interface.
//
// # Commands
//
//   - solve: search an instance for its best independent set
//   - render: draw an instance and a solution as DOT, SVG, or JSON
//   - verify: check a proposed vertex set against an instance
//   - generate: write a random instance
//   - serve: run the HTTP API
//   - cache: inspect and clear the solution cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in context.Context; solve --trace logs every decision step of the
// search at debug level.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/knapset/pkg/solver"
)

// newLogger creates a logger that writes timestamps as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond,
// e.g. "Solved toy.txt (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logObserver traces the search at debug level.
type logObserver struct {
	logger *log.Logger
}

func newLogObserver(l *log.Logger) *logObserver {
	return &logObserver{logger: l}
}

func (o *logObserver) OnStepStart(s solver.Step) {
	o.logger.Debug("step",
		"n", s.Steps,
		"depth", s.Depth,
		"value", s.Value,
		"remaining", s.Remaining,
		"best", s.Best,
		"available", s.Available)
}

func (o *logObserver) OnStepEnd(s solver.Step) {
	o.logger.Debug("backtrack", "n", s.Steps, "depth", s.Depth, "available", s.Available)
}

func (o *logObserver) OnIncumbent(inc solver.Incumbent) {
	o.logger.Debug("incumbent",
		"value", inc.Value,
		"weight", inc.Weight,
		"size", inc.Size,
		"step", inc.Steps)
}

var _ solver.Observer = (*logObserver)(nil)
