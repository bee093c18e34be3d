package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/knapset/pkg/solver"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("x") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("x") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("x") }, true},
		{"warn at info", log.InfoLevel, func(l *log.Logger) { l.Warn("x") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Solved toy")
	out := buf.String()
	if !strings.Contains(out, "Solved toy (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should yield log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	loggerFromContext(ctx).Info("via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Error("attached logger should write to its buffer")
	}
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := newLogObserver(newLogger(&buf, log.DebugLevel))

	obs.OnStepStart(solver.Step{Depth: 1, Value: 3, Remaining: 2, Steps: 4})
	obs.OnIncumbent(solver.Incumbent{Value: 7, Weight: 4, Size: 2, Steps: 9})
	obs.OnStepEnd(solver.Step{Steps: 4})

	out := buf.String()
	for _, want := range []string{"step", "incumbent", "value=7", "backtrack"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	quiet := newLogObserver(newLogger(&buf, log.InfoLevel))
	quiet.OnStepStart(solver.Step{Steps: 1})
	if buf.Len() != 0 {
		t.Errorf("trace should be silent at info level, got %q", buf.String())
	}
}
