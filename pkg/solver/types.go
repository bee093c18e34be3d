package solver

import (
	"time"

	errs "github.com/matzehuels/knapset/pkg/errors"
)

// Sentinel errors returned together with a partial Result when the search
// stops before proving optimality.
var (
	// ErrBudgetExhausted is returned when Options.MaxSteps decision steps
	// have been explored.
	ErrBudgetExhausted = errs.New(errs.ErrCodeBudgetExhausted, "search step budget exhausted")

	// ErrTimeLimit is returned when Options.TimeLimit has elapsed.
	ErrTimeLimit = errs.New(errs.ErrCodeTimeout, "search time limit exceeded")
)

// deadlineInterval is the number of steps between clock and context checks.
// Must be a power of two.
const deadlineInterval = 4096

// Options configures a search. The zero value runs an unbounded exact search.
type Options struct {
	// MaxSteps bounds the number of decision steps (0 = unlimited).
	MaxSteps int64

	// TimeLimit bounds wall-clock time (0 = unlimited). Checked every
	// 4096 steps, so the overshoot is small but non-zero.
	TimeLimit time.Duration

	// Observer receives step and incumbent events. Nil disables tracing.
	Observer Observer
}

// Result is the outcome of a search.
type Result struct {
	// Vertices holds the IDs of the selected vertices in instance order.
	Vertices []string `json:"vertices"`

	// Indices holds the instance indices of the selected vertices, ascending.
	Indices []int `json:"-"`

	Value  int `json:"value"`
	Weight int `json:"weight"`

	// Optimal is false when the search stopped early (budget, time limit,
	// or cancellation); the result is then the best set found so far.
	Optimal bool `json:"optimal"`

	Stats Stats `json:"stats"`
}

// Stats summarizes the work done by a search.
type Stats struct {
	Steps      int64         `json:"steps"`      // decision steps (frames) explored
	Prunes     int64         `json:"prunes"`     // extensions cut by the bound
	Incumbents int64         `json:"incumbents"` // incumbent updates, ties included
	MaxDepth   int           `json:"max_depth"`  // deepest partial solution
	Duration   time.Duration `json:"duration"`
}

// Step describes the search state at the start or end of a decision step.
type Step struct {
	Depth     int // records in the partial solution
	Value     int // value of the partial solution
	Remaining int // remaining capacity
	Best      int // incumbent value
	Available int // undecided records
	Steps     int64
}

// Incumbent describes a newly recorded best solution.
type Incumbent struct {
	Value  int
	Weight int
	Size   int
	Steps  int64
}

// Observer receives search events. Implementations must not retain the
// engine or mutate anything the search reads; they run synchronously on the
// search goroutine.
type Observer interface {
	OnStepStart(s Step)
	OnStepEnd(s Step)
	OnIncumbent(inc Incumbent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) OnStepStart(Step)      {}
func (NoopObserver) OnStepEnd(Step)        {}
func (NoopObserver) OnIncumbent(Incumbent) {}

// Observers fans events out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return NoopObserver{}
	case 1:
		return list[0]
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) OnStepStart(s Step) {
	for _, o := range m {
		o.OnStepStart(s)
	}
}

func (m multiObserver) OnStepEnd(s Step) {
	for _, o := range m {
		o.OnStepEnd(s)
	}
}

func (m multiObserver) OnIncumbent(inc Incumbent) {
	for _, o := range m {
		o.OnIncumbent(inc)
	}
}
