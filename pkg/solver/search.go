package solver

import (
	"context"
	"math"
	"slices"
	"time"

	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/instance"
)

// engine holds all search state for one Solve call. Nothing here is shared
// between calls.
type engine struct {
	inst *instance.Instance
	adj  instance.Adjacency

	// Arena and the three lists over it.
	recs      []record
	available *candidates
	solution  *candidates
	used      *candidates
	lists     [4]*candidates // indexed by role; lists[roleDetached] is nil

	// Records excluded by open frames, in exclusion order. Each frame owns
	// the suffix starting at the length it saw on entry.
	trail []int

	remaining int
	current   int
	best      int
	bestSet   []int

	// Budget
	ctx         context.Context
	maxSteps    int64
	useDeadline bool
	deadline    time.Time
	stop        error

	observer Observer
	stats    Stats
}

// Solve finds a maximum-value independent set of inst whose total weight
// does not exceed inst.Capacity.
//
// The search is an exact depth-first branch-and-bound. Candidates are tried
// in descending value-per-weight order; a branch is abandoned as soon as its
// value plus the fractional-knapsack bound of the remaining candidates cannot
// beat the incumbent. When several sets share the optimal value, the one
// discovered last is returned.
//
// Preconditions are checked up front: capacity, weights and values must be
// non-negative and the values of all vertices must sum below math.MaxInt
// (errors carry INVALID_* codes). Zero weights are accepted.
//
// If the search stops early (MaxSteps, TimeLimit, or ctx cancellation) the
// best set found so far is returned with Optimal == false, together with
// ErrBudgetExhausted, ErrTimeLimit, or the context error.
func Solve(ctx context.Context, inst *instance.Instance, opts Options) (Result, error) {
	if err := checkPreconditions(inst); err != nil {
		return Result{}, err
	}
	start := time.Now()

	e := newEngine(ctx, inst, opts)
	e.explore()
	e.stats.Duration = time.Since(start)

	res := e.result()
	if e.stop != nil {
		return res, e.stop
	}
	return res, nil
}

func checkPreconditions(inst *instance.Instance) error {
	if inst == nil {
		return errs.New(errs.ErrCodeInvalidInstance, "instance is nil")
	}
	if inst.Capacity < 0 {
		return errs.New(errs.ErrCodeInvalidCapacity, "capacity must not be negative (got %d)", inst.Capacity)
	}
	total := 0
	for i := 0; i < inst.VertexCount(); i++ {
		v := inst.At(i)
		if v.Weight < 0 {
			return errs.New(errs.ErrCodeInvalidWeight, "vertex %s: weight must not be negative (got %d)", v.ID, v.Weight)
		}
		if v.Value < 0 {
			return errs.New(errs.ErrCodeInvalidValue, "vertex %s: value must not be negative (got %d)", v.ID, v.Value)
		}
		if total = addSat(total, v.Value); total == math.MaxInt {
			return errs.New(errs.ErrCodeInvalidValue, "total value of all vertices overflows int")
		}
	}
	return nil
}

func newEngine(ctx context.Context, inst *instance.Instance, opts Options) *engine {
	if ctx == nil {
		ctx = context.Background()
	}
	n := inst.VertexCount()
	e := &engine{
		inst:      inst,
		adj:       inst.Adjacency(),
		recs:      make([]record, n),
		remaining: inst.Capacity,
		ctx:       ctx,
		maxSteps:  opts.MaxSteps,
		observer:  opts.Observer,
	}
	if e.observer == nil {
		e.observer = NoopObserver{}
	}
	if opts.TimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(opts.TimeLimit)
	}

	for i := 0; i < n; i++ {
		v := inst.At(i)
		e.recs[i] = newRecord(i, v.Weight, v.Value)
	}
	e.available = newCandidates(e.recs, roleAvailable)
	e.solution = newCandidates(e.recs, roleSolution)
	e.used = newCandidates(e.recs, roleUsed)
	e.lists = [4]*candidates{nil, e.available, e.solution, e.used}

	// Sorting once and appending keeps the initial build O(n log n); every
	// appended record has the lowest ratio seen so far.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		switch {
		case precedes(&e.recs[a], &e.recs[b]):
			return -1
		case precedes(&e.recs[b], &e.recs[a]):
			return 1
		}
		return 0
	})
	for _, i := range order {
		e.available.InsertTail(i)
	}
	return e
}

// move detaches record i from whichever list holds it and inserts it into dst.
func (e *engine) move(i int, dst *candidates) {
	if r := e.recs[i].role; r != roleDetached {
		e.lists[r].Remove(i)
	}
	if dst == e.solution {
		dst.InsertTail(i)
		return
	}
	dst.InsertOrdered(i)
}

// include commits record i to the partial solution.
func (e *engine) include(i int) {
	e.move(i, e.solution)
	e.remaining -= e.recs[i].weight
	e.current += e.recs[i].value
	if d := e.solution.Len(); d > e.stats.MaxDepth {
		e.stats.MaxDepth = d
	}
}

// retract pops the most recent decision off the partial solution and
// returns it detached.
func (e *engine) retract() int {
	i := e.solution.PopTail()
	e.remaining += e.recs[i].weight
	e.current -= e.recs[i].value
	return i
}

// halted reports whether the search must unwind, checking the step budget
// on every call and the clock and context every deadlineInterval steps.
func (e *engine) halted() bool {
	if e.stop != nil {
		return true
	}
	if e.maxSteps > 0 && e.stats.Steps >= e.maxSteps {
		e.stop = ErrBudgetExhausted
		return true
	}
	if e.stats.Steps&(deadlineInterval-1) != 0 {
		return false
	}
	if err := e.ctx.Err(); err != nil {
		e.stop = err
		return true
	}
	if e.useDeadline && time.Now().After(e.deadline) {
		e.stop = ErrTimeLimit
		return true
	}
	return false
}

func (e *engine) snapshot() Step {
	return Step{
		Depth:     e.solution.Len(),
		Value:     e.current,
		Remaining: e.remaining,
		Best:      e.best,
		Available: e.available.Len(),
		Steps:     e.stats.Steps,
	}
}

// recordIncumbent keeps the partial solution if it is not worse than the
// best one so far. Ties replace the incumbent.
func (e *engine) recordIncumbent() {
	if e.current < e.best {
		return
	}
	e.best = e.current
	e.bestSet = e.solution.Identities()
	e.stats.Incumbents++
	e.observer.OnIncumbent(Incumbent{
		Value:  e.current,
		Weight: e.inst.Capacity - e.remaining,
		Size:   len(e.bestSet),
		Steps:  e.stats.Steps,
	})
}

// explore runs one decision step: the partial solution is a candidate
// incumbent, and every feasible available record, in ratio order, is first
// included (recursing) and then excluded for the rest of this step.
// Records excluded here are returned to the pool before the step ends,
// since the parent step has not decided them.
func (e *engine) explore() {
	if e.halted() {
		return
	}
	e.stats.Steps++
	e.observer.OnStepStart(e.snapshot())
	e.recordIncumbent()

	mark := len(e.trail)
	for c := e.available.PeekHead(); c != none; {
		if e.current+e.available.BoundEstimate(e.remaining) <= e.best {
			e.stats.Prunes++
			break
		}
		if w, ok := e.available.MinWeight(); !ok || e.remaining < w {
			break
		}
		next := e.recs[c].next
		if !e.solution.CanExtend(c, e.adj, e.remaining) {
			c = next
			continue
		}

		e.include(c)
		e.explore()
		e.retract()

		e.move(c, e.used)
		e.trail = append(e.trail, c)
		if e.stop != nil {
			break
		}
		c = next
	}

	for k := len(e.trail) - 1; k >= mark; k-- {
		e.move(e.trail[k], e.available)
	}
	e.trail = e.trail[:mark]

	e.observer.OnStepEnd(e.snapshot())
}

func (e *engine) result() Result {
	idx := slices.Clone(e.bestSet)
	slices.Sort(idx)
	res := Result{
		Vertices: make([]string, len(idx)),
		Indices:  idx,
		Optimal:  e.stop == nil,
		Stats:    e.stats,
	}
	for k, i := range idx {
		v := e.inst.At(i)
		res.Vertices[k] = v.ID
		res.Value += v.Value
		res.Weight += v.Weight
	}
	return res
}
