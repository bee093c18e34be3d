package solver

import (
	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/instance"
)

// Report summarizes an independent check of a proposed vertex set.
type Report struct {
	Value          int  `json:"value"`
	Weight         int  `json:"weight"`
	Independent    bool `json:"independent"`
	WithinCapacity bool `json:"within_capacity"`
}

// Feasible reports whether the set passed every check.
func (r Report) Feasible() bool { return r.Independent && r.WithinCapacity }

// Verify re-checks ids against inst without running any search: every ID
// must name a distinct vertex, no two vertices may be adjacent, and the total
// weight must fit the capacity.
//
// Unknown or repeated IDs fail with INVALID_VERTEX and an empty report. For
// the other checks the report is always filled in, and the error
// (INFEASIBLE_SOLUTION) names the first violation found.
func Verify(inst *instance.Instance, ids []string) (Report, error) {
	if inst == nil {
		return Report{}, errs.New(errs.ErrCodeInvalidInstance, "instance is nil")
	}
	idx := make([]int, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		i, ok := inst.Index(id)
		if !ok {
			return Report{}, errs.New(errs.ErrCodeInvalidVertex, "unknown vertex %q", id)
		}
		if _, dup := seen[id]; dup {
			return Report{}, errs.New(errs.ErrCodeInvalidVertex, "vertex %q listed twice", id)
		}
		seen[id] = struct{}{}
		idx = append(idx, i)
	}

	rep := Report{Independent: true}
	for _, i := range idx {
		v := inst.At(i)
		rep.Weight = addSat(rep.Weight, v.Weight)
		rep.Value = addSat(rep.Value, v.Value)
	}
	rep.WithinCapacity = rep.Weight <= inst.Capacity

	var first error
	adj := inst.Adjacency()
	for a := 0; a < len(idx) && rep.Independent; a++ {
		for b := a + 1; b < len(idx); b++ {
			if adj.Adjacent(idx[a], idx[b]) {
				rep.Independent = false
				first = errs.New(errs.ErrCodeInfeasible, "vertices %s and %s are adjacent", ids[a], ids[b])
				break
			}
		}
	}
	if first == nil && !rep.WithinCapacity {
		first = errs.New(errs.ErrCodeInfeasible, "total weight %d exceeds capacity %d", rep.Weight, inst.Capacity)
	}
	return rep, first
}
