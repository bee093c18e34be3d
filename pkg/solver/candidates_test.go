package solver

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/knapset/pkg/instance"
)

// arena builds records from (weight, value) pairs; record i has vertex i.
func arena(wv ...[2]int) []record {
	recs := make([]record, len(wv))
	for i, p := range wv {
		recs[i] = newRecord(i, p[0], p[1])
	}
	return recs
}

func TestRatioOf(t *testing.T) {
	tests := []struct {
		name          string
		value, weight int
		want          float64
	}{
		{"regular", 3, 2, 1.5},
		{"zero value", 0, 4, 0},
		{"zero weight with value", 5, 0, math.Inf(1)},
		{"zero weight zero value", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ratioOf(tt.value, tt.weight); got != tt.want {
				t.Errorf("ratioOf(%d, %d) = %v, want %v", tt.value, tt.weight, got, tt.want)
			}
		})
	}
}

func TestInsertOrderedKeepsRatioOrder(t *testing.T) {
	recs := arena(
		[2]int{2, 3}, // 0: 1.5
		[2]int{3, 5}, // 1: 1.67
		[2]int{4, 6}, // 2: 1.5, heavier than 0
		[2]int{1, 2}, // 3: 2.0
		[2]int{2, 3}, // 4: 1.5, same as 0, higher index
	)
	l := newCandidates(recs, roleAvailable)
	for _, i := range []int{0, 4, 1, 2, 3} {
		l.InsertOrdered(i)
	}

	want := []int{3, 1, 2, 0, 4}
	if got := l.Identities(); !slices.Equal(got, want) {
		t.Errorf("Identities() = %v, want %v", got, want)
	}
	if l.Len() != 5 {
		t.Errorf("Len() = %d, want 5", l.Len())
	}
	if l.PeekHead() != 3 || l.PeekTail() != 4 {
		t.Errorf("head/tail = %d/%d, want 3/4", l.PeekHead(), l.PeekTail())
	}
}

func TestInsertTailKeepsArrivalOrder(t *testing.T) {
	recs := arena([2]int{1, 1}, [2]int{1, 9}, [2]int{1, 5})
	l := newCandidates(recs, roleSolution)
	l.InsertTail(0)
	l.InsertTail(1)
	l.InsertTail(2)

	if got := l.Identities(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("Identities() = %v, want [0 1 2]", got)
	}
}

func TestPopAndRemove(t *testing.T) {
	recs := arena([2]int{1, 4}, [2]int{1, 3}, [2]int{1, 2}, [2]int{1, 1})
	l := newCandidates(recs, roleAvailable)
	for i := range recs {
		l.InsertTail(i)
	}

	l.Remove(1)
	if got := l.Identities(); !slices.Equal(got, []int{0, 2, 3}) {
		t.Fatalf("after Remove(1): %v, want [0 2 3]", got)
	}
	if recs[1].role != roleDetached || recs[1].prev != none || recs[1].next != none {
		t.Errorf("removed record not detached: %+v", recs[1])
	}

	if got := l.PopHead(); got != 0 {
		t.Errorf("PopHead() = %d, want 0", got)
	}
	if got := l.PopTail(); got != 3 {
		t.Errorf("PopTail() = %d, want 3", got)
	}
	if got := l.PopTail(); got != 2 {
		t.Errorf("PopTail() = %d, want 2", got)
	}
	if !l.Empty() {
		t.Fatalf("Empty() = false, Len() = %d", l.Len())
	}
	if l.PopHead() != none || l.PopTail() != none || l.PeekHead() != none || l.PeekTail() != none {
		t.Error("operations on empty list should return none")
	}

	// Detached records can be reinserted.
	l.InsertOrdered(1)
	l.InsertOrdered(0)
	if got := l.Identities(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("after reinsertion: %v, want [0 1]", got)
	}
}

func TestRoleDisciplinePanics(t *testing.T) {
	recs := arena([2]int{1, 1}, [2]int{1, 1})
	avail := newCandidates(recs, roleAvailable)
	sol := newCandidates(recs, roleSolution)
	avail.InsertTail(0)

	tests := []struct {
		name string
		fn   func()
	}{
		{"insert held record", func() { sol.InsertTail(0) }},
		{"insert ordered held record", func() { sol.InsertOrdered(0) }},
		{"remove foreign record", func() { sol.Remove(0) }},
		{"remove detached record", func() { avail.Remove(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestCanExtend(t *testing.T) {
	// 0-1 adjacent, 2 isolated.
	recs := arena([2]int{2, 3}, [2]int{3, 5}, [2]int{4, 6})
	adj := instance.NewAdjacency(3, [][2]int{{0, 1}})
	sol := newCandidates(recs, roleSolution)

	if !sol.CanExtend(0, adj, 5) {
		t.Error("empty solution should accept a fitting record")
	}
	if sol.CanExtend(2, adj, 3) {
		t.Error("record heavier than remaining capacity accepted")
	}

	sol.InsertTail(0)
	if sol.CanExtend(1, adj, 10) {
		t.Error("record adjacent to the solution accepted")
	}
	if !sol.CanExtend(2, adj, 4) {
		t.Error("non-adjacent fitting record rejected")
	}
}

func TestBoundEstimate(t *testing.T) {
	// Ratio order: D(1,2) B(3,5) C(4,6) A(2,3)
	recs := arena([2]int{2, 3}, [2]int{3, 5}, [2]int{4, 6}, [2]int{1, 2})
	l := newCandidates(recs, roleAvailable)
	for i := range recs {
		l.InsertOrdered(i)
	}

	tests := []struct {
		remaining int
		want      int
	}{
		{0, 0},
		{1, 2},            // D
		{2, 2 + 2},        // D + ceil(5*1/3)
		{4, 7},            // D + B
		{5, 7 + 2},        // D + B + ceil(6*1/4)
		{8, 13},           // D + B + C
		{9, 13 + 2},       // + ceil(3*1/2)
		{100, 2 + 5 + 6 + 3},
	}
	for _, tt := range tests {
		if got := l.BoundEstimate(tt.remaining); got != tt.want {
			t.Errorf("BoundEstimate(%d) = %d, want %d", tt.remaining, got, tt.want)
		}
	}

	empty := newCandidates(recs, roleUsed)
	if got := empty.BoundEstimate(10); got != 0 {
		t.Errorf("empty BoundEstimate = %d, want 0", got)
	}
}

func TestBoundEstimateIsUpperBound(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7^0xdeadbeef))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(10)
		recs := make([]record, n)
		for i := range recs {
			recs[i] = newRecord(i, 1+rng.IntN(9), rng.IntN(20))
		}
		l := newCandidates(recs, roleAvailable)
		for i := range recs {
			l.InsertOrdered(i)
		}
		remaining := rng.IntN(30)

		// Best subset by exhaustive search, adjacency ignored. Any
		// independent subset is one of these.
		best := 0
		for mask := 0; mask < 1<<n; mask++ {
			w, v := 0, 0
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					w += recs[i].weight
					v += recs[i].value
				}
			}
			if w <= remaining && v > best {
				best = v
			}
		}
		if got := l.BoundEstimate(remaining); got < best {
			t.Fatalf("trial %d: BoundEstimate(%d) = %d < exhaustive best %d", trial, remaining, got, best)
		}
	}
}

func TestBoundEstimateLargeValues(t *testing.T) {
	// value*remaining exceeds MaxInt64; the bound must still be exact.
	recs := arena([2]int{8437750348, 15681095709})
	l := newCandidates(recs, roleAvailable)
	l.InsertOrdered(0)
	if got, want := l.BoundEstimate(3862674509), 7178568478; got != want {
		t.Errorf("BoundEstimate = %d, want %d", got, want)
	}
}

func TestMulDivCeil(t *testing.T) {
	tests := []struct {
		a, b, c int
		want    int
	}{
		{5, 1, 3, 2},
		{6, 2, 4, 3},
		{0, 7, 9, 0},
		{7, 0, 9, 0},
		{math.MaxInt, math.MaxInt - 1, math.MaxInt, math.MaxInt - 1},
		{math.MaxInt, 1 << 40, 1<<40 + 1, 9223372036846387200},
	}
	for _, tt := range tests {
		if got := mulDivCeil(tt.a, tt.b, tt.c); got != tt.want {
			t.Errorf("mulDivCeil(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
		}
	}
}

func TestMinWeight(t *testing.T) {
	recs := arena([2]int{5, 1}, [2]int{2, 1}, [2]int{7, 1})
	l := newCandidates(recs, roleAvailable)
	if _, ok := l.MinWeight(); ok {
		t.Error("MinWeight on empty list reported ok")
	}
	for i := range recs {
		l.InsertOrdered(i)
	}
	if w, ok := l.MinWeight(); !ok || w != 2 {
		t.Errorf("MinWeight() = %d, %v; want 2, true", w, ok)
	}
}

func TestRoleString(t *testing.T) {
	for r, want := range map[role]string{
		roleDetached:  "detached",
		roleAvailable: "available",
		roleSolution:  "solution",
		roleUsed:      "used",
	} {
		if got := r.String(); got != want {
			t.Errorf("role(%d).String() = %q, want %q", r, got, want)
		}
	}
}
