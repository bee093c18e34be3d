package solver

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/matzehuels/knapset/pkg/instance"
)

// none marks the end of a list and an absent record.
const none = -1

// role tags which list currently holds a record. A record is held by at most
// one list at a time.
type role uint8

const (
	roleDetached role = iota
	roleAvailable
	roleSolution
	roleUsed
)

func (r role) String() string {
	switch r {
	case roleAvailable:
		return "available"
	case roleSolution:
		return "solution"
	case roleUsed:
		return "used"
	default:
		return "detached"
	}
}

// record is one vertex inside the search. Records live in a single arena
// slice and are linked by index, so moving a record between lists never
// allocates.
type record struct {
	vertex int // index into the instance (identity)
	weight int
	value  int
	ratio  float64 // value per weight, the sort key

	prev int
	next int
	role role
}

func newRecord(vertex, weight, value int) record {
	return record{
		vertex: vertex,
		weight: weight,
		value:  value,
		ratio:  ratioOf(value, weight),
		prev:   none,
		next:   none,
	}
}

// ratioOf returns value/weight. Zero-weight records sort first when they
// carry value and last otherwise.
func ratioOf(value, weight int) float64 {
	if weight == 0 {
		if value > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return float64(value) / float64(weight)
}

// precedes reports whether a sorts before b: higher ratio first, then the
// heavier record, then the lower vertex index.
func precedes(a, b *record) bool {
	if a.ratio != b.ratio {
		return a.ratio > b.ratio
	}
	if a.weight != b.weight {
		return a.weight > b.weight
	}
	return a.vertex < b.vertex
}

// candidates is a doubly linked list of arena records. The same type serves
// as the ratio-ordered pool of available records, the chronological partial
// solution, and the ratio-ordered buffer of excluded records.
//
// All lists of one search share the arena slice; the list only owns its
// head, tail and size.
type candidates struct {
	recs []record
	role role
	head int
	tail int
	size int
}

func newCandidates(recs []record, r role) *candidates {
	return &candidates{recs: recs, role: r, head: none, tail: none}
}

// Len returns the number of held records.
func (l *candidates) Len() int { return l.size }

// Empty reports whether the list holds no records.
func (l *candidates) Empty() bool { return l.size == 0 }

// PeekHead returns the first record, or none.
func (l *candidates) PeekHead() int { return l.head }

// PeekTail returns the last record, or none.
func (l *candidates) PeekTail() int { return l.tail }

// InsertOrdered inserts record i keeping ratio order. O(len).
func (l *candidates) InsertOrdered(i int) {
	l.claim(i)
	rec := &l.recs[i]
	at := l.head
	for at != none && !precedes(rec, &l.recs[at]) {
		at = l.recs[at].next
	}
	l.linkBefore(i, at)
}

// InsertTail appends record i without reordering. The caller guarantees
// this keeps the list valid for its role.
func (l *candidates) InsertTail(i int) {
	l.claim(i)
	l.linkBefore(i, none)
}

// PopHead detaches and returns the first record, or none if empty.
func (l *candidates) PopHead() int {
	if l.head == none {
		return none
	}
	return l.Remove(l.head)
}

// PopTail detaches and returns the last record, or none if empty.
func (l *candidates) PopTail() int {
	if l.tail == none {
		return none
	}
	return l.Remove(l.tail)
}

// Remove detaches record i, which must be held by this list, in O(1).
func (l *candidates) Remove(i int) int {
	rec := &l.recs[i]
	if rec.role != l.role {
		panic(fmt.Sprintf("solver: remove record %d from %s list, held by %s", i, l.role, rec.role))
	}
	if rec.prev != none {
		l.recs[rec.prev].next = rec.next
	} else {
		l.head = rec.next
	}
	if rec.next != none {
		l.recs[rec.next].prev = rec.prev
	} else {
		l.tail = rec.prev
	}
	rec.prev, rec.next = none, none
	rec.role = roleDetached
	l.size--
	return i
}

// CanExtend reports whether record i fits into the remaining capacity and
// is adjacent to no record held by this list. It is called on the solution.
func (l *candidates) CanExtend(i int, adj instance.Adjacency, remaining int) bool {
	rec := &l.recs[i]
	if rec.weight > remaining {
		return false
	}
	for at := l.head; at != none; at = l.recs[at].next {
		if adj.Adjacent(rec.vertex, l.recs[at].vertex) {
			return false
		}
	}
	return true
}

// BoundEstimate returns the fractional-knapsack bound of the held records
// for the given capacity: full values while records fit, then the rounded-up
// proportional value of the first record that does not. Adjacency is
// ignored, so the result is never below the best value any independent
// subset of these records can reach.
func (l *candidates) BoundEstimate(remaining int) int {
	est := 0
	for at := l.head; at != none; at = l.recs[at].next {
		rec := &l.recs[at]
		if rec.weight <= remaining {
			est += rec.value
			remaining -= rec.weight
			continue
		}
		est += mulDivCeil(rec.value, remaining, rec.weight)
		break
	}
	return est
}

// MinWeight returns the smallest weight among held records.
func (l *candidates) MinWeight() (int, bool) {
	if l.head == none {
		return 0, false
	}
	w := math.MaxInt
	for at := l.head; at != none; at = l.recs[at].next {
		w = min(w, l.recs[at].weight)
	}
	return w, true
}

// Identities returns the vertex indices of the held records in list order.
func (l *candidates) Identities() []int {
	out := make([]int, 0, l.size)
	for at := l.head; at != none; at = l.recs[at].next {
		out = append(out, l.recs[at].vertex)
	}
	return out
}

func (l *candidates) claim(i int) {
	rec := &l.recs[i]
	if rec.role != roleDetached {
		panic(fmt.Sprintf("solver: insert record %d into %s list, still held by %s", i, l.role, rec.role))
	}
	rec.role = l.role
}

// linkBefore links record i in front of at; at == none appends.
func (l *candidates) linkBefore(i, at int) {
	rec := &l.recs[i]
	if at == none {
		rec.prev, rec.next = l.tail, none
		if l.tail != none {
			l.recs[l.tail].next = i
		} else {
			l.head = i
		}
		l.tail = i
	} else {
		p := l.recs[at].prev
		rec.prev, rec.next = p, at
		l.recs[at].prev = i
		if p != none {
			l.recs[p].next = i
		} else {
			l.head = i
		}
	}
	l.size++
}

// mulDivCeil returns ⌈a·b/c⌉ for a, b ≥ 0 and c > b. The product is taken
// in 128 bits; the quotient is at most a, so it always fits an int.
func mulDivCeil(a, b, c int) int {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	q, r := bits.Div64(hi, lo, uint64(c))
	if r != 0 {
		q++
	}
	return int(q)
}

// addSat returns a+b, or math.MaxInt when the sum would overflow.
func addSat(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
