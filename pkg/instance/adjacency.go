package instance

// Adjacency is a dense, read-only square boolean matrix over vertex indices.
// Adjacent(i, j) is true iff an edge connects vertex i and vertex j.
//
// The matrix is stored row-major in a single slice to keep lookups in the
// search loop free of pointer chasing.
type Adjacency struct {
	n    int
	bits []bool
}

// NewAdjacency builds an n×n matrix from index pairs. Pairs out of range or
// with equal endpoints are ignored.
func NewAdjacency(n int, pairs [][2]int) Adjacency {
	a := Adjacency{n: n, bits: make([]bool, n*n)}
	for _, p := range pairs {
		i, j := p[0], p[1]
		if i < 0 || j < 0 || i >= n || j >= n || i == j {
			continue
		}
		a.bits[i*n+j] = true
		a.bits[j*n+i] = true
	}
	return a
}

// Adjacency builds the matrix for this instance. It is computed on every call;
// callers that query it repeatedly should keep the result.
func (g *Instance) Adjacency() Adjacency {
	pairs := make([][2]int, 0, len(g.seen))
	for p := range g.seen {
		pairs = append(pairs, p)
	}
	return NewAdjacency(len(g.vertices), pairs)
}

// Size returns the number of rows (and columns).
func (a Adjacency) Size() int { return a.n }

// Adjacent reports whether i and j share an edge. Out-of-range indices are
// never adjacent.
func (a Adjacency) Adjacent(i, j int) bool {
	if i < 0 || j < 0 || i >= a.n || j >= a.n {
		return false
	}
	return a.bits[i*a.n+j]
}
