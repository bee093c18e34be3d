package instance

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidVertexID is returned by [Instance.AddVertex] when the vertex
	// ID is empty. All vertices must have non-empty identifiers.
	ErrInvalidVertexID = errors.New("vertex ID must not be empty")

	// ErrDuplicateVertexID is returned by [Instance.AddVertex] when a vertex
	// with the same ID already exists.
	ErrDuplicateVertexID = errors.New("duplicate vertex ID")

	// ErrUnknownVertex is returned by [Instance.AddEdge] when an endpoint
	// does not reference a declared vertex.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrSelfLoop is returned by [Instance.AddEdge] when both endpoints are
	// the same vertex. Instances are simple graphs.
	ErrSelfLoop = errors.New("self-loop not allowed")

	// ErrNonPositiveWeight is returned by [Instance.Validate] when a vertex
	// has weight ≤ 0. The value-per-weight ratio is undefined for such vertices.
	ErrNonPositiveWeight = errors.New("vertex weight must be positive")

	// ErrNegativeValue is returned by [Instance.Validate] when a vertex has
	// a negative value.
	ErrNegativeValue = errors.New("vertex value must not be negative")

	// ErrValueOverflow is returned by [Instance.Validate] when the values of
	// all vertices sum past math.MaxInt.
	ErrValueOverflow = errors.New("total vertex value overflows int")

	// ErrNegativeCapacity is returned by [Instance.Validate] when the
	// capacity is below zero.
	ErrNegativeCapacity = errors.New("capacity must not be negative")
)

// Vertex is a graph vertex with a resource cost and a reward.
type Vertex struct {
	ID     string // Unique identifier (also used as display label)
	Weight int    // Resource cost, positive for valid instances
	Value  int    // Reward, non-negative
}

// Edge is an undirected connection between two vertices.
// Edge{U: "a", V: "b"} and Edge{U: "b", V: "a"} describe the same edge.
type Edge struct {
	U string
	V string
}

// Instance is an undirected vertex-weighted graph together with a global
// capacity. Vertices keep their insertion order, and the position of a
// vertex in [Instance.Vertices] is its index for adjacency lookups.
//
// The zero value is not usable - use New to create a valid Instance.
// Instance is not safe for concurrent mutation.
type Instance struct {
	Name     string
	Capacity int

	vertices []Vertex
	edges    []Edge
	index    map[string]int
	adj      [][]int // vertex index -> neighbor indices (insertion order)
	seen     map[[2]int]struct{}
}

// New creates an empty instance with the given capacity.
func New(name string, capacity int) *Instance {
	return &Instance{
		Name:     name,
		Capacity: capacity,
		index:    make(map[string]int),
		seen:     make(map[[2]int]struct{}),
	}
}

// AddVertex appends a vertex. Returns ErrInvalidVertexID if the ID is empty,
// or ErrDuplicateVertexID if a vertex with the same ID already exists.
// Weight and value are not checked here; use Validate once the instance is built.
func (g *Instance) AddVertex(v Vertex) error {
	if v.ID == "" {
		return ErrInvalidVertexID
	}
	if _, exists := g.index[v.ID]; exists {
		return ErrDuplicateVertexID
	}
	g.index[v.ID] = len(g.vertices)
	g.vertices = append(g.vertices, v)
	g.adj = append(g.adj, nil)
	return nil
}

// AddEdge connects two existing vertices. Returns ErrUnknownVertex if either
// endpoint is missing and ErrSelfLoop if both endpoints are equal. Adding an
// edge that already exists (in either orientation) is a no-op.
func (g *Instance) AddEdge(u, v string) error {
	i, ok := g.index[u]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVertex, u)
	}
	j, ok := g.index[v]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVertex, v)
	}
	if i == j {
		return fmt.Errorf("%w: %s", ErrSelfLoop, u)
	}
	key := [2]int{min(i, j), max(i, j)}
	if _, dup := g.seen[key]; dup {
		return nil
	}
	g.seen[key] = struct{}{}
	g.edges = append(g.edges, Edge{U: u, V: v})
	g.adj[i] = append(g.adj[i], j)
	g.adj[j] = append(g.adj[j], i)
	return nil
}

// Validate checks the numeric preconditions of the search: capacity ≥ 0,
// every weight > 0, every value ≥ 0 and a total value below math.MaxInt.
// Structural constraints (unique IDs, declared endpoints, no self-loops) are
// already enforced while building.
// Errors name the offending vertex and wrap the sentinel.
func (g *Instance) Validate() error {
	if g.Capacity < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCapacity, g.Capacity)
	}
	total := 0
	for _, v := range g.vertices {
		if v.Weight <= 0 {
			return fmt.Errorf("vertex %s: %w (got %d)", v.ID, ErrNonPositiveWeight, v.Weight)
		}
		if v.Value < 0 {
			return fmt.Errorf("vertex %s: %w (got %d)", v.ID, ErrNegativeValue, v.Value)
		}
		if total >= math.MaxInt-v.Value {
			return fmt.Errorf("vertex %s: %w", v.ID, ErrValueOverflow)
		}
		total += v.Value
	}
	return nil
}

// Vertices returns a copy of the vertices in insertion order.
func (g *Instance) Vertices() []Vertex { return slices.Clone(g.vertices) }

// Edges returns a copy of the edges in insertion order.
func (g *Instance) Edges() []Edge { return slices.Clone(g.edges) }

// VertexCount returns the number of vertices.
func (g *Instance) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of distinct edges.
func (g *Instance) EdgeCount() int { return len(g.edges) }

// Index returns the position of the vertex with the given ID.
func (g *Instance) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Vertex returns the vertex with the given ID and true, or the zero Vertex
// and false if not found.
func (g *Instance) Vertex(id string) (Vertex, bool) {
	i, ok := g.index[id]
	if !ok {
		return Vertex{}, false
	}
	return g.vertices[i], true
}

// At returns the vertex at index i. It panics if i is out of range.
func (g *Instance) At(i int) Vertex { return g.vertices[i] }

// Neighbors returns the IDs of vertices adjacent to id, in edge insertion
// order. Returns nil if the vertex has no neighbors or doesn't exist.
func (g *Instance) Neighbors(id string) []string {
	i, ok := g.index[id]
	if !ok || len(g.adj[i]) == 0 {
		return nil
	}
	out := make([]string, len(g.adj[i]))
	for k, j := range g.adj[i] {
		out[k] = g.vertices[j].ID
	}
	return out
}

// Degree returns the number of edges incident to id, or 0 if it doesn't exist.
func (g *Instance) Degree(id string) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	return len(g.adj[i])
}

// TotalWeight sums the weights of the given vertex IDs. Unknown IDs are skipped.
func (g *Instance) TotalWeight(ids []string) int {
	total := 0
	for _, id := range ids {
		if v, ok := g.Vertex(id); ok {
			total += v.Weight
		}
	}
	return total
}

// TotalValue sums the values of the given vertex IDs. Unknown IDs are skipped.
func (g *Instance) TotalValue(ids []string) int {
	total := 0
	for _, id := range ids {
		if v, ok := g.Vertex(id); ok {
			total += v.Value
		}
	}
	return total
}

// Clone returns a deep copy of the instance.
func (g *Instance) Clone() *Instance {
	c := New(g.Name, g.Capacity)
	for _, v := range g.vertices {
		_ = c.AddVertex(v)
	}
	for _, e := range g.edges {
		_ = c.AddEdge(e.U, e.V)
	}
	return c
}
