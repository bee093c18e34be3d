// Package instance models the input of the capacity-constrained maximum
// weight independent set problem: an undirected graph whose vertices carry
// an integer weight and an integer value, plus a single global capacity.
//
// # Basic Usage
//
// Create an instance with [New], add vertices with [Instance.AddVertex] and
// edges with [Instance.AddEdge], then call [Instance.Validate] before solving:
//
//	g := instance.New("toy", 5)
//	g.AddVertex(instance.Vertex{ID: "A", Weight: 2, Value: 3})
//	g.AddVertex(instance.Vertex{ID: "B", Weight: 3, Value: 5})
//	g.AddEdge("A", "B")
//	if err := g.Validate(); err != nil {
//	    return err
//	}
//
// Building enforces structure (unique IDs, declared endpoints, no self-loops);
// Validate enforces the numeric preconditions of the search (positive
// weights, non-negative values and capacity).
//
// # Adjacency
//
// [Instance.Adjacency] materializes a dense boolean matrix over vertex
// indices. The search builds it once and only reads it afterwards.
//
// # Random Instances
//
// [Generate] produces reproducible random instances for benchmarks and
// property tests.
package instance
