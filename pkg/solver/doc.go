// Package solver finds maximum-value independent sets under a weight
// capacity.
//
// # Problem
//
// Every vertex of an [instance.Instance] carries a weight and a value. A
// feasible set is a set of pairwise non-adjacent vertices whose weights sum
// to at most the instance capacity. [Solve] returns a feasible set of
// maximum total value.
//
// # Search
//
// The search is an exact depth-first branch-and-bound. Vertices live as
// records in one arena and move between three index-linked lists:
//
//   - available: undecided records, kept in descending value-per-weight order
//   - solution: the partial solution, in the order decisions were made
//   - used: records excluded on the current path, also ratio ordered
//
// Each decision step walks the available list in ratio order. A record that
// fits and has no neighbour in the partial solution is first included (one
// recursion level deeper) and then excluded. The walk stops when the
// fractional-knapsack bound of the available list cannot improve on the
// incumbent, or when no available record fits the remaining capacity. When a
// step finishes, the records it excluded are returned to the available list
// for the step above it.
//
// # Budgets
//
// [Options] can bound the search by steps or wall-clock time, and Solve
// honours context cancellation. An interrupted search returns the incumbent
// with Result.Optimal set to false alongside the reason.
//
// # Verification
//
// [Verify] checks any proposed set (for example one read back from disk)
// against an instance without searching.
package solver
