// Package pkg provides the libraries behind knapset, an exact solver for the
// capacity-constrained maximum-weight independent set problem.
//
// # Overview
//
// An instance is a graph whose vertices carry an integer weight and value.
// A solution is a set of pairwise non-adjacent vertices whose total weight
// fits the capacity; knapset finds one of maximal total value.
//
//  1. [instance] - the graph model, adjacency matrix and random generator
//  2. [io] - text, JSON and YAML codecs for instances and solutions
//  3. [solver] - branch-and-bound search and independent verification
//  4. [pipeline] - orchestration (solve → verify → render) with caching
//  5. [render] - Graphviz node-link output
//  6. [cache], [store] - solution cache backends and the run archive
//  7. [observability], [metrics] - hooks and their Prometheus implementation
//
// # Architecture
//
//	instance file (.txt / .json / .yaml)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [solver] package (search, or a cached optimum via [pipeline])
//	         ↓
//	    [render] package (DOT / SVG / JSON)
//
// # Quick Start
//
//	g, err := io.Import("examples/toy.json")
//	if err != nil {
//	    return err
//	}
//	res, err := solver.Solve(ctx, g, solver.Options{TimeLimit: 10 * time.Second})
//	if err != nil && !pipeline.Partial(err) {
//	    return err
//	}
//	fmt.Println(res.Vertices, res.Value)
//
// [instance]: github.com/matzehuels/knapset/pkg/instance
// [io]: github.com/matzehuels/knapset/pkg/io
// [solver]: github.com/matzehuels/knapset/pkg/solver
// [pipeline]: github.com/matzehuels/knapset/pkg/pipeline
// [render]: github.com/matzehuels/knapset/pkg/render
// [cache]: github.com/matzehuels/knapset/pkg/cache
// [store]: github.com/matzehuels/knapset/pkg/store
// [observability]: github.com/matzehuels/knapset/pkg/observability
// [metrics]: github.com/matzehuels/knapset/pkg/metrics
package pkg
