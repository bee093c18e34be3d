// Package nodelink renders an instance as an undirected node-link diagram.
//
// # Usage
//
// Convert an instance and the selected vertex IDs to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, res.Vertices, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: labels carry weight and value under the vertex ID
//
// # Styling
//
// Selected vertices are filled green. Unselected vertices are white and
// outlined. Edges between an unselected vertex and a selected one are drawn
// solid; edges between two unselected vertices are dashed. No edge can join
// two selected vertices in a feasible solution, so such an edge is drawn in
// red to make an infeasible input obvious.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
