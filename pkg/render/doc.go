// Package render turns an instance and its chosen vertex set into a
// picture.
//
// # Formats
//
// [ParseFormat] accepts the output formats understood by the render stage:
//
//   - dot: Graphviz DOT source
//   - svg: SVG rendered in-process by Graphviz
//   - json: the solution document from pkg/io
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws the conflict graph with Graphviz. Selected
// vertices are filled, the rest are outlined.
//
//	dot := nodelink.ToDOT(g, res.Vertices, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/knapset/pkg/render/nodelink
package render
