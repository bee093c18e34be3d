package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/knapset/pkg/instance"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds weight and value to node labels.
	// When false, only the vertex ID is shown.
	Detailed bool
}

const (
	selectedFill = "#a7e3a1"
	conflictEdge = "#d62728"
)

// ToDOT converts an instance to an undirected Graphviz graph. Vertices listed
// in selected are filled; unknown IDs in selected are ignored.
func ToDOT(g *instance.Instance, selected []string, opts Options) string {
	chosen := make(map[string]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	fmt.Fprintf(&buf, "  label=%q;\n", graphLabel(g, selected))
	buf.WriteString("\n")

	for _, v := range g.Vertices() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(v, opts.Detailed))}
		if chosen[v.ID] {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", selectedFill), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", v.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		switch {
		case chosen[e.U] && chosen[e.V]:
			fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=2];\n", e.U, e.V, conflictEdge)
		case chosen[e.U] || chosen[e.V]:
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.U, e.V)
		default:
			fmt.Fprintf(&buf, "  %q -- %q [style=dashed, color=grey];\n", e.U, e.V)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(v instance.Vertex, detailed bool) string {
	if !detailed {
		return v.ID
	}
	return fmt.Sprintf("%s\nw=%d v=%d", v.ID, v.Weight, v.Value)
}

func graphLabel(g *instance.Instance, selected []string) string {
	return fmt.Sprintf("%s  C=%d  weight=%d  value=%d",
		g.Name, g.Capacity, g.TotalWeight(selected), g.TotalValue(selected))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose viewBox starts
// at the origin and whose size is given in user units, so the image scales
// cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
