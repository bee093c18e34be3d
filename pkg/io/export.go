package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/instance"
)

// WriteJSON encodes g as an indented JSON document.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *instance.Instance, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes g as a YAML document.
func WriteYAML(g *instance.Instance, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// WriteText encodes g in the text format: the header line, one line per
// vertex and one line per edge. The instance name is not written.
func WriteText(g *instance.Instance, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", g.VertexCount(), g.EdgeCount(), g.Capacity)
	for _, v := range g.Vertices() {
		fmt.Fprintf(bw, "%s %d %d\n", v.ID, v.Weight, v.Value)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(bw, "%s %s\n", e.U, e.V)
	}
	return bw.Flush()
}

// Write encodes g in the given format.
func Write(g *instance.Instance, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(g, w)
	case FormatYAML:
		return WriteYAML(g, w)
	case FormatText, "":
		return WriteText(g, w)
	default:
		return errs.New(errs.ErrCodeUnsupported, "unknown instance format %q", format)
	}
}

// Export writes g to path, choosing the encoder with [FormatFromPath].
func Export(g *instance.Instance, path string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f, FormatFromPath(path))
}
