package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/solver"
)

// Solution is the stored form of a solved set.
type Solution struct {
	Instance string        `json:"instance"`
	Vertices []string      `json:"vertices"`
	Value    int           `json:"value"`
	Weight   int           `json:"weight"`
	Optimal  bool          `json:"optimal"`
	Stats    *solver.Stats `json:"stats,omitempty"`
}

// NewSolution captures a search result for the named instance.
func NewSolution(name string, res solver.Result) Solution {
	stats := res.Stats
	vs := res.Vertices
	if vs == nil {
		vs = []string{}
	}
	return Solution{
		Instance: name,
		Vertices: vs,
		Value:    res.Value,
		Weight:   res.Weight,
		Optimal:  res.Optimal,
		Stats:    &stats,
	}
}

// WriteSolution encodes s as indented JSON.
func WriteSolution(s Solution, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadSolution decodes a solution document from r.
func ReadSolution(r io.Reader) (Solution, error) {
	var s Solution
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Solution{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode solution")
	}
	return s, nil
}

// ExportSolution writes s to a JSON file at path.
func ExportSolution(s Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSolution(s, f)
}

// ImportSolution reads a solution JSON file at path.
func ImportSolution(path string) (Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Solution{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Solution{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSolution(f)
}
