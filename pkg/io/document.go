package io

import (
	"errors"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/instance"
)

// Format identifies an instance encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding for a file name by its extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

type document struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Capacity int      `json:"capacity" yaml:"capacity"`
	Vertices []vertex `json:"vertices" yaml:"vertices"`
	Edges    []edge   `json:"edges" yaml:"edges"`
}

type vertex struct {
	ID     string `json:"id" yaml:"id"`
	Weight int    `json:"weight" yaml:"weight"`
	Value  int    `json:"value" yaml:"value"`
}

type edge struct {
	U string `json:"u" yaml:"u"`
	V string `json:"v" yaml:"v"`
}

func toDocument(g *instance.Instance) document {
	vs := g.Vertices()
	es := g.Edges()
	doc := document{
		Name:     g.Name,
		Capacity: g.Capacity,
		Vertices: make([]vertex, len(vs)),
		Edges:    make([]edge, len(es)),
	}
	for i, v := range vs {
		doc.Vertices[i] = vertex{ID: v.ID, Weight: v.Weight, Value: v.Value}
	}
	for i, e := range es {
		doc.Edges[i] = edge{U: e.U, V: e.V}
	}
	return doc
}

func fromDocument(doc document) (*instance.Instance, error) {
	g := instance.New(doc.Name, doc.Capacity)
	for _, v := range doc.Vertices {
		if err := g.AddVertex(instance.Vertex{ID: v.ID, Weight: v.Weight, Value: v.Value}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInstance, err, "vertex %q", v.ID)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.U, e.V); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInstance, err, "edge %s-%s", e.U, e.V)
		}
	}
	if err := validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// validate runs the instance checks and tags the failure with a code.
func validate(g *instance.Instance) error {
	err := g.Validate()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, instance.ErrNonPositiveWeight):
		return errs.Wrap(errs.ErrCodeInvalidWeight, err, "validate")
	case errors.Is(err, instance.ErrNegativeValue), errors.Is(err, instance.ErrValueOverflow):
		return errs.Wrap(errs.ErrCodeInvalidValue, err, "validate")
	case errors.Is(err, instance.ErrNegativeCapacity):
		return errs.Wrap(errs.ErrCodeInvalidCapacity, err, "validate")
	default:
		return errs.Wrap(errs.ErrCodeInvalidInstance, err, "validate")
	}
}
