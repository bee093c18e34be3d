package io

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/instance"
)

// ReadJSON decodes a JSON instance document from r.
//
// The returned instance has passed [instance.Instance.Validate]. ReadJSON
// does not close r.
func ReadJSON(r io.Reader) (*instance.Instance, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
	}
	return fromDocument(doc)
}

// ReadYAML decodes a YAML instance document from r. Unknown keys are
// rejected.
func ReadYAML(r io.Reader) (*instance.Instance, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return fromDocument(doc)
}

// ReadText decodes the whitespace-separated text format from r. The text
// format carries no name; the caller may set one on the result.
func ReadText(r io.Reader) (*instance.Instance, error) {
	tok := newTokenizer(r)

	n, err := tok.number("vertex count")
	if err != nil {
		return nil, err
	}
	m, err := tok.number("edge count")
	if err != nil {
		return nil, err
	}
	capacity, err := tok.number("capacity")
	if err != nil {
		return nil, err
	}
	if n < 0 || m < 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: negative vertex or edge count (%d, %d)", tok.line, n, m)
	}

	g := instance.New("", capacity)
	for i := 0; i < n; i++ {
		id, line, err := tok.next("vertex name")
		if err != nil {
			return nil, err
		}
		if err := errs.ValidateVertexID(id); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		w, err := tok.number("weight of " + id)
		if err != nil {
			return nil, err
		}
		v, err := tok.number("value of " + id)
		if err != nil {
			return nil, err
		}
		if err := g.AddVertex(instance.Vertex{ID: id, Weight: w, Value: v}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInstance, err, "line %d: vertex %q", line, id)
		}
	}
	for i := 0; i < m; i++ {
		u, line, err := tok.next("edge endpoint")
		if err != nil {
			return nil, err
		}
		v, _, err := tok.next("edge endpoint")
		if err != nil {
			return nil, err
		}
		if err := g.AddEdge(u, v); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInstance, err, "line %d: edge %s-%s", line, u, v)
		}
	}
	if err := tok.err(); err != nil {
		return nil, err
	}
	if err := validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Read decodes an instance from r in the given format.
func Read(r io.Reader, format Format) (*instance.Instance, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatText, "":
		return ReadText(r)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unknown instance format %q", format)
	}
}

// Import reads the instance file at path, choosing the decoder with
// [FormatFromPath]. Instances without a name are named after the file.
func Import(path string) (*instance.Instance, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if g.Name == "" {
		g.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return g, nil
}

// tokenizer yields whitespace-separated tokens and remembers the line each
// one came from.
type tokenizer struct {
	sc      *bufio.Scanner
	pending []string
	line    int
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{sc: bufio.NewScanner(r)}
}

func (t *tokenizer) next(what string) (string, int, error) {
	for len(t.pending) == 0 {
		if !t.sc.Scan() {
			if err := t.err(); err != nil {
				return "", t.line, err
			}
			return "", t.line, errs.Wrap(errs.ErrCodeInvalidFormat, io.ErrUnexpectedEOF, "line %d: reading %s", t.line, what)
		}
		t.line++
		t.pending = strings.Fields(t.sc.Text())
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, t.line, nil
}

func (t *tokenizer) number(what string) (int, error) {
	s, line, err := t.next(what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d: %s", line, what)
	}
	return n, nil
}

func (t *tokenizer) err() error {
	if err := t.sc.Err(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d", t.line)
	}
	return nil
}
