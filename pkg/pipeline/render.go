package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/knapset/pkg/instance"
	kio "github.com/matzehuels/knapset/pkg/io"
	"github.com/matzehuels/knapset/pkg/observability"
	"github.com/matzehuels/knapset/pkg/render"
	"github.com/matzehuels/knapset/pkg/render/nodelink"
	"github.com/matzehuels/knapset/pkg/solver"
)

// RenderFormat renders a single artifact without touching the cache.
func RenderFormat(ctx context.Context, inst *instance.Instance, sol solver.Result, format string, opts Options) ([]byte, error) {
	hooks := observability.Solver()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	data, err := renderFormat(ctx, inst, sol, format, opts)
	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func renderFormat(ctx context.Context, inst *instance.Instance, sol solver.Result, format string, opts Options) ([]byte, error) {
	switch render.Format(format) {
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(inst, sol.Vertices, nodelink.Options{Detailed: opts.Detailed})), nil
	case render.FormatSVG:
		dot := nodelink.ToDOT(inst, sol.Vertices, nodelink.Options{Detailed: opts.Detailed})
		return nodelink.RenderSVG(ctx, dot)
	case render.FormatJSON:
		var buf bytes.Buffer
		if err := kio.WriteSolution(kio.NewSolution(inst.Name, sol), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
