package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/knapset/pkg/instance"
	kio "github.com/matzehuels/knapset/pkg/io"
	"github.com/matzehuels/knapset/pkg/pipeline"
	"github.com/matzehuels/knapset/pkg/render"
	"github.com/matzehuels/knapset/pkg/solver"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	solution string   // solution JSON to draw instead of solving
	formats  []string // dot, svg, json
	detailed bool     // weight and value in vertex labels
	noCache  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts       renderOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "render [instance]",
		Short: "Draw an instance with its chosen vertices highlighted",
		Long: `Render an instance as a Graphviz node-link diagram.

Without --solution the instance is solved first (using the cache), then the
chosen vertices are drawn filled. With --solution a previously written
solution file is verified against the instance and drawn instead.

Formats: ` + strings.Join(formatNames(), ", ") + `. With several formats the
files share the base path given by --output (or the instance path).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.solution, "solution", "s", "", "solution JSON file to draw")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show weight and value in vertex labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func formatNames() []string {
	names := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		names[i] = string(f)
	}
	return names
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	inst, err := kio.Import(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := c.solverDefaults()
	popts.Logger = logger
	popts.NoCache = opts.noCache
	popts.Formats = opts.formats
	popts.Detailed = opts.detailed

	var (
		sol    solver.Result
		cached bool
	)
	if opts.solution != "" {
		sol, err = loadSolution(inst, opts.solution)
		if err != nil {
			return err
		}
	} else {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", inst.Name))
		popts.Observer = spinner
		spinner.Start()
		sol, cached, err = runner.SolveWithCacheInfo(ctx, inst, popts)
		spinner.Stop()
		if err != nil && !pipeline.Partial(err) {
			return err
		}
		if err != nil {
			printWarning("Search stopped early; drawing the best set found")
		}
		logger.Debug("solved", "value", sol.Value, "cached", cached)
	}

	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, inst, sol, popts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(artifacts, opts.formats, input, opts.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if hit {
		logger.Debug("artifacts served from cache")
	}
	for _, p := range paths {
		if p != "-" {
			printFile(p)
		}
	}
	prog.done("Rendered " + inst.Name)
	return nil
}

// loadSolution reads a solution file and checks it against inst. Totals are
// recomputed from the instance rather than taken from the file.
func loadSolution(inst *instance.Instance, path string) (solver.Result, error) {
	doc, err := kio.ImportSolution(path)
	if err != nil {
		return solver.Result{}, err
	}
	if doc.Instance != "" && doc.Instance != inst.Name {
		printWarning("%s was written for %q, drawing it on %q", path, doc.Instance, inst.Name)
	}
	report, err := solver.Verify(inst, doc.Vertices)
	if err != nil {
		return solver.Result{}, fmt.Errorf("%s: %w", path, err)
	}
	indices := make([]int, len(doc.Vertices))
	for k, id := range doc.Vertices {
		indices[k], _ = inst.Index(id)
	}
	slices.Sort(indices)
	ids := make([]string, len(indices))
	for k, i := range indices {
		ids[k] = inst.At(i).ID
	}
	return solver.Result{
		Vertices: ids,
		Indices:  indices,
		Value:    report.Value,
		Weight:   report.Weight,
		Optimal:  doc.Optimal,
	}, nil
}
