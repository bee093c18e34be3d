package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/instance"
	kio "github.com/matzehuels/knapset/pkg/io"
	"github.com/matzehuels/knapset/pkg/pipeline"
	"github.com/matzehuels/knapset/pkg/solver"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	timeLimit time.Duration
	maxSteps  int64
	noCache   bool
	trace     bool // log every decision step at debug level
	watch     bool // live bubbletea view instead of the spinner
	report    bool // print the instance report before solving
	output    string
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [instance]",
		Short: "Find the best independent set within the capacity",
		Long: `Solve an instance exactly with branch and bound.

The instance is read as JSON (.json), YAML (.yaml, .yml) or the plain text
format otherwise. Before solving, the vertices and their incident edges are
listed; afterwards the chosen vertices with their total weight and value.

Optimal solutions are cached, so solving the same instance again is instant.
With --max-steps or --time-limit the search may stop early; the best set
found so far is then reported as not proven optimal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.timeLimit = flagOrConfig(cmd, "time-limit", opts.timeLimit, c.Config.Solver.TimeLimit.Duration)
			opts.maxSteps = flagOrConfig(cmd, "max-steps", opts.maxSteps, c.Config.Solver.MaxSteps)
			if opts.watch && opts.trace {
				return fmt.Errorf("--watch and --trace cannot be combined")
			}
			return c.runSolve(cmd, args[0], opts)
		},
	}

	cmd.Flags().DurationVar(&opts.timeLimit, "time-limit", 0, "stop the search after this long (0 = no limit)")
	cmd.Flags().Int64Var(&opts.maxSteps, "max-steps", 0, "stop the search after this many decision steps (0 = no limit)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "neither read nor write cached solutions")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "log every search step (needs --verbose)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "show a live view of the search")
	cmd.Flags().BoolVar(&opts.report, "report", true, "list vertices and edges before solving")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the solution as JSON to this file")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, input string, opts solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()
	prog := newProgress(logger)

	inst, err := kio.Import(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d vertices, %d edges", inst.Name, inst.VertexCount(), inst.EdgeCount())

	if opts.report {
		printInstanceReport(out, inst)
		fmt.Fprintln(out)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := c.solverDefaults()
	popts.Logger = logger
	popts.TimeLimit = opts.timeLimit
	popts.MaxSteps = opts.maxSteps
	popts.NoCache = opts.noCache
	if opts.trace {
		popts.Observer = newLogObserver(logger)
	}

	var (
		res    solver.Result
		cached bool
	)
	switch {
	case opts.watch:
		res, cached, err = c.solveWatch(ctx, runner, inst, popts)
	case opts.trace:
		res, cached, err = runner.SolveWithCacheInfo(ctx, inst, popts)
	default:
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", inst.Name))
		popts.Observer = solver.Observers(popts.Observer, spinner)
		spinner.Start()
		res, cached, err = runner.SolveWithCacheInfo(ctx, inst, popts)
		spinner.Stop()
	}
	if err != nil && !pipeline.Partial(err) {
		return err
	}
	if err != nil {
		printWarning("%s; reporting the best set found", errs.UserMessage(err))
	}

	if _, verr := runner.Verify(ctx, inst, res.Vertices); verr != nil {
		fmt.Fprintln(out, -1)
		return fmt.Errorf("solution failed verification: %w", verr)
	}

	printSolution(out, inst, res, cached)

	if opts.output != "" {
		if err := kio.ExportSolution(kio.NewSolution(inst.Name, res), opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}

	prog.done("Solved " + inst.Name)
	return nil
}

type solveOutcome struct {
	res    solver.Result
	cached bool
	err    error
}

// solveWatch runs the search in the background while a bubbletea program
// shows its progress on stderr. Quitting the view cancels the search.
func (c *CLI) solveWatch(ctx context.Context, runner *pipeline.Runner, inst *instance.Instance, opts pipeline.Options) (solver.Result, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewWatchModel(inst, cancel),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr))
	opts.Observer = solver.Observers(opts.Observer, newTeaObserver(p.Send))

	done := make(chan solveOutcome, 1)
	go func() {
		res, cached, err := runner.SolveWithCacheInfo(ctx, inst, opts)
		done <- solveOutcome{res, cached, err}
		p.Send(solveDoneMsg{res: res, cached: cached, err: err})
	}()

	final, err := p.Run()
	cancel()
	outcome := <-done
	if m, ok := final.(WatchModel); ok && m.Aborted {
		return outcome.res, outcome.cached, context.Canceled
	}
	if err != nil && outcome.err == nil {
		return outcome.res, outcome.cached, fmt.Errorf("watch: %w", err)
	}
	return outcome.res, outcome.cached, outcome.err
}
