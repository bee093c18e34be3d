package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	kio "github.com/matzehuels/knapset/pkg/io"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	var solutionPath string

	cmd := &cobra.Command{
		Use:   "verify [instance] [vertex...]",
		Short: "Check that a vertex set is independent and fits the capacity",
		Long: `Verify a proposed set of vertices against an instance.

The set is given either as vertex IDs after the instance path or as a
solution file via --solution. A feasible set prints its weight and value;
otherwise -1 is printed and the command fails with the first violation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args[1:]
			if solutionPath != "" {
				if len(ids) > 0 {
					return fmt.Errorf("give vertices either as arguments or with --solution, not both")
				}
				doc, err := kio.ImportSolution(solutionPath)
				if err != nil {
					return err
				}
				ids = doc.Vertices
			}
			return c.runVerify(cmd, args[0], ids)
		},
	}

	cmd.Flags().StringVarP(&solutionPath, "solution", "s", "", "solution JSON file to verify")

	return cmd
}

func (c *CLI) runVerify(cmd *cobra.Command, input string, ids []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	inst, err := kio.Import(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	report, err := runner.Verify(ctx, inst, ids)
	if err != nil {
		fmt.Fprintln(out, -1)
		return err
	}

	fprintKeyValue(out, "feasible", StyleSuccess.Render(iconSuccess))
	fprintKeyValue(out, "weight", fmt.Sprintf("%d / %d", report.Weight, inst.Capacity))
	fprintKeyValue(out, "value", StyleNumber.Render(strconv.Itoa(report.Value)))
	return nil
}
