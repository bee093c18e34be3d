package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/instance"
	kio "github.com/matzehuels/knapset/pkg/io"
)

// generateCommand creates the generate command for random instances.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		opts   instance.GenerateOptions
		name   string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random instance",
		Long: `Generate a random instance.

Every unordered vertex pair becomes an edge with probability --density.
Weights are drawn from [--min-weight, --max-weight], values from
[0, --max-value], and the capacity is --capacity-ratio times the total
weight. The same seed always yields the same instance.

The format follows the --output extension (.json, .yaml, .yml, otherwise
text); without --output the instance is written to stdout in --format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := instance.Generate(opts)
			if err != nil {
				return err
			}
			if name != "" {
				if err := errs.ValidateInstanceName(name); err != nil {
					return err
				}
				g.Name = name
			}
			logger := loggerFromContext(cmd.Context())
			logger.Debugf("Generated %s: %d vertices, %d edges, capacity %d",
				g.Name, g.VertexCount(), g.EdgeCount(), g.Capacity)

			if output == "" {
				return kio.Write(g, cmd.OutOrStdout(), kio.Format(format))
			}
			if err := kio.Export(g, output); err != nil {
				return err
			}
			printSuccess("Generated %d vertices, %d edges", g.VertexCount(), g.EdgeCount())
			printFile(output)
			printNextStep("Solve it", fmt.Sprintf("%s solve %s", appName, output))
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.N, "vertices", "n", 20, "number of vertices")
	cmd.Flags().Float64VarP(&opts.Density, "density", "d", 0.2, "edge probability per vertex pair")
	cmd.Flags().IntVar(&opts.MinWeight, "min-weight", instance.DefaultMinWeight, "smallest vertex weight")
	cmd.Flags().IntVar(&opts.MaxWeight, "max-weight", instance.DefaultMaxWeight, "largest vertex weight")
	cmd.Flags().IntVar(&opts.MaxValue, "max-value", instance.DefaultMaxValue, "largest vertex value")
	cmd.Flags().Float64Var(&opts.CapacityRatio, "capacity-ratio", instance.DefaultCapacityRatio, "capacity as a fraction of the total weight")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", instance.DefaultGenerateSeed, "random seed")
	cmd.Flags().StringVar(&name, "name", "", "instance name (default derived from the seed)")
	cmd.Flags().StringVarP(&format, "format", "f", string(kio.FormatJSON), "stdout format: json, yaml, text")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")

	return cmd
}
