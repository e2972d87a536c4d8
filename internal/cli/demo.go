package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/pipeline"
)

// demoCommand creates the demo command, which transpiles the built-in
// example circuit for ibm_demo and prints the report.
func (c *CLI) demoCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Transpile the built-in example circuit on ibm_demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, pipeline.Options{
				Source:  pipeline.DemoSource,
				Backend: backend.IBMDemo(),
				Logger:  loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}
			if err := writeReport(os.Stdout, res.Backend, res.Stats, res.Circuit); err != nil {
				return err
			}
			printNewline()
			printNextStep("Browse each stage", "qtranspile inspect")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
