package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qtranspile/pkg/circuit"
	"github.com/matzehuels/qtranspile/pkg/qasm"
	"github.com/matzehuels/qtranspile/pkg/store"
)

// historyCommand creates the history command group.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded runs",
		Long: `History lists runs recorded with "transpile --history" or by the HTTP server.

Runs are kept in a SQLite database under the data directory unless --store
names another location.`,
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No runs recorded yet")
				printNextStep("Record one", "qtranspile transpile circuit.qasm --history")
				return nil
			}

			rows := make([][]string, len(records))
			for i, r := range records {
				rows[i] = []string{
					r.ID,
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Backend,
					strings.Join(r.Passes, ","),
					fmt.Sprintf("%d → %d", r.Stats.OriginalGateCount, r.Stats.FinalGateCount),
					fmt.Sprintf("%d → %d", r.Stats.OriginalDepth, r.Stats.FinalDepth),
					strconv.Itoa(r.SwapCount),
				}
			}
			fmt.Println(historyTable(rows).Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of runs")
	return cmd
}

func historyTable(rows [][]string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Run", "Created", "Backend", "Passes", "Gates", "Depth", "Swaps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleDim
			case col == 2:
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	var (
		showSource bool
		export     string
	)

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if export != "" {
				if err := circuit.ExportJSON(rec.Circuit, export); err != nil {
					return err
				}
				printSuccess("Exported run %s", rec.ID)
				printFile(export)
				return nil
			}

			printKeyValue("Run", rec.ID)
			printKeyValue("Created", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue("Passes", strings.Join(rec.Passes, ", "))
			printKeyValue("Swaps", strconv.Itoa(rec.SwapCount))
			printNewline()
			if err := writeReport(os.Stdout, rec.Backend, rec.Stats, rec.Circuit); err != nil {
				return err
			}
			if showSource {
				printNewline()
				fmt.Print(rec.Source)
				return nil
			}
			printNewline()
			fmt.Print(qasm.Format(rec.Circuit))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "print the submitted source instead of the transpiled QASM")
	cmd.Flags().StringVar(&export, "export", "", "write the transpiled circuit as JSON to this file")
	return cmd
}
