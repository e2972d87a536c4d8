package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/circuit"
)

// backendsCommand creates the backends command group.
func (c *CLI) backendsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backends",
		Aliases: []string{"backend"},
		Short:   "List and show target devices",
	}

	cmd.AddCommand(c.backendsListCommand())
	cmd.AddCommand(c.backendsShowCommand())

	return cmd
}

// backendsListCommand creates the "backends list" subcommand.
func (c *CLI) backendsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := [][]string{
				backendRow(backend.DefaultName, "5-qubit line", backend.IBMDemo()),
				backendRow("line_N", "N-qubit line, e.g. line_5", backend.Line(5)),
				backendRow("full_N", "N-qubit all-to-all, e.g. full_4", backend.Full(4)),
			}
			fmt.Println(backendTable(rows).Render())
			printNewline()
			printNextStep("Show a device", "qtranspile backends show line_8")
			return nil
		},
	}
}

func backendRow(name, topology string, b circuit.Backend) []string {
	return []string{name, topology, strconv.Itoa(len(b.Edges)), strings.Join(b.NativeGates, " ")}
}

func backendTable(rows [][]string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Topology", "Edges (example)", "Native gates").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
}

// backendsShowCommand creates the "backends show" subcommand.
func (c *CLI) backendsShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <name|file>",
		Short: "Show a backend's coupling map",
		Example: `  qtranspile backends show ibm_demo
  qtranspile backends show full_3 --format toml > full3.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := backend.Resolve(args[0])
			if err != nil {
				return err
			}
			if format != "" {
				return backend.Encode(os.Stdout, b, format)
			}

			edges := make([]string, len(b.Edges))
			for i, e := range b.Edges {
				edges[i] = e.String()
			}
			printKeyValue("Name", b.Name)
			printKeyValue("Qubits", strconv.Itoa(b.NumQubits))
			printKeyValue("Edges", strings.Join(edges, " "))
			printKeyValue("Neighbours", adjacency(b))
			printKeyValue("Native gates", strings.Join(b.NativeGates, " "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "print as a description file: toml, yaml or json")
	return cmd
}

// adjacency renders each qubit's neighbours as "q:n,n", isolated qubits as "q:-".
func adjacency(b circuit.Backend) string {
	parts := make([]string, 0, b.NumQubits)
	for q := 0; q < b.NumQubits; q++ {
		var ns []string
		for n := 0; n < b.NumQubits; n++ {
			if n != q && b.Connected(q, n) {
				ns = append(ns, strconv.Itoa(n))
			}
		}
		if len(ns) == 0 {
			ns = []string{"-"}
		}
		parts = append(parts, strconv.Itoa(q)+":"+strings.Join(ns, ","))
	}
	return strings.Join(parts, " ")
}
