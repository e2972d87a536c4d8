package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/metrics"
	"github.com/matzehuels/qtranspile/pkg/pipeline"
)

// Inspector styles
var (
	listNormalStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray)
	gateChangedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	gateSwapStyle    = lipgloss.NewStyle().Foreground(colorYellow)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		backendName string
		passes      string
	)

	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Browse the circuit after each pipeline stage",
		Long: `Inspect transpiles a circuit and opens an interactive view with one tab per
stage: the parsed circuit, the routed circuit and the result of every pass.
Without a file the built-in demo circuit is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := pipeline.DemoSource
			if len(args) == 1 {
				var err error
				if src, err = readSource(args[0]); err != nil {
					return err
				}
			}
			b, err := backend.Resolve(backendName)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, pipeline.Options{
				Source:  src,
				Backend: b,
				Passes:  splitList(passes),
				Logger:  loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(newStageModel(res), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&backendName, "backend", "b", backend.DefaultName, "backend name or description file")
	cmd.Flags().StringVarP(&passes, "passes", "p", "", "optimization passes in order")
	registerCircuitFlagCompletions(cmd)

	return cmd
}

// =============================================================================
// StageModel - Interactive stage browser
// =============================================================================

// StageModel is the bubbletea model for browsing pipeline stages.
type StageModel struct {
	Result *pipeline.Result
	Stage  int // index into Result.Stages
	Offset int // first visible gate
	Height int // visible gate rows
}

func newStageModel(res *pipeline.Result) StageModel {
	return StageModel{Result: res, Height: 15}
}

func (m StageModel) Init() tea.Cmd {
	return nil
}

func (m StageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "tab":
			if m.Stage < len(m.Result.Stages)-1 {
				m.Stage++
				m.Offset = 0
			}
		case "left", "h", "shift+tab":
			if m.Stage > 0 {
				m.Stage--
				m.Offset = 0
			}
		case "down", "j":
			if m.Offset+m.Height < m.gateCount() {
				m.Offset++
			}
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "home", "g":
			m.Offset = 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 9
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m StageModel) gateCount() int {
	if len(m.Result.Stages) == 0 {
		return 0
	}
	return m.Result.Stages[m.Stage].GateCount
}

func (m StageModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Stages on " + m.Result.Backend))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ stage  ↑/↓ scroll  q quit"))
	b.WriteString("\n\n")

	if len(m.Result.Stages) == 0 {
		b.WriteString(listDimStyle.Render("no stages recorded"))
		return b.String()
	}

	tabs := make([]string, len(m.Result.Stages))
	for i, s := range m.Result.Stages {
		if i == m.Stage {
			tabs[i] = tabActiveStyle.Render(s.Name)
		} else {
			tabs[i] = tabInactiveStyle.Render(s.Name)
		}
	}
	b.WriteString(strings.Join(tabs, listDimStyle.Render("  ›  ")))
	b.WriteString("\n\n")

	stage := m.Result.Stages[m.Stage]
	b.WriteString(StyleDim.Render(fmt.Sprintf("depth %d · %d gates · %s", stage.Depth, stage.GateCount, histogram(stage))))
	b.WriteString("\n")

	steps := metrics.Schedule(stage.Circuit)
	end := min(m.Offset+m.Height, len(stage.Circuit.Gates))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		g := stage.Circuit.Gates[i]
		rows = append(rows, []string{strconv.Itoa(i), g.String(), strconv.Itoa(steps[i])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	prev := m.previousGates()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Gate", "Step").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			g := stage.Circuit.Gates[m.Offset+row]
			switch {
			case g.Name == "swap":
				return gateSwapStyle
			case prev != nil && !prev[g.String()]:
				return gateChangedStyle
			}
			return listNormalStyle
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [stage %d/%d, gates %d-%d of %d]",
		m.Stage+1, len(m.Result.Stages), min(m.Offset+1, end), end, len(stage.Circuit.Gates))))

	return b.String()
}

// previousGates returns the gates of the stage before the current one, or
// nil on the first stage.
func (m StageModel) previousGates() map[string]bool {
	if m.Stage == 0 {
		return nil
	}
	set := map[string]bool{}
	for _, g := range m.Result.Stages[m.Stage-1].Circuit.Gates {
		set[g.String()] = true
	}
	return set
}

func histogram(s pipeline.Stage) string {
	counts := metrics.GateHistogram(s.Circuit)
	parts := make([]string, 0, len(counts))
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s×%d", name, counts[name]))
	}
	return strings.Join(parts, " ")
}
