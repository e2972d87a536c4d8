package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/optimize"
	"github.com/matzehuels/qtranspile/pkg/pipeline"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell. Besides subcommands it
completes --backend with built-in devices and description files, --passes with
registered pass names, and --format with output formats.`,
		Example: `  source <(qtranspile completion bash)
  qtranspile completion zsh > "${fpath[1]}/_qtranspile"
  qtranspile completion fish > ~/.config/fish/completions/qtranspile.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// registerCircuitFlagCompletions wires value completion for the --backend,
// --passes and (when present) --format flags of cmd.
func registerCircuitFlagCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("backend", completeBackend)
	_ = cmd.RegisterFlagCompletionFunc("passes", completePasses)
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(pipeline.FormatNames, cobra.ShellCompDirectiveNoFileComp))
	}
}

// completeBackend offers built-in devices with a sample size; anything else
// falls through to description files on disk.
func completeBackend(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	names := []string{backend.DefaultName + "\t5-qubit line"}
	for _, n := range backend.Builtins() {
		if prefix, ok := strings.CutSuffix(n, "N"); ok {
			names = append(names, prefix+"5\t"+n)
		}
	}
	return names, cobra.ShellCompDirectiveDefault
}

// completePasses completes the last element of a comma-separated pass list.
func completePasses(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	head := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		head = toComplete[:i+1]
	}
	var out []string
	for _, name := range optimize.Names() {
		out = append(out, head+name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
