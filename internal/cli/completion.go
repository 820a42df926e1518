package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints shell completion scripts to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for dotplot.

  bash:        source <(dotplot completion bash)
  zsh:         dotplot completion zsh > "${fpath[1]}/_dotplot"
  fish:        dotplot completion fish > ~/.config/fish/completions/dotplot.fish
  powershell:  dotplot completion powershell | Out-String | Invoke-Expression

Data file arguments complete to .json, .csv, .tsv and .xlsx files.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// dataFileArgs completes the single data file argument of render, inspect
// and explore.
func dataFileArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json", "csv", "tsv", "xlsx"}, cobra.ShellCompDirectiveFilterFileExt
}
