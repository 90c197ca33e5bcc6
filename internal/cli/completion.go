package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jeweler/pkg/bracelet"
	pkgio "github.com/matzehuels/jeweler/pkg/io"
	"github.com/matzehuels/jeweler/pkg/objective"
	"github.com/matzehuels/jeweler/pkg/render"
	"github.com/matzehuels/jeweler/pkg/search"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for jeweler.

Besides subcommands, the scripts complete the values of --mode (bracelet,
necklace, lyndon, lyndon-bracelet), --format, --objective and --method.

Bash:
  $ source <(jeweler completion bash)

Zsh:
  $ jeweler completion zsh > "${fpath[1]}/_jeweler"

Fish:
  $ jeweler completion fish > ~/.config/fish/completions/jeweler.fish

PowerShell:
  PS> jeweler completion powershell | Out-String | Invoke-Expression

Start a new shell after installing a script.`,
		Example: `  jeweler completion zsh > "${fpath[1]}/_jeweler"
  jeweler enumerate 4 4 --mode <TAB>`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerValueCompletions attaches value completion to the enumerated
// flags of every command under root.
func registerValueCompletions(root *cobra.Command) {
	var modes []string
	for _, m := range bracelet.Modes() {
		modes = append(modes, m.String())
	}
	var methods []string
	for _, m := range search.Methods() {
		methods = append(methods, m.String())
	}

	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		complete := func(flag string, values []string) {
			if cmd.Flags().Lookup(flag) == nil {
				return
			}
			_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		}
		complete("mode", modes)
		complete("objective", objective.Names())
		complete("method", methods)
		if cmd.Name() == "render" {
			complete("format", render.Formats())
		} else {
			complete("format", pkgio.Formats())
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}
