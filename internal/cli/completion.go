package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pinport.

To load completions:

Bash:
  $ source <(pinport completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pinport completion bash > /etc/bash_completion.d/pinport
  # macOS:
  $ pinport completion bash > $(brew --prefix)/etc/bash_completion.d/pinport

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pinport completion zsh > "${fpath[1]}/_pinport"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pinport completion fish | source

  # To load completions for each session, execute once:
  $ pinport completion fish > ~/.config/fish/completions/pinport.fish

PowerShell:
  PS> pinport completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pinport completion powershell > pinport.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
