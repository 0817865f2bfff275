package cli

import (
	"fmt"
	"os"

	"github.com/daforge-labs/daforge/internal/branding"
	"github.com/daforge-labs/daforge/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` turns a socket file (a capability list extracted from a
Copilot Notebook) into a deployable Declarative Agent package and sideloads
it into Teams via the Teams Toolkit CLI.

Workflow:
  1. Create a socket file: sockets/<name>.json
  2. Run: ` + branding.CLIName() + ` deploy <name>
  3. The agent is deployed to Teams

For more information: https://github.com/` + branding.GitHubRepo(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
