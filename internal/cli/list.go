package cli

import (
	"encoding/json"
	"fmt"

	"github.com/daforge-labs/daforge/internal/config"
	"github.com/daforge-labs/daforge/internal/socket"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available agents",
	Long:  `List all socket files in the sockets folder.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	layout := config.ResolveLayout()

	names, err := socket.List(layout)
	if err != nil {
		return fmt.Errorf("listing agents: %w", err)
	}

	if listJSON {
		encoded, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling agent list: %w", err)
		}
		fmt.Fprintln(out, string(encoded))
		return nil
	}

	fmt.Fprintln(out, "Available agents (socket files):")
	fmt.Fprintln(out)

	if len(names) == 0 {
		fmt.Fprintln(out, "  No agents found in sockets/ folder")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Create a socket file to get started:")
		fmt.Fprintln(out, "  1. See the examples/ folder for reference")
		fmt.Fprintln(out, "  2. Create sockets/your-agent-name.json")
		return nil
	}

	for _, name := range names {
		fmt.Fprintf(out, "  - %s\n", name)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total: %d agent(s)\n", len(names))
	return nil
}
