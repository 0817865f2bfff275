package cli

import (
	"fmt"

	"github.com/daforge-labs/daforge/internal/config"
	"github.com/daforge-labs/daforge/internal/socket"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <name>",
	Short: "Validate a socket file against the socket schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	name := args[0]
	out := cmd.OutOrStdout()
	layout := config.ResolveLayout()

	path, err := socket.Find(layout, name)
	if err != nil {
		return err
	}

	result, err := socket.ValidateFile(path)
	if err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}

	if result.Valid {
		fmt.Fprintf(out, "✓ %s is a valid socket file\n", path)
		return nil
	}

	fmt.Fprintf(out, "✗ %s has %d issue(s):\n", path, len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "  %s: %s\n", issue.Path, issue.Message)
	}
	return fmt.Errorf("socket file %s failed validation", name)
}
