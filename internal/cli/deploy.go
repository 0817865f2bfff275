package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/daforge-labs/daforge/internal/config"
	"github.com/daforge-labs/daforge/internal/manifest"
	"github.com/daforge-labs/daforge/internal/pack"
	"github.com/daforge-labs/daforge/internal/sideload"
	"github.com/daforge-labs/daforge/internal/socket"
	"github.com/spf13/cobra"
)

var (
	deployDescription  string
	deployInstruction  string
	deploySkipSideload bool
	deployKeepIdentity bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy <name>",
	Short: "Build and sideload a Declarative Agent package",
	Long: `Build a Declarative Agent package from its socket file and sideload it
into Teams. The name must match a socket file (sockets/<name>.json).`,
	Args: cobra.ExactArgs(1),
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringVar(&deployDescription, "description", "-", "Description for the agent")
	deployCmd.Flags().StringVar(&deployInstruction, "instruction", "-", "Instructions for the agent")
	deployCmd.Flags().BoolVar(&deploySkipSideload, "skip-sideload", false, "Skip sideloading to Teams (just create the package)")
	deployCmd.Flags().BoolVar(&deployKeepIdentity, "keep-identity", false, "Reuse the IDs of a previously built package for this name")
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	name := args[0]
	out := cmd.OutOrStdout()
	layout := config.ResolveLayout()

	banner(out, "DEPLOYING DECLARATIVE AGENT: "+name)

	// Step 1: the socket file must exist before anything is built.
	fmt.Fprintln(out, "STEP 1: Validating socket file")
	socketPath, err := socket.Find(layout, name)
	if err != nil {
		fmt.Fprintf(out, "  ✗ Socket file not found: %s\n", layout.SocketPath(name))
		fmt.Fprintln(out, "\nPlease create the socket file first:")
		fmt.Fprintln(out, "  1. Extract socket JSON from Copilot Notebook (see docs/capabilities.md)")
		fmt.Fprintf(out, "  2. Save it to: %s\n", layout.SocketPath(name))
		return err
	}
	fmt.Fprintf(out, "  ✓ Socket file found: %s\n", socketPath)
	reportSocketIssues(out, socketPath)
	fmt.Fprintln(out)

	// Step 2: materialize the manifest folder from the template.
	fmt.Fprintln(out, "STEP 2: Creating raw manifest from template")
	opts := manifest.Options{
		Name:        name,
		Description: deployDescription,
		Instruction: deployInstruction,
	}
	if deployKeepIdentity {
		if id, ok := pack.ExtractIdentity(layout.ArchivePath(name)); ok {
			opts.Reuse = &id
			fmt.Fprintf(out, "  ✓ Reusing identity from previous package (app %s)\n", id.AppID)
		} else {
			fmt.Fprintln(out, "  ⚠ No previous package with readable IDs; generating fresh identity")
		}
	}
	materialized, err := manifest.Materialize(layout, opts)
	if err != nil {
		fmt.Fprintf(out, "  ✗ Failed to create manifest: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "  ✓ Created manifest folder: %s\n", materialized.Folder)
	fmt.Fprintf(out, "    - Manifest ID: %s\n", materialized.Identity.AppID)
	fmt.Fprintf(out, "    - Declarative Agent ID: %s\n", materialized.Identity.AgentID)
	fmt.Fprintln(out)

	// Step 3: merge socket capabilities into the agent manifest.
	fmt.Fprintln(out, "STEP 3: Revising manifest with capabilities from socket")
	if _, err := manifest.Revise(layout, name); err != nil {
		fmt.Fprintf(out, "  ✗ Failed to revise manifest: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "  ✓ Revised manifest with capabilities from socket")
	fmt.Fprintln(out)

	// Step 4: zip the manifest folder.
	fmt.Fprintln(out, "STEP 4: Zipping manifest")
	zipPath, err := pack.Archive(layout, name)
	if err != nil {
		fmt.Fprintf(out, "  ✗ Failed to zip manifest: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "  ✓ Created package: %s\n", zipPath)
	fmt.Fprintln(out)

	// Step 5: sideload (optional). A failure here is recoverable — the
	// package on disk stays valid for manual installation.
	if !deploySkipSideload {
		fmt.Fprintln(out, "STEP 5: Sideloading to Teams")
		if err := runSideload(cmd, zipPath); err != nil {
			fmt.Fprintln(out)
			banner(out, "DEPLOYMENT COMPLETED WITH ERRORS")
			fmt.Fprintf(out, "Package created at: %s\n", zipPath)
			fmt.Fprintln(out, "You can manually install the agent in Teams.")
			return err
		}
		fmt.Fprintln(out)
	}

	banner(out, "DEPLOYMENT COMPLETED SUCCESSFULLY!")
	fmt.Fprintf(out, "Agent %q has been deployed!\n", name)
	if deploySkipSideload {
		fmt.Fprintf(out, "Package location: %s\n", zipPath)
	}
	return nil
}

// runSideload invokes the teamsapp CLI, distinguishing a missing tool
// from a failed run so the operator knows what to fix.
func runSideload(cmd *cobra.Command, zipPath string) error {
	out := cmd.OutOrStdout()

	if warning, err := sideload.CheckTool(cmd.Context()); err == nil && warning != "" {
		fmt.Fprintf(out, "  ⚠ %s\n", warning)
	}

	loader := &sideload.Sideloader{Stdout: out, Stderr: cmd.ErrOrStderr()}
	result, err := loader.Install(cmd.Context(), zipPath)
	if err != nil {
		if errors.Is(err, sideload.ErrToolNotFound) {
			fmt.Fprintln(out, "  ✗ 'teamsapp' command not found.")
			fmt.Fprintln(out, "\nPlease install Teams Toolkit CLI:")
			fmt.Fprintln(out, "  npm install -g @microsoft/teamsapp-cli")
			return err
		}
		fmt.Fprintf(out, "  ✗ Failed to sideload: %v\n", err)
		return err
	}

	if result.ExitCode != 0 {
		fmt.Fprintf(out, "  ✗ Sideload failed with exit code %d\n", result.ExitCode)
		return fmt.Errorf("teamsapp install exited with code %d", result.ExitCode)
	}

	fmt.Fprintln(out, "  ✓ Successfully sideloaded to Teams!")
	return nil
}

// reportSocketIssues runs the advisory schema check and prints any
// findings as warnings. Schema issues never block a deploy.
func reportSocketIssues(out io.Writer, socketPath string) {
	result, err := socket.ValidateFile(socketPath)
	if err != nil || result.Valid {
		return
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "  ⚠ socket%s: %s\n", issue.Path, issue.Message)
	}
}

func banner(out io.Writer, title string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(out, line)
	fmt.Fprintf(out, "  %s\n", title)
	fmt.Fprintln(out, line)
	fmt.Fprintln(out)
}
