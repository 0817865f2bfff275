package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daforge-labs/daforge/internal/config"
	"github.com/daforge-labs/daforge/internal/manifest"
)

// setupWorkspace builds a deployable workspace in a temp dir and chdirs
// into it, so ResolveLayout picks it up.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Chdir(root)

	templateDir := filepath.Join(root, config.TemplatesDir, config.DefaultTemplate)
	if err := os.MkdirAll(templateDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, config.SocketsDir), 0755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		config.AppManifestFile: `{
			"id": "00000000-0000-0000-0000-000000000000",
			"name": {"short": "-", "full": "-"},
			"description": {"short": "-", "full": "-"},
			"copilotAgents": {"declarativeAgents": [{"id": "00000000-0000-0000-0000-000000000000", "file": "declarativeAgent_0.json"}]}
		}`,
		config.AgentManifestFile: `{"id": "00000000-0000-0000-0000-000000000000", "name": "-", "description": "-", "instructions": "-"}`,
		config.ColorIcon:         "png",
		config.OutlineIcon:       "png",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(templateDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDeploySkipSideload(t *testing.T) {
	root := setupWorkspace(t)
	socketPath := filepath.Join(root, config.SocketsDir, "my-agent.json")
	if err := os.WriteFile(socketPath, []byte(`[{"name": "Email"}, {"name": "WebSearch"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "deploy", "my-agent", "--skip-sideload", "--description", "Email helper")
	if err != nil {
		t.Fatalf("deploy failed: %v\noutput:\n%s", err, out)
	}

	if !strings.Contains(out, "DEPLOYMENT COMPLETED SUCCESSFULLY") {
		t.Errorf("missing success banner in output:\n%s", out)
	}

	// The full pipeline ran: manifest folder and package exist.
	agentManifest := filepath.Join(root, config.RawManifestsDir, "my-agent", config.AgentManifestFile)
	doc, err := manifest.ReadDocument(agentManifest)
	if err != nil {
		t.Fatalf("reading revised manifest: %v", err)
	}
	if doc["description"] != "Email helper" {
		t.Errorf("description = %v", doc["description"])
	}
	if _, ok := doc[manifest.FieldCapabilities]; !ok {
		t.Error("deploy did not revise the manifest")
	}
	if _, err := os.Stat(filepath.Join(root, config.ZippedManifestsDir, "my-agent.zip")); err != nil {
		t.Errorf("package not created: %v", err)
	}
}

func TestDeployMissingSocket(t *testing.T) {
	setupWorkspace(t)

	out, err := runCommand(t, "deploy", "no-such-agent", "--skip-sideload")
	if err == nil {
		t.Fatal("expected failure for missing socket")
	}
	if !strings.Contains(out, "Socket file not found") {
		t.Errorf("missing guidance in output:\n%s", out)
	}
}

func TestListCountsSockets(t *testing.T) {
	root := setupWorkspace(t)
	for _, name := range []string{"beta", "alpha"} {
		path := filepath.Join(root, config.SocketsDir, name+".json")
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := runCommand(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "- alpha") || !strings.Contains(out, "- beta") {
		t.Errorf("list output missing agents:\n%s", out)
	}
	if !strings.Contains(out, "Total: 2 agent(s)") {
		t.Errorf("list output missing count:\n%s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	root := setupWorkspace(t)
	good := filepath.Join(root, config.SocketsDir, "good.json")
	if err := os.WriteFile(good, []byte(`[{"name": "Email"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(root, config.SocketsDir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"sites": []}]`), 0644); err != nil {
		t.Fatal(err)
	}

	if out, err := runCommand(t, "validate", "good"); err != nil {
		t.Fatalf("validate good failed: %v\n%s", err, out)
	}
	if _, err := runCommand(t, "validate", "bad"); err == nil {
		t.Fatal("expected validation failure for nameless record")
	}
}
