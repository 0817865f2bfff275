package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLayoutPaths(t *testing.T) {
	layout := Layout{
		SocketDir:   "/ws/sockets",
		ManifestDir: "/ws/raw_manifests",
		PackageDir:  "/ws/zipped_manifests",
		TemplateDir: "/ws/templates/default",
	}

	if got := layout.SocketPath("my-agent"); got != filepath.Join("/ws/sockets", "my-agent.json") {
		t.Errorf("SocketPath = %s", got)
	}
	if got := layout.ManifestFolder("my-agent"); got != filepath.Join("/ws/raw_manifests", "my-agent") {
		t.Errorf("ManifestFolder = %s", got)
	}
	if got := layout.ArchivePath("my-agent"); got != filepath.Join("/ws/zipped_manifests", "my-agent.zip") {
		t.Errorf("ArchivePath = %s", got)
	}
}

func TestResolveLayoutDefaults(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	layout := ResolveLayout()

	if layout.ManifestDir != filepath.Join(root, RawManifestsDir) {
		t.Errorf("ManifestDir = %s", layout.ManifestDir)
	}
	if layout.PackageDir != filepath.Join(root, ZippedManifestsDir) {
		t.Errorf("PackageDir = %s", layout.PackageDir)
	}
	// With nothing on disk, input folders resolve to their expected
	// working-directory locations for error reporting.
	if layout.SocketDir != filepath.Join(root, SocketsDir) {
		t.Errorf("SocketDir = %s", layout.SocketDir)
	}
	if layout.TemplateDir != filepath.Join(root, TemplatesDir, DefaultTemplate) {
		t.Errorf("TemplateDir = %s", layout.TemplateDir)
	}
}

func TestResolveLayoutEnvOverride(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	override := t.TempDir()
	t.Setenv("DAFORGE_SOCKETS", override)
	t.Setenv("DAFORGE_TEMPLATES", filepath.Join(override, "tpl"))

	layout := ResolveLayout()

	if layout.SocketDir != override {
		t.Errorf("SocketDir = %s, want env override %s", layout.SocketDir, override)
	}
	if layout.TemplateDir != filepath.Join(override, "tpl") {
		t.Errorf("TemplateDir = %s, want env override", layout.TemplateDir)
	}
}

func TestResolveLayoutConfigKeyOverride(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	// A cwd candidate exists and an env override is set; the config key
	// still wins over both.
	if err := os.MkdirAll(filepath.Join(root, SocketsDir), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DAFORGE_SOCKETS", t.TempDir())
	t.Setenv("DAFORGE_TEMPLATES", t.TempDir())

	fromConfig := t.TempDir()
	viper.Set("sockets", fromConfig)
	viper.Set("templates", filepath.Join(fromConfig, "tpl"))
	t.Cleanup(func() {
		viper.Set("sockets", "")
		viper.Set("templates", "")
	})

	layout := ResolveLayout()

	if layout.SocketDir != fromConfig {
		t.Errorf("SocketDir = %s, want config key override %s", layout.SocketDir, fromConfig)
	}
	if layout.TemplateDir != filepath.Join(fromConfig, "tpl") {
		t.Errorf("TemplateDir = %s, want config key override", layout.TemplateDir)
	}
}

func TestResolveLayoutPrefersExistingCwdFolder(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	if err := os.MkdirAll(filepath.Join(root, SocketsDir), 0755); err != nil {
		t.Fatal(err)
	}

	layout := ResolveLayout()
	if layout.SocketDir != filepath.Join(root, SocketsDir) {
		t.Errorf("SocketDir = %s, want cwd sockets folder", layout.SocketDir)
	}
}
