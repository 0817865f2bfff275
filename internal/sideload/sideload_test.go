package sideload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// fakeTool installs a stub teamsapp script on PATH and returns its folder.
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub shell script not supported on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, toolName)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)
	return dir
}

func writePackage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.zip")
	if err := os.WriteFile(path, []byte("PK"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInstallMissingPackage(t *testing.T) {
	loader := &Sideloader{Stdout: io.Discard, Stderr: io.Discard}
	_, err := loader.Install(context.Background(), filepath.Join(t.TempDir(), "missing.zip"))
	if err == nil {
		t.Fatal("expected error for missing package")
	}
}

func TestInstallToolNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	loader := &Sideloader{Stdout: io.Discard, Stderr: io.Discard}
	_, err := loader.Install(context.Background(), writePackage(t))
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("err = %v, want ErrToolNotFound", err)
	}
}

func TestInstallSuccess(t *testing.T) {
	fakeTool(t, `echo "installed $2"`)

	var out strings.Builder
	loader := &Sideloader{Stdout: &out, Stderr: io.Discard}
	result, err := loader.Install(context.Background(), writePackage(t))
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if !strings.Contains(result.Stdout, "installed") {
		t.Errorf("Stdout = %q, want captured tool output", result.Stdout)
	}
	// Output is also streamed to the configured writer.
	if !strings.Contains(out.String(), "installed") {
		t.Errorf("streamed output = %q", out.String())
	}
}

func TestInstallNonzeroExitIsNotAnError(t *testing.T) {
	fakeTool(t, `echo "boom" >&2; exit 3`)

	loader := &Sideloader{Stdout: io.Discard, Stderr: io.Discard}
	result, err := loader.Install(context.Background(), writePackage(t))
	if err != nil {
		t.Fatalf("nonzero exit must be reported in the result, got error: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "boom") {
		t.Errorf("Stderr = %q, want captured tool stderr", result.Stderr)
	}
}

func TestCheckToolNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := CheckTool(context.Background()); !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("err = %v, want ErrToolNotFound", err)
	}
}

func TestCheckToolVersions(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		wantWarning bool
	}{
		{"current version", `echo "3.2.1"`, false},
		{"v-prefixed version", `echo "v3.0.0"`, false},
		{"too old", `echo "2.1.0"`, true},
		{"unparseable", `echo "not-a-version"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeTool(t, tt.script)

			warning, err := CheckTool(context.Background())
			if err != nil {
				t.Fatalf("CheckTool: %v", err)
			}
			if (warning != "") != tt.wantWarning {
				t.Errorf("warning = %q, wantWarning = %v", warning, tt.wantWarning)
			}
		})
	}
}
