// Package sideload invokes the Teams Toolkit CLI (teamsapp) to install a
// packaged Declarative Agent. The external tool sits at the system
// boundary: its absence or a nonzero exit is reported to the caller as a
// recoverable condition, never as a fatal error, since the built package
// stays valid for manual installation.
package sideload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const toolName = "teamsapp"

// minToolVersion is the oldest Teams Toolkit CLI known to accept the
// package layout this tool produces.
const minToolVersion = "3.0.0"

// ErrToolNotFound indicates the teamsapp CLI is not on PATH. Distinct
// from a failed run so callers can print install guidance.
var ErrToolNotFound = errors.New("teamsapp command not found")

// Result captures the outcome of one tool invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Sideloader runs the external install command.
type Sideloader struct {
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Install runs `teamsapp install --file-path <zip>` and blocks until the
// child exits. A nonzero exit is returned in the Result with a nil error;
// only a missing package, missing tool, or failure to start is an error.
func (s *Sideloader) Install(ctx context.Context, zipPath string) (*Result, error) {
	if _, err := os.Stat(zipPath); err != nil {
		return nil, fmt.Errorf("package not found: %s", zipPath)
	}

	bin, err := exec.LookPath(toolName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}

	cmd := exec.CommandContext(ctx, bin, "install", "--file-path", zipPath)

	stdout := s.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := s.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	err = cmd.Run()

	result := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("running %s: %w", toolName, err)
	}

	return result, nil
}

// CheckTool probes the teamsapp CLI version. It returns ErrToolNotFound
// when the tool is missing and a warning string when the reported version
// is unparseable or below the known-good minimum. The check is advisory;
// callers report the warning and proceed.
func CheckTool(ctx context.Context) (string, error) {
	bin, err := exec.LookPath(toolName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}

	out, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		return fmt.Sprintf("%s --version failed: %v", toolName, err), nil
	}

	reported := strings.TrimSpace(string(out))
	current, err := semver.NewVersion(strings.TrimPrefix(reported, "v"))
	if err != nil {
		return fmt.Sprintf("cannot parse %s version %q", toolName, reported), nil
	}

	minimum := semver.MustParse(minToolVersion)
	if current.LessThan(minimum) {
		return fmt.Sprintf("%s %s is older than the supported minimum %s; sideload may fail",
			toolName, reported, minToolVersion), nil
	}

	return "", nil
}
