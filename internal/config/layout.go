package config

import (
	"os"
	"path/filepath"

	"github.com/daforge-labs/daforge/internal/branding"
)

// Well-known file and folder names of the packaging workspace.
const (
	SocketsDir         = "sockets"
	RawManifestsDir    = "raw_manifests"
	ZippedManifestsDir = "zipped_manifests"
	TemplatesDir       = "templates"
	DefaultTemplate    = "default"

	AppManifestFile   = "manifest.json"
	AgentManifestFile = "declarativeAgent_0.json"
	ColorIcon         = "color.png"
	OutlineIcon       = "outline.png"
)

// Layout holds the resolved folder locations for one run. Components receive
// a Layout at the call boundary instead of reaching for process-global paths.
type Layout struct {
	// SocketDir holds the socket documents (<name>.json).
	SocketDir string
	// ManifestDir holds per-agent materialized manifest folders.
	ManifestDir string
	// PackageDir holds per-agent zip archives.
	PackageDir string
	// TemplateDir holds the template fileset copied per agent.
	TemplateDir string
}

// ResolveLayout applies the folder resolution policy once, at the boundary.
//
// Resolution order:
//  1. DAFORGE_SOCKETS / DAFORGE_TEMPLATES (env or config file) win outright.
//  2. ./sockets and ./templates/default in the working directory.
//  3. Fallback to the same paths relative to the executable's parent
//     directory (bundled release layout).
//
// Output folders (raw_manifests, zipped_manifests) are always anchored at
// the working directory; callers create them on demand.
func ResolveLayout() Layout {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return Layout{
		SocketDir:   resolveInputDir("sockets", filepath.Join(cwd, SocketsDir), SocketsDir),
		ManifestDir: filepath.Join(cwd, RawManifestsDir),
		PackageDir:  filepath.Join(cwd, ZippedManifestsDir),
		TemplateDir: resolveInputDir("templates",
			filepath.Join(cwd, TemplatesDir, DefaultTemplate),
			filepath.Join(TemplatesDir, DefaultTemplate)),
	}
}

// SocketPath returns the socket document path for an agent name.
func (l Layout) SocketPath(name string) string {
	return filepath.Join(l.SocketDir, name+".json")
}

// ManifestFolder returns the materialized manifest folder for an agent name.
func (l Layout) ManifestFolder(name string) string {
	return filepath.Join(l.ManifestDir, name)
}

// ArchivePath returns the zip archive path for an agent name.
func (l Layout) ArchivePath(name string) string {
	return filepath.Join(l.PackageDir, name+".zip")
}

// resolveInputDir picks the first existing location for an input folder:
// explicit override (config key / env var), working-directory path, then
// executable-relative path. The working-directory path is returned when
// nothing exists, so error messages point at the expected location.
func resolveInputDir(key, cwdPath, exeRelPath string) string {
	if v := Get(key); v != "" {
		return v
	}
	if v := os.Getenv(branding.EnvVar(key)); v != "" {
		return v
	}

	if dirExists(cwdPath) {
		return cwdPath
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "..", exeRelPath)
		if dirExists(candidate) {
			return candidate
		}
	}

	return cwdPath
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
