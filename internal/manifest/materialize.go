package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daforge-labs/daforge/internal/config"
	"github.com/google/uuid"
)

// ErrTemplateNotFound indicates the template folder does not exist.
var ErrTemplateNotFound = errors.New("template folder not found")

// shortNameLimit is the platform's cap on the short display name.
const shortNameLimit = 30

// Options configures a materialization run.
type Options struct {
	// Name of the agent; becomes the folder name and display names.
	Name string
	// Description for both manifests; "-" when empty.
	Description string
	// Instruction text for the agent manifest; "-" when empty.
	Instruction string
	// Reuse, when non-nil, stamps a prior identity instead of generating
	// fresh IDs (ID-preserving re-deploys).
	Reuse *Identity
}

// Materialized describes the output of a materialization run.
type Materialized struct {
	Folder   string
	Identity Identity
}

// Materialize creates the per-agent manifest folder from the template
// fileset and stamps identity and naming fields into the two JSON
// documents. Existing files of the same name are overwritten.
func Materialize(layout config.Layout, opts Options) (*Materialized, error) {
	if opts.Description == "" {
		opts.Description = "-"
	}
	if opts.Instruction == "" {
		opts.Instruction = "-"
	}

	if _, err := os.Stat(layout.TemplateDir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, layout.TemplateDir)
	}

	folder := layout.ManifestFolder(opts.Name)
	if err := copyDir(layout.TemplateDir, folder); err != nil {
		return nil, fmt.Errorf("copying template to %s: %w", folder, err)
	}

	id := Identity{}
	if opts.Reuse != nil {
		id = *opts.Reuse
	} else {
		id.AppID = uuid.NewString()
		id.AgentID = uuid.NewString()
	}

	if err := stampAppManifest(filepath.Join(folder, config.AppManifestFile), id, opts); err != nil {
		return nil, err
	}
	if err := stampAgentManifest(filepath.Join(folder, config.AgentManifestFile), id, opts); err != nil {
		return nil, err
	}

	return &Materialized{Folder: folder, Identity: id}, nil
}

// stampAppManifest rewrites identity and naming fields in manifest.json.
func stampAppManifest(path string, id Identity, opts Options) error {
	doc, err := ReadDocument(path)
	if err != nil {
		return err
	}

	doc["id"] = id.AppID

	name, ok := doc["name"].(map[string]any)
	if !ok {
		return fmt.Errorf("app manifest %s: name is not an object", path)
	}
	name["short"] = truncate(opts.Name, shortNameLimit)
	name["full"] = opts.Name

	description, ok := doc["description"].(map[string]any)
	if !ok {
		return fmt.Errorf("app manifest %s: description is not an object", path)
	}
	description["full"] = opts.Description

	if err := doc.setDeclarativeAgentID(id.AgentID); err != nil {
		return fmt.Errorf("app manifest %s: %w", path, err)
	}

	return doc.Write(path)
}

// stampAgentManifest rewrites identity and metadata fields in
// declarativeAgent_0.json. Its id must match the declarative agent id
// embedded in the app manifest.
func stampAgentManifest(path string, id Identity, opts Options) error {
	doc, err := ReadDocument(path)
	if err != nil {
		return err
	}

	doc["id"] = id.AgentID
	doc["name"] = opts.Name
	doc["description"] = opts.Description
	doc["instructions"] = opts.Instruction

	return doc.Write(path)
}

// truncate hard-cuts s to at most limit runes, with no ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// copyDir recursively copies the regular files under src into dst,
// creating dst and any missing parents.
func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
		// Skip symlinks and other special files during copy.
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode())
}
