package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daforge-labs/daforge/internal/config"
	"github.com/daforge-labs/daforge/internal/socket"
)

// ErrManifestNotFound indicates the agent manifest has not been
// materialized yet; Materialize must run first for this name.
var ErrManifestNotFound = errors.New("manifest file not found")

// Revise merges the agent's socket capabilities into its materialized
// agent manifest (declarativeAgent_0.json) and persists the result.
//
// Revision is a full replace, not a merge: any capability state from a
// prior run is dropped before the buckets are rebuilt, so re-running
// against an already-revised manifest is safe. The rewrite happens
// entirely in memory; on error the on-disk manifest is left untouched.
func Revise(layout config.Layout, name string) (Document, error) {
	caps, err := socket.Load(layout, name)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(layout.ManifestFolder(name), config.AgentManifestFile)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
	}

	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}

	// Drop capability state from any prior revision.
	delete(doc, FieldCapabilities)
	delete(doc, FieldExperimentalCapabilities)

	doc[FieldForceFluxV3] = true
	doc[FieldBehaviorOverrides] = behaviorOverrides()

	regular, experimental := classify(caps)

	doc[FieldCapabilities] = toAnySlice(regular)
	// Absent key and empty list are distinct states to the host platform;
	// only write the experimental field when it has entries.
	if len(experimental) > 0 {
		doc[FieldExperimentalCapabilities] = toAnySlice(experimental)
	}

	if err := doc.Write(path); err != nil {
		return nil, err
	}

	return doc, nil
}

func toAnySlice(caps []socket.Capability) []any {
	out := make([]any, len(caps))
	for i, c := range caps {
		out[i] = map[string]any(c)
	}
	return out
}
