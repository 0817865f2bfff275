package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/daforge-labs/daforge/internal/config"
)

// ErrNotFound indicates that no socket document exists for the agent name.
var ErrNotFound = errors.New("socket file not found")

// Capability is a single capability record from a socket document. Records
// are open-ended: beyond "name", fields are capability-kind-specific and are
// carried through untouched unless a revision rule rewrites them.
type Capability map[string]any

// Name returns the capability kind, or "" if the record carries none.
func (c Capability) Name() string {
	name, _ := c["name"].(string)
	return name
}

// Clone returns a shallow copy of the record. Transform rules operate on
// clones so the loaded document is never mutated.
func (c Capability) Clone() Capability {
	out := make(Capability, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Find returns the socket document path for an agent name, or ErrNotFound.
func Find(layout config.Layout, name string) (string, error) {
	path := layout.SocketPath(name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return path, nil
}

// Load reads and parses the socket document for an agent name, preserving
// record order. Records without a "name" key are tolerated here; the reviser
// routes them through the default rule.
func Load(layout config.Layout, name string) ([]Capability, error) {
	path, err := Find(layout, name)
	if err != nil {
		return nil, err
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var caps []Capability
	if err := json.Unmarshal(data, &caps); err != nil {
		return nil, fmt.Errorf("parsing socket file %s: %w", path, err)
	}

	return caps, nil
}

// List returns the sorted names of all socket documents in the socket folder.
// A missing folder yields an empty list, not an error.
func List(layout config.Layout) ([]string, error) {
	entries, err := os.ReadDir(layout.SocketDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading socket folder %s: %w", layout.SocketDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}

	sort.Strings(names)
	return names, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
