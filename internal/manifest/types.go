package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Identity is the pair of generated (or reused) IDs stamped into a
// materialized manifest folder: the app manifest's own id and the
// declarative agent id referenced from both documents.
type Identity struct {
	AppID   string
	AgentID string
}

// Document is a manifest JSON document held as a generic tree. Manifests
// carry many platform fields this tool never touches; a generic tree keeps
// them intact across the rewrite.
type Document map[string]any

// ReadDocument reads and parses a manifest JSON document.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	return doc, nil
}

// Write persists the document as two-space-indented UTF-8 JSON without
// HTML escaping, matching the template documents' formatting.
func (d Document) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding manifest %s: %w", path, err)
	}

	return nil
}

// DeclarativeAgentID reads the declarative agent id nested inside an app
// manifest (copilotAgents.declarativeAgents[0].id). The second return is
// false when any link of the chain is absent or of the wrong shape.
func (d Document) DeclarativeAgentID() (string, bool) {
	agents, ok := d["copilotAgents"].(map[string]any)
	if !ok {
		return "", false
	}
	declared, ok := agents["declarativeAgents"].([]any)
	if !ok || len(declared) == 0 {
		return "", false
	}
	first, ok := declared[0].(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := first["id"].(string)
	return id, ok
}

// setDeclarativeAgentID writes the declarative agent id into an app
// manifest, failing if the template does not carry the expected nesting.
func (d Document) setDeclarativeAgentID(id string) error {
	agents, ok := d["copilotAgents"].(map[string]any)
	if !ok {
		return fmt.Errorf("app manifest: copilotAgents is not an object")
	}
	declared, ok := agents["declarativeAgents"].([]any)
	if !ok || len(declared) == 0 {
		return fmt.Errorf("app manifest: copilotAgents.declarativeAgents is empty")
	}
	first, ok := declared[0].(map[string]any)
	if !ok {
		return fmt.Errorf("app manifest: declarativeAgents[0] is not an object")
	}
	first["id"] = id
	return nil
}
