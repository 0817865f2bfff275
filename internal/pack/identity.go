package pack

import (
	"archive/zip"
	"encoding/json"
	"io"

	"github.com/daforge-labs/daforge/internal/config"
	"github.com/daforge-labs/daforge/internal/manifest"
)

// ExtractIdentity recovers the (app id, declarative agent id) pair from a
// previously built package by parsing the app manifest inside the zip.
//
// The lookup is advisory, feeding the ID-reuse path of a re-deploy, so it
// never returns an error: a missing archive, a zip without an app
// manifest, corrupt JSON, or absent id fields all report (zero, false).
func ExtractIdentity(zipPath string) (manifest.Identity, bool) {
	var zero manifest.Identity

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return zero, false
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != config.AppManifestFile {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return zero, false
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return zero, false
		}

		var doc manifest.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return zero, false
		}

		appID, ok := doc["id"].(string)
		if !ok {
			return zero, false
		}
		agentID, ok := doc.DeclarativeAgentID()
		if !ok {
			return zero, false
		}

		return manifest.Identity{AppID: appID, AgentID: agentID}, true
	}

	return zero, false
}
