package manifest

import "github.com/daforge-labs/daforge/internal/socket"

// Capability names recognized by the revision rule table.
const (
	CapabilityOneDriveSharePoint = "OneDriveAndSharePoint"
	CapabilityWebSearch          = "WebSearch"
	CapabilityEmail              = "Email"
	CapabilityMeetings           = "Meetings"
	CapabilityPages              = "Pages"
	CapabilityCodeInterpreter    = "CodeInterpreter"
)

// Manifest field names written by the reviser.
const (
	FieldCapabilities             = "capabilities"
	FieldExperimentalCapabilities = "x-experimental_capabilities"
	FieldForceFluxV3              = "x-force_fluxv3"
	FieldBehaviorOverrides        = "behavior_overrides"
	FieldItemsBySharePointIDs     = "items_by_sharepoint_ids"
	FieldItemsByURL               = "items_by_url"
	FieldForceBotspeak            = "x-force_botspeak"
)

// bucket selects which manifest array a capability lands in.
type bucket int

const (
	bucketRegular bucket = iota
	bucketExperimental
)

// rule pairs a destination bucket with an optional record transform.
type rule struct {
	bucket    bucket
	transform func(socket.Capability) socket.Capability
}

// capabilityRules routes capability records by exact name match. Names not
// in the table fall through to the regular bucket with their record
// untouched. One rule per entry keeps the table auditable and testable.
var capabilityRules = map[string]rule{
	CapabilityOneDriveSharePoint: {bucketRegular, cleanOneDrive},
	CapabilityWebSearch:          {bucketExperimental, nil},
	CapabilityEmail:              {bucketRegular, nil},
	// Meetings was slated for the experimental bucket but has always
	// shipped as regular; keep the shipped routing until product says
	// otherwise (see TestReviseMeetingsRoutedRegular).
	CapabilityMeetings: {bucketRegular, nil},
	CapabilityPages:    {bucketExperimental, nil},
}

// defaultRule handles names absent from the table.
var defaultRule = rule{bucketRegular, nil}

// ruleFor returns the routing rule for a capability name.
func ruleFor(name string) rule {
	if r, ok := capabilityRules[name]; ok {
		return r
	}
	return defaultRule
}

// classify routes the records into the two output buckets, preserving
// relative order within each bucket. Input records are never mutated;
// transforms produce derived copies.
func classify(caps []socket.Capability) (regular, experimental []socket.Capability) {
	for _, record := range caps {
		r := ruleFor(record.Name())

		out := record
		if r.transform != nil {
			out = r.transform(record)
		}

		switch r.bucket {
		case bucketExperimental:
			experimental = append(experimental, out)
		default:
			regular = append(regular, out)
		}
	}
	return regular, experimental
}

// cleanOneDrive derives the deployable form of a OneDrive/SharePoint
// record: per site item, the raw Graph metadata fields ("type", "name")
// are dropped and the vendor-prefixed part fields lose their prefix; then
// missing default fields are filled in. Fields the record already sets are
// never overwritten, even when explicitly falsy.
func cleanOneDrive(record socket.Capability) socket.Capability {
	out := record.Clone()

	if items, ok := out[FieldItemsBySharePointIDs].([]any); ok {
		cleaned := make([]any, 0, len(items))
		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				cleaned = append(cleaned, raw)
				continue
			}
			cleaned = append(cleaned, cleanSiteItem(item))
		}
		out[FieldItemsBySharePointIDs] = cleaned
	}

	for field, value := range capabilityDefaults() {
		if _, exists := out[field]; !exists {
			out[field] = value
		}
	}

	return out
}

// cleanSiteItem copies one site item, dropping "type"/"name" and renaming
// x-part_id/x-part_type to their unprefixed forms.
func cleanSiteItem(item map[string]any) map[string]any {
	next := make(map[string]any, len(item))
	for k, v := range item {
		switch k {
		case "type", "name", "x-part_id", "x-part_type":
			// handled below
		default:
			next[k] = v
		}
	}
	if v, ok := item["x-part_id"]; ok {
		next["part_id"] = v
	}
	if v, ok := item["x-part_type"]; ok {
		next["part_type"] = v
	}
	return next
}

// capabilityDefaults returns a fresh defaults map per call so filled-in
// values are never shared between records.
func capabilityDefaults() map[string]any {
	return map[string]any{
		FieldItemsByURL:    []any{},
		FieldForceBotspeak: false,
	}
}

// behaviorOverrides returns the constant behavior override object stamped
// on every revised manifest.
func behaviorOverrides() map[string]any {
	return map[string]any{
		"special_instructions": map[string]any{
			"discourage_model_knowledge": true,
		},
	}
}
