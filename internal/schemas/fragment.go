// Package schemas validates model-produced profile fragments before they are
// merged. Model output is untrusted input: unknown or malformed sub-fields
// are treated as absent rather than crashing the pipeline.
package schemas

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/profile-builder/internal/types"
)

// fragmentSchemaJSON is the JSON Schema the model's output must satisfy at
// the top level. Sections are individually optional; unknown properties are
// tolerated and dropped during decoding.
const fragmentSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "profil": {"type": "object"},
    "experiences": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "role": {"type": "string"},
          "employer": {"type": "string"},
          "start_date": {"type": "string"},
          "end_date": {"type": "string"},
          "description": {"type": "string"},
          "achievements": {"type": "array", "items": {"type": "string"}},
          "clients": {"type": "array", "items": {"type": "string"}},
          "skills": {"type": "array", "items": {"type": "string"}},
          "environment": {"type": "string"}
        }
      }
    },
    "competences": {"type": "object"},
    "formations": {"type": "array"},
    "langues": {"type": "array"},
    "certifications": {"type": "array"},
    "clients_references": {"type": "object"}
  }
}`

var fragmentSchema = gojsonschema.NewStringLoader(fragmentSchemaJSON)

// sectionNames lists the fragment sections decoded leniently.
var sectionNames = []string{
	"profil", "experiences", "competences", "formations",
	"langues", "certifications", "clients_references",
}

// ParseFragment decodes a raw model response into a profile fragment. The
// top level must be a JSON object; individual sections that fail their type
// check are dropped and reported in the returned list so the caller can log
// them.
func ParseFragment(raw []byte) (*types.Profile, []string, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, nil, fmt.Errorf("fragment is not a JSON object: %w", err)
	}

	result, err := gojsonschema.Validate(fragmentSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("fragment schema validation failed: %w", err)
	}

	// Sections flagged by the schema are decoded as absent.
	invalid := make(map[string]bool)
	if !result.Valid() {
		for _, desc := range result.Errors() {
			invalid[rootField(desc.Field())] = true
		}
	}

	var dropped []string
	fragment := &types.Profile{}
	for _, name := range sectionNames {
		data, ok := sections[name]
		if !ok {
			continue
		}
		if invalid[name] || !decodeSection(fragment, name, data) {
			dropped = append(dropped, name)
		}
	}

	return fragment, dropped, nil
}

// decodeSection unmarshals one section into its typed field, reporting
// success.
func decodeSection(fragment *types.Profile, name string, data []byte) bool {
	var err error
	switch name {
	case "profil":
		err = json.Unmarshal(data, &fragment.Profil)
	case "experiences":
		err = json.Unmarshal(data, &fragment.Experiences)
	case "competences":
		err = json.Unmarshal(data, &fragment.Competences)
	case "formations":
		err = json.Unmarshal(data, &fragment.Formations)
	case "langues":
		err = json.Unmarshal(data, &fragment.Langues)
	case "certifications":
		err = json.Unmarshal(data, &fragment.Certifications)
	case "clients_references":
		err = json.Unmarshal(data, &fragment.ClientsReferences)
	}
	return err == nil
}

// rootField reduces a schema error path like "experiences.0.role" to its
// top-level section name.
func rootField(field string) string {
	for i := 0; i < len(field); i++ {
		if field[i] == '.' {
			return field[:i]
		}
	}
	return field
}
