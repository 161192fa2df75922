package catalog

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// documentSchema constrains the catalog YAML shape. Violations are
// reported as warnings by Load; they never block startup.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["providers"],
  "properties": {
    "providers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "enabled"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "displayName": {"type": "string"},
          "enabled": {"type": "boolean"},
          "apiKeyEnv": {"type": "string"},
          "baseUrl": {"type": "string"},
          "baseUrlEnv": {"type": "string"},
          "models": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "enabled"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "displayName": {"type": "string"},
                "enabled": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("catalog-schema.json", documentSchema)

// ValidateDocument checks a catalog YAML document against the schema and
// returns human-readable violation messages. An unparseable document
// returns no violations; Parse reports that failure separately.
func ValidateDocument(data []byte) []string {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}
	// The validator expects JSON-decoded value types, so round-trip the
	// YAML tree through encoding/json.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(buf, &v); err != nil {
		return nil
	}
	if err := compiledSchema.Validate(v); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			var out []string
			for _, cause := range ve.BasicOutput().Errors {
				if cause.Error == "" {
					continue
				}
				out = append(out, cause.KeywordLocation+": "+cause.Error)
			}
			if len(out) > 0 {
				return out
			}
		}
		return []string{err.Error()}
	}
	return nil
}
