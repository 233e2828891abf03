package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// trailCatalogSchema validates catalog seed exports before they touch the
// database. Difficulty is constrained to the 1-3 scale and lengths must be
// non-negative; terrain_type stays an open string set because new terrain
// names appear in exports faster than the schema changes.
const trailCatalogSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["trails"],
	"properties": {
		"trails": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "city", "length_km", "difficulty", "terrain_type"],
				"properties": {
					"name": {"type": "string", "minLength": 1, "maxLength": 255},
					"city": {"type": "string", "minLength": 1},
					"region": {"type": "string"},
					"length_km": {"type": "number", "minimum": 0},
					"difficulty": {"type": "integer", "minimum": 1, "maximum": 3},
					"terrain_type": {"type": "string", "minLength": 1},
					"category": {"type": "string", "enum": ["family", "scenic", "sport", "extreme", ""]},
					"description": {"type": ["string", "null"]}
				}
			}
		}
	}
}`

// TrailSchemaValidator checks catalog seed files against the embedded JSON
// schema.
type TrailSchemaValidator struct {
	schema *gojsonschema.Schema
}

func NewTrailSchemaValidator() *TrailSchemaValidator {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(trailCatalogSchema))
	if err != nil {
		// The schema is a compile-time constant; failing to parse it is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("invalid trail catalog schema: %v", err))
	}
	return &TrailSchemaValidator{schema: schema}
}

// ValidateCatalog validates a raw seed file payload. All violations are
// reported at once.
func (v *TrailSchemaValidator) ValidateCatalog(data []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate catalog document: %w", err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("catalog validation failed: %s", strings.Join(messages, "; "))
}
