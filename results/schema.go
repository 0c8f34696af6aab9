package results

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "entry": {
      "oneOf": [
        {"type": "number"},
        {"type": "array", "items": {"type": "number"}}
      ]
    },
    "suite": {
      "type": "object",
      "properties": {
        "tests": {
          "type": "object",
          "additionalProperties": {"$ref": "#/definitions/entry"}
        },
        "suites": {
          "type": "object",
          "additionalProperties": {"$ref": "#/definitions/suite"}
        }
      }
    }
  },
  "allOf": [{"$ref": "#/definitions/suite"}],
  "type": "object",
  "required": ["timestamp"],
  "properties": {
    "timestamp": {"type": "number"},
    "version": {"type": "string"},
    "commit": {"type": "string"}
  }
}`

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
})

// validate checks data against the baseline document schema.
func validate(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("unable to compile baseline schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("document failed validation: %s", strings.Join(details, "; "))
}
