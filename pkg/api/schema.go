package api

import (
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/matzehuels/stylekey/pkg/errors"
)

// createSchema describes the POST /api/symbology body. Value ranges and
// enumeration labels are checked by the descriptor itself so that the error
// codes match the CLI.
const createSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "symbology",
  "type": "object",
  "required": [
    "symbology_geometry_type",
    "symbology_fill_color",
    "symbology_fill_style",
    "symbology_fill_density",
    "symbology_stroke_color",
    "symbology_stroke_style",
    "symbology_stroke_line"
  ],
  "properties": {
    "symbology_geometry_type": {"type": "string", "minLength": 1},
    "symbology_fill_color":    {"type": "string", "minLength": 1},
    "symbology_fill_style":    {"type": "string", "minLength": 1},
    "symbology_fill_density":  {"type": "integer"},
    "symbology_stroke_color":  {"type": "string", "minLength": 1},
    "symbology_stroke_style":  {"type": "string", "minLength": 1},
    "symbology_stroke_line":   {"type": "number"}
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(createSchema))
})

// validateCreate checks body against createSchema. All violations are
// reported in one INVALID_INPUT error.
func validateCreate(body []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile request schema")
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body is not valid JSON")
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(errors.ErrCodeInvalidInput, "%s", strings.Join(msgs, "; "))
}
