// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins the collected messages so a failed result can be returned as an error.
func (r *ValidationResult) Error() string {
	if r == nil || r.Valid {
		return ""
	}
	msg := "validation failed:"
	for _, e := range r.Errors {
		msg += fmt.Sprintf(" %s: %s;", e.Field, e.Message)
	}
	return msg
}

// ChartSchema describes the minimum shape of a chart object found in model output.
// Optional keys are left unconstrained; non-string values fall back to defaults.
const ChartSchema = `{
  "type": "object",
  "required": ["type", "data"],
  "properties": {
    "type": {"type": "string", "enum": ["bar", "line", "pie"]},
    "data": {"type": "array", "minItems": 1, "items": {"type": "object"}}
  }
}`

// RouteRecordInputSchema describes the variables of a route-record job.
const RouteRecordInputSchema = `{
  "type": "object",
  "required": ["record"],
  "properties": {
    "record": {"type": "object", "minProperties": 1},
    "context": {"type": "string"},
    "dryRun": {"type": "boolean"},
    "async": {"type": "boolean"}
  }
}`

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

func compile(schema string) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[schema]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	schemaCache[schema] = s
	return s, nil
}

// ValidateDocument checks a decoded Go value against a JSON schema string.
func ValidateDocument(schema string, document interface{}) *ValidationResult {
	s, err := compile(schema)
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(schema)", Message: err.Error(), Code: "INVALID_SCHEMA"}},
		}
	}
	return toResult(s.Validate(gojsonschema.NewGoLoader(document)))
}

// ValidateJSON checks raw JSON bytes against a JSON schema string.
func ValidateJSON(schema string, raw []byte) *ValidationResult {
	s, err := compile(schema)
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(schema)", Message: err.Error(), Code: "INVALID_SCHEMA"}},
		}
	}
	return toResult(s.Validate(gojsonschema.NewBytesLoader(raw)))
}

func ValidateChart(document interface{}) *ValidationResult {
	return ValidateDocument(ChartSchema, document)
}

func ValidateRouteRecordInput(raw []byte) *ValidationResult {
	return ValidateJSON(RouteRecordInputSchema, raw)
}

func toResult(result *gojsonschema.Result, err error) *ValidationResult {
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "INVALID_DOCUMENT"}},
		}
	}
	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}
