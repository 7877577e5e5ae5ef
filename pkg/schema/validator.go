// Package schema validates manifest records against the versioned GIF
// manifest JSON Schema. The schema is read-only configuration: it is loaded
// from an external file or from the embedded copy, never mutated here.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bilbywilby/IASIP-gifs/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a single validation failure. Path is the ordered
// sequence of keys and indices leading to the offending value.
type ValidationError struct {
	Path    []string `json:"path,omitempty"`
	Message string   `json:"message"`
}

func (e *ValidationError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (at %s)", e.Message, strings.Join(e.Path, " -> "))
}

// Result holds the validation outcome.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// First returns the first error, or nil when the result is valid.
func (r *Result) First() *ValidationError {
	if r == nil || r.Valid || len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

// Validator wraps the compiled manifest schema for repeated validation.
// Validation never mutates its input.
type Validator struct {
	full   *gojsonschema.Schema
	record *gojsonschema.Schema
}

// NewValidatorFromBytes compiles schema bytes (JSON or YAML) into a reusable
// validator. The schema must describe an array of records; its items
// sub-schema is reused to validate single wrapped records.
func NewValidatorFromBytes(schemaBytes []byte) (*Validator, error) {
	doc, err := decodeSchemaDoc(schemaBytes)
	if err != nil {
		return nil, err
	}

	full, err := compileSchemaDoc(doc)
	if err != nil {
		return nil, err
	}

	items, ok := doc["items"]
	if !ok {
		return nil, fmt.Errorf("schema has no items sub-schema; expected an array schema")
	}
	wrapper := map[string]interface{}{
		"type":  "array",
		"items": items,
	}
	record, err := compileSchemaDoc(wrapper)
	if err != nil {
		return nil, fmt.Errorf("compile record wrapper schema: %w", err)
	}

	return &Validator{full: full, record: record}, nil
}

// NewValidatorFromFile loads and compiles a schema file.
func NewValidatorFromFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return NewValidatorFromBytes(data)
}

// NewDefaultValidator compiles the embedded gif-schema.
func NewDefaultValidator() (*Validator, error) {
	data, ok := assets.GetSchema(assets.DefaultSchemaName)
	if !ok {
		return nil, fmt.Errorf("embedded schema %s not found", assets.DefaultSchemaName)
	}
	return NewValidatorFromBytes(data)
}

// ValidateManifest applies the full array schema to the manifest collection.
func (v *Validator) ValidateManifest(m interface{}) (*Result, error) {
	if v == nil || v.full == nil {
		return nil, fmt.Errorf("validator not initialised")
	}
	return validateWithCompiled(v.full, m)
}

// ValidateRecord wraps a single record as a one-element collection and checks
// it against the schema's items sub-schema. Error paths mirror the wrapped
// shape, so they start with the element index "0".
func (v *Validator) ValidateRecord(r interface{}) (*Result, error) {
	if v == nil || v.record == nil {
		return nil, fmt.Errorf("validator not initialised")
	}
	return validateWithCompiled(v.record, []interface{}{r})
}

// decodeSchemaDoc parses schema bytes, trying YAML first (a superset of JSON
// for our purposes), and requires a top-level object.
func decodeSchemaDoc(schemaBytes []byte) (map[string]interface{}, error) {
	var tmp interface{}
	if err := yaml.Unmarshal(schemaBytes, &tmp); err != nil {
		if err := json.Unmarshal(schemaBytes, &tmp); err != nil {
			return nil, fmt.Errorf("parse schema bytes (YAML/JSON): %w", err)
		}
	}
	doc, ok := tmp.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("schema root must be an object, got %T", tmp)
	}
	return doc, nil
}

func compileSchemaDoc(doc map[string]interface{}) (*gojsonschema.Schema, error) {
	jb, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema to JSON: %w", err)
	}
	sch, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jb))
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return sch, nil
}

func validateWithCompiled(sch *gojsonschema.Schema, data interface{}) (*Result, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data to JSON: %w", err)
	}
	result, err := sch.Validate(gojsonschema.NewBytesLoader(dataJSON))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	res := &Result{Valid: result.Valid()}
	if !result.Valid() {
		for _, verr := range result.Errors() {
			res.Errors = append(res.Errors, ValidationError{
				Path:    splitFieldPath(verr.Field()),
				Message: verr.Description(),
			})
		}
	}
	return res, nil
}

// splitFieldPath converts gojsonschema's dotted field ("0.description") into
// ordered path segments. The synthetic "(root)" field maps to an empty path.
func splitFieldPath(field string) []string {
	if field == "" || field == "(root)" {
		return nil
	}
	return strings.Split(field, ".")
}
