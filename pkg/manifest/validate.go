package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

// ValidationError is a single schema violation.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of validating a manifest document.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Schema returns the embedded JSON Schema for manifest documents.
func Schema() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

func schema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})
	return compiled, compileErr
}

// Validate checks a JSON or YAML manifest document against the schema.
// The returned error is non-nil only when the document cannot be checked.
func Validate(doc []byte) (*Result, error) {
	sch, err := schema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile manifest schema: %w", err)
	}

	var data interface{}
	if err := json.Unmarshal(doc, &data); err != nil {
		if yerr := yaml.Unmarshal(doc, &data); yerr != nil {
			return nil, fmt.Errorf("failed to parse manifest (JSON/YAML): %w", err)
		}
		// Round-trip YAML through JSON so the validator sees plain types
		normalized, merr := json.Marshal(data)
		if merr != nil {
			return nil, fmt.Errorf("encode manifest to JSON: %w", merr)
		}
		doc = normalized
	}

	result, err := sch.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	res := &Result{Valid: result.Valid()}
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" {
			field = "root"
		}
		res.Errors = append(res.Errors, ValidationError{Path: field, Message: verr.Description()})
	}
	return res, nil
}
