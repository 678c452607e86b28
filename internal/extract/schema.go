package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/docclassify/constants"
	"github.com/joseph-ayodele/docclassify/internal/entity"
	"github.com/joseph-ayodele/docclassify/internal/patterns"
)

// BuildFieldMapSchema returns a JSON schema accepting objects whose keys are a
// subset of fields and whose values are non-empty strings.
func BuildFieldMapSchema(fields []string) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f] = map[string]any{"type": "string", "minLength": 1}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

// Validator checks field maps against the per-type schema derived from a pattern library.
type Validator struct {
	schemas map[constants.DocumentType]*jsonschema.Schema
}

func NewValidator(lib *patterns.Library) (*Validator, error) {
	if lib == nil {
		lib = patterns.Default()
	}
	v := &Validator{schemas: make(map[constants.DocumentType]*jsonschema.Schema)}
	for _, t := range constants.AllDocumentTypes() {
		s, err := compileSchema(string(t)+".json", BuildFieldMapSchema(lib.Fields(t)))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", t, err)
		}
		v.schemas[t] = s
	}
	return v, nil
}

// Validate reports keys unknown to t or empty values.
func (v *Validator) Validate(t constants.DocumentType, fields entity.FieldMap) error {
	s, ok := v.schemas[t]
	if !ok {
		return fmt.Errorf("no schema for document type %q", t)
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("unmarshal fields: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("fields do not match %s schema: %w", t, err)
	}
	return nil
}

func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(name)
}
