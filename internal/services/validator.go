package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Request kinds with a schema in the schemas directory.
const (
	SchemaJobCreate     = "job.create"
	SchemaPayoutRequest = "payout.request"
	SchemaRegister      = "auth.register"
)

// Validator holds the compiled request schemas. Mutation bodies are
// validated against them before handlers decode, so malformed rows never
// reach the store.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles all *.json schema files from schemaDir. The file
// name without extension is the request kind (e.g. job.create.json).
func NewValidator(schemaDir string) (*Validator, error) {
	entries, err := os.ReadDir(schemaDir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir %q: %w", schemaDir, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schemas := make(map[string]*jsonschema.Schema)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		kind := strings.TrimSuffix(e.Name(), ".json")
		path := filepath.Join(schemaDir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", path, err)
		}
		id := "https://crewx.app/schemas/" + kind
		if err := compiler.AddResource(id, strings.NewReader(string(data))); err != nil {
			return nil, fmt.Errorf("load schema %q: %w", kind, err)
		}
		schemas[kind], err = compiler.Compile(id)
		if err != nil {
			return nil, fmt.Errorf("compile schema %q: %w", kind, err)
		}
	}
	if len(schemas) == 0 {
		return nil, fmt.Errorf("no schemas found in %q", schemaDir)
	}
	return &Validator{schemas: schemas}, nil
}

// Validate checks body against the schema for kind. An unknown kind is an
// error: a mutation without a registered schema must not slip through.
func (v *Validator) Validate(kind string, body []byte) error {
	schema, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("no schema registered for %q", kind)
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("request body invalid: %w", err)
	}
	return nil
}
