package backend

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names, one per response shape.
const (
	schemaMessage  = "message"
	schemaLogin    = "login"
	schemaProducts = "products"
	schemaCreated  = "created"
	schemaGenerate = "generate"
	schemaDrafts   = "drafts"
)

type schemaSet map[string]*jsonschema.Schema

// loadSchemas compiles every embedded response schema.
func loadSchemas() (schemaSet, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to read schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	set := make(schemaSet, len(entries))
	for _, entry := range entries {
		data, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", entry.Name(), err)
		}
		schema, err := compiler.Compile(data)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", entry.Name(), err)
		}
		set[strings.TrimSuffix(entry.Name(), ".json")] = schema
	}
	return set, nil
}

// decode validates body against the named schema and then unmarshals it into
// out. Any mismatch is reported as a *ParseError for op.
func (s schemaSet) decode(op, name string, body []byte, out any) error {
	schema, ok := s[name]
	if !ok {
		return &ParseError{Op: op, Err: fmt.Errorf("no schema %q", name)}
	}

	var instance any
	if err := json.Unmarshal(body, &instance); err != nil {
		return &ParseError{Op: op, Err: err}
	}

	result := schema.Validate(instance)
	if !result.IsValid() {
		var messages []string
		for field, evalErr := range result.Errors {
			messages = append(messages, fmt.Sprintf("%s: %s", field, evalErr.Error()))
		}
		sort.Strings(messages)
		return &ParseError{Op: op, Err: fmt.Errorf("schema validation failed: %s", strings.Join(messages, "; "))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{Op: op, Err: err}
	}
	return nil
}
