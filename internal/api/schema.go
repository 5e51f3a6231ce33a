package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// schemaKind names an embedded response schema.
type schemaKind string

const (
	schemaUpload  schemaKind = "upload"
	schemaAnalyze schemaKind = "analyze"
	schemaClause  schemaKind = "clause"
)

// schemaSet holds compiled response schemas.
type schemaSet map[schemaKind]*jsonschema.Schema

func compileSchemas() (schemaSet, error) {
	set := make(schemaSet)
	for _, kind := range []schemaKind{schemaUpload, schemaAnalyze, schemaClause} {
		name := fmt.Sprintf("schemas/%s.schema.json", kind)
		data, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		url := "https://contractlens.local/" + name
		if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		compiled, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		set[kind] = compiled
	}
	return set, nil
}

// validate checks body against the schema for kind. A nil set accepts
// everything.
func (s schemaSet) validate(kind schemaKind, body []byte) error {
	schema, ok := s[kind]
	if !ok {
		return nil
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}
