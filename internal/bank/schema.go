package bank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema/catalog.schema.json
var catalogSchema []byte

const catalogSchemaURL = "schema://numeracy/catalog.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// SchemaError reports a catalog that does not match the catalog schema.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// getCompiledSchema compiles the embedded schema on first use.
func getCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(catalogSchema, &def); err != nil {
			schemaErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(catalogSchemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(catalogSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile catalog schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// validateDocument checks raw catalog JSON against the schema.
func validateDocument(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &SchemaError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	sch, err := getCompiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}

// yamlToJSON re-encodes a YAML document as JSON for schema validation.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("invalid YAML: %w", err)}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("catalog is not JSON-compatible: %w", err)}
	}
	return out, nil
}
