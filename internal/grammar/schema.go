package grammar

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaDocument string

const schemaURL = "schema://grammar.json"

var (
	compiledSchema *jsonschema.Schema
	compileErr     error
	compileOnce    sync.Once
)

// documentSchema compiles the embedded grammar schema once per process.
func documentSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaDocument)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateDocument checks a decoded grammar document against the schema before
// any typed decoding happens, so shape errors are reported with their JSON
// pointer.
func validateDocument(source string, raw any) error {
	schema, err := documentSchema()
	if err != nil {
		return &SchemaError{Source: source, Err: fmt.Errorf("failed to compile grammar schema: %w", err)}
	}

	value, err := jsonValue(raw)
	if err != nil {
		return &SchemaError{Source: source, Err: err}
	}

	if err := schema.Validate(value); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			leaf := leafCause(validationErr)
			location := leaf.InstanceLocation
			if location == "" {
				location = "/"
			}
			return &SchemaError{Source: source, Location: location, Err: errors.New(leaf.Message)}
		}
		return &SchemaError{Source: source, Err: err}
	}
	return nil
}

// jsonValue normalizes a YAML-decoded value to the types the validator
// understands (maps with string keys, json.Number).
func jsonValue(raw any) (any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("grammar is not representable as JSON: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func leafCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}
