package iiif

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// manifestSchemaURL names the embedded schema inside the compiler.
const manifestSchemaURL = "https://iiif2neon.local/schemas/manifest.schema.json"

//go:embed schemas/manifest.schema.json
var manifestSchemaJSON []byte

// manifestSchema compiles the embedded schema once per process.
var manifestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	unmarshaled, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifestSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(manifestSchemaURL, unmarshaled); err != nil {
		return nil, fmt.Errorf("failed to add manifest schema: %w", err)
	}

	compiled, err := compiler.Compile(manifestSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile manifest schema: %w", err)
	}
	return compiled, nil
})

// validateManifestShape checks the structural subset of a manifest the
// converter depends on. Missing canvas fields are left to the decoder so they
// surface as MissingFieldError.
func validateManifestShape(data []byte) error {
	schema, err := manifestSchema()
	if err != nil {
		return err
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return nil
}
