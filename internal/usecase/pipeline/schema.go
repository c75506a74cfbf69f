package pipeline

import (
	_ "embed"
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

//go:embed protocol_schema.json
var protocolSchemaJSON []byte

// protocolSchema compiles the embedded protocol document schema.
func protocolSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(protocolSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compile protocol schema: %w", err)
	}
	return schema, nil
}

// validateProtocolDocument checks the parsed model output against
// the protocol schema, returning the validation errors as one error.
func validateProtocolDocument(schema *jsonschema.Schema, doc map[string]interface{}) error {
	result := schema.Validate(doc)
	if result.Valid {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}
