package tools

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Minimal shape checks run before mapping. Anything finer grained is left to
// the typed decode, which applies per-field defaults.
var (
	resultsSchema = jsonschema.MustCompileString("results.json", `{
		"type": "object",
		"properties": {
			"results": {"type": "array", "items": {"type": "object"}}
		}
	}`)

	eslintSchema = jsonschema.MustCompileString("eslint.json", `{
		"type": "array",
		"items": {
			"type": "object",
			"properties": {
				"messages": {"type": "array", "items": {"type": "object"}}
			}
		}
	}`)
)

// decodeValidated checks raw against schema, then decodes it into dst.
func decodeValidated(schema *jsonschema.Schema, raw []byte, dst any) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("unexpected output shape: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding output: %w", err)
	}
	return nil
}

func strOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
