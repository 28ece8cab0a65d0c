// Package schema generates JSON schemas for bundle configuration.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Option configures schema generation.
type Option func(*jsonschema.Schema)

// WithTitle sets the schema title.
func WithTitle(title string) Option {
	return func(s *jsonschema.Schema) {
		s.Title = title
	}
}

// WithDescription sets the schema description.
func WithDescription(desc string) Option {
	return func(s *jsonschema.Schema) {
		s.Description = desc
	}
}

// GenerateSchema creates a JSON schema (Draft 2020-12) from a Go struct.
// Field names follow the json tags; constraints come from jsonschema tags.
// Every property is optional since the configuration overlays defaults.
func GenerateSchema(v any, opts ...Option) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
	}
	schema := reflector.Reflect(v)
	for _, opt := range opts {
		opt(schema)
	}

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}
