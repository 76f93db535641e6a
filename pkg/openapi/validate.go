package openapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-formstate/pkg/form"
)

// DefaultVersion is the info.version written by Document.
const DefaultVersion = "1.0.0"

// ValidateValue checks value against schema. The value is normalised through
// JSON first so Go integers and typed maps compare the way a decoded request
// body would. All violations are reported, joined.
func ValidateValue(schema *openapi3.Schema, value any) error {
	if schema == nil {
		return errors.New("openapi: schema is required")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("openapi: encode value: %w", err)
	}
	var normalised any
	if err := json.Unmarshal(raw, &normalised); err != nil {
		return fmt.Errorf("openapi: decode value: %w", err)
	}
	if err := schema.VisitJSON(normalised, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Document wraps the schema of root in a components-only OpenAPI document
// under name. An empty title falls back to name. The document is validated
// before it is returned.
func Document(ctx context.Context, name, title string, root form.Control) (*openapi3.T, error) {
	if name == "" {
		return nil, errors.New("openapi: schema name is required")
	}
	if title == "" {
		title = name
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: DefaultVersion,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				name: openapi3.NewSchemaRef("", SchemaFor(root)),
			},
		},
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}
