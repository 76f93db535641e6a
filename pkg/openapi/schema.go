package openapi

import (
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validators"
)

const (
	extensionNamespace = "x-formstate"
	matchExtensionKey  = "x-match"
)

// SchemaFor describes c and its subtree. Groups become closed objects that
// require every child, arrays take their item schema from the entry
// template, and fields are typed from their rules and current value.
func SchemaFor(c form.Control) *openapi3.Schema {
	switch typed := c.(type) {
	case *form.Group:
		return groupSchema(typed)
	case *form.Array:
		return arraySchema(typed)
	case *form.Field:
		return fieldSchema(typed)
	default:
		return &openapi3.Schema{}
	}
}

func groupSchema(g *form.Group) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	closed := false
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: &closed}
	for _, name := range g.Names() {
		schema.WithProperty(name, SchemaFor(g.Control(name)))
		schema.Required = append(schema.Required, name)
	}
	for _, rule := range validators.RulesOf(g) {
		if rule.Kind == validators.KindMatch {
			schema.Extensions = extend(schema.Extensions, matchExtensionKey, map[string]any{
				"primary":      rule.Param("primary"),
				"confirmation": rule.Param("confirmation"),
			})
		}
	}
	return schema
}

func arraySchema(a *form.Array) *openapi3.Schema {
	schema := openapi3.NewArraySchema()
	if template := a.Template(); template != nil {
		schema.Items = openapi3.NewSchemaRef("", SchemaFor(template))
	}
	return schema
}

func fieldSchema(f *form.Field) *openapi3.Schema {
	rules := validators.RulesOf(f)
	schema := baseSchema(f.Value(), rules)

	var kinds []any
	for _, rule := range rules {
		kinds = append(kinds, rule.Kind)
		switch rule.Kind {
		case validators.KindRequired:
			if schema.Type != nil && schema.Type.Is(openapi3.TypeString) && schema.MinLength == 0 {
				schema.MinLength = 1
			}
			schema.Nullable = false
		case validators.KindRequiredTrue:
			schema.Enum = []any{true}
		case validators.KindEmail:
			schema.Format = "email"
		case validators.KindMinLength:
			if n, ok := uintParam(rule, "value"); ok && n > schema.MinLength {
				schema.MinLength = n
			}
		case validators.KindMaxLength:
			if n, ok := uintParam(rule, "value"); ok {
				schema.MaxLength = &n
			}
		case validators.KindPattern:
			schema.Pattern = rule.Param("pattern")
		case validators.KindRange:
			if v, err := strconv.ParseFloat(rule.Param("min"), 64); err == nil {
				schema.Min = &v
			}
			if v, err := strconv.ParseFloat(rule.Param("max"), 64); err == nil {
				schema.Max = &v
			}
		}
	}
	if len(kinds) > 0 {
		schema.Extensions = extend(schema.Extensions, extensionNamespace, map[string]any{"rules": kinds})
	}
	return schema
}

// baseSchema picks the type. Range rules make the field a nullable number;
// otherwise the current value decides, and nil stays untyped.
func baseSchema(value any, rules []validators.Rule) *openapi3.Schema {
	for _, rule := range rules {
		if rule.Kind == validators.KindRange {
			schema := openapi3.NewFloat64Schema()
			schema.Nullable = true
			return schema
		}
	}
	switch value.(type) {
	case bool:
		return openapi3.NewBoolSchema()
	case string:
		return openapi3.NewStringSchema()
	case int, int32, int64, uint, uint64:
		return openapi3.NewIntegerSchema()
	case float32, float64:
		return openapi3.NewFloat64Schema()
	default:
		return &openapi3.Schema{Nullable: true}
	}
}

func uintParam(rule validators.Rule, name string) (uint64, bool) {
	n, err := strconv.ParseUint(rule.Param(name), 10, 64)
	return n, err == nil
}

func extend(ext map[string]any, key string, value any) map[string]any {
	if ext == nil {
		ext = make(map[string]any)
	}
	ext[key] = value
	return ext
}
