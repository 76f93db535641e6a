package openapi_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/customer"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/validators"
)

func property(t *testing.T, schema *openapi3.Schema, path ...string) *openapi3.Schema {
	t.Helper()
	current := schema
	for _, name := range path {
		if current.Items != nil && name == "[]" {
			current = current.Items.Value
			continue
		}
		ref, ok := current.Properties[name]
		if !ok || ref == nil || ref.Value == nil {
			t.Fatalf("missing property %q", name)
		}
		current = ref.Value
	}
	return current
}

func TestSchemaForCustomerForm(t *testing.T) {
	schema := openapi.SchemaFor(customer.NewForm())

	if !schema.Type.Is(openapi3.TypeObject) {
		t.Fatalf("root should be an object, got %v", schema.Type)
	}
	if len(schema.Required) != 61 || schema.Required[0] != "firstName" {
		t.Fatalf("unexpected required list %v", schema.Required)
	}
	if has := schema.AdditionalProperties.Has; has == nil || *has {
		t.Fatalf("groups should reject unknown properties")
	}

	firstName := property(t, schema, "firstName")
	if !firstName.Type.Is(openapi3.TypeString) || firstName.MinLength != 3 {
		t.Fatalf("firstName schema = %+v", firstName)
	}
	lastName := property(t, schema, "lastName")
	if lastName.MaxLength == nil || *lastName.MaxLength != 50 || lastName.MinLength != 1 {
		t.Fatalf("lastName schema = %+v", lastName)
	}
	email := property(t, schema, "emailGroup", "email")
	if email.Format != "email" {
		t.Fatalf("email format = %q", email.Format)
	}
	wantMatch := map[string]any{"primary": "email", "confirmation": "confirmEmail"}
	if diff := cmp.Diff(wantMatch, property(t, schema, "emailGroup").Extensions["x-match"]); diff != "" {
		t.Fatalf("match extension mismatch (-want +got):\n%s", diff)
	}

	rating := property(t, schema, "rating")
	if !rating.Type.Is(openapi3.TypeNumber) || !rating.Nullable || *rating.Min != 1 || *rating.Max != 5 {
		t.Fatalf("rating schema = %+v", rating)
	}
	if !property(t, schema, "phase6").Type.Is(openapi3.TypeBoolean) {
		t.Fatalf("phase flags should be booleans")
	}

	addresses := property(t, schema, "addresses")
	if !addresses.Type.Is(openapi3.TypeArray) || addresses.Items == nil {
		t.Fatalf("addresses schema = %+v", addresses)
	}
	if street := property(t, addresses, "[]", "street1"); street.MinLength != 1 {
		t.Fatalf("street1 should be required, got %+v", street)
	}
}

func TestSchemaForTracksDynamicValidators(t *testing.T) {
	phone := form.NewField("")
	if phone := openapi.SchemaFor(phone); phone.MinLength != 0 {
		t.Fatalf("optional phone should accept empty strings")
	}
	phone.SetValidators(validators.Required)
	if schema := openapi.SchemaFor(phone); schema.MinLength != 1 {
		t.Fatalf("required phone should need one character, got %+v", schema)
	}
}

func validCustomer(t *testing.T) *customer.Session {
	t.Helper()
	session := customer.New()
	t.Cleanup(session.Close)
	if err := session.PopulateTestData(); err != nil {
		t.Fatalf("populate: %v", err)
	}
	if err := session.Patch(map[string]any{"company": "Torchwood", "rating": 5, "phase1": true}); err != nil {
		t.Fatalf("patch: %v", err)
	}
	return session
}

func TestValidateValue(t *testing.T) {
	session := validCustomer(t)
	schema := openapi.SchemaFor(session.Root())

	sub, err := session.Save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := openapi.ValidateValue(schema, sub.Value); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}

	cases := map[string]func(map[string]any){
		"rating out of range": func(v map[string]any) { v["rating"] = 6 },
		"short first name":    func(v map[string]any) { v["firstName"] = "Ja" },
		"unknown property":    func(v map[string]any) { v["nickname"] = "Captain" },
		"missing property":    func(v map[string]any) { delete(v, "company") },
		"wrong type":          func(v map[string]any) { v["phase2"] = "yes" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			value := session.Root().Values()
			mutate(value)
			if err := openapi.ValidateValue(schema, value); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	if err := openapi.ValidateValue(nil, sub.Value); err == nil {
		t.Fatalf("expected error for nil schema")
	}
}

func TestDocument(t *testing.T) {
	doc, err := openapi.Document(context.Background(), "Customer", "", customer.NewForm())
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.Info.Title != "Customer" || doc.Info.Version != openapi.DefaultVersion {
		t.Fatalf("unexpected info %+v", doc.Info)
	}
	ref := doc.Components.Schemas["Customer"]
	if ref == nil || ref.Value == nil || !ref.Value.Type.Is(openapi3.TypeObject) {
		t.Fatalf("missing Customer schema")
	}
	if _, err := openapi.Document(context.Background(), "", "", customer.NewForm()); err == nil {
		t.Fatalf("expected error without a schema name")
	}
}
