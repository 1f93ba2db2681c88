// Package schemaexport publishes a field registry as an OpenAPI document.
// Everything the registry knows beyond plain JSON schema shapes travels in
// vendor extensions, so a consumer can rebuild the conditional form from the
// exported document alone.
package schemaexport

import (
	"context"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/amigos-cultura/solicitud/pkg/schema"
)

// Info names the exported document.
type Info struct {
	Title   string
	Version string
}

// SchemaName is the component under which the submission object is published.
const SchemaName = "Submission"

// Export builds an OpenAPI 3 document describing the registry and validates
// it before returning.
func Export(reg *schema.Registry, info Info) (*openapi3.T, error) {
	if reg == nil {
		return nil, fmt.Errorf("schemaexport: registry is required")
	}
	if strings.TrimSpace(info.Title) == "" {
		info.Title = "Submission"
	}
	if strings.TrimSpace(info.Version) == "" {
		info.Version = "1.0.0"
	}

	object := openapi3.NewObjectSchema()
	object.Properties = openapi3.Schemas{}

	for _, fieldset := range reg.Fieldsets() {
		for _, name := range fieldset.Fields {
			field, ok := reg.Field(name)
			if !ok {
				return nil, fmt.Errorf("schemaexport: field %q not in registry", name)
			}
			prop, err := propertySchema(field)
			if err != nil {
				return nil, err
			}
			decorate(prop, field, fieldset)
			object.Properties[name] = prop.NewRef()
			if field.Condition == nil && field.Kind != schema.KindNotes {
				object.Required = append(object.Required, name)
			}
		}
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   info.Title,
			Version: info.Version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				SchemaName: object.NewRef(),
			},
		},
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("schemaexport: validate document: %w", err)
	}
	return doc, nil
}

func propertySchema(field schema.Field) (*openapi3.Schema, error) {
	switch field.Kind {
	case schema.KindShortText, schema.KindLongText, schema.KindNotes, schema.KindAddress:
		prop := openapi3.NewStringSchema()
		if field.Constraints.MinLength > 0 {
			prop.MinLength = uint64(field.Constraints.MinLength)
		}
		if field.Constraints.MaxLength > 0 {
			max := uint64(field.Constraints.MaxLength)
			prop.MaxLength = &max
		}
		return prop, nil
	case schema.KindEmail:
		return openapi3.NewStringSchema().WithFormat("email"), nil
	case schema.KindPhone, schema.KindPhoneIntl:
		return openapi3.NewStringSchema(), nil
	case schema.KindSingleChoice:
		return openapi3.NewStringSchema().WithEnum(anySlice(field.Choices)...), nil
	case schema.KindMultiChoice:
		items := openapi3.NewStringSchema().WithEnum(anySlice(field.Choices)...)
		prop := openapi3.NewArraySchema()
		prop.Items = items.NewRef()
		return prop, nil
	case schema.KindDate:
		prop := openapi3.NewObjectSchema()
		prop.Properties = openapi3.Schemas{
			"day":   openapi3.NewIntegerSchema().NewRef(),
			"month": openapi3.NewIntegerSchema().NewRef(),
			"year":  openapi3.NewIntegerSchema().NewRef(),
		}
		prop.Required = []string{"day", "month", "year"}
		return prop, nil
	case schema.KindFile, schema.KindUpload:
		return openapi3.NewStringSchema().WithFormat("binary"), nil
	default:
		return nil, fmt.Errorf("schemaexport: field %q: unknown kind %q", field.Name, field.Kind)
	}
}

func decorate(prop *openapi3.Schema, field schema.Field, fieldset schema.Fieldset) {
	prop.Title = field.Label()
	ext := map[string]any{
		"x-kind":     string(field.Kind),
		"x-fieldset": fieldset.Name,
	}
	if len(field.Labels) > 0 {
		ext["x-labels"] = append([]string(nil), field.Labels...)
	}
	if field.Condition != nil {
		ext["x-condition"] = map[string]any{
			"field":  field.Condition.Field,
			"values": append([]string(nil), field.Condition.Values...),
		}
	}
	if len(field.Extensions) > 0 {
		ext["x-extensions"] = append([]string(nil), field.Extensions...)
	}
	if field.Wide {
		ext["x-wide"] = true
	}
	prop.Extensions = ext
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
