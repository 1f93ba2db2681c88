package submission

import (
	"strconv"
	"strings"

	"github.com/amigos-cultura/solicitud/pkg/schema"
)

// PhoneMissing is the sentinel a phone field carries when the submission held
// no value at all. Validation rejects it the same way it rejects an emptied
// input, folding "missing" and "present-but-empty" into one error path; the
// literal survives so previews re-render the way the original form did.
const PhoneMissing = "+"

// Ingest converts the raw submission bags into a well-typed value per
// catalogue field. Missing or malformed entries coerce to the kind's default
// and never fail: after Ingest every field has a usable value of its declared
// shape. Running Ingest twice over the same input yields identical values.
func Ingest(reg *schema.Registry, in Input) Set {
	set := make(Set, reg.Len())
	for _, name := range reg.Names() {
		field, _ := reg.Field(name)
		set[name] = ingestField(field, in)
	}
	return set
}

func ingestField(field schema.Field, in Input) *FieldValue {
	v := &FieldValue{}
	switch field.Kind {
	case schema.KindShortText, schema.KindLongText, schema.KindNotes, schema.KindAddress, schema.KindEmail:
		v.Text = strings.TrimSpace(stringValue(in, field.Name))
	case schema.KindPhone, schema.KindPhoneIntl:
		raw, ok := rawValue(in, field.Name)
		if !ok {
			v.Text = PhoneMissing
			break
		}
		s, _ := raw.(string)
		v.Text = strings.TrimSpace(s)
	case schema.KindSingleChoice:
		s := stringValue(in, field.Name)
		if field.HasChoice(s) {
			v.Text = s
		}
	case schema.KindMultiChoice:
		v.Choices = resolveChoices(field, in)
	case schema.KindDate:
		v.Date = dateValue(in, field.Name)
	case schema.KindFile, schema.KindUpload:
		if in.Files != nil {
			v.Upload = in.Files[field.Name]
		}
	}
	return v
}

func rawValue(in Input, name string) (any, bool) {
	if in.Values == nil {
		return nil, false
	}
	raw, ok := in.Values[name]
	return raw, ok
}

func stringValue(in Input, name string) string {
	raw, ok := rawValue(in, name)
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}

// resolveChoices maps submitted indices onto the declared choice list,
// preserving selection order and dropping anything that does not resolve.
func resolveChoices(field schema.Field, in Input) []string {
	raw, ok := rawValue(in, field.Name)
	if !ok {
		return nil
	}

	var indices []string
	switch t := raw.(type) {
	case string:
		indices = []string{t}
	case []string:
		indices = t
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				indices = append(indices, s)
			}
		}
	default:
		return nil
	}

	var out []string
	for _, idx := range indices {
		n, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil || n < 0 || n >= len(field.Choices) {
			continue
		}
		out = append(out, field.Choices[n])
	}
	return out
}

func dateValue(in Input, name string) Date {
	raw, ok := rawValue(in, name)
	if !ok {
		return Date{}
	}
	switch t := raw.(type) {
	case Date:
		return t
	case map[string]string:
		return Date{Day: atoi(t["day"]), Month: atoi(t["month"]), Year: atoi(t["year"])}
	case map[string]any:
		return Date{Day: anyToInt(t["day"]), Month: anyToInt(t["month"]), Year: anyToInt(t["year"])}
	default:
		return Date{}
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func anyToInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		return atoi(t)
	default:
		return 0
	}
}
