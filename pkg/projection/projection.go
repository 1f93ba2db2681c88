// Package projection derives the output representations of a validated
// submission: a flat text map, tabular export rows, and a sectioned document
// tree. All three share one textualization rule per field kind and one
// active-set filter, so a value can never read differently across outputs.
package projection

import (
	"strconv"
	"strings"

	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
)

// Textualize converts a typed field value into its canonical display string.
// The second return is false for file kinds, which never join textual
// projections and travel as named binary attachments instead.
func Textualize(field schema.Field, value *submission.FieldValue) (string, bool) {
	switch field.Kind {
	case schema.KindShortText, schema.KindLongText, schema.KindNotes, schema.KindAddress,
		schema.KindEmail, schema.KindPhone, schema.KindPhoneIntl, schema.KindSingleChoice:
		return value.Text, true
	case schema.KindMultiChoice:
		return strings.Join(value.Choices, ", "), true
	case schema.KindDate:
		return dateString(value.Date), true
	case schema.KindFile, schema.KindUpload:
		return "", false
	default:
		return "", false
	}
}

func dateString(d submission.Date) string {
	if d.IsZero() {
		return ""
	}
	return strconv.Itoa(d.Day) + "." + strconv.Itoa(d.Month) + "." + strconv.Itoa(d.Year)
}

// Option adjusts which fields a projection includes and how section titles
// and values are rendered.
type Option func(*config)

type config struct {
	exclude       map[string]struct{}
	periodFields  map[string]struct{}
	sectionTitles map[string]string
}

func buildConfig(opts []Option) config {
	cfg := config{
		exclude:       make(map[string]struct{}),
		periodFields:  make(map[string]struct{}),
		sectionTitles: make(map[string]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithExclude omits the named fields from the projection. Used to keep a
// curated front summary distinct from the full export.
func WithExclude(names ...string) Option {
	return func(cfg *config) {
		for _, n := range names {
			cfg.exclude[n] = struct{}{}
		}
	}
}

// WithPeriodFields narrows the named fields' values to the embedded
// date-range substring in document projections.
func WithPeriodFields(names ...string) Option {
	return func(cfg *config) {
		for _, n := range names {
			cfg.periodFields[n] = struct{}{}
		}
	}
}

// WithSectionTitle overrides the displayed title of one fieldset in the
// document projection.
func WithSectionTitle(fieldset, title string) Option {
	return func(cfg *config) {
		cfg.sectionTitles[fieldset] = title
	}
}

// TextItems is the flat name→string projection in canonical field order.
type TextItems struct {
	order []string
	items map[string]string
}

// Get returns the textualized value for name.
func (t TextItems) Get(name string) (string, bool) {
	v, ok := t.items[name]
	return v, ok
}

// Names returns the projected field names in canonical order.
func (t TextItems) Names() []string {
	return append([]string(nil), t.order...)
}

// Len reports how many fields were projected.
func (t TextItems) Len() int {
	return len(t.order)
}

// Text projects the active textual fields into an ordered name→string map,
// honouring WithExclude. Inactive fields and file kinds never appear.
func Text(reg *schema.Registry, set submission.Set, opts ...Option) TextItems {
	cfg := buildConfig(opts)
	out := TextItems{items: make(map[string]string)}

	for _, name := range reg.Names() {
		if _, skip := cfg.exclude[name]; skip {
			continue
		}
		field, _ := reg.Field(name)
		value := set.Value(name)
		if !value.Active {
			continue
		}
		text, ok := Textualize(field, value)
		if !ok {
			continue
		}
		out.order = append(out.order, name)
		out.items[name] = text
	}
	return out
}
