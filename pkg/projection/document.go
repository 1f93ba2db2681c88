package projection

import (
	"regexp"

	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
)

// periodPattern matches an embedded date range: a run of digits/dots, a
// literal " - ", then another run of digits/dots.
var periodPattern = regexp.MustCompile(`[\d.]+ - [\d.]+`)

// ExtractPeriod returns the embedded date-range substring of a longer
// descriptive string, or "" when none is present.
func ExtractPeriod(s string) string {
	return periodPattern.FindString(s)
}

// Row pairs one field's human label with its textualized value.
type Row struct {
	Name  string
	Label string
	Value string
}

// Section is one document section: a fieldset's legend and its projected
// rows in declaration order.
type Section struct {
	Name     string
	Title    string
	Subtitle string
	Legend   []string
	Rows     []Row
}

// Document is the sectioned projection consumed by document renderers.
type Document struct {
	Sections []Section
}

// DocumentOf groups the active textual fields by fieldset, pairing each
// field's title with its textualized value. Sections that end up with no
// rows are dropped. WithPeriodFields narrows the named values to their
// embedded date range; WithSectionTitle renames a section for display.
func DocumentOf(reg *schema.Registry, set submission.Set, opts ...Option) Document {
	cfg := buildConfig(opts)
	items := Text(reg, set, optionsOnlyExclude(cfg))

	var doc Document
	for _, fs := range reg.Fieldsets() {
		section := Section{
			Name:     fs.Name,
			Title:    fs.Title(),
			Subtitle: fs.SecondaryTitle(),
			Legend:   fs.Legend,
		}
		if title, ok := cfg.sectionTitles[fs.Name]; ok {
			section.Title = title
		}

		for _, name := range fs.Fields {
			value, ok := items.Get(name)
			if !ok {
				continue
			}
			if _, narrow := cfg.periodFields[name]; narrow {
				value = ExtractPeriod(value)
			}
			field, _ := reg.Field(name)
			section.Rows = append(section.Rows, Row{
				Name:  name,
				Label: field.Title,
				Value: value,
			})
		}

		if len(section.Rows) > 0 {
			doc.Sections = append(doc.Sections, section)
		}
	}
	return doc
}

func optionsOnlyExclude(cfg config) Option {
	return func(dst *config) {
		for name := range cfg.exclude {
			dst.exclude[name] = struct{}{}
		}
	}
}
