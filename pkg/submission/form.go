package submission

import (
	"net/url"

	"github.com/amigos-cultura/solicitud/pkg/schema"
)

// FromForm bridges an HTML-form-shaped value bag into an Input. Date fields
// arrive as name[day]/name[month]/name[year] keys and multi-choice fields may
// repeat their key once per checked index; everything else is taken as the
// first submitted value. The transport that produced the url.Values stays out
// of scope; this only reshapes the bag.
func FromForm(reg *schema.Registry, form url.Values, files map[string]Upload) Input {
	in := Input{
		Values: make(map[string]any, reg.Len()),
		Files:  files,
	}

	for _, name := range reg.Names() {
		field, _ := reg.Field(name)
		switch field.Kind {
		case schema.KindDate:
			day, dayOK := firstValue(form, name+"[day]")
			month, monthOK := firstValue(form, name+"[month]")
			year, yearOK := firstValue(form, name+"[year]")
			if dayOK || monthOK || yearOK {
				in.Values[name] = map[string]string{"day": day, "month": month, "year": year}
			}
		case schema.KindMultiChoice:
			if vs, ok := form[name]; ok {
				in.Values[name] = append([]string(nil), vs...)
			}
		case schema.KindFile, schema.KindUpload:
			// uploads travel in the files bag
		case schema.KindShortText, schema.KindLongText, schema.KindNotes,
			schema.KindAddress, schema.KindEmail, schema.KindPhone,
			schema.KindPhoneIntl, schema.KindSingleChoice:
			if v, ok := firstValue(form, name); ok {
				in.Values[name] = v
			}
		}
	}
	return in
}

func firstValue(form url.Values, key string) (string, bool) {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}
