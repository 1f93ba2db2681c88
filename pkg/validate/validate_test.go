package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
	"github.com/amigos-cultura/solicitud/pkg/visibility"
)

func buildRegistry(t *testing.T, fields []schema.Field) *schema.Registry {
	t.Helper()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	reg, err := schema.New(
		[]schema.Fieldset{{Name: "all", Legend: []string{"Alles", "Todo"}, Fields: names}},
		fields,
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func run(t *testing.T, fields []schema.Field, in submission.Input, opts Options) (submission.Set, Result) {
	t.Helper()
	reg := buildRegistry(t, fields)
	set := submission.Ingest(reg, in)
	visibility.Resolve(reg, set)
	return set, Apply(reg, set, opts)
}

func TestApply_RequiredText(t *testing.T) {
	fields := []schema.Field{{Name: "vorname", Title: "Vorname", Kind: schema.KindShortText}}

	_, res := run(t, fields, submission.Input{Values: map[string]any{"vorname": "Juan"}}, Options{})
	if !res.AllValid {
		t.Fatalf("filled text must pass: %v", res.FieldErrors)
	}

	_, res = run(t, fields, submission.Input{Values: map[string]any{"vorname": "   "}}, Options{})
	if res.AllValid || res.FieldErrors["vorname"] != msgEmpty {
		t.Fatalf("blank text must fail with the empty message, got %v", res.FieldErrors)
	}
}

func TestApply_NotesAlwaysValid(t *testing.T) {
	fields := []schema.Field{{Name: "sonstiges2", Title: "Sonstiges", Kind: schema.KindNotes}}

	for _, value := range []string{"", "anything at all"} {
		_, res := run(t, fields, submission.Input{Values: map[string]any{"sonstiges2": value}}, Options{})
		if !res.AllValid {
			t.Fatalf("notes field must accept %q, got %v", value, res.FieldErrors)
		}
	}
}

func TestApply_Email(t *testing.T) {
	fields := []schema.Field{{Name: "email", Title: "E-Mail", Kind: schema.KindEmail}}

	cases := map[string]bool{
		"a@b.co":          true,
		"not-an-address":  false,
		"":                false,
		"user@localhost":  false,
		"x.y@mail.org":    true,
		"x@.broken":       false,
		"Juan <a@b.co>":   false,
		"spaces in@a.com": false,
	}
	for value, want := range cases {
		_, res := run(t, fields, submission.Input{Values: map[string]any{"email": value}}, Options{})
		if res.AllValid != want {
			t.Fatalf("email %q: valid = %v, want %v", value, res.AllValid, want)
		}
	}
}

func TestApply_PhoneSentinel(t *testing.T) {
	fields := []schema.Field{{Name: "festnetznummer", Title: "Festnetznummer", Kind: schema.KindPhone}}

	set, res := run(t, fields, submission.Input{}, Options{})
	if set.Value("festnetznummer").Text != submission.PhoneMissing {
		t.Fatalf("raw = %q, want sentinel", set.Value("festnetznummer").Text)
	}
	if res.AllValid || res.FieldErrors["festnetznummer"] != msgEmpty {
		t.Fatalf("missing phone must fail, got %v", res.FieldErrors)
	}

	_, res = run(t, fields, submission.Input{Values: map[string]any{"festnetznummer": ""}}, Options{})
	if res.AllValid {
		t.Fatalf("emptied phone must fail like the sentinel")
	}

	_, res = run(t, fields, submission.Input{Values: map[string]any{"festnetznummer": "+5"}}, Options{})
	if !res.AllValid {
		t.Fatalf("minimal phone value must pass: %v", res.FieldErrors)
	}
}

func TestApply_Choices(t *testing.T) {
	fields := []schema.Field{
		{Name: "geschlecht", Title: "Geschlecht", Kind: schema.KindSingleChoice, Choices: []string{"Männlich", "Weiblich"}},
		{Name: "hobbies", Title: "Hobbys", Kind: schema.KindMultiChoice, Choices: []string{"Fútbol", "Lectura"}},
	}

	_, res := run(t, fields, submission.Input{Values: map[string]any{
		"geschlecht": "Männlich",
		"hobbies":    []string{"0", "1"},
	}}, Options{})
	if !res.AllValid {
		t.Fatalf("valid choices must pass: %v", res.FieldErrors)
	}

	_, res = run(t, fields, submission.Input{Values: map[string]any{
		"geschlecht": "Divers",
		"hobbies":    []string{"9"},
	}}, Options{})
	if res.AllValid {
		t.Fatalf("invalid choices must fail")
	}
	if res.FieldErrors["geschlecht"] != msgChoice || res.FieldErrors["hobbies"] != msgChoice {
		t.Fatalf("choice message mismatch: %v", res.FieldErrors)
	}
}

func TestApply_Date(t *testing.T) {
	fields := []schema.Field{{Name: "geburtsdatum", Title: "Geburtsdatum", Kind: schema.KindDate}}

	cases := []struct {
		date    map[string]string
		wantMsg string
	}{
		{map[string]string{"day": "5", "month": "3", "year": "2020"}, ""},
		{map[string]string{"day": "29", "month": "2", "year": "2020"}, ""},
		{map[string]string{"day": "31", "month": "2", "year": "2021"}, msgDateInvalid},
		{map[string]string{"day": "29", "month": "2", "year": "2021"}, msgDateInvalid},
		{map[string]string{"day": "5", "month": "3"}, msgDateIncomplete},
		{nil, msgDateIncomplete},
	}
	for _, tc := range cases {
		in := submission.Input{}
		if tc.date != nil {
			in.Values = map[string]any{"geburtsdatum": tc.date}
		}
		_, res := run(t, fields, in, Options{})
		got := res.FieldErrors["geburtsdatum"]
		if got != tc.wantMsg {
			t.Fatalf("date %v: error %q, want %q", tc.date, got, tc.wantMsg)
		}
	}
}

func TestApply_UploadMessagesDistinct(t *testing.T) {
	fields := []schema.Field{{
		Name: "hobbyfoto", Title: "Hobbyfoto", Kind: schema.KindFile,
		Extensions: []string{"gif", "jpeg", "jpg", "png"},
	}}
	opts := Options{MaxUploadBytes: 8 << 20}

	_, res := run(t, fields, submission.Input{}, opts)
	if res.FieldErrors["hobbyfoto"] != msgNoFile {
		t.Fatalf("no file: %q", res.FieldErrors["hobbyfoto"])
	}

	_, res = run(t, fields, submission.Input{Files: map[string]submission.Upload{
		"hobbyfoto": {Filename: "big.jpg", Size: 9 << 20},
	}}, opts)
	tooBig := res.FieldErrors["hobbyfoto"]
	if !strings.Contains(tooBig, "größer als erlaubt") || !strings.Contains(tooBig, "8 MB") {
		t.Fatalf("size message = %q", tooBig)
	}

	_, res = run(t, fields, submission.Input{Files: map[string]submission.Upload{
		"hobbyfoto": {Filename: "x.jpg", Size: 100, Err: errors.New("tmp write failed")},
	}}, opts)
	if res.FieldErrors["hobbyfoto"] != msgUploadFailed {
		t.Fatalf("transport failure: %q", res.FieldErrors["hobbyfoto"])
	}

	_, res = run(t, fields, submission.Input{Files: map[string]submission.Upload{
		"hobbyfoto": {Filename: "scan.tiff", Size: 100},
	}}, opts)
	badExt := res.FieldErrors["hobbyfoto"]
	if !strings.Contains(badExt, "extensiones") || !strings.Contains(badExt, "gif, jpeg, jpg, png") {
		t.Fatalf("extension message = %q", badExt)
	}

	distinct := map[string]struct{}{msgNoFile: {}, tooBig: {}, msgUploadFailed: {}, badExt: {}}
	if len(distinct) != 4 {
		t.Fatalf("upload error messages must be pairwise distinct")
	}

	_, res = run(t, fields, submission.Input{Files: map[string]submission.Upload{
		"hobbyfoto": {Filename: "Foto.JPG", Size: 100, Data: []byte{1}},
	}}, opts)
	if !res.AllValid {
		t.Fatalf("uppercase extension must pass: %v", res.FieldErrors)
	}
}

func TestApply_SkipsInactiveFields(t *testing.T) {
	fields := []schema.Field{
		{Name: "haustiere", Title: "Haustiere", Kind: schema.KindSingleChoice, Choices: []string{"Ja", "Nein"}},
		{
			Name: "welche_haustiere", Title: "Welche Haustiere", Kind: schema.KindShortText,
			Condition: &schema.Condition{Field: "haustiere", Values: []string{"Ja"}},
		},
	}

	set, res := run(t, fields, submission.Input{Values: map[string]any{"haustiere": "Nein"}}, Options{})
	if !res.AllValid {
		t.Fatalf("inactive empty dependent must not fail: %v", res.FieldErrors)
	}
	if set.Value("welche_haustiere").Error != "" {
		t.Fatalf("inactive field error must stay unset")
	}
	if _, present := res.FieldErrors["welche_haustiere"]; present {
		t.Fatalf("inactive field must not appear in FieldErrors")
	}
}

func TestApply_SingleFailureIsLocal(t *testing.T) {
	fields := []schema.Field{
		{Name: "vorname", Title: "Vorname", Kind: schema.KindShortText},
		{Name: "nachname", Title: "Nachname", Kind: schema.KindShortText},
	}

	_, res := run(t, fields, submission.Input{Values: map[string]any{"nachname": "Pérez"}}, Options{})
	if res.AllValid {
		t.Fatalf("expected failure")
	}
	if len(res.FieldErrors) != 1 {
		t.Fatalf("exactly one field error expected, got %v", res.FieldErrors)
	}
	if _, ok := res.FieldErrors["vorname"]; !ok {
		t.Fatalf("vorname must carry the error")
	}
}
