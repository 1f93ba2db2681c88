// Package validate runs the kind-specific validation rules over the active
// fields of a submission. Rules are pure per-field checks; failures are
// collected, never thrown, and the caller inspects the aggregated result.
package validate

import (
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/amigos-cultura/solicitud/internal/uploadlimit"
	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
)

// Bilingual messages preserved from the original questionnaire.
const (
	msgEmpty          = "Feld darf nicht leer sein!"
	msgEmail          = "Bitte gebe eine gültige E-Mail-Adresse ein!"
	msgChoice         = "Bitte treffe eine gültige Auswahl - Por favor, realice una selección válida!"
	msgDateIncomplete = "Bitte gebe ein vollständiges Datum an!"
	msgDateInvalid    = "Bitte gebe ein gültiges Datum an!"
	msgNoFile         = "Bitte lade eine Datei hoch!"
	msgUploadFailed   = "Der Dateiupload ist fehlgeschlagen. Bitte probiere es noch einmal."
)

// Result aggregates one validation pass. FieldErrors holds an entry per
// active invalid field, keyed by field name.
type Result struct {
	AllValid    bool
	FieldErrors map[string]string
}

// Options carries the externally-derived limits a pass needs.
type Options struct {
	// MaxUploadBytes is the effective upload ceiling; zero means no limit.
	MaxUploadBytes int64
}

// Apply validates every active field in canonical fieldset order, records the
// error message on the field value, and returns the aggregated result.
// Inactive fields are skipped entirely: their Error stays unset and they
// never appear in FieldErrors.
func Apply(reg *schema.Registry, set submission.Set, opts Options) Result {
	result := Result{
		AllValid:    true,
		FieldErrors: make(map[string]string),
	}

	for _, name := range reg.Names() {
		field, _ := reg.Field(name)
		value := set.Value(name)
		if !value.Active {
			continue
		}

		if msg := check(field, value, opts); msg != "" {
			value.Error = msg
			result.FieldErrors[name] = msg
			result.AllValid = false
		}
	}
	return result
}

// check dispatches the kind-specific rule. Every kind is listed; adding a
// kind without a rule here is a compile-visible omission in the kind switch
// tests.
func check(field schema.Field, value *submission.FieldValue, opts Options) string {
	switch field.Kind {
	case schema.KindShortText, schema.KindLongText, schema.KindAddress:
		if value.Text == "" {
			return msgEmpty
		}
	case schema.KindNotes:
		// Intentionally optional: any value, including empty, is accepted.
	case schema.KindEmail:
		if !validEmail(value.Text) {
			return msgEmail
		}
	case schema.KindPhone, schema.KindPhoneIntl:
		// Absent input ingests as the bare "+" sentinel; both that and an
		// emptied input land in the same error.
		if value.Text == "" || value.Text == submission.PhoneMissing {
			return msgEmpty
		}
	case schema.KindSingleChoice:
		if !field.HasChoice(value.Text) {
			return msgChoice
		}
	case schema.KindMultiChoice:
		if len(value.Choices) == 0 {
			return msgChoice
		}
		for _, c := range value.Choices {
			if !field.HasChoice(c) {
				return msgChoice
			}
		}
	case schema.KindDate:
		if !value.Date.Complete() {
			return msgDateIncomplete
		}
		if !validCalendarDate(value.Date) {
			return msgDateInvalid
		}
	case schema.KindFile, schema.KindUpload:
		return checkUpload(field, value.Upload, opts)
	}
	return ""
}

func checkUpload(field schema.Field, up submission.Upload, opts Options) string {
	switch {
	case up.IsZero():
		return msgNoFile
	case opts.MaxUploadBytes > 0 && up.Size > opts.MaxUploadBytes:
		return "Die Datei ist größer als erlaubt (maximal " +
			uploadlimit.FormatBytes(opts.MaxUploadBytes) + ")!"
	case up.Err != nil:
		return msgUploadFailed
	case !field.AllowsExtension(extension(up.Filename)):
		return "El archivo debe tener una de las siguientes extensiones de archivo: " +
			strings.Join(field.Extensions, ", ")
	}
	return ""
}

func extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// validEmail accepts addr-spec style addresses whose domain contains at
// least one dot.
func validEmail(s string) bool {
	if s == "" {
		return false
	}
	parsed, err := mail.ParseAddress(s)
	if err != nil || parsed.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// validCalendarDate checks month length and leap years by round-tripping the
// parts through time.Date and comparing the normalised result.
func validCalendarDate(d submission.Date) bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Year < 1 {
		return false
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && int(t.Month()) == d.Month && t.Day() == d.Day
}
