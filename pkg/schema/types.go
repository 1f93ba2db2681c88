package schema

import "strings"

// FieldKind is the closed enumeration of question kinds the engine knows how
// to ingest, validate and textualize. Every dispatch over FieldKind in this
// module lists all kinds explicitly so a new kind cannot fall through without
// a rule.
type FieldKind string

const (
	// KindShortText is a single-line free-text input.
	KindShortText FieldKind = "text"
	// KindLongText is a multi-line free-text input with length constraints.
	KindLongText FieldKind = "textarea"
	// KindNotes is the loosely-structured "additional notes" long text. It is
	// intentionally optional: any value, including empty, passes validation.
	KindNotes FieldKind = "textarea2"
	// KindAddress is a single-line input for address parts.
	KindAddress FieldKind = "addr"
	// KindEmail holds an email address.
	KindEmail FieldKind = "email"
	// KindPhone holds a phone number with country code.
	KindPhone FieldKind = "tel"
	// KindPhoneIntl is the phone variant used for contacts abroad. It shares
	// the ingestion and validation rules of KindPhone.
	KindPhoneIntl FieldKind = "tel2"
	// KindSingleChoice selects exactly one entry from Choices.
	KindSingleChoice FieldKind = "select"
	// KindMultiChoice selects entries from Choices by submitted index.
	KindMultiChoice FieldKind = "multiselect"
	// KindDate is a day/month/year triple.
	KindDate FieldKind = "date"
	// KindFile is an uploaded file that also feeds the document image slots.
	KindFile FieldKind = "file"
	// KindUpload is an uploaded file handled purely as a mail attachment.
	KindUpload FieldKind = "upload"
)

// Kinds lists every FieldKind in a stable order.
func Kinds() []FieldKind {
	return []FieldKind{
		KindShortText,
		KindLongText,
		KindNotes,
		KindAddress,
		KindEmail,
		KindPhone,
		KindPhoneIntl,
		KindSingleChoice,
		KindMultiChoice,
		KindDate,
		KindFile,
		KindUpload,
	}
}

// Valid reports whether k is a known field kind.
func (k FieldKind) Valid() bool {
	switch k {
	case KindShortText, KindLongText, KindNotes, KindAddress, KindEmail,
		KindPhone, KindPhoneIntl, KindSingleChoice, KindMultiChoice,
		KindDate, KindFile, KindUpload:
		return true
	default:
		return false
	}
}

// Textual reports whether values of this kind participate in the textual
// projections. File kinds are excluded; they travel as binary attachments
// referenced by field name only.
func (k FieldKind) Textual() bool {
	switch k {
	case KindFile, KindUpload:
		return false
	default:
		return true
	}
}

// Condition gates a field on the current value of another field. The field is
// active only while the controlling field's ingested value is a member of
// Values.
type Condition struct {
	Field  string   `yaml:"field"`
	Values []string `yaml:"values"`
}

// Activates reports whether the controlling field's value switches the
// dependent field on.
func (c Condition) Activates(value string) bool {
	for _, v := range c.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Constraints carries kind-specific limits. Zero values mean "no constraint".
type Constraints struct {
	MinLength int `yaml:"minLength"`
	MaxLength int `yaml:"maxLength"`
	Rows      int `yaml:"rows"`
}

// Field is one immutable catalogue entry describing a single question.
type Field struct {
	// Name is the unique machine key.
	Name string `yaml:"name"`
	// Title is the short human name used when pairing labels with values in
	// documents, exports and mail bodies.
	Title string `yaml:"title"`
	// Kind selects the ingestion, validation and textualization rules.
	Kind FieldKind `yaml:"kind"`
	// Labels holds the ordered bilingual display strings; the first two are
	// the canonical label pair, further entries are auxiliary hint lines.
	Labels []string `yaml:"labels"`
	// Choices lists the allowed values for choice kinds, in display order.
	Choices []string `yaml:"choices"`
	// Extensions lists the permitted filename extensions for file kinds,
	// lowercase and without the leading dot.
	Extensions []string `yaml:"extensions"`
	// Constraints carries optional kind-specific limits.
	Constraints Constraints `yaml:"constraints"`
	// Condition, when set, gates the field on another field's value.
	Condition *Condition `yaml:"condition"`
	// Wide marks the field for full-width layout hints in consumers that
	// care; the engine itself ignores it.
	Wide bool `yaml:"wide"`
}

// Label returns the primary display label, falling back to Title.
func (f Field) Label() string {
	if len(f.Labels) > 0 && f.Labels[0] != "" {
		return f.Labels[0]
	}
	return f.Title
}

// SecondaryLabel returns the second of the canonical label pair when present.
func (f Field) SecondaryLabel() string {
	if len(f.Labels) > 1 {
		return f.Labels[1]
	}
	return f.Label()
}

// HasChoice reports whether value is one of the declared choices.
func (f Field) HasChoice(value string) bool {
	for _, c := range f.Choices {
		if c == value {
			return true
		}
	}
	return false
}

// AllowsExtension reports whether ext (without dot, any case) is permitted.
func (f Field) AllowsExtension(ext string) bool {
	for _, allowed := range f.Extensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// Fieldset is a named ordered group of field names sharing a bilingual
// legend of two to six strings.
type Fieldset struct {
	Name   string   `yaml:"name"`
	Legend []string `yaml:"legend"`
	Fields []string `yaml:"fields"`
}

// Title returns the primary legend line.
func (fs Fieldset) Title() string {
	if len(fs.Legend) > 0 {
		return fs.Legend[0]
	}
	return fs.Name
}

// SecondaryTitle returns the second legend line when present.
func (fs Fieldset) SecondaryTitle() string {
	if len(fs.Legend) > 1 {
		return fs.Legend[1]
	}
	return fs.Title()
}
