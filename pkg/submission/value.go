// Package submission holds the request-scoped state of one questionnaire
// submission: the raw input bags, the per-field typed values produced by
// ingestion, and the active/error flags filled in by the visibility and
// validation passes.
package submission

// Date is a day/month/year triple as submitted. Zero parts mean "not
// provided"; calendar validity is checked later by validation.
type Date struct {
	Day   int `yaml:"day"`
	Month int `yaml:"month"`
	Year  int `yaml:"year"`
}

// IsZero reports whether no part was provided.
func (d Date) IsZero() bool {
	return d.Day == 0 && d.Month == 0 && d.Year == 0
}

// Complete reports whether all three parts were provided.
func (d Date) Complete() bool {
	return d.Day != 0 && d.Month != 0 && d.Year != 0
}

// Upload describes one uploaded file as handed over by the upload mechanism.
// Err carries a transport failure reported during the upload itself.
type Upload struct {
	Filename string
	Size     int64
	Data     []byte
	Err      error
}

// IsZero reports whether no file was supplied at all.
func (u Upload) IsZero() bool {
	return u.Filename == "" && u.Size == 0 && len(u.Data) == 0 && u.Err == nil
}

// Input is the generic submission bag: untyped values keyed by field name
// plus a separate bag of uploads. Values may hold a string, a []string of
// multi-choice indices, or a Date.
type Input struct {
	Values map[string]any
	Files  map[string]Upload
}

// FieldValue is the mutable per-submission state bound to one catalogue
// field. Exactly one of the typed members is meaningful, selected by the
// field's kind. Active is set once by the condition resolver, Error at most
// once by validation; neither is touched after projection begins.
type FieldValue struct {
	Text    string
	Choices []string
	Date    Date
	Upload  Upload

	Active bool
	Error  string
}

// Set maps field names to their per-submission state.
type Set map[string]*FieldValue

// Value returns the state for name, or an inert zero value when absent so
// callers need no nil checks.
func (s Set) Value(name string) *FieldValue {
	if v, ok := s[name]; ok {
		return v
	}
	return &FieldValue{}
}
