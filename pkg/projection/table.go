package projection

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
)

// Table is the tabular projection: parallel header and value sequences in
// canonical field order, ready for delimited-text encoding.
type Table struct {
	Headers []string
	Values  []string
}

// TableOf projects the active textual fields into header/value rows. File
// kinds are excluded; the header row is the canonical field order.
func TableOf(reg *schema.Registry, set submission.Set, opts ...Option) Table {
	items := Text(reg, set, opts...)
	table := Table{
		Headers: make([]string, 0, items.Len()),
		Values:  make([]string, 0, items.Len()),
	}
	for _, name := range items.Names() {
		value, _ := items.Get(name)
		table.Headers = append(table.Headers, name)
		table.Values = append(table.Values, value)
	}
	return table
}

// EncodeCSV renders the table as a two-record CSV document with standard
// quoting and CRLF record separators.
func (t Table) EncodeCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("projection: encode csv header: %w", err)
	}
	if err := w.Write(t.Values); err != nil {
		return nil, fmt.Errorf("projection: encode csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("projection: encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
