// Package prompt fills a submission interactively on a terminal. Conditional
// fields are re-evaluated as answers arrive, so only the questions a paper
// form would show ever get asked.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
	"github.com/amigos-cultura/solicitud/pkg/visibility"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// InputConfig configures a single-line text prompt.
type InputConfig struct {
	Message   string
	Help      string
	Validator func(string) error
}

// SelectConfig configures a single or multi-select prompt.
type SelectConfig struct {
	Message string
	Options []string
	Help    string
}

// TextAreaConfig configures a multi-line text prompt.
type TextAreaConfig struct {
	Message string
	Help    string
}

// Driver abstracts the terminal so the fill logic can be tested without one.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// Fill walks the registry in canonical order and collects one answer per
// active field. The returned input feeds straight into an engine.
func Fill(ctx context.Context, reg *schema.Registry, d Driver) (submission.Input, error) {
	in := submission.Input{
		Values: map[string]any{},
		Files:  map[string]submission.Upload{},
	}
	vctx := visibility.Context{Values: map[string]string{}}

	for _, fieldset := range reg.Fieldsets() {
		if err := d.Info(ctx, fieldset.Title()); err != nil {
			return submission.Input{}, err
		}
		for _, name := range fieldset.Fields {
			field, ok := reg.Field(name)
			if !ok {
				return submission.Input{}, fmt.Errorf("prompt: field %q not in registry", name)
			}
			if !visibility.Eval(field, vctx) {
				continue
			}
			if err := ask(ctx, d, field, in, vctx); err != nil {
				return submission.Input{}, err
			}
		}
	}
	return in, nil
}

func ask(ctx context.Context, d Driver, field schema.Field, in submission.Input, vctx visibility.Context) error {
	label := field.Label()

	switch field.Kind {
	case schema.KindShortText, schema.KindAddress, schema.KindEmail,
		schema.KindPhone, schema.KindPhoneIntl:
		value, err := d.Input(ctx, InputConfig{Message: label, Help: field.SecondaryLabel()})
		if err != nil {
			return err
		}
		in.Values[field.Name] = value
		vctx.Values[field.Name] = strings.TrimSpace(value)

	case schema.KindLongText, schema.KindNotes:
		value, err := d.TextArea(ctx, TextAreaConfig{Message: label, Help: field.SecondaryLabel()})
		if err != nil {
			return err
		}
		in.Values[field.Name] = value
		vctx.Values[field.Name] = strings.TrimSpace(value)

	case schema.KindSingleChoice:
		idx, err := d.Select(ctx, SelectConfig{Message: label, Options: field.Choices, Help: field.SecondaryLabel()})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(field.Choices) {
			in.Values[field.Name] = field.Choices[idx]
			vctx.Values[field.Name] = field.Choices[idx]
		}

	case schema.KindMultiChoice:
		indices, err := d.MultiSelect(ctx, SelectConfig{Message: label, Options: field.Choices, Help: field.SecondaryLabel()})
		if err != nil {
			return err
		}
		picks := make([]string, 0, len(indices))
		for _, idx := range indices {
			picks = append(picks, strconv.Itoa(idx))
		}
		in.Values[field.Name] = picks

	case schema.KindDate:
		value, err := d.Input(ctx, InputConfig{
			Message:   label,
			Help:      "Tag.Monat.Jahr, z.B. 5.3.2004",
			Validator: validDateInput,
		})
		if err != nil {
			return err
		}
		day, month, year, ok := splitDate(value)
		if ok {
			in.Values[field.Name] = map[string]string{"day": day, "month": month, "year": year}
			vctx.Values[field.Name] = day + "." + month + "." + year
		}

	case schema.KindFile, schema.KindUpload:
		path, err := d.Input(ctx, InputConfig{
			Message: label,
			Help:    "Pfad zur Datei (" + strings.Join(field.Extensions, ", ") + ")",
		})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}
		in.Files[field.Name] = readUpload(path)
	}
	return nil
}

func readUpload(path string) submission.Upload {
	data, err := os.ReadFile(path)
	if err != nil {
		return submission.Upload{Filename: filepath.Base(path), Err: err}
	}
	return submission.Upload{
		Filename: filepath.Base(path),
		Size:     int64(len(data)),
		Data:     data,
	}
}

func splitDate(s string) (day, month, year string, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return "", "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), true
}

func validDateInput(s string) error {
	day, month, year, ok := splitDate(s)
	if !ok {
		return errors.New("Format Tag.Monat.Jahr erwartet")
	}
	for _, part := range []string{day, month, year} {
		if _, err := strconv.Atoi(part); err != nil {
			return errors.New("Format Tag.Monat.Jahr erwartet")
		}
	}
	return nil
}
