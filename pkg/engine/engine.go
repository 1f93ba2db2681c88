package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/amigos-cultura/solicitud/pkg/projection"
	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
	"github.com/amigos-cultura/solicitud/pkg/validate"
	"github.com/amigos-cultura/solicitud/pkg/visibility"
)

// Option customises the engine configuration.
type Option func(*Engine)

// WithMaxUploadBytes caps the size accepted for a single uploaded file.
// Zero means no limit.
func WithMaxUploadBytes(limit int64) Option {
	return func(e *Engine) {
		e.maxUploadBytes = limit
	}
}

// WithDocumentRenderer injects the renderer used by RenderDocument.
func WithDocumentRenderer(renderer DocumentRenderer) Option {
	return func(e *Engine) {
		e.renderer = renderer
	}
}

// WithTransport injects the transport used by Send.
func WithTransport(transport Transport) Option {
	return func(e *Engine) {
		e.transport = transport
	}
}

// WithProjectionOptions sets projection options applied to every projection
// produced through a Submission. Per-call options are appended after these.
func WithProjectionOptions(opts ...projection.Option) Option {
	return func(e *Engine) {
		e.projection = append(e.projection, opts...)
	}
}

// Engine coordinates the full pipeline from raw request values to a validated,
// projectable submission. It applies no defaults beyond the registry itself;
// renderer and transport stay nil until injected.
type Engine struct {
	registry       *schema.Registry
	maxUploadBytes int64
	renderer       DocumentRenderer
	transport      Transport
	projection     []projection.Option
}

// New constructs an Engine over the given registry, applying any options.
func New(registry *schema.Registry, options ...Option) (*Engine, error) {
	if registry == nil {
		return nil, errors.New("engine: registry is required")
	}
	e := &Engine{registry: registry}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e, nil
}

// Registry exposes the schema the engine operates on.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// Process runs ingestion, condition resolution, and validation over the raw
// input and returns the resulting submission. Process never fails: malformed
// values surface as field errors on the returned submission.
func (e *Engine) Process(in submission.Input) *Submission {
	set := submission.Ingest(e.registry, in)
	visibility.Resolve(e.registry, set)
	result := validate.Apply(e.registry, set, validate.Options{
		MaxUploadBytes: e.maxUploadBytes,
	})
	return &Submission{
		engine: e,
		set:    set,
		result: result,
	}
}

// ProcessForm is a convenience wrapper over Process for HTTP form handlers.
func (e *Engine) ProcessForm(values map[string][]string, files map[string]submission.Upload) *Submission {
	return e.Process(submission.FromForm(e.registry, values, files))
}

// RenderDocument projects the submission into a sectioned document and hands
// it to the configured renderer together with any accompanying images.
func (e *Engine) RenderDocument(ctx context.Context, sub *Submission, images []Image, opts ...projection.Option) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("engine: context is required")
	}
	if e.renderer == nil {
		return nil, errors.New("engine: no document renderer configured")
	}
	if sub == nil {
		return nil, errors.New("engine: submission is required")
	}
	doc := sub.Document(opts...)
	out, err := e.renderer.Render(ctx, doc, images)
	if err != nil {
		return nil, fmt.Errorf("engine: render document: %w", err)
	}
	return out, nil
}

// Send delivers the given messages through the configured transport.
func (e *Engine) Send(ctx context.Context, msgs ...Message) error {
	if ctx == nil {
		return errors.New("engine: context is required")
	}
	if e.transport == nil {
		return errors.New("engine: no transport configured")
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := e.transport.Send(ctx, msgs...); err != nil {
		return fmt.Errorf("engine: send: %w", err)
	}
	return nil
}

// Submission is the outcome of processing one set of raw values: the typed
// field values, their active flags, and any validation errors.
type Submission struct {
	engine *Engine
	set    submission.Set
	result validate.Result
}

// Valid reports whether every active field passed validation.
func (s *Submission) Valid() bool {
	return s.result.AllValid
}

// FieldError returns the validation message recorded for the named field,
// or the empty string when the field is valid.
func (s *Submission) FieldError(name string) string {
	return s.result.FieldErrors[name]
}

// Errors returns the validation messages keyed by field name.
func (s *Submission) Errors() map[string]string {
	out := make(map[string]string, len(s.result.FieldErrors))
	for name, msg := range s.result.FieldErrors {
		out[name] = msg
	}
	return out
}

// Value returns the typed value ingested for the named field.
func (s *Submission) Value(name string) *submission.FieldValue {
	return s.set.Value(name)
}

// Set exposes the underlying value set.
func (s *Submission) Set() submission.Set {
	return s.set
}

// Text projects the submission as ordered name/value text items.
func (s *Submission) Text(opts ...projection.Option) projection.TextItems {
	return projection.Text(s.engine.registry, s.set, s.options(opts)...)
}

// Table projects the submission as a single header and value row.
func (s *Submission) Table(opts ...projection.Option) projection.Table {
	return projection.TableOf(s.engine.registry, s.set, s.options(opts)...)
}

// CSV projects the submission as an RFC 4180 table with CRLF records.
func (s *Submission) CSV(opts ...projection.Option) ([]byte, error) {
	return s.Table(opts...).EncodeCSV()
}

// Document projects the submission grouped into its fieldset sections.
func (s *Submission) Document(opts ...projection.Option) projection.Document {
	return projection.DocumentOf(s.engine.registry, s.set, s.options(opts)...)
}

func (s *Submission) options(opts []projection.Option) []projection.Option {
	if len(s.engine.projection) == 0 {
		return opts
	}
	merged := make([]projection.Option, 0, len(s.engine.projection)+len(opts))
	merged = append(merged, s.engine.projection...)
	merged = append(merged, opts...)
	return merged
}
