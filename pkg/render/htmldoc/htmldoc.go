// Package htmldoc renders a projected document as a self-contained HTML page.
// Uploaded pictures are inlined as data URIs so the output needs no asset
// hosting.
package htmldoc

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/amigos-cultura/solicitud/pkg/engine"
	"github.com/amigos-cultura/solicitud/pkg/projection"
)

//go:embed templates/*.tpl
var templateFS embed.FS

const documentTemplate = "templates/document.html.tpl"

// Option configures the renderer before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	title     string
	subtitle  string
}

// WithFS overrides the embedded template set. The fs.FS must contain
// templates/document.html.tpl.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithTitle sets the page heading.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = strings.TrimSpace(title)
	}
}

// WithSubtitle sets the line printed under the heading.
func WithSubtitle(subtitle string) Option {
	return func(cfg *config) {
		cfg.subtitle = strings.TrimSpace(subtitle)
	}
}

// Renderer implements engine.DocumentRenderer with a pongo2 template set.
type Renderer struct {
	set      *pongo2.TemplateSet
	policy   *bluemonday.Policy
	title    string
	subtitle string
}

var _ engine.DocumentRenderer = (*Renderer)(nil)

// New constructs a Renderer using the provided configuration options.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{templates: templateFS}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	set := pongo2.NewSet("htmldoc", pongo2.NewFSLoader(cfg.templates))
	if _, err := set.FromCache(documentTemplate); err != nil {
		return nil, fmt.Errorf("htmldoc: load template: %w", err)
	}

	return &Renderer{
		set:      set,
		policy:   bluemonday.StrictPolicy(),
		title:    cfg.title,
		subtitle: cfg.subtitle,
	}, nil
}

type picture struct {
	Slot string
	URI  string
}

// Render produces the HTML bytes for the given document and images.
func (r *Renderer) Render(ctx context.Context, doc projection.Document, images []engine.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := r.set.FromCache(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: load template: %w", err)
	}

	pictures := make([]picture, 0, len(images))
	for _, img := range images {
		if len(img.Data) == 0 {
			continue
		}
		mime := http.DetectContentType(img.Data)
		if !strings.HasPrefix(mime, "image/") {
			return nil, fmt.Errorf("htmldoc: image %s: unsupported format %s", img.Slot, mime)
		}
		pictures = append(pictures, picture{
			Slot: img.Slot,
			URI:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
		})
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteWriter(pongo2.Context{
		"title":    r.title,
		"subtitle": r.subtitle,
		"sections": r.sanitize(doc.Sections),
		"pictures": pictures,
	}, &buf)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitize strips any markup from projected values before they reach the
// template. pongo2 escapes on top of this, so stray HTML in a submission can
// neither run nor render.
func (r *Renderer) sanitize(sections []projection.Section) []projection.Section {
	out := make([]projection.Section, len(sections))
	for i, section := range sections {
		clean := section
		clean.Title = r.policy.Sanitize(section.Title)
		clean.Subtitle = r.policy.Sanitize(section.Subtitle)
		clean.Rows = make([]projection.Row, len(section.Rows))
		for j, row := range section.Rows {
			clean.Rows[j] = projection.Row{
				Name:  row.Name,
				Label: r.policy.Sanitize(row.Label),
				Value: r.policy.Sanitize(row.Value),
			}
		}
		out[i] = clean
	}
	return out
}
