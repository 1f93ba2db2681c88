// Package pdf renders a projected document as a landscape A4 summary sheet:
// a title page carrying the applicant pictures, followed by one striped
// label/value table per section.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/go-pdf/fpdf"

	"github.com/amigos-cultura/solicitud/pkg/engine"
	"github.com/amigos-cultura/solicitud/pkg/projection"
)

const (
	pageMargin  = 12.0
	labelWidth  = 80.0
	lineHeight  = 6.5
	frontImageH = 90.0
	logoSize    = 28.0
)

// Option customises the renderer.
type Option func(*Renderer)

// WithLogo places the given image on the title page next to the heading.
func WithLogo(data []byte) Option {
	return func(r *Renderer) {
		r.logo = data
	}
}

// WithFooter prints the given line centered at the bottom of every page.
func WithFooter(text string) Option {
	return func(r *Renderer) {
		r.footer = text
	}
}

// WithTitle sets the heading shown on the first page.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

// WithSubtitle sets the line printed under the title, typically the
// applicant name and programme period.
func WithSubtitle(subtitle string) Option {
	return func(r *Renderer) {
		r.subtitle = subtitle
	}
}

// WithFrontSlots names the image slots shown on the title page, in order.
// Images whose slot is not listed are ignored.
func WithFrontSlots(slots ...string) Option {
	return func(r *Renderer) {
		r.frontSlots = slots
	}
}

// WithClosingImage appends a final page showing the given image.
func WithClosingImage(data []byte) Option {
	return func(r *Renderer) {
		r.closing = data
	}
}

// WithClosingSlot names the submission image shown on the final page.
// A configured closing image takes precedence.
func WithClosingSlot(slot string) Option {
	return func(r *Renderer) {
		r.closingSlot = slot
	}
}

// Renderer implements engine.DocumentRenderer on top of fpdf.
type Renderer struct {
	logo        []byte
	title       string
	subtitle    string
	footer      string
	frontSlots  []string
	closing     []byte
	closingSlot string
}

// New constructs a Renderer applying any provided options.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Render produces the PDF bytes for the given document and images.
func (r *Renderer) Render(ctx context.Context, doc projection.Document, images []engine.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := fpdf.New("L", "mm", "A4", "")
	p.SetMargins(pageMargin, pageMargin, pageMargin)
	p.SetAutoPageBreak(true, pageMargin+6)
	p.AliasNbPages("")
	tr := p.UnicodeTranslatorFromDescriptor("")

	if len(r.logo) > 0 {
		if err := registerImage(p, "logo", r.logo); err != nil {
			return nil, err
		}
	}

	pageW, _ := p.GetPageSize()
	p.SetHeaderFunc(func() {
		p.SetFont("Helvetica", "", 9)
		p.SetTextColor(120, 120, 120)
		p.CellFormat(0, 5, fmt.Sprintf("%d/{nb}", p.PageNo()), "", 1, "R", false, 0, "")
		p.SetTextColor(0, 0, 0)
	})
	p.SetFooterFunc(func() {
		if r.footer == "" {
			return
		}
		p.SetY(-12)
		p.SetFont("Helvetica", "B", 7)
		p.SetTextColor(60, 60, 60)
		p.CellFormat(0, 6, tr(r.footer), "", 0, "C", false, 0, "")
	})

	if err := r.titlePage(p, tr, images); err != nil {
		return nil, err
	}
	r.sectionPages(p, tr, doc)

	if closing := r.closingImage(images); len(closing) > 0 {
		if err := registerImage(p, "closing", closing); err != nil {
			return nil, err
		}
		p.AddPage()
		p.ImageOptions("closing", pageMargin, 24, pageW-2*pageMargin, 0, false, fpdf.ImageOptions{}, 0, "")
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) titlePage(p *fpdf.Fpdf, tr func(string) string, images []engine.Image) error {
	p.AddPage()

	textX := pageMargin
	logoBottom := p.GetY()
	if len(r.logo) > 0 {
		p.ImageOptions("logo", pageMargin, p.GetY(), logoSize, logoSize, false, fpdf.ImageOptions{}, 0, "")
		logoBottom += logoSize
		textX += logoSize + 8
	}
	p.SetX(textX)
	p.SetTextColor(0, 0, 0)
	p.SetFont("Helvetica", "B", 22)
	p.CellFormat(0, 12, tr(r.title), "", 1, "L", false, 0, "")
	if r.subtitle != "" {
		p.SetX(textX)
		p.SetFont("Helvetica", "", 13)
		p.CellFormat(0, 8, tr(r.subtitle), "", 1, "L", false, 0, "")
	}
	if p.GetY() < logoBottom {
		p.SetY(logoBottom)
	}
	p.Ln(6)

	front := r.frontImages(images)
	if len(front) == 0 {
		return nil
	}

	pageW, _ := p.GetPageSize()
	slotW := (pageW - 2*pageMargin) / float64(len(front))
	x := pageMargin
	y := p.GetY()
	for i, img := range front {
		name := fmt.Sprintf("front-%d", i)
		if err := registerImage(p, name, img.Data); err != nil {
			return err
		}
		p.ImageOptions(name, x+4, y, slotW-8, frontImageH, false, fpdf.ImageOptions{}, 0, "")
		x += slotW
	}
	p.SetY(y + frontImageH + 4)
	return nil
}

func (r *Renderer) closingImage(images []engine.Image) []byte {
	if len(r.closing) > 0 {
		return r.closing
	}
	if r.closingSlot == "" {
		return nil
	}
	for _, img := range images {
		if img.Slot == r.closingSlot {
			return img.Data
		}
	}
	return nil
}

func (r *Renderer) frontImages(images []engine.Image) []engine.Image {
	var out []engine.Image
	for _, slot := range r.frontSlots {
		for _, img := range images {
			if img.Slot == slot && len(img.Data) > 0 {
				out = append(out, img)
				break
			}
		}
	}
	return out
}

func (r *Renderer) sectionPages(p *fpdf.Fpdf, tr func(string) string, doc projection.Document) {
	pageW, _ := p.GetPageSize()
	valueWidth := pageW - 2*pageMargin - labelWidth

	for _, section := range doc.Sections {
		p.AddPage()

		p.SetFont("Helvetica", "B", 15)
		p.SetTextColor(0, 0, 0)
		p.CellFormat(0, 9, tr(section.Title), "", 1, "L", false, 0, "")
		if section.Subtitle != "" {
			p.SetFont("Helvetica", "I", 11)
			p.SetTextColor(90, 90, 90)
			p.CellFormat(0, 6, tr(section.Subtitle), "", 1, "L", false, 0, "")
		}
		p.Ln(3)

		p.SetFont("Helvetica", "", 10)
		p.SetTextColor(0, 0, 0)
		for i, row := range section.Rows {
			if i%2 == 0 {
				p.SetFillColor(235, 235, 235)
			} else {
				p.SetFillColor(255, 255, 255)
			}
			y := p.GetY()
			p.SetFont("Helvetica", "B", 10)
			p.CellFormat(labelWidth, lineHeight, tr(row.Label), "", 0, "L", true, 0, "")
			p.SetFont("Helvetica", "", 10)
			p.MultiCell(valueWidth, lineHeight, tr(row.Value), "", "L", true)
			// MultiCell may wrap; keep the label stripe aligned with the
			// tallest of the two cells.
			if p.GetY() < y+lineHeight {
				p.SetY(y + lineHeight)
			}
			p.SetX(pageMargin)
		}
	}
}

func registerImage(p *fpdf.Fpdf, name string, data []byte) error {
	kind, err := imageType(data)
	if err != nil {
		return fmt.Errorf("pdf: image %s: %w", name, err)
	}
	p.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: kind}, bytes.NewReader(data))
	if err := p.Error(); err != nil {
		return fmt.Errorf("pdf: image %s: %w", name, err)
	}
	return nil
}

func imageType(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG", nil
	case "image/png":
		return "PNG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported image format")
	}
}
