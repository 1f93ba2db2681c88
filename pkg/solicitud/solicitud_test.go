package solicitud

import (
	"context"
	"strings"
	"testing"

	"github.com/amigos-cultura/solicitud/pkg/engine"
	"github.com/amigos-cultura/solicitud/pkg/projection"
	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
)

type captureRenderer struct {
	doc    projection.Document
	images []engine.Image
}

func (r *captureRenderer) Render(_ context.Context, doc projection.Document, images []engine.Image) ([]byte, error) {
	r.doc = doc
	r.images = images
	return []byte("%PDF-1.4 summary"), nil
}

type captureTransport struct {
	msgs []engine.Message
}

func (tr *captureTransport) Send(_ context.Context, msgs ...engine.Message) error {
	tr.msgs = append(tr.msgs, msgs...)
	return nil
}

// fullInput answers every field in the catalogue. Fields deactivated by their
// controlling answer are filled too; validation ignores them.
func fullInput() submission.Input {
	reg := Registry()
	in := submission.Input{
		Values: map[string]any{},
		Files:  map[string]submission.Upload{},
	}
	for _, fieldset := range reg.Fieldsets() {
		for _, name := range fieldset.Fields {
			field, _ := reg.Field(name)
			switch field.Kind {
			case schema.KindSingleChoice:
				in.Values[name] = field.Choices[0]
			case schema.KindMultiChoice:
				in.Values[name] = []string{"0"}
			case schema.KindDate:
				in.Values[name] = map[string]string{"day": "5", "month": "3", "year": "2004"}
			case schema.KindEmail:
				in.Values[name] = name + "@example.org"
			case schema.KindPhone, schema.KindPhoneIntl:
				in.Values[name] = "+49 351 123456"
			case schema.KindFile, schema.KindUpload:
				in.Files[name] = submission.Upload{
					Filename: name + "." + field.Extensions[0],
					Size:     64,
					Data:     []byte("picture bytes"),
				}
			default:
				in.Values[name] = "Texto de prueba para el formulario de solicitud."
			}
		}
	}
	in.Values[FieldFirstName] = "Juan"
	in.Values[FieldLastName] = "Pérez"
	in.Values[FieldMotherLastName] = "Pérez"
	in.Values[FieldFatherLastName] = "Pérez"
	return in
}

func newTestCampaign(t *testing.T) (*Campaign, *captureRenderer, *captureTransport) {
	t.Helper()
	renderer := &captureRenderer{}
	transport := &captureTransport{}
	c, err := NewCampaign(Addresses{},
		engine.WithDocumentRenderer(renderer),
		engine.WithTransport(transport),
	)
	if err != nil {
		t.Fatalf("NewCampaign: %v", err)
	}
	return c, renderer, transport
}

func TestRegistry(t *testing.T) {
	reg := Registry()
	if reg.Len() != 111 {
		t.Fatalf("catalogue has %d fields, want 111", reg.Len())
	}
	if got := reg.Names()[0]; got != FieldPeriod {
		t.Fatalf("first field = %q", got)
	}
	sets := reg.Fieldsets()
	if len(sets) != 7 {
		t.Fatalf("fieldsets = %d, want 7", len(sets))
	}
	if sets[0].Name != "allgemein" || sets[6].Name != "bestätigung" {
		t.Fatalf("fieldset order: %q ... %q", sets[0].Name, sets[6].Name)
	}
}

func TestProcess_FullInputValid(t *testing.T) {
	c, _, _ := newTestCampaign(t)
	sub := c.Process(fullInput())
	if !sub.Valid() {
		t.Fatalf("full input invalid: %v", sub.Errors())
	}
}

func TestSubmit_Flow(t *testing.T) {
	c, renderer, transport := newTestCampaign(t)
	sub := c.Process(fullInput())
	if !sub.Valid() {
		t.Fatalf("full input invalid: %v", sub.Errors())
	}
	if err := c.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(transport.msgs) != 4 {
		t.Fatalf("messages = %d, want 4", len(transport.msgs))
	}

	registration := transport.msgs[0]
	if registration.Subject != "Bewerbung von Juan Pérez" {
		t.Fatalf("subject = %q", registration.Subject)
	}
	if registration.To[0] != defaultOffice || registration.From != defaultSender {
		t.Fatalf("registration routing = %q -> %q", registration.From, registration.To)
	}
	if !strings.Contains(registration.Body, "Persönliche Daten:") {
		t.Fatalf("body missing legend:\n%s", registration.Body)
	}
	if !strings.Contains(registration.Body, " • Vorname") {
		t.Fatalf("body missing item line:\n%s", registration.Body)
	}

	// PDF, CSV, three pictures, school report.
	if len(registration.Attachments) != 6 {
		t.Fatalf("attachments = %d, want 6", len(registration.Attachments))
	}
	if got := registration.Attachments[0].Filename; got != "Schuelerbogen_Juan.pdf" {
		t.Fatalf("pdf attachment = %q", got)
	}
	if got := registration.Attachments[1].Filename; got != "Juan_Prez.csv" {
		t.Fatalf("csv attachment = %q", got)
	}
	if got := registration.Attachments[2].Filename; got != "Juan_Prez_portrait.gif" {
		t.Fatalf("portrait attachment = %q", got)
	}

	if transport.msgs[1].To[0] != "email@example.org" {
		t.Fatalf("student confirmation to %v", transport.msgs[1].To)
	}
	if transport.msgs[2].To[0] != "email_mutter@example.org" {
		t.Fatalf("mother confirmation to %v", transport.msgs[2].To)
	}
	if !strings.Contains(transport.msgs[2].Body, "Sehr geehrte Frau Pérez") {
		t.Fatalf("mother salutation missing:\n%s", transport.msgs[2].Body)
	}
	if transport.msgs[3].To[0] != "email_vater@example.org" {
		t.Fatalf("father confirmation to %v", transport.msgs[3].To)
	}
	if !strings.Contains(transport.msgs[3].Body, "Sehr geehrter Herr Pérez") {
		t.Fatalf("father salutation missing:\n%s", transport.msgs[3].Body)
	}

	if len(renderer.images) != 3 {
		t.Fatalf("summary images = %d, want 3", len(renderer.images))
	}
}

func TestRenderSummary_Projection(t *testing.T) {
	c, renderer, _ := newTestCampaign(t)
	sub := c.Process(fullInput())
	if _, err := c.RenderSummary(context.Background(), sub); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}

	doc := renderer.doc
	if doc.Sections[0].Title != "Meine Familie und ich" {
		t.Fatalf("cover title = %q", doc.Sections[0].Title)
	}
	for _, row := range doc.Sections[0].Rows {
		if row.Name == FieldPeriod && row.Value != "02.09.2019 - 02.02.2020" {
			t.Fatalf("period row = %q", row.Value)
		}
		if row.Name == "gastfamilie_vorstellung" || row.Name == "entscheidung" {
			t.Fatalf("excluded field %q projected", row.Name)
		}
	}
	for _, section := range doc.Sections {
		for _, row := range section.Rows {
			if strings.HasSuffix(row.Name, "_bekannte") || strings.HasSuffix(row.Name, "_gastfamilie") {
				t.Fatalf("excluded field %q projected", row.Name)
			}
		}
	}
}

func TestSubmit_RejectsInvalid(t *testing.T) {
	c, _, transport := newTestCampaign(t)
	sub := c.Process(submission.Input{})
	if sub.Valid() {
		t.Fatalf("empty submission must be invalid")
	}
	if err := c.Submit(context.Background(), sub); err == nil {
		t.Fatalf("expected error for invalid submission")
	}
	if len(transport.msgs) != 0 {
		t.Fatalf("no mail must go out, got %d", len(transport.msgs))
	}
}

func TestOptionalNotesStayOptional(t *testing.T) {
	c, _, _ := newTestCampaign(t)
	in := fullInput()
	in.Values["sonstiges"] = ""
	in.Values["sonstiges2"] = ""
	sub := c.Process(in)
	if !sub.Valid() {
		t.Fatalf("blank notes must stay valid: %v", sub.Errors())
	}
}
