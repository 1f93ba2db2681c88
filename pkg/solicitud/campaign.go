package solicitud

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/amigos-cultura/solicitud/internal/sanitize"
	"github.com/amigos-cultura/solicitud/pkg/engine"
	"github.com/amigos-cultura/solicitud/pkg/submission"
)

// Addresses carries the mail endpoints of the campaign.
type Addresses struct {
	// Office receives the registration mail with all attachments.
	Office string
	// Sender is the From address on the registration mail.
	Sender string
	// Confirm is the From address on the confirmation mails.
	Confirm string
}

const (
	defaultOffice  = "info@amigos-cultura.de"
	defaultSender  = "bewerbung@amigos-cultura.de"
	senderName     = "Solicitud"
	confirmSubject = "Formulario de Solicitud - Amigos de la Cultura e.V."
)

const confirmFooter = `Viele Grüße,

Das Team von Amigos de la Cultura e.V.

Tu amigo de I N T E R C A M B I O !!!

https://www.facebook.com/amigosculturaintercambio/`

// Campaign binds the Schülerbogen registry and the mail flow to an engine.
type Campaign struct {
	eng  *engine.Engine
	addr Addresses
}

// NewCampaign constructs a Campaign over the embedded catalogue. Engine
// options configure the upload ceiling, the document renderer, and the
// transport.
func NewCampaign(addr Addresses, opts ...engine.Option) (*Campaign, error) {
	if addr.Office == "" {
		addr.Office = defaultOffice
	}
	if addr.Sender == "" {
		addr.Sender = defaultSender
	}
	if addr.Confirm == "" {
		addr.Confirm = defaultOffice
	}
	eng, err := engine.New(Registry(), opts...)
	if err != nil {
		return nil, err
	}
	return &Campaign{eng: eng, addr: addr}, nil
}

// Engine exposes the underlying engine.
func (c *Campaign) Engine() *engine.Engine {
	return c.eng
}

// Process validates one set of raw form values against the catalogue.
func (c *Campaign) Process(in submission.Input) *engine.Submission {
	return c.eng.Process(in)
}

// Images collects the uploaded pictures destined for the PDF summary.
func (c *Campaign) Images(sub *engine.Submission) []engine.Image {
	var out []engine.Image
	for _, slot := range []string{SlotPortrait, SlotFamily, SlotHobby} {
		up := sub.Value(slot).Upload
		if up.IsZero() || up.Err != nil {
			continue
		}
		out = append(out, engine.Image{Slot: slot, Filename: up.Filename, Data: up.Data})
	}
	return out
}

// RenderSummary produces the Schülerbogen PDF for the host family.
func (c *Campaign) RenderSummary(ctx context.Context, sub *engine.Submission) ([]byte, error) {
	return c.eng.RenderDocument(ctx, sub, c.Images(sub), SummaryOptions()...)
}

// RegistrationMail builds the mail the office receives: the full answer list
// in the body, plus the PDF, the CSV export, the three pictures and the school
// report as attachments.
func (c *Campaign) RegistrationMail(sub *engine.Submission, summary []byte) (engine.Message, error) {
	firstName := sub.Value(FieldFirstName).Text
	lastName := sub.Value(FieldLastName).Text

	csv, err := sub.CSV()
	if err != nil {
		return engine.Message{}, fmt.Errorf("solicitud: export csv: %w", err)
	}

	attachments := []engine.Attachment{
		{Filename: sanitize.Filename("Schuelerbogen_"+firstName, "pdf"), Content: summary},
		{Filename: sanitize.Filename(firstName+"_"+lastName, "csv"), Content: csv},
	}
	for _, file := range []struct{ field, suffix string }{
		{SlotPortrait, "portrait"},
		{SlotHobby, "hobbyfoto"},
		{SlotFamily, "familie"},
		{FieldReport, "zeugnis"},
	} {
		up := sub.Value(file.field).Upload
		if up.IsZero() || up.Err != nil {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(up.Filename)), ".")
		attachments = append(attachments, engine.Attachment{
			Filename: sanitize.Filename(firstName+"_"+lastName+"_"+file.suffix, ext),
			Content:  up.Data,
		})
	}

	var body strings.Builder
	for _, section := range sub.Document().Sections {
		body.WriteString(section.Title + ":\n")
		for _, row := range section.Rows {
			fmt.Fprintf(&body, " • %-20s: %s\n", row.Label, row.Value)
		}
		body.WriteString("\n")
	}

	return engine.Message{
		From:        c.addr.Sender,
		FromName:    senderName,
		To:          []string{c.addr.Office},
		Subject:     fmt.Sprintf("Bewerbung von %s %s", firstName, lastName),
		Body:        body.String(),
		Attachments: attachments,
	}, nil
}

// ConfirmationMails builds the receipt mails for the student and both
// parents.
func (c *Campaign) ConfirmationMails(sub *engine.Submission) []engine.Message {
	firstName := sub.Value(FieldFirstName).Text
	lastName := sub.Value(FieldLastName).Text
	fullName := firstName + " " + lastName

	student := engine.Message{
		From:    c.addr.Confirm,
		To:      []string{sub.Value(FieldEmail).Text},
		Subject: confirmSubject,
		Body: fmt.Sprintf(`Hallo %s,

Hiermit bestätigen wir den Eingang Deines Online-Bewerbungsformulars.

Tengo a bien confirmar la recepción del formulario de Solicitud online.

%s`, fullName, confirmFooter),
	}

	mother := engine.Message{
		From:    c.addr.Confirm,
		To:      []string{sub.Value(FieldMotherEmail).Text},
		Subject: confirmSubject,
		Body: fmt.Sprintf(`Sehr geehrte Frau %s,

Hiermit bestätigen wir den Eingang des Online-Bewerbungsformulars von %s.

Tengo a bien confirmar la recepción del formulario de Solicitud online de %s.

%s`, sub.Value(FieldMotherLastName).Text, fullName, fullName, confirmFooter),
	}

	father := engine.Message{
		From:    c.addr.Confirm,
		To:      []string{sub.Value(FieldFatherEmail).Text},
		Subject: confirmSubject,
		Body: fmt.Sprintf(`Sehr geehrter Herr %s,

Hiermit bestätigen wir den Eingang des Online-Bewerbungsformulars von %s.

Tengo a bien confirmar la recepción del formulario de Solicitud online de %s.

%s`, sub.Value(FieldFatherLastName).Text, fullName, fullName, confirmFooter),
	}

	return []engine.Message{student, mother, father}
}

// Submit runs the full delivery flow for a valid submission: render the PDF,
// send the registration mail, then the three confirmations.
func (c *Campaign) Submit(ctx context.Context, sub *engine.Submission) error {
	if sub == nil {
		return errors.New("solicitud: submission is required")
	}
	if !sub.Valid() {
		return fmt.Errorf("solicitud: submission has %d invalid fields", len(sub.Errors()))
	}

	summary, err := c.RenderSummary(ctx, sub)
	if err != nil {
		return err
	}
	registration, err := c.RegistrationMail(sub, summary)
	if err != nil {
		return err
	}

	msgs := append([]engine.Message{registration}, c.ConfirmationMails(sub)...)
	return c.eng.Send(ctx, msgs...)
}
