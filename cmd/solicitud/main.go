package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/amigos-cultura/solicitud/internal/config"
	"github.com/amigos-cultura/solicitud/pkg/engine"
	"github.com/amigos-cultura/solicitud/pkg/mailer"
	"github.com/amigos-cultura/solicitud/pkg/prompt"
	"github.com/amigos-cultura/solicitud/pkg/render/htmldoc"
	"github.com/amigos-cultura/solicitud/pkg/render/pdf"
	"github.com/amigos-cultura/solicitud/pkg/schemaexport"
	"github.com/amigos-cultura/solicitud/pkg/solicitud"
	"github.com/amigos-cultura/solicitud/pkg/submission"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "fill":
		runFill(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "export-openapi":
		runExportOpenAPI(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: solicitud <command> [flags]

commands:
  fill            fill the form interactively, render the summary, optionally send
  validate        validate an answers file and report field errors
  export-openapi  write the form catalogue as an OpenAPI document`)
}

func runFill(args []string) {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	configPath := fs.String("config", "solicitud.toml", "deployment configuration")
	pdfOut := fs.String("pdf", "", "write the PDF summary to this file")
	htmlOut := fs.String("html", "", "write an HTML summary to this file")
	send := fs.Bool("send", false, "send registration and confirmation mails")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	ceiling, err := cfg.UploadCeiling()
	if err != nil {
		log.Fatalf("Invalid upload limits: %v", err)
	}

	ctx := context.Background()

	in, err := prompt.Fill(ctx, solicitud.Registry(), prompt.NewSurveyDriver())
	if err != nil {
		log.Fatalf("Input aborted: %v", err)
	}

	campaign, err := newCampaign(cfg, ceiling, *send)
	if err != nil {
		log.Fatalf("Failed to set up campaign: %v", err)
	}

	sub := campaign.Process(in)
	if !sub.Valid() {
		reportErrors(sub)
		os.Exit(1)
	}

	summary, err := campaign.RenderSummary(ctx, sub)
	if err != nil {
		log.Fatalf("Failed to render summary: %v", err)
	}
	if *pdfOut != "" {
		if err := os.WriteFile(*pdfOut, summary, 0o644); err != nil {
			log.Fatalf("Failed to write PDF: %v", err)
		}
		fmt.Printf("Summary written to %s\n", *pdfOut)
	}

	if *htmlOut != "" {
		if err := writeHTMLSummary(ctx, campaign, sub, *htmlOut); err != nil {
			log.Fatalf("Failed to write HTML summary: %v", err)
		}
		fmt.Printf("HTML summary written to %s\n", *htmlOut)
	}

	if *send {
		if err := campaign.Submit(ctx, sub); err != nil {
			log.Fatalf("Failed to send application: %v", err)
		}
		fmt.Println("Application sent.")
	}
}

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	answers := fs.String("answers", "", "JSON file with field values")
	fs.Parse(args)

	if *answers == "" {
		log.Fatal("validate requires -answers")
	}
	raw, err := os.ReadFile(*answers)
	if err != nil {
		log.Fatalf("Failed to read answers: %v", err)
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		log.Fatalf("Failed to parse answers: %v", err)
	}

	eng, err := engine.New(solicitud.Registry())
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}
	sub := eng.Process(submission.Input{Values: values})
	if !sub.Valid() {
		reportErrors(sub)
		os.Exit(1)
	}
	fmt.Println("All fields valid.")
}

func runExportOpenAPI(args []string) {
	fs := flag.NewFlagSet("export-openapi", flag.ExitOnError)
	output := fs.String("output", "", "output file (stdout if empty)")
	fs.Parse(args)

	doc, err := schemaexport.Export(solicitud.Registry(), schemaexport.Info{
		Title:   "Schülerbogen",
		Version: "1.0.0",
	})
	if err != nil {
		log.Fatalf("Failed to export catalogue: %v", err)
	}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode document: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, encoded, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Catalogue written to %s\n", *output)
	} else {
		fmt.Println(string(encoded))
	}
}

func reportErrors(sub *engine.Submission) {
	fmt.Fprintln(os.Stderr, "Submission has invalid fields:")
	for _, name := range solicitud.Registry().Names() {
		if msg := sub.FieldError(name); msg != "" {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", name, msg)
		}
	}
}

func newCampaign(cfg config.Config, ceiling int64, send bool) (*solicitud.Campaign, error) {
	opts := []engine.Option{
		engine.WithMaxUploadBytes(ceiling),
		engine.WithDocumentRenderer(newPDFRenderer(cfg)),
	}
	if send {
		transport, err := mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			SSL:      cfg.SMTP.SSL,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithTransport(transport))
	}
	return solicitud.NewCampaign(solicitud.Addresses{
		Office:  cfg.Mail.Office,
		Sender:  cfg.Mail.Sender,
		Confirm: cfg.Mail.Confirm,
	}, opts...)
}

func newPDFRenderer(cfg config.Config) *pdf.Renderer {
	opts := []pdf.Option{
		pdf.WithTitle("SCHÜLERBOGEN"),
		pdf.WithFooter(solicitud.AddressLine),
		pdf.WithFrontSlots(solicitud.SlotPortrait, solicitud.SlotFamily),
		pdf.WithClosingSlot(solicitud.SlotHobby),
	}
	if closing := readAsset(cfg.Assets.Closing); closing != nil {
		opts = append(opts, pdf.WithClosingImage(closing))
	}
	if logo := readAsset(cfg.Assets.Logo); logo != nil {
		opts = append(opts, pdf.WithLogo(logo))
	}
	return pdf.New(opts...)
}

func writeHTMLSummary(ctx context.Context, campaign *solicitud.Campaign, sub *engine.Submission, path string) error {
	renderer, err := htmldoc.New(htmldoc.WithTitle("Schülerbogen"))
	if err != nil {
		return err
	}
	doc := sub.Document(solicitud.SummaryOptions()...)
	out, err := renderer.Render(ctx, doc, campaign.Images(sub))
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func readAsset(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: could not read asset %s: %v", path, err)
		return nil
	}
	return data
}
