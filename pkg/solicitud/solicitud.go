// Package solicitud wires the Schülerbogen application form of the Amigos de
// la Cultura school exchange: the embedded field catalogue, the PDF summary
// layout, and the mail flow that runs on submission.
package solicitud

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/amigos-cultura/solicitud/pkg/projection"
	"github.com/amigos-cultura/solicitud/pkg/schema"
)

//go:embed catalogue.yaml
var catalogueYAML []byte

// Field names the campaign logic keys on.
const (
	FieldFirstName      = "vorname"
	FieldLastName       = "nachname"
	FieldEmail          = "email"
	FieldMotherLastName = "nachname_mutter"
	FieldMotherEmail    = "email_mutter"
	FieldFatherLastName = "nachname_vater"
	FieldFatherEmail    = "email_vater"
	FieldPeriod         = "zeitraum"
	FieldReport         = "zeugnis"

	// Image slots placed on the PDF summary.
	SlotPortrait = "bewerbungsfoto"
	SlotFamily   = "familienfoto"
	SlotHobby    = "hobbyfoto"

	// AddressLine is the association's registered address, printed in the
	// footer of every summary page.
	AddressLine = "Amigos de la Cultura e.V. | Franz-Liszt-Straße 4 | 01219 Dresden | Register: Amtsgericht Dresden VR 7759"
)

var registryOnce = sync.OnceValue(func() *schema.Registry {
	reg, err := schema.Parse(catalogueYAML)
	if err != nil {
		panic(fmt.Sprintf("solicitud: embedded catalogue: %v", err))
	}
	return reg
})

// Registry returns the Schülerbogen field registry. The catalogue is embedded
// and validated once; a broken catalogue is a build defect, so Registry panics
// rather than returning an error.
func Registry() *schema.Registry {
	return registryOnce()
}

// summaryExclusions lists the fields kept out of the PDF the host family
// receives: contact data of relatives and host candidates, employers, and the
// programme metadata.
func summaryExclusions() []string {
	return []string{
		"entscheidung",
		"arbeitgeber_mutter",
		"arbeitgeber_vater",
		"gastfamilie_vorstellung",
		"bekannte",
		"vorname_bekannte",
		"nachname_bekannte",
		"festnetznummer_bekannte",
		"mobilfunknummer_bekannte",
		"straße_hausnummer_bekannte",
		"wohnort_bekannte",
		"land_bekannte",
		"email_bekannte",
		"gastfamilie",
		"vorname_gastfamilie",
		"nachname_gastfamilie",
		"festnetznummer_gastfamilie",
		"mobilfunknummer_gastfamilie",
		"straße_hausnummer_gastfamilie",
		"wohnort_gastfamilie",
		"land_gastfamilie",
		"email_gastfamilie",
	}
}

// SummaryOptions returns the projection options for the PDF summary: the
// exclusion list, the period narrowing on the programme field, and the
// friendlier heading on the cover section.
func SummaryOptions() []projection.Option {
	return []projection.Option{
		projection.WithExclude(summaryExclusions()...),
		projection.WithPeriodFields(FieldPeriod),
		projection.WithSectionTitle("allgemein", "Meine Familie und ich"),
	}
}
