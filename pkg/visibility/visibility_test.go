package visibility

import (
	"testing"

	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
)

// dependentFirst declares the dependent field before its controlling field so
// the tests cover declaration-order independence.
func dependentFirst(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.New(
		[]schema.Fieldset{{
			Name:   "all",
			Legend: []string{"Alles", "Todo"},
			Fields: []string{"welche_haustiere", "haustiere", "vorname"},
		}},
		[]schema.Field{
			{
				Name: "welche_haustiere", Title: "Welche Haustiere", Kind: schema.KindShortText,
				Condition: &schema.Condition{Field: "haustiere", Values: []string{"Ja"}},
			},
			{Name: "haustiere", Title: "Haustiere", Kind: schema.KindSingleChoice, Choices: []string{"Ja", "Nein"}},
			{Name: "vorname", Title: "Vorname", Kind: schema.KindShortText},
		},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func TestResolve_UnconditionedAlwaysActive(t *testing.T) {
	reg := dependentFirst(t)
	for _, answer := range []string{"", "Ja", "Nein", "garbage"} {
		set := submission.Ingest(reg, submission.Input{Values: map[string]any{"haustiere": answer}})
		Resolve(reg, set)
		if !set.Value("vorname").Active {
			t.Fatalf("vorname must stay active for controlling value %q", answer)
		}
		if !set.Value("haustiere").Active {
			t.Fatalf("haustiere must stay active for value %q", answer)
		}
	}
}

func TestResolve_ConditionMembership(t *testing.T) {
	reg := dependentFirst(t)

	set := submission.Ingest(reg, submission.Input{Values: map[string]any{"haustiere": "Ja"}})
	Resolve(reg, set)
	if !set.Value("welche_haustiere").Active {
		t.Fatalf("dependent must be active when controlling value matches")
	}

	set = submission.Ingest(reg, submission.Input{Values: map[string]any{"haustiere": "Nein"}})
	Resolve(reg, set)
	if set.Value("welche_haustiere").Active {
		t.Fatalf("dependent must be inactive when controlling value does not match")
	}
}

func TestResolve_MissingControllingValue(t *testing.T) {
	reg := dependentFirst(t)
	set := submission.Ingest(reg, submission.Input{})
	Resolve(reg, set)
	if set.Value("welche_haustiere").Active {
		t.Fatalf("empty controlling value must not activate the dependent")
	}
}

func TestEval_MultiValueCondition(t *testing.T) {
	field := schema.Field{
		Name: "name_geschwister_2",
		Kind: schema.KindShortText,
		Condition: &schema.Condition{
			Field:  "geschwister",
			Values: []string{"2", "3", "4", "5"},
		},
	}

	for value, want := range map[string]bool{"1": false, "2": true, "5": true, "Nein": false} {
		got := Eval(field, Context{Values: map[string]string{"geschwister": value}})
		if got != want {
			t.Fatalf("Eval with %q = %v, want %v", value, got, want)
		}
	}
}
