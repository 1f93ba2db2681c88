// Package visibility computes the active field set of a submission. A field
// with no condition is always active; a conditioned field is active exactly
// while the controlling field's ingested value is one of the activating
// values. Resolution runs over fully-ingested state, so the outcome never
// depends on where the two fields sit in declaration order, and an invalid
// controlling value simply fails the membership test.
package visibility

import (
	"github.com/amigos-cultura/solicitud/pkg/schema"
	"github.com/amigos-cultura/solicitud/pkg/submission"
)

// Context provides the controlling values an evaluation reads from,
// typically the ingested text values of the current submission.
type Context struct {
	Values map[string]string
}

// Eval reports whether field is active under ctx.
func Eval(field schema.Field, ctx Context) bool {
	if field.Condition == nil {
		return true
	}
	return field.Condition.Activates(ctx.Values[field.Condition.Field])
}

// Resolve sets the Active flag on every field value in set. It must run
// after ingestion completes and before validation starts; inactive fields
// are skipped by validation and excluded from every projection.
func Resolve(reg *schema.Registry, set submission.Set) {
	ctx := Context{Values: make(map[string]string, len(set))}
	for name, value := range set {
		ctx.Values[name] = value.Text
	}

	for _, name := range reg.Names() {
		field, _ := reg.Field(name)
		set.Value(name).Active = Eval(field, ctx)
	}
}
