package validators

import (
	"reflect"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Match is a group-level rule comparing two children. It stays silent while
// either child is pristine, so typing into only one side of the pair is not
// an error yet. Once both have been edited, differing values fail with
// KeyMatch. Equal values always pass.
func Match(primary, confirmation string) Rule {
	return Rule{
		Kind:   KindMatch,
		Params: map[string]string{"primary": primary, "confirmation": confirmation},
		fn: func(c form.Control) form.Errors {
			first := c.Get(primary)
			second := c.Get(confirmation)
			if first == nil || second == nil {
				return nil
			}
			if reflect.DeepEqual(first.Value(), second.Value()) {
				return nil
			}
			if first.Pristine() || second.Pristine() {
				return nil
			}
			return fail(KeyMatch)
		},
	}
}
