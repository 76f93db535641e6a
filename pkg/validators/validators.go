// Package validators provides the stock validation rules for form controls.
// Every constructor returns a Rule, which is a form.Validator that also
// describes itself with a Kind and string Params so exporters (for example
// pkg/openapi) can translate constraints without running them.
package validators

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Failure keys written into a control's Errors map.
const (
	KeyRequired  = "required"
	KeyEmail     = "email"
	KeyMatch     = "match"
	KeyRange     = "range"
	KeyMinLength = "minlength"
	KeyMaxLength = "maxlength"
	KeyPattern   = "pattern"
)

// Rule kinds mirror the failure keys, plus requiredTrue which reports
// KeyRequired.
const (
	KindRequired     = "required"
	KindRequiredTrue = "requiredTrue"
	KindEmail        = "email"
	KindMatch        = "match"
	KindRange        = "range"
	KindMinLength    = "minLength"
	KindMaxLength    = "maxLength"
	KindPattern      = "pattern"
)

// Rule is a described validator. Params encode thresholds as strings so
// snapshots stay deterministic.
type Rule struct {
	Kind   string
	Params map[string]string
	fn     func(form.Control) form.Errors
}

// Validate implements form.Validator.
func (r Rule) Validate(c form.Control) form.Errors {
	if r.fn == nil || c == nil {
		return nil
	}
	return r.fn(c)
}

// Param returns a parameter value or "".
func (r Rule) Param(name string) string {
	return r.Params[name]
}

// RulesOf returns the described rules attached to c, skipping plain
// validator funcs.
func RulesOf(c form.Control) []Rule {
	if c == nil {
		return nil
	}
	var out []Rule
	for _, v := range c.Validators() {
		if rule, ok := v.(Rule); ok {
			out = append(out, rule)
		}
	}
	return out
}

func fail(key string) form.Errors {
	return form.Errors{key: true}
}

// Required fails when the value is nil, an empty string or an empty list.
// Booleans are never empty; use RequiredTrue for must-accept checkboxes.
var Required = Rule{
	Kind: KindRequired,
	fn: func(c form.Control) form.Errors {
		if isEmpty(c.Value()) {
			return fail(KeyRequired)
		}
		return nil
	},
}

// RequiredTrue fails unless the value is boolean true.
var RequiredTrue = Rule{
	Kind: KindRequiredTrue,
	fn: func(c form.Control) form.Errors {
		if b, ok := c.Value().(bool); ok && b {
			return nil
		}
		return fail(KeyRequired)
	},
}

// MinLength fails when a non-empty value is shorter than n characters. Empty
// values pass so the rule composes with Required.
func MinLength(n int) Rule {
	return Rule{
		Kind:   KindMinLength,
		Params: map[string]string{"value": strconv.Itoa(n)},
		fn: func(c form.Control) form.Errors {
			value := c.Value()
			if isEmpty(value) {
				return nil
			}
			if length, ok := lengthOf(value); ok && length < n {
				return fail(KeyMinLength)
			}
			return nil
		},
	}
}

// MaxLength fails when the value is longer than n characters.
func MaxLength(n int) Rule {
	return Rule{
		Kind:   KindMaxLength,
		Params: map[string]string{"value": strconv.Itoa(n)},
		fn: func(c form.Control) form.Errors {
			if length, ok := lengthOf(c.Value()); ok && length > n {
				return fail(KeyMaxLength)
			}
			return nil
		},
	}
}

// Pattern fails when a non-empty string value does not fully match expr.
// An invalid expression panics at construction time.
func Pattern(expr string) Rule {
	body := strings.TrimSuffix(strings.TrimPrefix(expr, "^"), "$")
	re := regexp.MustCompile("^(?:" + body + ")$")
	return Rule{
		Kind:   KindPattern,
		Params: map[string]string{"pattern": expr},
		fn: func(c form.Control) form.Errors {
			value := c.Value()
			if isEmpty(value) {
				return nil
			}
			text, ok := value.(string)
			if !ok || !re.MatchString(text) {
				return fail(KeyPattern)
			}
			return nil
		},
	}
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	default:
		return false
	}
}

func lengthOf(value any) (int, bool) {
	switch typed := value.(type) {
	case string:
		return utf8.RuneCountInString(typed), true
	case []any:
		return len(typed), true
	case []string:
		return len(typed), true
	default:
		return 0, false
	}
}
