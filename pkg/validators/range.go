package validators

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Range accepts nil and "" (the value is optional) and otherwise requires a
// number within [min, max]. Non-numeric values and NaN fail with KeyRange.
func Range(min, max float64) Rule {
	return Rule{
		Kind: KindRange,
		Params: map[string]string{
			"min": strconv.FormatFloat(min, 'f', -1, 64),
			"max": strconv.FormatFloat(max, 'f', -1, 64),
		},
		fn: func(c form.Control) form.Errors {
			value := c.Value()
			if value == nil {
				return nil
			}
			if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
				return nil
			}
			n, ok := ToNumber(value)
			if !ok || math.IsNaN(n) || n < min || n > max {
				return fail(KeyRange)
			}
			return nil
		},
	}
}

// ToNumber coerces values of any integer or float kind, including named
// types, and numeric strings to float64. NaN is returned as-is; callers
// decide how to treat it.
func ToNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
