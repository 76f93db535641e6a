// Package expr implements visibility.Evaluator with a small expression
// language:
//
//	phase2                       truthy check
//	notification == "text"       comparison against string, number, bool or null
//	!sendCatalog && rating != 1  negation and boolean composition
//	(a || b) && extras.admin     grouping; extras.* reads Context.Extras
//
// Names are dotted paths into the form values; array entries are addressed by
// index (addresses.0.city).
package expr

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Evaluator compiles rules once and caches them.
type Evaluator struct {
	mu    sync.RWMutex
	cache map[string]node
}

// New returns an empty Evaluator.
func New() *Evaluator {
	return &Evaluator{cache: map[string]node{}}
}

// Eval implements visibility.Evaluator. An empty rule is visible.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	n, err := e.compile(rule)
	if err != nil {
		return false, err
	}
	if n == nil {
		return true, nil
	}
	return n.eval(func(name string) (any, bool) { return lookup(ctx, name) }), nil
}

// Check reports whether rule parses.
func (e *Evaluator) Check(rule string) error {
	_, err := e.compile(rule)
	return err
}

func (e *Evaluator) compile(rule string) (node, error) {
	rule = strings.TrimSpace(rule)
	e.mu.RLock()
	n, ok := e.cache[rule]
	e.mu.RUnlock()
	if ok {
		return n, nil
	}

	tokens, err := lex(rule)
	if err != nil {
		return nil, err
	}
	if n, err = parse(tokens); err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.cache[rule] = n
	e.mu.Unlock()
	return n, nil
}

func lookup(ctx visibility.Context, name string) (any, bool) {
	if rest, ok := strings.CutPrefix(name, "extras."); ok {
		return walk(ctx.Extras, rest)
	}
	return walk(ctx.Values, name)
}

func walk(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	// flattened keys ("emailGroup.email") win over traversal
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, part := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(typed) {
				return nil, false
			}
			current = typed[i]
		default:
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n, ok := toNumber(value); ok {
		return n != 0
	}
	return true
}

func toBool(value any) bool {
	if s, ok := value.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return truthy(value)
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
