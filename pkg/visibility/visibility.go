// Package visibility decides which controls a renderer shows. Rules are small
// boolean expressions over the current form values, keyed by control path.
package visibility

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Evaluator determines whether the control at path is visible under rule.
type Evaluator interface {
	Eval(path, rule string, ctx Context) (bool, error)
}

// Context provides the inputs a rule can read. Values holds the nested form
// values (see form.NodeSnapshot.Values); Extras lets callers inject flags
// that are not part of the form, read through the "extras." prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(path, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(path, rule string, ctx Context) (bool, error) {
	return fn(path, rule, ctx)
}

// Rules maps control paths to rules. A control without a rule is visible.
type Rules map[string]string

// ContextFor builds a Context from a snapshot of the form root.
func ContextFor(snap form.NodeSnapshot) Context {
	values, _ := snap.Values().(map[string]any)
	return Context{Values: values}
}

// Visible evaluates the rule for path. Paths without a rule are visible.
func (r Rules) Visible(eval Evaluator, path string, ctx Context) (bool, error) {
	rule, ok := r[path]
	if !ok || strings.TrimSpace(rule) == "" {
		return true, nil
	}
	visible, err := eval.Eval(path, rule, ctx)
	if err != nil {
		return false, fmt.Errorf("visibility: %s: %w", path, err)
	}
	return visible, nil
}

// Hidden returns the sorted paths whose rule evaluates to false against snap.
func (r Rules) Hidden(eval Evaluator, snap form.NodeSnapshot) ([]string, error) {
	if len(r) == 0 {
		return nil, nil
	}
	ctx := ContextFor(snap)
	var hidden []string
	for path := range r {
		visible, err := r.Visible(eval, path, ctx)
		if err != nil {
			return nil, err
		}
		if !visible {
			hidden = append(hidden, path)
		}
	}
	sort.Strings(hidden)
	return hidden, nil
}

// Prune returns a copy of snap without the hidden paths and their
// descendants.
func Prune(snap form.NodeSnapshot, hidden []string) form.NodeSnapshot {
	if len(hidden) == 0 {
		return snap
	}
	skip := make(map[string]struct{}, len(hidden))
	for _, path := range hidden {
		skip[path] = struct{}{}
	}
	return prune(snap, skip)
}

func prune(node form.NodeSnapshot, skip map[string]struct{}) form.NodeSnapshot {
	if len(node.Children) == 0 {
		return node
	}
	out := node
	out.Children = make([]form.NodeSnapshot, 0, len(node.Children))
	for _, child := range node.Children {
		if _, ok := skip[child.Path]; ok {
			continue
		}
		out.Children = append(out.Children, prune(child, skip))
	}
	return out
}
