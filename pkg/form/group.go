package form

import (
	"errors"
	"fmt"
	"strings"
)

// Child pairs a name with a control for group construction.
type Child struct {
	Name    string
	Control Control
}

// Named is shorthand for building a Child.
func Named(name string, c Control) Child {
	return Child{Name: name, Control: c}
}

// Group maps names to child controls. Declaration order is preserved for
// snapshots and iteration.
type Group struct {
	control
	names    []string
	controls map[string]Control
}

// NewGroup builds a group from the given children. Children with empty names,
// nil controls, duplicate names or an existing parent are skipped.
func NewGroup(children []Child, validators ...Validator) *Group {
	g := &Group{controls: make(map[string]Control, len(children))}
	g.self = g
	g.validators = compactValidators(validators)
	for _, ch := range children {
		name := strings.TrimSpace(ch.Name)
		if name == "" || ch.Control == nil {
			continue
		}
		if _, exists := g.controls[name]; exists {
			continue
		}
		if err := ch.Control.base().attach(g); err != nil {
			continue
		}
		g.names = append(g.names, name)
		g.controls[name] = ch.Control
	}
	g.touched = g.anyChild(Control.Touched)
	g.dirty = g.anyChild(Control.Dirty)
	g.update(updateOptions{onlySelf: true})
	return g
}

func (g *Group) Kind() Kind { return KindGroup }

// Value returns a fresh map of child values.
func (g *Group) Value() any {
	return g.Values()
}

// Values is Value typed as a map.
func (g *Group) Values() map[string]any {
	out := make(map[string]any, len(g.names))
	for _, name := range g.names {
		out[name] = g.controls[name].Value()
	}
	return out
}

// Names lists child names in declaration order.
func (g *Group) Names() []string {
	return append([]string(nil), g.names...)
}

// Contains reports whether a direct child with the given name exists.
func (g *Group) Contains(name string) bool {
	_, ok := g.controls[name]
	return ok
}

// Control returns the direct child with the given name, or nil.
func (g *Group) Control(name string) Control {
	return g.controls[name]
}

// Field returns the direct child as a *Field, or nil when it is missing or of
// another kind.
func (g *Group) Field(name string) *Field {
	f, _ := g.controls[name].(*Field)
	return f
}

// Array returns the direct child as an *Array, or nil.
func (g *Group) Array(name string) *Array {
	a, _ := g.controls[name].(*Array)
	return a
}

// Group returns the direct child as a *Group, or nil.
func (g *Group) Group(name string) *Group {
	sub, _ := g.controls[name].(*Group)
	return sub
}

// SetValue replaces every child value. Unknown names and missing names are
// rejected before anything is written.
func (g *Group) SetValue(values map[string]any, opts ...UpdateOption) error {
	for name := range values {
		if !g.Contains(name) {
			return &UnknownControlError{Path: name}
		}
	}
	for _, name := range g.names {
		if _, ok := values[name]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingValue, name)
		}
	}
	o := resolveOptions(opts)
	var errs []error
	g.apply(values, o, false, "", &errs)
	return errors.Join(errs...)
}

// Patch writes the named children and leaves the rest untouched. Unknown
// names are reported as *UnknownControlError values joined together; known
// names are still applied.
func (g *Group) Patch(values map[string]any, opts ...UpdateOption) error {
	o := resolveOptions(opts)
	var errs []error
	g.apply(values, o, true, "", &errs)
	return errors.Join(errs...)
}

func (g *Group) apply(values map[string]any, o updateOptions, patch bool, prefix string, errs *[]error) {
	childOpts := o
	childOpts.onlySelf = true
	for _, name := range g.names {
		value, ok := values[name]
		if !ok {
			continue
		}
		applyValue(g.controls[name], value, childOpts, patch, joinPath(prefix, name), errs)
	}
	for name := range values {
		if !g.Contains(name) {
			*errs = append(*errs, &UnknownControlError{Path: joinPath(prefix, name)})
		}
	}
	if o.markDirty && len(values) > 0 {
		g.markDirty(o.onlySelf)
	}
	g.update(o)
}

// SetControl swaps the named child for c, disposing the previous one. When
// the name is new the child is appended.
func (g *Group) SetControl(name string, c Control, opts ...UpdateOption) error {
	name = strings.TrimSpace(name)
	if name == "" || c == nil {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := c.base().attach(g); err != nil {
		return err
	}
	if previous, ok := g.controls[name]; ok {
		if previous != c {
			previous.Dispose()
		}
	} else {
		g.names = append(g.names, name)
	}
	g.controls[name] = c
	o := resolveOptions(opts)
	if o.markDirty {
		g.markDirty(o.onlySelf)
	}
	g.update(o)
	return nil
}

// AddControl attaches c under a new name. Existing names are left as is.
func (g *Group) AddControl(name string, c Control, opts ...UpdateOption) error {
	if g.Contains(strings.TrimSpace(name)) {
		return nil
	}
	return g.SetControl(name, c, opts...)
}

// RemoveControl detaches and disposes the named child.
func (g *Group) RemoveControl(name string, opts ...UpdateOption) error {
	previous, ok := g.controls[name]
	if !ok {
		return &UnknownControlError{Path: name}
	}
	previous.Dispose()
	delete(g.controls, name)
	for i, candidate := range g.names {
		if candidate == name {
			g.names = append(g.names[:i:i], g.names[i+1:]...)
			break
		}
	}
	o := resolveOptions(opts)
	if o.markDirty {
		g.markDirty(o.onlySelf)
	}
	g.update(o)
	return nil
}

func (g *Group) children() []Control {
	out := make([]Control, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.controls[name])
	}
	return out
}

func (g *Group) child(name string) Control {
	return g.controls[name]
}

func (g *Group) anyChild(pred func(Control) bool) bool {
	for _, name := range g.names {
		if pred(g.controls[name]) {
			return true
		}
	}
	return false
}

// applyValue routes a value to the matching setter for the control kind.
func applyValue(c Control, value any, o updateOptions, patch bool, path string, errs *[]error) {
	switch target := c.(type) {
	case *Field:
		target.setValue(value, o)
	case *Group:
		values, ok := value.(map[string]any)
		if !ok {
			*errs = append(*errs, fmt.Errorf("%w: %q expects an object", ErrTypeMismatch, path))
			return
		}
		if !patch {
			if err := target.SetValue(values, withOptions(o)...); err != nil {
				*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
			}
			return
		}
		target.apply(values, o, true, path, errs)
	case *Array:
		items, ok := toItems(value)
		if !ok {
			*errs = append(*errs, fmt.Errorf("%w: %q expects a list", ErrTypeMismatch, path))
			return
		}
		target.apply(items, o, patch, path, errs)
	}
}

// withOptions turns resolved options back into functional ones.
func withOptions(o updateOptions) []UpdateOption {
	var opts []UpdateOption
	if o.onlySelf {
		opts = append(opts, OnlySelf())
	}
	if !o.emitEvent {
		opts = append(opts, WithoutEvent())
	}
	if !o.markDirty {
		opts = append(opts, KeepPristine())
	}
	return opts
}

func toItems(value any) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		return typed, true
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}

// SetValue applies a value to any control kind, using Patch semantics for
// containers.
func SetValue(c Control, value any, opts ...UpdateOption) error {
	if c == nil {
		return ErrNotFound
	}
	var errs []error
	applyValue(c, value, resolveOptions(opts), true, "", &errs)
	return errors.Join(errs...)
}
