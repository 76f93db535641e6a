package form

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// Array is an ordered sequence of groups sharing one shape. The factory, when
// set, defines that shape and builds new entries for Append.
type Array struct {
	control
	factory func() *Group
	shape   []string
	entries []*Group
}

// NewArray builds an array whose entries are produced by factory. Initial
// entries that do not match the factory shape are skipped.
func NewArray(factory func() *Group, entries ...*Group) *Array {
	a := &Array{factory: factory}
	a.self = a
	if factory != nil {
		if sample := factory(); sample != nil {
			a.shape = sample.Names()
		}
	}
	for _, entry := range entries {
		if entry == nil || !a.matches(entry) || slices.Contains(a.entries, entry) {
			continue
		}
		if err := entry.attach(a); err != nil {
			continue
		}
		a.entries = append(a.entries, entry)
	}
	a.touched = a.anyEntry(Control.Touched)
	a.dirty = a.anyEntry(Control.Dirty)
	a.update(updateOptions{onlySelf: true})
	return a
}

func (a *Array) Kind() Kind { return KindArray }

// Value returns a fresh slice of entry values.
func (a *Array) Value() any {
	out := make([]any, len(a.entries))
	for i, entry := range a.entries {
		out[i] = entry.Value()
	}
	return out
}

// Len reports the number of entries.
func (a *Array) Len() int { return len(a.entries) }

// At returns the entry at index i, or nil when out of range.
func (a *Array) At(i int) *Group {
	if i < 0 || i >= len(a.entries) {
		return nil
	}
	return a.entries[i]
}

// Entries returns the entries in order.
func (a *Array) Entries() []*Group {
	return append([]*Group(nil), a.entries...)
}

// Template returns a detached entry built by the factory, or the first entry
// when there is no factory. It returns nil when neither exists.
func (a *Array) Template() *Group {
	if a.factory != nil {
		return a.factory()
	}
	return a.At(0)
}

// Append builds a new entry with the factory and pushes it.
func (a *Array) Append(opts ...UpdateOption) (*Group, error) {
	if a.factory == nil {
		return nil, ErrNoFactory
	}
	entry := a.factory()
	if err := a.Push(entry, opts...); err != nil {
		return nil, err
	}
	return entry, nil
}

// Push appends an existing group. The group must not belong to another
// container and must expose the array's canonical child names.
func (a *Array) Push(entry *Group, opts ...UpdateOption) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrShapeMismatch)
	}
	if !a.matches(entry) {
		return ErrShapeMismatch
	}
	if slices.Contains(a.entries, entry) {
		return ErrAlreadyOwned
	}
	if err := entry.attach(a); err != nil {
		return err
	}
	a.entries = append(a.entries, entry)
	a.finish(resolveOptions(opts))
	return nil
}

// RemoveAt disposes and removes the entry at index i.
func (a *Array) RemoveAt(i int, opts ...UpdateOption) error {
	if i < 0 || i >= len(a.entries) {
		return &UnknownControlError{Path: strconv.Itoa(i)}
	}
	a.entries[i].Dispose()
	a.entries = append(a.entries[:i:i], a.entries[i+1:]...)
	a.finish(resolveOptions(opts))
	return nil
}

// Replace atomically swaps every entry for the given ones. Previous entries
// are disposed. Nothing changes when any new entry is rejected, including
// an entry listed twice.
func (a *Array) Replace(entries []*Group, opts ...UpdateOption) error {
	seen := make(map[*Group]struct{}, len(entries))
	for _, entry := range entries {
		if entry == nil || !a.matches(entry) {
			return ErrShapeMismatch
		}
		if _, dup := seen[entry]; dup {
			return ErrAlreadyOwned
		}
		seen[entry] = struct{}{}
		if entry.parent != nil && entry.parent != Control(a) {
			return ErrAlreadyOwned
		}
	}
	for _, previous := range a.entries {
		if !slices.Contains(entries, previous) {
			previous.Dispose()
		}
	}
	a.entries = a.entries[:0:0]
	for _, entry := range entries {
		entry.parent = a
		a.entries = append(a.entries, entry)
	}
	a.finish(resolveOptions(opts))
	return nil
}

// Clear removes every entry.
func (a *Array) Clear(opts ...UpdateOption) {
	for _, entry := range a.entries {
		entry.Dispose()
	}
	a.entries = nil
	a.finish(resolveOptions(opts))
}

// SetValue writes one value per entry. The value length must match Len.
func (a *Array) SetValue(items []any, opts ...UpdateOption) error {
	if len(items) != len(a.entries) {
		return fmt.Errorf("%w: got %d, have %d", ErrLengthMismatch, len(items), len(a.entries))
	}
	var errs []error
	a.apply(items, resolveOptions(opts), false, "", &errs)
	return errors.Join(errs...)
}

// Patch writes values to existing entries by index. Values beyond Len are
// ignored; use Append or Replace to grow the array.
func (a *Array) Patch(items []any, opts ...UpdateOption) error {
	var errs []error
	a.apply(items, resolveOptions(opts), true, "", &errs)
	return errors.Join(errs...)
}

func (a *Array) apply(items []any, o updateOptions, patch bool, prefix string, errs *[]error) {
	if !patch && len(items) != len(a.entries) {
		*errs = append(*errs, fmt.Errorf("%s: %w", prefix, ErrLengthMismatch))
		return
	}
	childOpts := o
	childOpts.onlySelf = true
	for i, item := range items {
		if i >= len(a.entries) {
			break
		}
		applyValue(a.entries[i], item, childOpts, patch, joinPath(prefix, strconv.Itoa(i)), errs)
	}
	if o.markDirty && len(items) > 0 {
		a.markDirty(o.onlySelf)
	}
	a.update(o)
}

func (a *Array) finish(o updateOptions) {
	if o.markDirty {
		a.markDirty(o.onlySelf)
	}
	a.update(o)
}

func (a *Array) matches(entry *Group) bool {
	if a.shape == nil {
		return true
	}
	return slices.Equal(a.shape, entry.names)
}

func (a *Array) anyEntry(pred func(Control) bool) bool {
	for _, entry := range a.entries {
		if pred(entry) {
			return true
		}
	}
	return false
}

func (a *Array) children() []Control {
	out := make([]Control, len(a.entries))
	for i, entry := range a.entries {
		out[i] = entry
	}
	return out
}

func (a *Array) child(name string) Control {
	idx, ok := parseIndex(name)
	if !ok || idx >= len(a.entries) {
		return nil
	}
	return a.entries[idx]
}
