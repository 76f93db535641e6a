package form

// Field holds a single scalar value.
type Field struct {
	control
	value   any
	initial any
}

// NewField creates a pristine, untouched field and evaluates its validators
// against the initial value.
func NewField(initial any, validators ...Validator) *Field {
	f := &Field{value: initial, initial: initial}
	f.self = f
	f.validators = compactValidators(validators)
	f.update(updateOptions{onlySelf: true})
	return f
}

func (f *Field) Kind() Kind { return KindField }

func (f *Field) Value() any { return f.value }

// SetValue writes v, marks the field dirty and recomputes validity up to the
// root.
func (f *Field) SetValue(v any, opts ...UpdateOption) {
	f.setValue(v, resolveOptions(opts))
}

// Patch is SetValue for a field; it exists so callers can treat every control
// kind uniformly.
func (f *Field) Patch(v any, opts ...UpdateOption) {
	f.setValue(v, resolveOptions(opts))
}

// Reset restores the value given at construction (or v when provided) and
// clears the interaction flags.
func (f *Field) Reset(v ...any) {
	value := f.initial
	if len(v) > 0 {
		value = v[0]
	}
	f.value = value
	f.touched = false
	f.dirty = false
	if f.parent != nil {
		f.parent.base().syncTouched()
		f.parent.base().syncPristine()
	}
	f.update(updateOptions{emitEvent: true})
}

func (f *Field) setValue(v any, o updateOptions) {
	f.value = v
	if o.markDirty {
		f.markDirty(o.onlySelf)
	}
	f.update(o)
}

func (f *Field) children() []Control { return nil }

func (f *Field) child(string) Control { return nil }
