package form

// UpdateOption tunes how a mutation propagates.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	onlySelf  bool
	emitEvent bool
	markDirty bool
}

func resolveOptions(opts []UpdateOption) updateOptions {
	o := updateOptions{emitEvent: true, markDirty: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// OnlySelf limits recomputation to the mutated control; ancestors keep their
// previous status until they are updated themselves.
func OnlySelf() UpdateOption {
	return func(o *updateOptions) {
		o.onlySelf = true
	}
}

// WithoutEvent suppresses value-change notifications for the mutation.
func WithoutEvent() UpdateOption {
	return func(o *updateOptions) {
		o.emitEvent = false
	}
}

// KeepPristine writes a value without flagging the control as dirty. Use it
// for programmatic seeding that should not count as user interaction.
func KeepPristine() UpdateOption {
	return func(o *updateOptions) {
		o.markDirty = false
	}
}
