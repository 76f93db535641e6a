package form

import (
	"sort"
	"strconv"
	"strings"
)

// Status is the derived validity of a control.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
	StatusPending Status = "pending"
)

// Kind identifies the concrete control variant.
type Kind string

const (
	KindField Kind = "field"
	KindGroup Kind = "group"
	KindArray Kind = "array"
)

// Errors maps failure names to true. A nil or empty map means no failure.
type Errors map[string]bool

// Has reports whether the named failure is present.
func (e Errors) Has(key string) bool {
	return e[key]
}

// Keys returns the failure names sorted alphabetically.
func (e Errors) Keys() []string {
	if len(e) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e))
	for key, set := range e {
		if set {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Validator inspects a control and returns the failures it detects, or nil.
type Validator interface {
	Validate(c Control) Errors
}

// ValidatorFunc adapts a plain function into a Validator.
type ValidatorFunc func(c Control) Errors

// Validate delegates to the underlying function.
func (fn ValidatorFunc) Validate(c Control) Errors {
	return fn(c)
}

// Control is the capability set shared by fields, groups and arrays.
type Control interface {
	Kind() Kind
	Value() any
	Status() Status
	Valid() bool
	Invalid() bool
	Pending() bool
	Errors() Errors
	ErrorKeys() []string
	HasError(key string) bool
	Touched() bool
	Dirty() bool
	Pristine() bool
	Parent() Control
	Root() Control
	Get(path string) Control

	Validators() []Validator
	SetValidators(validators ...Validator)
	AddValidators(validators ...Validator)
	ClearValidators()
	UpdateValueAndValidity(opts ...UpdateOption)

	MarkAsTouched()
	MarkAsUntouched()
	MarkAsDirty()
	MarkAsPristine()
	MarkAsPending()

	Subscribe(fn func(value any)) *Subscription
	Dispose()

	base() *control
	children() []Control
	child(name string) Control
}

// control carries the state every variant shares. Variants embed it and set
// self so shared logic can reach variant behaviour.
type control struct {
	self       Control
	parent     Control
	validators []Validator
	errors     Errors
	errorKeys  []string
	status     Status
	pending    bool
	touched    bool
	dirty      bool
	subs       []*Subscription
}

func (c *control) base() *control { return c }

func (c *control) Status() Status { return c.status }

func (c *control) Valid() bool { return c.status == StatusValid }

func (c *control) Invalid() bool { return c.status == StatusInvalid }

func (c *control) Pending() bool { return c.status == StatusPending }

// Errors returns a copy of the failures produced by the control's own
// validators. Container failures do not include child failures.
func (c *control) Errors() Errors {
	if len(c.errors) == 0 {
		return nil
	}
	out := make(Errors, len(c.errors))
	for key, value := range c.errors {
		out[key] = value
	}
	return out
}

// ErrorKeys lists failure names in the order their validators were declared.
func (c *control) ErrorKeys() []string {
	if len(c.errorKeys) == 0 {
		return nil
	}
	return append([]string(nil), c.errorKeys...)
}

func (c *control) HasError(key string) bool { return c.errors[key] }

func (c *control) Touched() bool { return c.touched }

func (c *control) Dirty() bool { return c.dirty }

func (c *control) Pristine() bool { return !c.dirty }

func (c *control) Parent() Control { return c.parent }

// Root walks parents until it reaches a control without one.
func (c *control) Root() Control {
	var current Control = c.self
	for current.Parent() != nil {
		current = current.Parent()
	}
	return current
}

// Get resolves a dotted path relative to the control. Array entries are
// addressed by index, for example "addresses.0.street1". Missing segments
// yield nil.
func (c *control) Get(path string) Control {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	var current Control = c.self
	for _, segment := range strings.Split(path, ".") {
		if current == nil {
			return nil
		}
		current = current.child(segment)
	}
	return current
}

func (c *control) Validators() []Validator {
	return append([]Validator(nil), c.validators...)
}

// SetValidators replaces the validator list. Validity is not recomputed until
// UpdateValueAndValidity runs.
func (c *control) SetValidators(validators ...Validator) {
	c.validators = compactValidators(validators)
}

func (c *control) AddValidators(validators ...Validator) {
	c.validators = append(c.validators, compactValidators(validators)...)
}

func (c *control) ClearValidators() {
	c.validators = nil
}

// UpdateValueAndValidity reruns the control's validators, recomputes its
// status and propagates to every ancestor unless OnlySelf is given.
func (c *control) UpdateValueAndValidity(opts ...UpdateOption) {
	c.update(resolveOptions(opts))
}

func (c *control) update(o updateOptions) {
	c.pending = false
	c.runValidators()
	c.status = c.calculateStatus()

	if o.emitEvent {
		c.emit(c.self.Value())
	}
	if !o.onlySelf && c.parent != nil {
		c.parent.base().update(o)
	}
}

func (c *control) runValidators() {
	c.errors = nil
	c.errorKeys = nil
	for _, validator := range c.validators {
		result := validator.Validate(c.self)
		for _, key := range result.Keys() {
			if c.errors == nil {
				c.errors = make(Errors)
			}
			if c.errors[key] {
				continue
			}
			c.errors[key] = true
			c.errorKeys = append(c.errorKeys, key)
		}
	}
}

func (c *control) calculateStatus() Status {
	if len(c.errors) > 0 {
		return StatusInvalid
	}
	pending := c.pending
	for _, ch := range c.self.children() {
		switch ch.Status() {
		case StatusInvalid:
			return StatusInvalid
		case StatusPending:
			pending = true
		}
	}
	if pending {
		return StatusPending
	}
	return StatusValid
}

// refreshStatus recomputes status without rerunning validators.
func (c *control) refreshStatus() {
	c.status = c.calculateStatus()
	if c.parent != nil {
		c.parent.base().refreshStatus()
	}
}

func (c *control) MarkAsTouched() {
	c.touched = true
	if c.parent != nil {
		c.parent.MarkAsTouched()
	}
}

// MarkAsUntouched clears the flag on the control and its descendants, then
// recomputes ancestors from their remaining children.
func (c *control) MarkAsUntouched() {
	c.touched = false
	for _, ch := range c.self.children() {
		ch.MarkAsUntouched()
	}
	if c.parent != nil {
		c.parent.base().syncTouched()
	}
}

func (c *control) syncTouched() {
	touched := false
	for _, ch := range c.self.children() {
		if ch.Touched() {
			touched = true
			break
		}
	}
	c.touched = touched
	if c.parent != nil {
		c.parent.base().syncTouched()
	}
}

func (c *control) MarkAsDirty() {
	c.markDirty(false)
}

func (c *control) markDirty(onlySelf bool) {
	c.dirty = true
	if !onlySelf && c.parent != nil {
		c.parent.base().markDirty(false)
	}
}

// MarkAsPristine clears the dirty flag on the control and its descendants.
func (c *control) MarkAsPristine() {
	c.dirty = false
	for _, ch := range c.self.children() {
		ch.MarkAsPristine()
	}
	if c.parent != nil {
		c.parent.base().syncPristine()
	}
}

func (c *control) syncPristine() {
	dirty := false
	for _, ch := range c.self.children() {
		if ch.Dirty() {
			dirty = true
			break
		}
	}
	c.dirty = dirty
	if c.parent != nil {
		c.parent.base().syncPristine()
	}
}

// MarkAsPending flags an out-of-band check in progress. The next
// UpdateValueAndValidity clears it.
func (c *control) MarkAsPending() {
	c.pending = true
	c.refreshStatus()
}

// Dispose drops every subscription on the control and its descendants and
// detaches it from its parent.
func (c *control) Dispose() {
	for _, ch := range c.self.children() {
		ch.Dispose()
	}
	for _, sub := range c.subs {
		sub.closed = true
	}
	c.subs = nil
	c.parent = nil
}

func (c *control) attach(parent Control) error {
	if c.parent != nil && c.parent != parent {
		return ErrAlreadyOwned
	}
	c.parent = parent
	return nil
}

func compactValidators(in []Validator) []Validator {
	if len(in) == 0 {
		return nil
	}
	out := make([]Validator, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func parseIndex(segment string) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
