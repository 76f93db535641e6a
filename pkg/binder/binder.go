// Package binder keeps one control's validators in sync with another
// control's value. A Binder is a standing subscription: it applies its rule
// when created and again on every value change of the source until Close.
package binder

import (
	"io"
	"log/slog"
	"slices"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validators"
)

// Rule maps the source value to the validators the target should carry. An
// empty result clears the target's validators.
type Rule func(value any) []form.Validator

// RequiredWhen attaches validators.Required while the source value equals one
// of values.
func RequiredWhen(values ...string) Rule {
	return func(value any) []form.Validator {
		text, ok := value.(string)
		if !ok || !slices.Contains(values, text) {
			return nil
		}
		return []form.Validator{validators.Required}
	}
}

// Option customises a Binder.
type Option func(*Binder)

// WithLogger sets the logger used to trace rule applications.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithName labels the binder in log output.
func WithName(name string) Option {
	return func(b *Binder) {
		b.name = name
	}
}

// OnApply registers a hook invoked after each rule application with the
// number of validators attached.
func OnApply(fn func(name string, attached int)) Option {
	return func(b *Binder) {
		b.onApply = fn
	}
}

// Binder links a source control to a target control's validator list.
type Binder struct {
	source  form.Control
	target  form.Control
	rule    Rule
	sub     *form.Subscription
	applied int
	name    string
	logger  *slog.Logger
	onApply func(string, int)
}

// Bind subscribes to source and applies rule to target immediately and then
// after every source change. A nil source, target or rule yields a closed
// binder that does nothing.
func Bind(source, target form.Control, rule Rule, opts ...Option) *Binder {
	b := &Binder{
		source: source,
		target: target,
		rule:   rule,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if source == nil || target == nil || rule == nil {
		return b
	}
	b.apply(source.Value())
	b.sub = source.Subscribe(b.apply)
	return b
}

// Applied reports how many times the rule has run.
func (b *Binder) Applied() int { return b.applied }

// Active reports whether the binder still listens to its source.
func (b *Binder) Active() bool { return b.sub.Active() }

// Close stops listening. The target keeps the validators it has.
func (b *Binder) Close() {
	b.sub.Unsubscribe()
}

func (b *Binder) apply(value any) {
	attached := b.rule(value)
	if len(attached) == 0 {
		b.target.ClearValidators()
	} else {
		b.target.SetValidators(attached...)
	}
	b.target.UpdateValueAndValidity()
	b.applied++

	b.logger.Debug("binder applied",
		"binder", b.name,
		"source_value", value,
		"validators", len(attached),
		"target_status", b.target.Status(),
	)
	if b.onApply != nil {
		b.onApply(b.name, len(attached))
	}
}
