package customer

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-formstate/pkg/debounce"
	"github.com/goliatone/go-formstate/pkg/pricing"
	"github.com/goliatone/go-formstate/pkg/render"
)

// Hooks are optional callbacks invoked after session events. OnChange,
// OnMessage and OnSave run outside the session lock. OnBind runs while the
// tree is being updated and must not call back into the session.
type Hooks struct {
	// OnChange fires after a value is written through the session.
	OnChange func(path string, value any)
	// OnMessage fires each time the debounced email message is refreshed.
	OnMessage func(message string)
	// OnSave fires after Save computed a submission.
	OnSave func(Submission)
	// OnBind fires when the phone binder re-applies its rule.
	OnBind func(name string, attached int)
}

// Option configures a Session.
type Option func(*config)

type config struct {
	clock    debounce.Clock
	window   time.Duration
	logger   *slog.Logger
	messages render.MessageTable
	prices   pricing.PriceTable
	hooks    []Hooks
}

func defaultConfig() config {
	return config{
		window:   debounce.DefaultWindow,
		messages: render.EmailMessages(),
		prices:   pricing.DefaultPrices(),
	}
}

// WithClock sets the clock driving the email debounce. Tests pass a
// debounce.ManualClock.
func WithClock(clock debounce.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithDebounce sets the quiet window before the email message refreshes.
func WithDebounce(window time.Duration) Option {
	return func(c *config) {
		if window > 0 {
			c.window = window
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMessages replaces the email message table.
func WithMessages(table render.MessageTable) Option {
	return func(c *config) {
		if table != nil {
			c.messages = table
		}
	}
}

// WithPrices overrides entries of the default price table.
func WithPrices(table pricing.PriceTable) Option {
	return func(c *config) {
		c.prices = c.prices.Merge(table)
	}
}

// WithHooks registers callbacks. It may be given more than once; hooks run in
// registration order.
func WithHooks(hooks Hooks) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, hooks)
	}
}
