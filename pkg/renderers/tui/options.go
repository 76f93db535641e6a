package tui

import (
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// OutputFormat controls how values are serialized by Render.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML emits YAML documents.
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat accepts the names above; "" means JSON.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case "", OutputFormatJSON:
		return OutputFormatJSON, true
	case OutputFormatYAML, "yml":
		return OutputFormatYAML, true
	case OutputFormatFormURLEncoded:
		return OutputFormatFormURLEncoded, true
	case OutputFormatPrettyText:
		return OutputFormatPrettyText, true
	default:
		return "", false
	}
}

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithTranslator sets the table used to explain failures while filling.
func WithTranslator(t render.Translator) Option {
	return func(r *Renderer) {
		if t != nil {
			r.translator = t
		}
	}
}

// WithChoices prompts the control at path, or every control with that name,
// as a single select over values.
func WithChoices(pathOrName string, values ...string) Option {
	return func(r *Renderer) {
		r.choices[pathOrName] = values
	}
}

// WithNumeric converts answers for the named controls to numbers. Empty
// answers become nil.
func WithNumeric(pathsOrNames ...string) Option {
	return func(r *Renderer) {
		for _, name := range pathsOrNames {
			r.numeric[name] = true
		}
	}
}

// WithFlagGroup asks for the listed boolean paths with a single multi-select
// labelled message instead of one confirm each.
func WithFlagGroup(message string, paths ...string) Option {
	return func(r *Renderer) {
		r.flagGroups = append(r.flagGroups, flagGroup{message: message, paths: paths})
	}
}

// WithSkip leaves controls for which skip returns true unprompted.
func WithSkip(skip func(path string) bool) Option {
	return func(r *Renderer) {
		r.skip = skip
	}
}

// WithVisibility leaves fields unprompted while their rule is false for the
// current answers. A nil evaluator uses the expr package.
func WithVisibility(rules visibility.Rules, eval visibility.Evaluator) Option {
	return func(r *Renderer) {
		r.rules = rules
		if eval != nil {
			r.evaluator = eval
		}
	}
}
