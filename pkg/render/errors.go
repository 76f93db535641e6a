package render

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
)

// ErrorMapping splits validation feedback into field-level and form-level
// messages. Field keys are the dotted paths used by form.Control.Get.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapOption tunes MapErrors.
type MapOption func(*mapConfig)

type mapConfig struct {
	locale         string
	onMissing      MissingTranslationHandler
	onlyInteracted bool
}

// OnlyInteracted keeps messages for nodes the user touched or edited, which
// is how forms usually avoid shouting at a blank page.
func OnlyInteracted() MapOption {
	return func(c *mapConfig) { c.onlyInteracted = true }
}

// WithLocale sets the locale handed to the translator.
func WithLocale(locale string) MapOption {
	return func(c *mapConfig) { c.locale = strings.TrimSpace(locale) }
}

// WithMissingHandler overrides DropMissing.
func WithMissingHandler(fn MissingTranslationHandler) MapOption {
	return func(c *mapConfig) {
		if fn != nil {
			c.onMissing = fn
		}
	}
}

// MapErrors walks a snapshot and translates every node's failure keys. The
// root node's failures become form-level messages.
func MapErrors(snap form.NodeSnapshot, t Translator, opts ...MapOption) ErrorMapping {
	cfg := mapConfig{onMissing: DropMissing}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	mapping := ErrorMapping{Fields: make(map[string][]string)}
	var visit func(node form.NodeSnapshot)
	visit = func(node form.NodeSnapshot) {
		if len(node.Errors) > 0 && (!cfg.onlyInteracted || node.Touched || node.Dirty) {
			messages := MessagesFor(cfg.locale, node.Errors, t, cfg.onMissing)
			if node.Path == "" {
				mapping.Form = append(mapping.Form, messages...)
			} else if len(messages) > 0 {
				mapping.Fields[node.Path] = messages
			}
		}
		for _, child := range node.Children {
			visit(child)
		}
	}
	visit(snap)

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// Merge folds extra field feedback into the mapping, normalising each list.
func (m ErrorMapping) Merge(fields map[string][]string, formLevel ...string) ErrorMapping {
	out := ErrorMapping{Form: MergeFormErrors(m.Form, formLevel...)}
	if len(m.Fields) == 0 && len(fields) == 0 {
		return out
	}
	out.Fields = make(map[string][]string, len(m.Fields)+len(fields))
	for path, messages := range m.Fields {
		out.Fields[path] = append([]string(nil), messages...)
	}
	for path, messages := range fields {
		path = strings.TrimSpace(path)
		if path == "" {
			out.Form = MergeFormErrors(out.Form, messages...)
			continue
		}
		if merged := normalizeMessages(append(out.Fields[path], messages...)); len(merged) > 0 {
			out.Fields[path] = merged
		}
	}
	if len(out.Fields) == 0 {
		out.Fields = nil
	}
	return out
}

// MergeFormErrors concatenates and normalises form-level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
