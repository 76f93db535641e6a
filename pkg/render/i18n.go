package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator is configured.
var ErrMissingTranslator = errors.New("render: translator is not configured")

// ErrUnknownMessage is returned by MessageTable when a key has no text.
var ErrUnknownMessage = errors.New("render: unknown message key")

// Translator resolves a message key to display text.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to display when a key cannot be
// resolved. Returning "" drops the message.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// DropMissing is the default MissingTranslationHandler: unresolved keys
// produce no message.
func DropMissing(string, string, []any, error) string { return "" }

// MessageTable maps failure keys to display text. It ignores the locale.
type MessageTable map[string]string

// Translate implements Translator.
func (t MessageTable) Translate(_ string, key string, _ ...any) (string, error) {
	if text, ok := t[key]; ok && strings.TrimSpace(text) != "" {
		return text, nil
	}
	return "", ErrUnknownMessage
}

// Merge returns a copy of t with overrides applied. Empty override values
// remove the key.
func (t MessageTable) Merge(overrides map[string]string) MessageTable {
	out := make(MessageTable, len(t)+len(overrides))
	for key, text := range t {
		out[key] = text
	}
	for key, text := range overrides {
		if strings.TrimSpace(text) == "" {
			delete(out, key)
			continue
		}
		out[key] = text
	}
	return out
}

// EmailMessages is the message table used for the email address field.
func EmailMessages() MessageTable {
	return MessageTable{
		"required": "Please enter your email address.",
		"email":    "Please enter a valid email address.",
	}
}

// DefaultMessages covers every stock validator key with generic text.
func DefaultMessages() MessageTable {
	return MessageTable{
		"required":  "This field is required.",
		"email":     "Please enter a valid email address.",
		"match":     "The confirmation does not match.",
		"range":     "Please choose a value in the allowed range.",
		"minlength": "The value is too short.",
		"maxlength": "The value is too long.",
		"pattern":   "The value has an unexpected format.",
	}
}

// Messages turns failure keys into text, in key order. Keys the translator
// cannot resolve are skipped. Duplicates are removed.
func Messages(keys []string, t Translator) []string {
	return MessagesFor("", keys, t, nil)
}

// MessagesFor is Messages with an explicit locale and missing handler.
func MessagesFor(locale string, keys []string, t Translator, onMissing MissingTranslationHandler) []string {
	if len(keys) == 0 {
		return nil
	}
	if onMissing == nil {
		onMissing = DropMissing
	}
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, translate(locale, key, t, onMissing))
	}
	return normalizeMessages(out)
}

func translate(locale, key string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if t == nil {
		return onMissing(locale, key, nil, ErrMissingTranslator)
	}
	text, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(text) != "" {
		return text
	}
	return onMissing(locale, key, nil, err)
}
