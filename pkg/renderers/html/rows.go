package html

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
)

// row is one line of template output. Containers produce an open and a close
// row around their children so the template never recurses.
type row struct {
	Open      bool     `json:"open,omitempty"`
	Close     bool     `json:"close,omitempty"`
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Path      string   `json:"path,omitempty"`
	Label     string   `json:"label,omitempty"`
	Kind      string   `json:"kind,omitempty"`
	InputType string   `json:"input_type,omitempty"`
	Value     string   `json:"value,omitempty"`
	Checked   bool     `json:"checked,omitempty"`
	Invalid   bool     `json:"invalid,omitempty"`
	Messages  []string `json:"messages,omitempty"`
	Help      string   `json:"help,omitempty"`
	Choices   []choice `json:"choices,omitempty"`
}

type choice struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
}

type rowBuilder struct {
	feedback   render.ErrorMapping
	showAll    bool
	inputTypes map[string]string
	choices    map[string][]string
	help       map[string]string
	rows       []row
}

func (b *rowBuilder) walk(node render.NodeView, parentName string) {
	visible := b.showAll || node.Touched || node.Dirty
	base := row{
		ID:       controlID(node.Path),
		Name:     node.Name,
		Path:     node.Path,
		Kind:     string(node.Kind),
		Invalid:  visible && node.Status == form.StatusInvalid,
		Messages: b.feedback.Fields[node.Path],
	}

	if node.Kind == form.KindField {
		b.rows = append(b.rows, b.field(base, node))
		return
	}

	// Array entries are named by index; label them after the array instead.
	if index, err := strconv.Atoi(node.Name); err == nil && parentName != "" {
		base.Label = fmt.Sprintf("%s %d", render.Humanize(singular(parentName)), index+1)
	}
	base.Open = true
	b.rows = append(b.rows, base)
	for _, child := range node.Children {
		b.walk(child, node.Name)
	}
	b.rows = append(b.rows, row{Close: true})
}

func (b *rowBuilder) field(base row, node render.NodeView) row {
	base.Help = b.lookupHelp(node)
	if values, ok := b.lookupChoices(node); ok {
		base.InputType = "select"
		current := valueString(node.Value)
		for _, value := range values {
			base.Choices = append(base.Choices, choice{Value: value, Selected: value == current})
		}
		return base
	}

	base.InputType = b.inputType(node)
	if base.InputType == "checkbox" {
		base.Checked, _ = node.Value.(bool)
		return base
	}
	base.Value = valueString(node.Value)
	return base
}

func (b *rowBuilder) lookupChoices(node render.NodeView) ([]string, bool) {
	if values, ok := b.choices[node.Path]; ok {
		return values, true
	}
	values, ok := b.choices[node.Name]
	return values, ok
}

func (b *rowBuilder) lookupHelp(node render.NodeView) string {
	if markup, ok := b.help[node.Path]; ok {
		return markup
	}
	return b.help[node.Name]
}

func (b *rowBuilder) inputType(node render.NodeView) string {
	if t, ok := b.inputTypes[node.Path]; ok && t != "" {
		return t
	}
	if t, ok := b.inputTypes[node.Name]; ok && t != "" {
		return t
	}
	name := strings.ToLower(node.Name)
	switch node.Value.(type) {
	case bool:
		return "checkbox"
	case int, int64, float64:
		return "number"
	}
	switch {
	case strings.Contains(name, "email"):
		return "email"
	case strings.Contains(name, "phone"):
		return "tel"
	default:
		return "text"
	}
}

func controlID(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return idPrefix + strings.ReplaceAll(path, ".", "-")
}

func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func singular(name string) string {
	switch {
	case strings.HasSuffix(name, "sses"):
		return strings.TrimSuffix(name, "es")
	case strings.HasSuffix(name, "s"):
		return strings.TrimSuffix(name, "s")
	default:
		return name
	}
}
