package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

// maxFixPasses bounds how often Fill revisits invalid controls after the
// first walk.
const maxFixPasses = 5

// Target is the live form Fill writes answers into.
type Target interface {
	Snapshot() form.NodeSnapshot
	SetValue(path string, v any) error
	Touch(path string) error
	Append(path string) (int, error)
}

type flagGroup struct {
	message string
	paths   []string
}

// Renderer fills forms interactively and serializes snapshots for terminal
// output.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	translator   render.Translator
	choices      map[string][]string
	numeric      map[string]bool
	flagGroups   []flagGroup
	skip         func(path string) bool
	rules        visibility.Rules
	evaluator    visibility.Evaluator
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       NewSurveyDriver(os.Stdout),
		outputFormat: OutputFormatJSON,
		translator:   render.DefaultMessages(),
		choices:      map[string][]string{},
		numeric:      map[string]bool{},
		evaluator:    expr.New(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	case OutputFormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Render serializes the values held by snap. Only limits the output to the
// listed paths.
func (r *Renderer) Render(ctx context.Context, snap render.NodeView, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap = render.ApplySubset(snap, opts.Only)

	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		out := url.Values{}
		flatten(snap, out)
		return []byte(out.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		if opts.Title != "" {
			fmt.Fprintf(&b, "# %s\n", opts.Title)
		}
		writePretty(&b, snap)
		return []byte(b.String()), nil
	case OutputFormatYAML:
		return yaml.Marshal(snap.Values())
	default:
		return json.Marshal(snap.Values())
	}
}

// Fill walks target in declaration order and prompts for every field. A field
// is asked again until its validators pass. Groups that still fail as a whole
// have their fields asked again. Arrays offer to add entries. A final pass
// revisits controls that became invalid because of later answers.
func (r *Renderer) Fill(ctx context.Context, target Target) error {
	if target == nil {
		return ErrNoTarget
	}
	f := &filler{Renderer: r, target: target, asked: map[string]bool{}}
	if _, err := r.rules.Hidden(r.evaluator, target.Snapshot()); err != nil {
		return err
	}

	if err := f.node(ctx, target.Snapshot()); err != nil {
		return err
	}

	for pass := 0; pass < maxFixPasses; pass++ {
		snap := target.Snapshot()
		if snap.Status != form.StatusInvalid {
			return nil
		}
		if err := f.fix(ctx, snap); err != nil {
			return err
		}
	}
	if target.Snapshot().Status == form.StatusInvalid {
		return ErrIncomplete
	}
	return nil
}

type filler struct {
	*Renderer
	target Target
	asked  map[string]bool
}

func (f *filler) node(ctx context.Context, node form.NodeSnapshot) error {
	switch node.Kind {
	case form.KindField:
		if group, ok := f.groupFor(node.Path); ok {
			return f.flags(ctx, group)
		}
		if f.skipped(node.Path) {
			return nil
		}
		return f.field(ctx, node)
	case form.KindArray:
		return f.array(ctx, node)
	default:
		return f.group(ctx, node)
	}
}

func (f *filler) group(ctx context.Context, node form.NodeSnapshot) error {
	for _, child := range node.Children {
		if err := f.node(ctx, child); err != nil {
			return err
		}
	}
	if node.Path == "" {
		return nil
	}
	return f.settle(ctx, node.Path)
}

// settle asks the fields of the group at path again while the group itself
// reports errors.
func (f *filler) settle(ctx context.Context, path string) error {
	for {
		current, ok := f.find(path)
		if !ok || len(current.Errors) == 0 {
			return nil
		}
		if err := f.explain(ctx, current); err != nil {
			return err
		}
		for _, child := range current.Children {
			if child.Kind != form.KindField || f.skipped(child.Path) {
				continue
			}
			if err := f.field(ctx, child); err != nil {
				return err
			}
		}
	}
}

func (f *filler) array(ctx context.Context, node form.NodeSnapshot) error {
	for _, entry := range node.Children {
		if err := f.node(ctx, entry); err != nil {
			return err
		}
	}

	label := render.Humanize(singular(node.Name))
	for {
		more, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: f.prompt(fmt.Sprintf("Add another %s?", label)),
			Default: false,
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		index, err := f.target.Append(node.Path)
		if err != nil {
			return err
		}
		entry, ok := f.find(joinPath(node.Path, strconv.Itoa(index)))
		if !ok {
			return fmt.Errorf("tui: entry %d of %s not found", index, node.Path)
		}
		if err := f.node(ctx, entry); err != nil {
			return err
		}
	}
}

func (f *filler) field(ctx context.Context, node form.NodeSnapshot) error {
	for {
		value, retry, err := f.ask(ctx, node)
		if err != nil {
			return err
		}
		if retry {
			continue
		}
		if err := f.target.SetValue(node.Path, value); err != nil {
			return err
		}
		if err := f.target.Touch(node.Path); err != nil {
			return err
		}

		current, ok := f.find(node.Path)
		if !ok || current.Status != form.StatusInvalid {
			return nil
		}
		if err := f.explain(ctx, current); err != nil {
			return err
		}
		node = current
	}
}

// ask prompts once. retry reports an answer that could not be converted.
func (f *filler) ask(ctx context.Context, node form.NodeSnapshot) (any, bool, error) {
	message := f.prompt(render.Humanize(node.Name))

	if options, ok := f.choicesFor(node); ok {
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, valueString(node.Value)),
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(options) {
			return nil, true, f.info(ctx, f.theme.ErrorPrefix+"Choose one of the listed options.")
		}
		return options[idx], false, nil
	}

	if current, ok := node.Value.(bool); ok {
		answer, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current})
		return answer, false, err
	}

	answer, err := f.driver.Input(ctx, InputConfig{Message: message, Default: valueString(node.Value)})
	if err != nil {
		return nil, false, err
	}
	answer = strings.TrimSpace(answer)
	if !f.isNumeric(node) {
		return answer, false, nil
	}
	if answer == "" {
		return nil, false, nil
	}
	number, err := parseNumber(answer)
	if err != nil {
		return nil, true, f.info(ctx, f.theme.ErrorPrefix+"Enter a number.")
	}
	return number, false, nil
}

func (f *filler) flags(ctx context.Context, group flagGroup) error {
	if f.asked[group.message] {
		return nil
	}
	f.asked[group.message] = true

	options := make([]string, len(group.paths))
	var defaults []int
	for i, path := range group.paths {
		options[i] = render.Humanize(lastSegment(path))
		if node, ok := f.find(path); ok {
			if on, _ := node.Value.(bool); on {
				defaults = append(defaults, i)
			}
		}
	}

	indices, err := f.driver.MultiSelect(ctx, SelectConfig{
		Message:  f.prompt(group.message),
		Options:  options,
		Defaults: defaults,
	})
	if err != nil {
		return err
	}
	selected := make(map[int]bool, len(indices))
	for _, idx := range indices {
		selected[idx] = true
	}
	for i, path := range group.paths {
		if err := f.target.SetValue(path, selected[i]); err != nil {
			return err
		}
	}
	return nil
}

// fix prompts every invalid field and every field of a group that fails on
// its own.
func (f *filler) fix(ctx context.Context, node form.NodeSnapshot) error {
	if node.Status != form.StatusInvalid {
		return nil
	}
	if node.Kind == form.KindField {
		if f.skipped(node.Path) {
			return nil
		}
		if err := f.explain(ctx, node); err != nil {
			return err
		}
		return f.field(ctx, node)
	}
	for _, child := range node.Children {
		if err := f.fix(ctx, child); err != nil {
			return err
		}
	}
	if node.Kind == form.KindGroup && node.Path != "" {
		return f.settle(ctx, node.Path)
	}
	return nil
}

func (f *filler) explain(ctx context.Context, node form.NodeSnapshot) error {
	for _, msg := range render.Messages(node.Errors, f.translator) {
		if err := f.info(ctx, f.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return nil
}

func (f *filler) find(path string) (form.NodeSnapshot, bool) {
	return f.target.Snapshot().Find(path)
}

func (f *filler) groupFor(path string) (flagGroup, bool) {
	for _, group := range f.flagGroups {
		for _, p := range group.paths {
			if p == path {
				return group, true
			}
		}
	}
	return flagGroup{}, false
}

// skipped reports fields left out by WithSkip or hidden by a visibility rule.
// Rules are checked once in Fill, so evaluation errors cannot occur here.
func (f *filler) skipped(path string) bool {
	if f.skip != nil && f.skip(path) {
		return true
	}
	if _, ok := f.rules[path]; !ok {
		return false
	}
	visible, err := f.rules.Visible(f.evaluator, path, visibility.ContextFor(f.target.Snapshot()))
	return err == nil && !visible
}

func (r *Renderer) choicesFor(node form.NodeSnapshot) ([]string, bool) {
	if values, ok := r.choices[node.Path]; ok {
		return values, true
	}
	values, ok := r.choices[node.Name]
	return values, ok
}

func (r *Renderer) isNumeric(node form.NodeSnapshot) bool {
	return r.numeric[node.Path] || r.numeric[node.Name]
}

func (r *Renderer) prompt(msg string) string {
	return r.theme.PromptPrefix + msg
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func flatten(node form.NodeSnapshot, out url.Values) {
	if node.Kind == form.KindField {
		out.Set(node.Path, valueString(node.Value))
		return
	}
	for _, child := range node.Children {
		flatten(child, out)
	}
}

func writePretty(b *strings.Builder, node form.NodeSnapshot) {
	if node.Kind == form.KindField {
		if node.Path != "" {
			fmt.Fprintf(b, "%s=%s\n", node.Path, valueString(node.Value))
		}
		return
	}
	for _, child := range node.Children {
		writePretty(b, child)
	}
}

func parseNumber(raw string) (any, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	return strconv.ParseFloat(raw, 64)
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

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
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
