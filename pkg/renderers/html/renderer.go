// Package html renders a form snapshot as an HTML form using pongo2
// templates. Fieldsets follow groups and arrays, messages come from
// render.RenderOptions, and theme tokens come from go-theme.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstate/pkg/render"
	rendertemplate "github.com/goliatone/go-formstate/pkg/render/template"
	"github.com/goliatone/go-formstate/pkg/render/template/pongo"
	"github.com/goliatone/go-formstate/pkg/visibility"
	"github.com/goliatone/go-formstate/pkg/visibility/expr"
)

const (
	templateName = "form"
	idPrefix     = "fs-"
)

// Option customises the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	inputTypes       map[string]string
	choices          map[string][]string
	help             map[string]string
	rules            visibility.Rules
	evaluator        visibility.Evaluator
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// form.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a go-theme selection: name, variant, CSS variables and
// the stylesheet resolved through AssetURL.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithInputType forces the input type of the control at path, or of every
// control with that name.
func WithInputType(pathOrName, inputType string) Option {
	return func(cfg *config) {
		if cfg.inputTypes == nil {
			cfg.inputTypes = make(map[string]string)
		}
		cfg.inputTypes[strings.TrimSpace(pathOrName)] = inputType
	}
}

// WithChoices renders the control at path, or every control with that name,
// as a select with the given values.
func WithChoices(pathOrName string, values ...string) Option {
	return func(cfg *config) {
		if cfg.choices == nil {
			cfg.choices = make(map[string][]string)
		}
		cfg.choices[strings.TrimSpace(pathOrName)] = values
	}
}

// WithHelp adds help markup under the control at path, or every control with
// that name. The markup is cleaned with render.SanitizeMarkup and rendered
// unescaped.
func WithHelp(pathOrName, markup string) Option {
	return func(cfg *config) {
		if cfg.help == nil {
			cfg.help = make(map[string]string)
		}
		cfg.help[strings.TrimSpace(pathOrName)] = render.SanitizeMarkup(markup)
	}
}

// WithVisibility leaves out controls whose rule is false for the rendered
// values. A nil evaluator uses the expr package.
func WithVisibility(rules visibility.Rules, eval visibility.Evaluator) Option {
	return func(cfg *config) {
		cfg.rules = rules
		cfg.evaluator = eval
	}
}

// Renderer implements render.Renderer for HTML output.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	theme      rendererTheme
	inputTypes map[string]string
	choices    map[string][]string
	help       map[string]string
	rules      visibility.Rules
	evaluator  visibility.Evaluator
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithFilter("humanize", filterHumanize),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	if cfg.evaluator == nil {
		cfg.evaluator = expr.New()
	}

	return &Renderer{
		templates:  renderer,
		theme:      buildThemeContext(cfg.theme),
		inputTypes: cfg.inputTypes,
		choices:    cfg.choices,
		help:       cfg.help,
		rules:      cfg.rules,
		evaluator:  cfg.evaluator,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes view as an HTML form.
func (r *Renderer) Render(ctx context.Context, view render.NodeView, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	feedback := options.Feedback(view)
	hiddenPaths, err := r.rules.Hidden(r.evaluator, view)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	view = render.ApplySubset(visibility.Prune(view, hiddenPaths), options.Only)

	b := rowBuilder{
		feedback:   feedback,
		showAll:    options.ShowAll,
		inputTypes: r.inputTypes,
		choices:    r.choices,
		help:       r.help,
	}
	for _, child := range view.Children {
		b.walk(child, "")
	}

	hidden := make([]map[string]string, 0, len(options.Hidden))
	for _, field := range render.SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]string{"name": field.Name, "value": field.Value})
	}

	result, err := r.templates.RenderTemplate(templateName, map[string]any{
		"title":         options.Title,
		"status":        string(view.Status),
		"theme":         r.theme,
		"hidden_fields": hidden,
		"form_errors":   feedback.Form,
		"rows":          b.rows,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func filterHumanize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(render.Humanize(in.String())), nil
}
