package render

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownRenderer is returned when no renderer has the requested name.
	ErrUnknownRenderer = errors.New("render: unknown renderer")
	// ErrDuplicateRenderer is returned when a name is registered twice.
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
)

// Output is a rendered document and the media type it should be served as.
type Output struct {
	Body        []byte
	ContentType string
}

// Registry selects renderers by name. It is filled once during setup and
// read afterwards; it is not safe for concurrent registration.
type Registry struct {
	byName map[string]Renderer
}

// NewRegistry registers each renderer in order and stops at the first
// failure.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{byName: make(map[string]Renderer, len(renderers))}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds renderer under its trimmed Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}
	if _, taken := r.byName[name]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateRenderer, name)
	}
	r.byName[name] = renderer
	return nil
}

// Get returns the renderer registered as name.
func (r *Registry) Get(name string) (Renderer, error) {
	renderer, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownRenderer, name, strings.Join(r.List(), ", "))
	}
	return renderer, nil
}

// Render runs the renderer registered as name over view.
func (r *Registry) Render(ctx context.Context, name string, view NodeView, options RenderOptions) (Output, error) {
	renderer, err := r.Get(name)
	if err != nil {
		return Output{}, err
	}
	body, err := renderer.Render(ctx, view, options)
	if err != nil {
		return Output{}, fmt.Errorf("render: %s: %w", renderer.Name(), err)
	}
	return Output{Body: body, ContentType: renderer.ContentType()}, nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
