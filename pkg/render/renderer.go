package render

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/form"
)

// NodeView is the read model renderers consume.
type NodeView = form.NodeSnapshot

// Renderer converts a form snapshot into a byte representation (HTML, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, snap NodeView, options RenderOptions) ([]byte, error)
}
