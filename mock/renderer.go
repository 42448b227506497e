package mock

import (
	"context"

	"github.com/AustinOrphan/docview"
)

var _ docview.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of docview.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, markdown string) (string, error)
}

func (r *Renderer) Render(ctx context.Context, markdown string) (string, error) {
	return r.RenderFn(ctx, markdown)
}
