package docview

import "context"

// Renderer converts markdown to HTML. Implementations must be pure with
// respect to the cache: rendering the same markdown twice yields the same
// HTML, and rendering never invalidates cache entries.
type Renderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}
