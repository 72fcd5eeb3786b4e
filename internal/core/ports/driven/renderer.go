package driven

// Renderer converts markdown into HTML.
// Rendering output feeds the entry hash, so a renderer change forces a
// rebuild of every entry.
type Renderer interface {
	// Render converts a markdown block into HTML.
	Render(markdown string) (string, error)

	// RenderInline converts markdown into HTML without a surrounding paragraph.
	RenderInline(markdown string) (string, error)
}
