package mock

import "github.com/fwojciec/readable"

var (
	_ readable.Converter    = (*Converter)(nil)
	_ readable.TextRenderer = (*TextRenderer)(nil)
)

// Converter is a mock implementation of readable.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// TextRenderer is a mock implementation of readable.TextRenderer.
type TextRenderer struct {
	RenderTextFn func(html string) (string, error)
}

func (r *TextRenderer) RenderText(html string) (string, error) {
	return r.RenderTextFn(html)
}
