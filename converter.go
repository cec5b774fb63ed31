package readable

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., the Content of an Article).
	// Returns the Markdown representation of the content.
	Convert(html string) (string, error)
}

// TextRenderer renders HTML as plain text.
type TextRenderer interface {
	// RenderText returns the text of the HTML fragment with one blank line
	// between block elements.
	RenderText(html string) (string, error)
}
