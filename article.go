package readable

// Article is the result of a successful extraction. It is never mutated
// after construction and may be shared between goroutines.
type Article struct {
	// Title is the article headline, resolved from JSON-LD, meta tags,
	// the document <title> or the first <h1>, in that order.
	Title string `json:"title,omitempty"`

	// Content is the cleaned article body as an HTML fragment.
	Content string `json:"content"`

	// TextContent is the whitespace-normalized text of Content.
	TextContent string `json:"textContent"`

	// Length is the number of characters (runes) in TextContent.
	Length int `json:"length"`

	Byline        string `json:"byline,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	SiteName      string `json:"siteName,omitempty"`
	Lang          string `json:"lang,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`

	// Dir is the text direction ("ltr", "rtl" or "auto") declared on or
	// above the article content.
	Dir string `json:"dir,omitempty"`
}
