package readable

// Extractor extracts the main content of an HTML page, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the article.
	// pageURL is optional and used to resolve relative links when no
	// base URI is configured.
	Extract(rawHTML, pageURL string) (*Article, error)
}

// ReaderableChecker reports whether a page is likely to contain an article
// without running the full extraction.
type ReaderableChecker interface {
	IsProbablyReaderable(rawHTML string) bool
}

// LanguageDetector guesses the language of a text.
type LanguageDetector interface {
	// DetectLanguage returns the ISO 639-1 code of the language of text.
	// The boolean is false when the language cannot be determined reliably.
	DetectLanguage(text string) (string, bool)
}
