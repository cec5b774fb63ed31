package mock

import "github.com/fwojciec/readable"

var (
	_ readable.Extractor         = (*Extractor)(nil)
	_ readable.ReaderableChecker = (*ReaderableChecker)(nil)
	_ readable.LanguageDetector  = (*LanguageDetector)(nil)
)

// Extractor is a mock implementation of readable.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML, pageURL string) (*readable.Article, error)
}

func (e *Extractor) Extract(rawHTML, pageURL string) (*readable.Article, error) {
	return e.ExtractFn(rawHTML, pageURL)
}

// ReaderableChecker is a mock implementation of readable.ReaderableChecker.
type ReaderableChecker struct {
	IsProbablyReaderableFn func(rawHTML string) bool
}

func (c *ReaderableChecker) IsProbablyReaderable(rawHTML string) bool {
	return c.IsProbablyReaderableFn(rawHTML)
}

// LanguageDetector is a mock implementation of readable.LanguageDetector.
type LanguageDetector struct {
	DetectLanguageFn func(text string) (string, bool)
}

func (d *LanguageDetector) DetectLanguage(text string) (string, bool) {
	return d.DetectLanguageFn(text)
}
