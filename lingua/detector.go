// Package lingua detects the language of article text with
// pemistahl/lingua-go.
package lingua

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/readable"
	"github.com/pemistahl/lingua-go"
)

// DefaultMinTextLength is the shortest text a language is guessed for.
const DefaultMinTextLength = 20

// maxSample bounds the number of characters inspected.
const maxSample = 2000

// Ensure Detector implements readable.LanguageDetector at compile time.
var _ readable.LanguageDetector = (*Detector)(nil)

// Detector reports ISO 639-1 language codes.
type Detector struct {
	detector      lingua.LanguageDetector
	minTextLength int
}

// Option configures a Detector.
type Option func(*detectorConfig)

type detectorConfig struct {
	languages     []lingua.Language
	minDistance   float64
	minTextLength int
}

// WithLanguages restricts detection to languages. At least two are needed;
// fewer leaves all languages enabled.
func WithLanguages(languages ...lingua.Language) Option {
	return func(c *detectorConfig) {
		c.languages = languages
	}
}

// WithMinimumRelativeDistance makes the detector abstain unless the best
// language wins by at least d.
func WithMinimumRelativeDistance(d float64) Option {
	return func(c *detectorConfig) {
		c.minDistance = d
	}
}

// WithMinTextLength sets the shortest text a language is guessed for.
func WithMinTextLength(n int) Option {
	return func(c *detectorConfig) {
		c.minTextLength = n
	}
}

// NewDetector builds a Detector. Language models load lazily on first use.
func NewDetector(opts ...Option) *Detector {
	cfg := detectorConfig{minTextLength: DefaultMinTextLength}
	for _, opt := range opts {
		opt(&cfg)
	}

	var builder lingua.LanguageDetectorBuilder
	if len(cfg.languages) >= 2 {
		builder = lingua.NewLanguageDetectorBuilder().FromLanguages(cfg.languages...)
	} else {
		builder = lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	}
	if cfg.minDistance > 0 {
		builder = builder.WithMinimumRelativeDistance(cfg.minDistance)
	}

	return &Detector{
		detector:      builder.Build(),
		minTextLength: cfg.minTextLength,
	}
}

// DetectLanguage returns the lower-case ISO 639-1 code of the language of
// text. It reports false for short text or when no language is reliable.
func (d *Detector) DetectLanguage(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < d.minTextLength {
		return "", false
	}
	if len(text) > maxSample {
		cut := maxSample
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(language.IsoCode639_1().String()), true
}
