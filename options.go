package readable

import (
	"net/url"
	"regexp"
)

// Default option values.
const (
	DefaultCharThreshold  = 500
	DefaultNTopCandidates = 5

	DefaultMinContentLength = 140
	DefaultMinScore         = 20
	DefaultMaxLinkDensity   = 0.5
)

// Options configures an extraction run.
type Options struct {
	// CharThreshold is the minimum number of characters the extracted text
	// must have for the extraction to succeed.
	CharThreshold int

	// Debug enables per-stage and per-candidate debug logging.
	Debug bool

	// KeepClasses retains every class attribute in the extracted content.
	// When false only ClassesToPreserve survive.
	KeepClasses bool

	// DisableJSONLD skips JSON-LD metadata.
	DisableJSONLD bool

	// MaxElemsToParse aborts extraction of documents with more elements.
	// Zero means unlimited.
	MaxElemsToParse int

	// NTopCandidates is the number of top candidates considered when
	// looking for a shared ancestor.
	NTopCandidates int

	// ClassesToPreserve lists classes kept when KeepClasses is false.
	// The "page" class is always preserved.
	ClassesToPreserve []string

	// BaseURI is the absolute URL relative links are resolved against.
	BaseURI string

	// AllowedVideoPattern overrides the pattern of embed URLs that survive
	// cleanup. Empty uses the built-in list of video hosts.
	AllowedVideoPattern string

	// LinkDensityModifier is added to the link density limits used when
	// cleaning the extracted content.
	LinkDensityModifier float64

	// Readerable configures the IsProbablyReaderable heuristic.
	Readerable ReaderableOptions
}

// ReaderableOptions configures the cheap readerable pre-check.
type ReaderableOptions struct {
	// MinContentLength is the minimum text length of a node to count.
	MinContentLength int

	// MinScore is the accumulated score needed to report true.
	MinScore float64

	// MaxLinkDensity excludes nodes with a higher link density.
	MaxLinkDensity float64

	// MinTotalLength reports true once the qualifying nodes together reach
	// this many characters. Zero disables the check.
	MinTotalLength int
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{
		CharThreshold:  DefaultCharThreshold,
		NTopCandidates: DefaultNTopCandidates,
		Readerable:     DefaultReaderableOptions(),
	}
}

// DefaultReaderableOptions returns the default readerable options.
func DefaultReaderableOptions() ReaderableOptions {
	return ReaderableOptions{
		MinContentLength: DefaultMinContentLength,
		MinScore:         DefaultMinScore,
		MaxLinkDensity:   DefaultMaxLinkDensity,
	}
}

// Validate returns an EINVALID error when the options are out of bounds.
func (o Options) Validate() error {
	if o.CharThreshold < 1 {
		return Errorf(EINVALID, "char threshold must be at least 1, got %d", o.CharThreshold)
	}
	if o.NTopCandidates < 1 {
		return Errorf(EINVALID, "top candidates must be at least 1, got %d", o.NTopCandidates)
	}
	if o.MaxElemsToParse < 0 {
		return Errorf(EINVALID, "max elements must not be negative, got %d", o.MaxElemsToParse)
	}
	if o.BaseURI != "" {
		u, err := url.Parse(o.BaseURI)
		if err != nil || !u.IsAbs() {
			return Errorf(EINVALID, "base URI must be an absolute URL: %q", o.BaseURI)
		}
	}
	if o.AllowedVideoPattern != "" {
		if _, err := regexp.Compile(o.AllowedVideoPattern); err != nil {
			return Errorf(EINVALID, "invalid video pattern: %s", err)
		}
	}
	if o.Readerable.MinContentLength < 0 || o.Readerable.MinTotalLength < 0 {
		return Errorf(EINVALID, "readerable lengths must not be negative")
	}
	if o.Readerable.MaxLinkDensity < 0 || o.Readerable.MaxLinkDensity > 1 {
		return Errorf(EINVALID, "readerable link density must be within [0, 1], got %g", o.Readerable.MaxLinkDensity)
	}
	return nil
}
