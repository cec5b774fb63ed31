// Package readable extracts the primary readable content of an HTML page:
// the article body together with its title, byline, excerpt, site name,
// language, text direction and publication date.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. The extraction pipeline lives in extract/, the
// arena-backed DOM in dom/, and adapters live in subdirectories named after
// their primary dependency (e.g., htmltomarkdown/, lingua/, trafilatura/).
package readable
