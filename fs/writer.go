// Package fs stores extracted articles as Markdown files with YAML front
// matter.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/readable"
	"gopkg.in/yaml.v3"
)

// Ensure Writer implements readable.ArticleWriter at compile time.
var _ readable.ArticleWriter = (*Writer)(nil)

// FrontMatter is the YAML header of a written article.
type FrontMatter struct {
	Source        string `yaml:"source"`
	Title         string `yaml:"title,omitempty"`
	Byline        string `yaml:"byline,omitempty"`
	SiteName      string `yaml:"site_name,omitempty"`
	Lang          string `yaml:"lang,omitempty"`
	Dir           string `yaml:"dir,omitempty"`
	PublishedTime string `yaml:"published,omitempty"`
	Excerpt       string `yaml:"excerpt,omitempty"`
	Length        int    `yaml:"length"`
	Hash          string `yaml:"hash"`
}

// Writer writes articles as markdown files to a directory.
type Writer struct {
	baseDir   string
	converter readable.Converter
}

// NewWriter creates a Writer that converts article content with converter
// and writes below baseDir.
func NewWriter(baseDir string, converter readable.Converter) *Writer {
	return &Writer{baseDir: baseDir, converter: converter}
}

// WriteArticle writes article to the file derived from name and returns its
// path. URLs map to their path below baseDir; file names keep their base
// name with a .md extension. The file is replaced atomically.
func (w *Writer) WriteArticle(ctx context.Context, name string, article *readable.Article) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if article == nil {
		return "", readable.Errorf(readable.EINVALID, "article required")
	}

	relPath, err := ArticlePath(name)
	if err != nil {
		return "", err
	}
	body, err := w.converter.Convert(article.Content)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", name, err)
	}
	content, err := FormatArticle(name, article, body)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}
	if err := writeFileAtomic(fullPath, content); err != nil {
		return "", err
	}
	return fullPath, nil
}

// ArticlePath converts an input name to a relative file path.
// Example: https://example.com/news/harbour → example.com/news/harbour.md,
// pages/harbour.html → harbour.md. Dot segments are resolved within the
// host, so the result never leaves the output directory.
func ArticlePath(name string) (string, error) {
	if u, err := url.Parse(name); err == nil && u.IsAbs() && u.Host != "" {
		rel := urlPath(u)
		if !filepath.IsLocal(rel) {
			return "", readable.Errorf(readable.EINVALID, "cannot derive a file name from %q", name)
		}
		return rel, nil
	}

	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == ".." || base == string(filepath.Separator) || base == "-" {
		return "", readable.Errorf(readable.EINVALID, "cannot derive a file name from %q", name)
	}
	return base + ".md", nil
}

func urlPath(u *url.URL) string {
	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	switch {
	case p == "":
		p = "index.md"
	case strings.HasSuffix(u.Path, "/"):
		p += "/index.md"
	default:
		p = strings.TrimSuffix(p, path.Ext(p)) + ".md"
	}
	return filepath.Join(u.Hostname(), filepath.FromSlash(p))
}

// FormatArticle renders the front matter of article followed by the
// Markdown body.
func FormatArticle(source string, article *readable.Article, body string) (string, error) {
	fm := FrontMatter{
		Source:        source,
		Title:         article.Title,
		Byline:        article.Byline,
		SiteName:      article.SiteName,
		Lang:          article.Lang,
		Dir:           article.Dir,
		PublishedTime: article.PublishedTime,
		Excerpt:       article.Excerpt,
		Length:        article.Length,
		Hash:          ContentHash(article.TextContent),
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	b.WriteString("---\n\n")
	if article.Title != "" {
		b.WriteString("# " + article.Title + "\n\n")
	}
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	return b.String(), nil
}

// ParseFrontMatter reads the front matter of a file written by Writer.
func ParseFrontMatter(content string) (*FrontMatter, error) {
	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return nil, readable.Errorf(readable.EINVALID, "missing front matter")
	}
	header, _, ok := strings.Cut(rest, "\n---\n")
	if !ok {
		return nil, readable.Errorf(readable.EINVALID, "unterminated front matter")
	}
	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, readable.Errorf(readable.EINVALID, "invalid front matter: %s", err)
	}
	return &fm, nil
}

// ContentHash computes a hash of the content using xxhash.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
