package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Hello, world!</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Hello, world!")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<h2>Subtitle</h2><h3>Section</h3>`)

		require.NoError(t, err)
		assert.Contains(t, md, "## Subtitle")
		assert.Contains(t, md, "### Section")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Visit <a href="https://example.com">Example</a> for more info.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[Example](https://example.com)")
	})

	t.Run("resolves relative links against the domain", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://example.com"))
		md, err := conv.Convert(`<p>Read the <a href="/about">about page</a>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[about page](https://example.com/about)")
	})

	t.Run("converts lists and emphasis", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<ul><li>First</li><li>Second</li></ul><p><strong>bold</strong> and <em>italic</em></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
		assert.Contains(t, md, "**bold**")
		assert.Contains(t, md, "*italic*")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<table><tr><th>Port</th><th>Tide</th></tr><tr><td>North</td><td>High</td></tr></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "| Port")
		assert.Contains(t, md, "North")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("   ")

		require.Error(t, err)
		assert.Equal(t, readable.EINVALID, readable.ErrorCode(err))
	})
}

func TestConverter_ConvertArticle(t *testing.T) {
	t.Parallel()

	t.Run("renders title byline and content", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.ConvertArticle(&readable.Article{
			Title:   "Harbour reopens",
			Byline:  "Mara Quinn",
			Content: `<div id="readability-page-1" class="page"><p>Boats returned.</p></div>`,
		})

		require.NoError(t, err)
		assert.Equal(t, "# Harbour reopens\n\n*Mara Quinn*\n\nBoats returned.\n", md)
	})

	t.Run("omits missing fields", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.ConvertArticle(&readable.Article{Content: `<p>Only content.</p>`})

		require.NoError(t, err)
		assert.Equal(t, "Only content.\n", md)
	})

	t.Run("fails on empty content", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.ConvertArticle(&readable.Article{Title: "Empty"})

		require.Error(t, err)
	})
}
