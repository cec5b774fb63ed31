package extract_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/dom"
	"github.com/fwojciec/readable/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProbablyReaderable(t *testing.T) {
	t.Parallel()

	paragraphs := func(n, length int) string {
		var b strings.Builder
		for range n {
			b.WriteString("<p>" + prose(length) + "</p>")
		}
		return b.String()
	}

	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "long article",
			html: `<html><body><article>` + paragraphs(4, 400) + `</article></body></html>`,
			want: true,
		},
		{
			name: "short paragraphs",
			html: `<html><body>` + paragraphs(20, 100) + `</body></html>`,
			want: false,
		},
		{
			name: "hidden paragraphs",
			html: `<html><body>` + strings.Repeat(`<p style="display: none">`+prose(400)+`</p>`, 4) + `</body></html>`,
			want: false,
		},
		{
			name: "unlikely paragraphs",
			html: `<html><body>` + strings.Repeat(`<p class="sidebar">`+prose(400)+`</p>`, 4) + `</body></html>`,
			want: false,
		},
		{
			name: "paragraphs in list items",
			html: `<html><body><ul><li>` + paragraphs(4, 400) + `</li></ul></body></html>`,
			want: false,
		},
		{
			name: "div with line breaks",
			html: `<html><body><div>` + prose(400) + `<br>` + prose(400) + `</div><div>` + prose(400) + `<br></div></body></html>`,
			want: true,
		},
		{
			name: "link lists",
			html: `<html><body><p><a href="/x">` + prose(400) + `</a></p><p><a href="/y">` + prose(400) + `</a></p></body></html>`,
			want: false,
		},
		{
			name: "empty document",
			html: ``,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := dom.ParseString(tt.html)
			require.NoError(t, err)

			assert.Equal(t, tt.want, extract.IsProbablyReaderable(doc, readable.DefaultOptions()))
		})
	}
}

func TestIsProbablyReaderable_Options(t *testing.T) {
	t.Parallel()

	html := `<html><body><p>` + prose(200) + `</p><p>` + prose(200) + `</p></body></html>`

	t.Run("default options reject", func(t *testing.T) {
		t.Parallel()

		doc, err := dom.ParseString(html)
		require.NoError(t, err)

		assert.False(t, extract.IsProbablyReaderable(doc, readable.DefaultOptions()))
	})

	t.Run("lower thresholds accept", func(t *testing.T) {
		t.Parallel()

		doc, err := dom.ParseString(html)
		require.NoError(t, err)
		opts := readable.DefaultOptions()
		opts.Readerable.MinContentLength = 50
		opts.Readerable.MinScore = 10

		assert.True(t, extract.IsProbablyReaderable(doc, opts))
	})

	t.Run("total length accepts", func(t *testing.T) {
		t.Parallel()

		doc, err := dom.ParseString(html)
		require.NoError(t, err)
		opts := readable.DefaultOptions()
		opts.Readerable.MinTotalLength = 400

		assert.True(t, extract.IsProbablyReaderable(doc, opts))
	})

	t.Run("nil document", func(t *testing.T) {
		t.Parallel()

		assert.False(t, extract.IsProbablyReaderable(nil, readable.DefaultOptions()))
	})
}

func TestIsProbablyReaderable_IsPure(t *testing.T) {
	t.Parallel()

	html := `<html><body><article><p>` + prose(400) + `</p><p>` + prose(400) + `</p></article></body></html>`
	doc, err := dom.ParseString(html)
	require.NoError(t, err)
	before, err := doc.OuterHTML(doc.Root())
	require.NoError(t, err)

	first := extract.IsProbablyReaderable(doc, readable.DefaultOptions())
	second := extract.IsProbablyReaderable(doc, readable.DefaultOptions())

	after, err := doc.OuterHTML(doc.Root())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, before, after)
}

func TestParser_IsProbablyReaderable(t *testing.T) {
	t.Parallel()

	p := newParser(t, readable.DefaultOptions())

	assert.True(t, p.IsProbablyReaderable(`<html><body><article><p>`+prose(400)+`</p><p>`+prose(400)+`</p></article></body></html>`))
	assert.False(t, p.IsProbablyReaderable(`<html><body><p>Hi</p></body></html>`))
}
