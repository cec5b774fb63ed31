package goquery_test

import (
	"testing"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRenderer_RenderText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "paragraphs",
			html: `<div><p>First   paragraph.</p>
<p>Second
paragraph.</p></div>`,
			want: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name: "headings and lists",
			html: `<h2>Tides</h2><ul><li>High at noon</li><li>Low at six</li></ul>`,
			want: "Tides\n\n- High at noon\n\n- Low at six",
		},
		{
			name: "preformatted text keeps line breaks",
			html: "<pre>\nline one\n  line two\n</pre>",
			want: "line one\n  line two",
		},
		{
			name: "nested blocks render once",
			html: `<blockquote><p>Quoted words.</p></blockquote>`,
			want: "Quoted words.",
		},
		{
			name: "text without blocks",
			html: `<div id="readability-page-1" class="page"><span>Just   text</span></div>`,
			want: "Just text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := goquery.NewTextRenderer()
			got, err := r.RenderText(tt.html)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextRenderer_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	r := goquery.NewTextRenderer()
	_, err := r.RenderText(" \n ")

	require.Error(t, err)
	assert.Equal(t, readable.EINVALID, readable.ErrorCode(err))
}
