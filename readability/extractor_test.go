package readability_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsPage = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Harbour reopens after storm | Coastal News</title>
<meta property="og:site_name" content="Coastal News">
<meta name="description" content="The harbour reopened on Monday.">
<meta property="article:published_time" content="2024-03-04T08:00:00Z">
</head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article>
<h1>Harbour reopens after storm</h1>
<p class="byline">By Mara Quinn</p>
<p>The harbour reopened on Monday after crews spent the weekend clearing debris left by the storm, officials said.</p>
<p>Fishing boats returned to their moorings by noon, and the ferry service to the islands resumed its normal timetable.</p>
<p>Repairs to the sea wall are expected to take several weeks, according to the council, which has asked residents to stay clear of the promenade.</p>
</article>
<footer><p>Footer copyright text 2024</p></footer>
</body>
</html>`

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	_, err := ext.Extract("", "")

	require.Error(t, err)
	assert.Equal(t, readable.EINVALID, readable.ErrorCode(err))
}

func TestExtractor_RejectsRelativeURL(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	_, err := ext.Extract(newsPage, "news/harbour")

	require.Error(t, err)
	assert.Equal(t, readable.EINVALID, readable.ErrorCode(err))
}

func TestExtractor_ExtractsArticle(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	article, err := ext.Extract(newsPage, "https://news.example.com/harbour")

	require.NoError(t, err)
	assert.Contains(t, article.Title, "Harbour reopens after storm")
	assert.Contains(t, article.Content, "Fishing boats returned")
	assert.NotContains(t, article.Content, "Home Nav Link")
	assert.NotContains(t, article.Content, "Footer copyright text")
	assert.Equal(t, "Coastal News", article.SiteName)
	assert.Equal(t, "The harbour reopened on Monday.", article.Excerpt)
	assert.Equal(t, "en", article.Lang)
	assert.Equal(t, "2024-03-04T08:00:00Z", article.PublishedTime)
}

func TestExtractor_MapsTextAndLength(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	article, err := ext.Extract(newsPage, "")

	require.NoError(t, err)
	assert.Contains(t, article.TextContent, "sea wall")
	assert.False(t, strings.Contains(article.TextContent, "<p>"))
	assert.Positive(t, article.Length)
}
