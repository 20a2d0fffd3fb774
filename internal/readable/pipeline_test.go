package readable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><head><title>Fallback Title</title>
<meta property="og:title" content="Guide">
<meta name="description" content="A short guide.">
</head><body>
<nav>Site nav junk that should be dropped entirely from output</nav>
<article><h1>Guide</h1><p>This article is long enough to remain after extraction and should render markdown output with real substance in it, well past the one hundred character floor that the selector check enforces before it is trusted.</p></article>
</body></html>`

func TestExtractPrefersOgTitle(t *testing.T) {
	got, err := Extract(articleHTML, "https://example.com/guide")
	require.NoError(t, err)
	assert.Equal(t, "Guide", got.Metadata.Title)
	assert.Equal(t, "A short guide.", got.Metadata.Description)
	assert.Equal(t, "example.com", got.Metadata.Site)
}

func TestExtractDropsNav(t *testing.T) {
	got, err := Extract(articleHTML, "")
	require.NoError(t, err)
	assert.NotContains(t, got.CleanedHTML, "Site nav junk")
	assert.NotContains(t, got.Text, "Site nav junk")
}

func TestExtractMarkdownHeading(t *testing.T) {
	got, err := Extract(articleHTML, "")
	require.NoError(t, err)
	assert.Contains(t, got.Markdown, "# Guide")
}

func TestExtractFallsBackToBodyBelowFloor(t *testing.T) {
	html := `<html><body><article>short</article><p>But the body overall has enough additional filler text to exceed the one hundred character content floor once everything is combined together here.</p></body></html>`
	got, err := Extract(html, "")
	require.NoError(t, err)
	assert.Contains(t, got.Text, "body overall has enough")
}

func TestReadableRoundTripIsIdempotentAfterWhitespace(t *testing.T) {
	first, err := Extract(articleHTML, "https://example.com/guide")
	require.NoError(t, err)

	second, err := Extract(first.CleanedHTML, "https://example.com/guide")
	require.NoError(t, err)

	third, err := Extract(second.CleanedHTML, "https://example.com/guide")
	require.NoError(t, err)

	assert.Equal(t, second.CleanedHTML, third.CleanedHTML)
}

func TestJunkLineDetection(t *testing.T) {
	assert.True(t, isJunkLine("NaN"))
	assert.True(t, isJunkLine("NaN / NaN"))
	assert.True(t, isJunkLine("undefined"))
	assert.True(t, isJunkLine("[object Object]"))
	assert.False(t, isJunkLine("The value is NaN due to division"))
	assert.False(t, isJunkLine("Hello World"))
}

func TestDecodeHTMLEntities(t *testing.T) {
	assert.Equal(t, "&", decodeHTMLEntities("&amp;"))
	assert.Equal(t, "<", decodeHTMLEntities("&lt;"))
	assert.Equal(t, "Hello World", decodeHTMLEntities("Hello&nbsp;World"))
}

func TestCollapseWhitespace(t *testing.T) {
	got := collapseWhitespace("a   b\n\n\n\nc")
	assert.Equal(t, "a b\nc", got)
}

func TestDomainFromURL(t *testing.T) {
	assert.Equal(t, "example.com", domainFromURL("https://www.example.com:8080/a/b"))
	assert.Equal(t, "", domainFromURL(""))
}

func TestClutterPatternsLoad(t *testing.T) {
	c := Clutter()
	assert.NotEmpty(t, c.ContentSelectors.Selectors)
	assert.NotEmpty(t, c.Remove.ExactSelectors)
	assert.NotEmpty(t, c.JunkText.Exact)
	assert.True(t, PartialPatternRegex().MatchString("promo-banner"))
}

func TestRenderMarkdownLink(t *testing.T) {
	out := renderMarkdown(`<p>See <a href="https://x.test">here</a></p>`)
	assert.True(t, strings.Contains(out, "[here](https://x.test)"))
}
