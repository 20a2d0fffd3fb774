package readable

import (
	"regexp"
	"strings"
)

// Each substitution below mirrors one step of the original's
// render_markdown.rs: tag-to-syntax substitutions applied in a fixed
// order, followed by residual tag stripping and the junk-line filter.
var markdownSubs = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`), "\n# $1\n"},
	{regexp.MustCompile(`(?is)<h2[^>]*>(.*?)</h2>`), "\n## $1\n"},
	{regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`), "\n### $1\n"},
	{regexp.MustCompile(`(?is)<h4[^>]*>(.*?)</h4>`), "\n#### $1\n"},
	{regexp.MustCompile(`(?is)<h5[^>]*>(.*?)</h5>`), "\n##### $1\n"},
	{regexp.MustCompile(`(?is)<h6[^>]*>(.*?)</h6>`), "\n###### $1\n"},
	{regexp.MustCompile(`(?is)<(?:strong|b)[^>]*>(.*?)</(?:strong|b)>`), "**$1**"},
	{regexp.MustCompile(`(?is)<(?:em|i)[^>]*>(.*?)</(?:em|i)>`), "*$1*"},
	{regexp.MustCompile(`(?is)<a\s+[^>]*href="([^"]*)"[^>]*>(.*?)</a>`), "[$2]($1)"},
	// img with src before alt, and alt before src.
	{regexp.MustCompile(`(?is)<img\s+[^>]*src="([^"]*)"[^>]*alt="([^"]*)"[^>]*/?>`), "![$2]($1)"},
	{regexp.MustCompile(`(?is)<img\s+[^>]*alt="([^"]*)"[^>]*src="([^"]*)"[^>]*/?>`), "![$1]($2)"},
	{regexp.MustCompile(`(?is)<img\s+[^>]*src="([^"]*)"[^>]*/?>`), "![]($1)"},
	{regexp.MustCompile(`(?is)<br\s*/?>`), "\n"},
	{regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`), "\n$1\n"},
	{regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`), "\n- $1"},
	{regexp.MustCompile(`(?is)<blockquote[^>]*>(.*?)</blockquote>`), "\n> $1\n"},
	{regexp.MustCompile(`(?is)<pre[^>]*>(.*?)</pre>`), "\n```\n$1\n```\n"},
	{regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`), "`$1`"},
}

// renderMarkdown implements spec.md §4.3 stage 3's markdown renderer.
func renderMarkdown(html string) string {
	out := html
	for _, sub := range markdownSubs {
		out = sub.re.ReplaceAllString(out, sub.repl)
	}
	out = stripTags(out)
	out = decodeHTMLEntities(out)
	out = collapseWhitespace(out)

	lines := strings.Split(out, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		bare := strings.TrimSpace(trimmed)
		if bare == "" || isJunkLine(bare) {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}
