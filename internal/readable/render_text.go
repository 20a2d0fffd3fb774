package readable

import (
	"regexp"
	"strings"
)

var blockTagOpenRegex = regexp.MustCompile(`(?i)<(p|div|br|h1|h2|h3|h4|h5|h6|li|tr|blockquote|pre|section|article)(\s[^>]*)?/?>`)
var anyTagRegex = regexp.MustCompile(`(?s)<[^>]+>`)

// stripTags removes every tag, leaving bare text (used by the body-html
// non-empty check in clean.go and as the first step of renderText).
func stripTags(html string) string {
	return anyTagRegex.ReplaceAllString(html, "")
}

// renderText implements spec.md §4.3 stage 3's text renderer: insert
// newlines before block tags, strip tags, decode entities, drop junk/empty
// lines.
func renderText(html string) string {
	withBreaks := blockTagOpenRegex.ReplaceAllString(html, "\n$0")
	stripped := stripTags(withBreaks)
	decoded := decodeHTMLEntities(stripped)
	decoded = collapseWhitespace(decoded)

	lines := strings.Split(decoded, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isJunkLine(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}
