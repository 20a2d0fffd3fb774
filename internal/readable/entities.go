package readable

import (
	"regexp"
	"strings"
)

var (
	multiSpace   = regexp.MustCompile(`[ \t]+`)
	multiNewline = regexp.MustCompile(`\n{2,}`)
)

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", "\"",
	"&#39;", "'",
	"&apos;", "'",
	"&#x27;", "'",
	"&nbsp;", " ",
)

// decodeHTMLEntities decodes the fixed entity set named in spec.md §4.3.
func decodeHTMLEntities(s string) string {
	return entityReplacer.Replace(s)
}

// collapseWhitespace collapses runs of spaces/tabs to one space and runs of
// blank lines to one newline.
func collapseWhitespace(s string) string {
	s = multiSpace.ReplaceAllString(s, " ")
	return multiNewline.ReplaceAllString(s, "\n")
}

const junkAllowedChars = "/-•·|: \t\n\r"

// isJunkLine reports whether a line, once every configured junk-text
// pattern is stripped out of it, is composed only of whitespace plus
// "/-•·|:" — matching the original's junk.rs.
func isJunkLine(line string) bool {
	remaining := line
	for _, pattern := range Clutter().JunkText.Exact {
		remaining = stripCaseInsensitive(remaining, pattern)
	}
	for _, r := range remaining {
		if !strings.ContainsRune(junkAllowedChars, r) {
			return false
		}
	}
	return true
}

func stripCaseInsensitive(s, pattern string) string {
	if pattern == "" {
		return s
	}
	lowerPattern := strings.ToLower(pattern)
	var b strings.Builder
	remaining := s
	for {
		lowerRemaining := strings.ToLower(remaining)
		idx := strings.Index(lowerRemaining, lowerPattern)
		if idx < 0 {
			b.WriteString(remaining)
			break
		}
		b.WriteString(remaining[:idx])
		remaining = remaining[idx+len(pattern):]
	}
	return b.String()
}
