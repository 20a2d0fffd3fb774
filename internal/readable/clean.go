package readable

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const minMainContentChars = 100
const maxScrubPasses = 3

// cleanDocument performs clutter removal per spec.md §4.3 stage 2: drop
// script/style/noscript/svg, then structural chrome tags, then scrub by
// class/id pattern (up to three passes to handle nesting), then select
// main content by the configured selector order with a 100-char floor,
// falling back to <body> and finally the original document.
func cleanDocument(doc *goquery.Document, originalHTML string) (cleanedHTML string) {
	c := Clutter()

	doc.Find(strings.Join(c.Remove.ExactSelectors, ",")).Remove()
	doc.Find(strings.Join(c.Remove.Structural, ",")).Remove()

	pattern := PartialPatternRegex()
	for pass := 0; pass < maxScrubPasses; pass++ {
		removed := 0
		doc.Find("*").Each(func(_ int, s *goquery.Selection) {
			class, _ := s.Attr("class")
			id, _ := s.Attr("id")
			if (class != "" && pattern.MatchString(class)) || (id != "" && pattern.MatchString(id)) {
				s.Remove()
				removed++
			}
		})
		if removed == 0 {
			break
		}
	}

	for _, selector := range c.ContentSelectors.Selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(sel.Text()); len(text) > minMainContentChars {
			if html, err := goquery.OuterHtml(sel); err == nil {
				return collapseWhitespace(html)
			}
		}
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		if html, err := body.Html(); err == nil && strings.TrimSpace(stripTags(html)) != "" {
			return collapseWhitespace(html)
		}
	}

	return collapseWhitespace(originalHTML)
}
