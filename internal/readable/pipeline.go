// Package readable implements C3: the HTML -> metadata/cleaned-html/text/
// markdown extraction pipeline described in spec.md §4.3. Clutter removal
// and main-content selection use github.com/PuerkitoBio/goquery (a tolerant
// HTML parser) rather than bare regex scanning of raw markup — spec.md §9
// explicitly allows substituting a tolerant parser as long as the ordered
// content-selector preference, the 100-character minimum, the three-pass
// scrub, the tag-removal set, and the renderer outputs are preserved.
package readable

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extracted is the result of running the pipeline over one HTML document.
type Extracted struct {
	Metadata    Metadata `json:"metadata"`
	CleanedHTML string   `json:"cleanedHtml"`
	Text        string   `json:"text"`
	Markdown    string   `json:"markdown"`
}

// Extract runs all three pipeline stages deterministically: metadata
// extraction, clutter removal + main-content selection, then rendering.
func Extract(html string, pageURL string) (Extracted, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Extracted{}, err
	}

	metadata := extractMetadata(doc, pageURL)
	cleaned := cleanDocument(doc, html)

	return Extracted{
		Metadata:    metadata,
		CleanedHTML: cleaned,
		Text:        renderText(cleaned),
		Markdown:    renderMarkdown(cleaned),
	}, nil
}
