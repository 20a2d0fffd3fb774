package readable

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metadata is the extracted page metadata (spec.md §3).
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Published   string `json:"published,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Site        string `json:"site,omitempty"`
}

// extractMetadata scans <meta> tags per the preference order in spec.md §4.3
// stage 1, using goquery for tolerant HTML parsing.
func extractMetadata(doc *goquery.Document, pageURL string) Metadata {
	meta := map[string]string{}
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key, _ := sel.Attr("property")
		if key == "" {
			key, _ = sel.Attr("name")
		}
		if key == "" {
			return
		}
		content, ok := sel.Attr("content")
		if !ok {
			return
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if _, exists := meta[key]; !exists {
			meta[key] = content
		}
	})

	title := firstNonEmpty(meta["og:title"], meta["twitter:title"])
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	description := firstNonEmpty(meta["og:description"], meta["description"], meta["twitter:description"])
	author := firstNonEmpty(meta["author"], meta["article:author"])
	image := firstNonEmpty(meta["og:image"], meta["twitter:image"])
	site := firstNonEmpty(meta["og:site_name"], meta["twitter:site"])
	if site == "" {
		site = domainFromURL(pageURL)
	}
	published := firstNonEmpty(meta["article:published_time"], meta["og:published_time"], meta["date"])

	return Metadata{
		Title:       title,
		Author:      author,
		Published:   published,
		Description: description,
		Image:       image,
		Site:        site,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// domainFromURL strips scheme, "www.", port and path, per spec.md §4.3.
func domainFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	host := u.Hostname()
	return strings.TrimPrefix(host, "www.")
}
