package readable

import (
	_ "embed"
	"encoding/json"
	"regexp"
	"strings"
	"sync"
)

//go:embed clutter.json
var clutterJSON []byte

// ClutterPatterns is the packaged pattern set driving clutter removal and
// main-content selection (spec.md §4.3), loaded once from clutter.json —
// the Go analogue of the original's include_str!("../clutter.json").
type ClutterPatterns struct {
	ContentSelectors struct {
		Selectors []string `json:"selectors"`
	} `json:"contentSelectors"`
	Remove struct {
		ExactSelectors []string `json:"exactSelectors"`
		Structural     []string `json:"structural"`
		PartialPatterns struct {
			CheckAttributes []string            `json:"checkAttributes"`
			Patterns        map[string][]string `json:"patterns"`
		} `json:"partialPatterns"`
	} `json:"remove"`
	Preserve struct {
		PreserveElements  []string `json:"preserveElements"`
		InlineElements    []string `json:"inlineElements"`
		AllowedEmpty      []string `json:"allowedEmpty"`
		AllowedAttributes []string `json:"allowedAttributes"`
	} `json:"preserve"`
	Scoring struct {
		ContentIndicators    []string `json:"contentIndicators"`
		NavigationIndicators []string `json:"navigationIndicators"`
		NonContentPatterns   []string `json:"nonContentPatterns"`
	} `json:"scoring"`
	JunkText struct {
		Exact []string `json:"exact"`
	} `json:"junkText"`
}

var (
	once           sync.Once
	clutter        ClutterPatterns
	partialPattern *regexp.Regexp
)

func loadClutter() {
	once.Do(func() {
		if err := json.Unmarshal(clutterJSON, &clutter); err != nil {
			panic("readable: failed to parse embedded clutter.json: " + err.Error())
		}

		var all []string
		for _, patterns := range clutter.Remove.PartialPatterns.Patterns {
			for _, p := range patterns {
				all = append(all, regexp.QuoteMeta(p))
			}
		}
		if len(all) == 0 {
			partialPattern = regexp.MustCompile(`$^`)
		} else {
			partialPattern = regexp.MustCompile("(?i)(" + strings.Join(all, "|") + ")")
		}
	})
}

// Clutter returns the packaged pattern set.
func Clutter() *ClutterPatterns {
	loadClutter()
	return &clutter
}

// PartialPatternRegex returns the combined, case-insensitive regex matching
// any configured partial class/id pattern.
func PartialPatternRegex() *regexp.Regexp {
	loadClutter()
	return partialPattern
}
