// Package contextstore implements C2: the two-tier (global + project)
// persisted context store described in spec.md §4.2, ported from the
// original's crates/cli/src/context_store/mod.rs.
package contextstore

import "time"

// SchemaVersion is the current on-disk schema version for contexts.json.
const SchemaVersion = 1

// StaleAfter is the staleness threshold (spec.md §3, §8 property 4).
const StaleAfter = time.Hour

// Scope distinguishes global from project-scoped contexts.
type Scope string

const (
	ScopeGlobal  Scope = "global"
	ScopeProject Scope = "project"
)

// HarContentPolicy is the policy for embedding HAR request/response bodies.
type HarContentPolicy string

const (
	HarContentEmbed HarContentPolicy = "embed"
	HarContentOmit  HarContentPolicy = "omit"
	HarContentPath  HarContentPolicy = "path"
)

// HarMode selects how much traffic a HAR capture records.
type HarMode string

const (
	HarModeFull    HarMode = "full"
	HarModeMinimal HarMode = "minimal"
)

// HarDefaults is the cached HAR configuration (S2, §5 supplement). It is
// stored on the selected context in contexts.json, not in the namespace
// config.json.
type HarDefaults struct {
	Path          string           `json:"path"`
	ContentPolicy HarContentPolicy `json:"contentPolicy"`
	Mode          HarMode          `json:"mode"`
	OmitContent   bool             `json:"omitContent"`
	URLFilter     string           `json:"urlFilter,omitempty"`
}

// StoredContext is a single named context's persisted state.
type StoredContext struct {
	Scope         Scope          `json:"scope"`
	ProjectRoot   string         `json:"projectRoot,omitempty"`
	BaseURL       string         `json:"baseUrl,omitempty"`
	LastURL       string         `json:"lastUrl,omitempty"`
	LastSelector  string         `json:"lastSelector,omitempty"`
	LastOutput    string         `json:"lastOutput,omitempty"`
	Browser       string         `json:"browser,omitempty"`
	Headless      *bool          `json:"headless,omitempty"`
	AuthFile      string         `json:"authFile,omitempty"`
	CdpEndpoint   string         `json:"cdpEndpoint,omitempty"`
	LastUsedAt    *int64         `json:"lastUsedAt,omitempty"`
	ProtectedURLs []string       `json:"protectedUrls,omitempty"`
	Har           *HarDefaults   `json:"har,omitempty"`
}

// ActiveContexts tracks which context is active globally and per project.
type ActiveContexts struct {
	Global   string            `json:"global,omitempty"`
	Projects map[string]string `json:"projects,omitempty"`
}

// StoreFile is the on-disk shape of a contexts.json file.
type StoreFile struct {
	Schema   int                      `json:"schema"`
	Active   ActiveContexts           `json:"active"`
	Contexts map[string]StoredContext `json:"contexts"`
}

func newStoreFile() StoreFile {
	return StoreFile{
		Schema:   SchemaVersion,
		Active:   ActiveContexts{Projects: map[string]string{}},
		Contexts: map[string]StoredContext{},
	}
}

// Selected is the currently active context with its live payload.
type Selected struct {
	Name  string
	Scope Scope
	Data  StoredContext
}

// ContextDelta is the set of changes a command's execution may apply
// back to the context store (spec.md §3, C7).
type ContextDelta struct {
	URL      *string
	Selector *string
	Output   *string
}
