package contextstore

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/workspace"
)

const defaultContextName = "default"

// Options configure a new State (mirrors spec.md §6 global flags).
type Options struct {
	ProjectRoot       string
	RequestedContext  string
	BaseURLOverride   string
	NoContext         bool
	NoSave            bool
	Refresh           bool
	ScreenshotDefault string // default filename for resolve_output, e.g. "screenshot.png"
}

// State is the runtime context manager (spec.md §4.2).
type State struct {
	global   *fileStore
	project  *fileStore // nil if no project root
	selected *Selected  // nil if no-context or nothing resolvable

	projectRoot     string
	baseURLOverride string
	noContext       bool
	noSave          bool
	refresh         bool
	screenshotDflt  string
}

// New loads both stores and resolves the selected context per the
// priority in spec.md §4.2 step 2-3, then computes staleness (step 5).
func New(opts Options) *State {
	paths := workspace.New(opts.ProjectRoot, workspace.GlobalNamespace)

	st := &State{
		global:          loadFileStore(paths.GlobalContextsFile, ScopeGlobal),
		projectRoot:     opts.ProjectRoot,
		baseURLOverride: opts.BaseURLOverride,
		noContext:       opts.NoContext,
		noSave:          opts.NoSave,
		screenshotDflt:  opts.ScreenshotDefault,
	}
	if opts.ProjectRoot != "" {
		st.project = loadFileStore(paths.ProjectContextFile, ScopeProject)
	}

	if !opts.NoContext {
		st.selected = selectContext(st.global, st.project, opts.ProjectRoot, opts.RequestedContext)
		if st.selected != nil && opts.BaseURLOverride != "" {
			st.selected.Data.BaseURL = opts.BaseURLOverride
		}
	}

	st.refresh = opts.Refresh || isStale(st.selected)
	return st
}

func selectContext(global, project *fileStore, projectRoot, requested string) *Selected {
	name := requested
	if name == "" && projectRoot != "" {
		name = global.file.Active.Projects[projectRoot]
	}
	if name == "" {
		name = global.file.Active.Global
	}
	if name == "" {
		name = defaultContextName
		global.file.Active.Global = defaultContextName
	}
	return resolveByName(global, project, projectRoot, name)
}

func resolveByName(global, project *fileStore, projectRoot, name string) *Selected {
	if project != nil {
		if data, ok := project.get(name); ok {
			return &Selected{Name: name, Scope: ScopeProject, Data: data}
		}
	}
	if data, ok := global.get(name); ok {
		return &Selected{Name: name, Scope: ScopeGlobal, Data: data}
	}
	if project != nil {
		data := project.ensure(name, projectRoot)
		return &Selected{Name: name, Scope: ScopeProject, Data: data}
	}
	data := global.ensure(name, projectRoot)
	return &Selected{Name: name, Scope: ScopeGlobal, Data: data}
}

func isStale(sel *Selected) bool {
	if sel == nil || sel.Data.LastUsedAt == nil {
		return false
	}
	return time.Now().Unix()-*sel.Data.LastUsedAt > int64(StaleAfter.Seconds())
}

// ActiveName returns the selected context's name, if any.
func (s *State) ActiveName() string {
	if s.selected == nil {
		return ""
	}
	return s.selected.Name
}

// RefreshRequested reports whether this run should discard cached state.
func (s *State) RefreshRequested() bool {
	return s.refresh
}

// SessionDescriptorPath returns the namespace-scoped descriptor path,
// rooted under the selected context's scope.
func (s *State) SessionDescriptorPath(namespace string) string {
	if s.noContext || s.selected == nil {
		return ""
	}
	paths := workspace.New(s.projectRoot, namespace)
	if s.selected.Scope == ScopeProject && s.projectRoot != "" {
		return filepath.Join(paths.SessionsDir, s.selected.Name+".json")
	}
	return filepath.Join(paths.GlobalSessionsDir, s.selected.Name+".json")
}

// HasContextURL reports whether a URL is available from any source
// (spec.md §8 property 4: staleness hides a cached-only URL).
func (s *State) HasContextURL() bool {
	if s.noContext {
		return false
	}
	if s.baseURLOverride != "" {
		return true
	}
	if s.selected == nil {
		return false
	}
	if !s.refresh && s.selected.Data.LastURL != "" {
		return true
	}
	return s.selected.Data.BaseURL != ""
}

// ResolveSelector implements provided > cached (unless refresh) > fallback.
func (s *State) ResolveSelector(provided, fallback string) (string, error) {
	if provided != "" {
		return provided, nil
	}
	if s.noContext {
		if fallback != "" {
			return fallback, nil
		}
		return "", pwerr.New(pwerr.InvalidInput, "selector is required when context usage is disabled")
	}
	if s.selected == nil {
		if fallback != "" {
			return fallback, nil
		}
		return "", pwerr.New(pwerr.InvalidInput, "no selector available")
	}
	if !s.refresh && s.selected.Data.LastSelector != "" {
		return s.selected.Data.LastSelector, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", pwerr.New(pwerr.InvalidInput, "no selector available")
}

// ScreenshotPath rewrites a relative path through a project screenshot
// directory, matching CommandContext::screenshot_path in the original.
func (s *State) ScreenshotPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if s.projectRoot == "" {
		return p
	}
	return filepath.Join(s.projectRoot, workspace.PlaywrightDir, "screenshots", p)
}

// ResolveOutput implements provided > cached (unless refresh) > default.
func (s *State) ResolveOutput(provided string) string {
	if provided != "" {
		return s.ScreenshotPath(provided)
	}
	if !s.noContext && !s.refresh && s.selected != nil && s.selected.Data.LastOutput != "" {
		return s.ScreenshotPath(s.selected.Data.LastOutput)
	}
	dflt := s.screenshotDflt
	if dflt == "" {
		dflt = "screenshot.png"
	}
	return s.ScreenshotPath(dflt)
}

// CdpEndpoint always reads from the global "default" entry (spec.md §8
// property 5), regardless of the selected context's scope.
func (s *State) CdpEndpoint() string {
	if s.noContext {
		return ""
	}
	ctx, ok := s.global.get(defaultContextName)
	if !ok {
		return ""
	}
	return ctx.CdpEndpoint
}

// SetCdpEndpoint always writes into the global "default" entry. If the
// selected context *is* that entry, its in-memory copy is updated too so
// persist() doesn't clobber it with stale data.
func (s *State) SetCdpEndpoint(endpoint string) {
	if s.noSave || s.noContext {
		return
	}
	ctx := s.global.ensure(defaultContextName, s.projectRoot)
	ctx.CdpEndpoint = endpoint
	s.global.put(defaultContextName, ctx)

	if s.selected != nil && s.selected.Name == defaultContextName && s.selected.Scope == ScopeGlobal {
		s.selected.Data.CdpEndpoint = endpoint
	}
}

// ProtectedURLs returns the selected context's protected URL patterns.
func (s *State) ProtectedURLs() []string {
	if s.noContext || s.selected == nil {
		return nil
	}
	return s.selected.Data.ProtectedURLs
}

// IsProtected reports a case-insensitive substring match (spec.md §8 property 6).
func (s *State) IsProtected(url string) bool {
	lower := strings.ToLower(url)
	for _, pattern := range s.ProtectedURLs() {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// AddProtected adds a pattern, idempotently (case-insensitive dedup).
func (s *State) AddProtected(pattern string) bool {
	if s.noSave || s.noContext || s.selected == nil {
		return false
	}
	lower := strings.ToLower(pattern)
	for _, p := range s.selected.Data.ProtectedURLs {
		if strings.ToLower(p) == lower {
			return false
		}
	}
	s.selected.Data.ProtectedURLs = append(s.selected.Data.ProtectedURLs, pattern)
	return true
}

// RemoveProtected removes a pattern, case-insensitively.
func (s *State) RemoveProtected(pattern string) bool {
	if s.noSave || s.noContext || s.selected == nil {
		return false
	}
	lower := strings.ToLower(pattern)
	before := len(s.selected.Data.ProtectedURLs)
	kept := s.selected.Data.ProtectedURLs[:0:0]
	for _, p := range s.selected.Data.ProtectedURLs {
		if strings.ToLower(p) != lower {
			kept = append(kept, p)
		}
	}
	s.selected.Data.ProtectedURLs = kept
	return len(kept) < before
}

// HarDefaults returns the selected context's cached HAR config, if any.
func (s *State) HarDefaults() *HarDefaults {
	if s.noContext || s.selected == nil {
		return nil
	}
	return s.selected.Data.Har
}

// SetHarDefaults stores HAR config, returning true if it changed.
func (s *State) SetHarDefaults(har HarDefaults) bool {
	if s.noSave || s.noContext || s.selected == nil {
		return false
	}
	changed := s.selected.Data.Har == nil || *s.selected.Data.Har != har
	s.selected.Data.Har = &har
	return changed
}

// ClearHarDefaults removes cached HAR config, returning true if one existed.
func (s *State) ClearHarDefaults() bool {
	if s.noSave || s.noContext || s.selected == nil || s.selected.Data.Har == nil {
		return false
	}
	s.selected.Data.Har = nil
	return true
}

// ApplyDelta writes cached URL/selector/output and bumps last-used time.
// Applying the same delta twice is indistinguishable from once (§8 property 3).
func (s *State) ApplyDelta(delta ContextDelta) {
	if s.noSave || s.noContext || s.selected == nil {
		return
	}
	if delta.URL != nil {
		s.selected.Data.LastURL = *delta.URL
	}
	if delta.Selector != nil {
		s.selected.Data.LastSelector = *delta.Selector
	}
	if delta.Output != nil {
		s.selected.Data.LastOutput = *delta.Output
	}
	now := time.Now().Unix()
	s.selected.Data.LastUsedAt = &now
}

// BaseURL returns the effective base URL: override, then selected context's.
func (s *State) BaseURL() string {
	if s.baseURLOverride != "" {
		return s.baseURLOverride
	}
	if s.selected == nil {
		return ""
	}
	return s.selected.Data.BaseURL
}

// Selected exposes the raw selected context (read-only use by commands that
// need fields ApplyDelta doesn't cover, e.g. browser/headless/auth file).
func (s *State) Selected() (Selected, bool) {
	if s.selected == nil {
		return Selected{}, false
	}
	return *s.selected, true
}

// NoContext reports whether context reads/writes are disabled entirely.
func (s *State) NoContext() bool {
	return s.noContext
}

// Persist writes both files atomically, recording active-context pointers
// (spec.md §4.2 "Persistence").
func (s *State) Persist() error {
	if s.noSave || s.noContext || s.selected == nil {
		return nil
	}

	switch s.selected.Scope {
	case ScopeProject:
		if s.project != nil {
			s.project.put(s.selected.Name, s.selected.Data)
		}
		if s.projectRoot != "" {
			s.global.file.Active.Projects[s.projectRoot] = s.selected.Name
		}
	case ScopeGlobal:
		s.global.put(s.selected.Name, s.selected.Data)
		s.global.file.Active.Global = s.selected.Name
	}

	if err := s.global.save(); err != nil {
		return fmt.Errorf("persist global context store: %w", err)
	}
	if s.project != nil {
		if err := s.project.save(); err != nil {
			return fmt.Errorf("persist project context store: %w", err)
		}
	}
	return nil
}
