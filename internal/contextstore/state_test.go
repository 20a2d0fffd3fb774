package contextstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, opts Options) (*State, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	if opts.ProjectRoot == "" {
		opts.ProjectRoot = filepath.Join(dir, "project")
	}
	return New(opts), opts.ProjectRoot
}

func TestContextDeltaIdempotence(t *testing.T) {
	st, _ := newTestState(t, Options{})
	url := "https://example.com"
	selector := "#main"
	delta := ContextDelta{URL: &url, Selector: &selector}

	st.ApplyDelta(delta)
	sel1, _ := st.Selected()

	st.ApplyDelta(delta)
	sel2, _ := st.Selected()

	assert.Equal(t, sel1.Data.LastURL, sel2.Data.LastURL)
	assert.Equal(t, sel1.Data.LastSelector, sel2.Data.LastSelector)
}

func TestStalenessHidesOnlyCachedURL(t *testing.T) {
	st, _ := newTestState(t, Options{})
	url := "https://example.com"
	st.ApplyDelta(ContextDelta{URL: &url})

	sel, ok := st.Selected()
	require.True(t, ok)
	old := time.Now().Add(-2 * time.Hour).Unix()
	sel.Data.LastUsedAt = &old
	st.selected.Data = sel.Data
	st.refresh = isStale(st.selected)

	assert.True(t, st.refresh)
	assert.False(t, st.HasContextURL())
}

func TestCdpEndpointIsGlobalRegardlessOfScope(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	project := filepath.Join(dir, "project")

	st := New(Options{ProjectRoot: project, RequestedContext: "feature"})
	st.SetCdpEndpoint(strPtrVal("ws://127.0.0.1:9222/devtools/abc"))
	require.NoError(t, st.Persist())

	reloaded := New(Options{ProjectRoot: project, RequestedContext: "feature"})
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/abc", reloaded.CdpEndpoint())

	globalStore := loadFileStore(reloaded.global.path, ScopeGlobal)
	defaultCtx, ok := globalStore.get("default")
	require.True(t, ok)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/abc", defaultCtx.CdpEndpoint)

	if reloaded.project != nil {
		projCtx, ok := reloaded.project.get("feature")
		if ok {
			assert.Empty(t, projCtx.CdpEndpoint)
		}
	}
}

func strPtrVal(s string) string { return s }

func TestProtectedURLMatching(t *testing.T) {
	st, _ := newTestState(t, Options{})
	st.AddProtected("admin.example.com")
	added := st.AddProtected("ADMIN.example.com")
	assert.False(t, added, "case-insensitive dedup")

	assert.True(t, st.IsProtected("https://ADMIN.example.com/login"))
	assert.False(t, st.IsProtected("https://public.example.com"))

	removed := st.RemoveProtected("Admin.Example.com")
	assert.True(t, removed)
	assert.False(t, st.IsProtected("https://admin.example.com"))
}

func TestResolveSelectorPriority(t *testing.T) {
	st, _ := newTestState(t, Options{})
	selector := "#cached"
	st.ApplyDelta(ContextDelta{Selector: &selector})

	got, err := st.ResolveSelector("#explicit", "#fallback")
	require.NoError(t, err)
	assert.Equal(t, "#explicit", got)

	got, err = st.ResolveSelector("", "#fallback")
	require.NoError(t, err)
	assert.Equal(t, "#cached", got)
}

func TestResolveSelectorErrorsWhenAllAbsent(t *testing.T) {
	st, _ := newTestState(t, Options{NoContext: true})
	_, err := st.ResolveSelector("", "")
	require.Error(t, err)
}

func TestHarDefaultsRoundTrip(t *testing.T) {
	st, _ := newTestState(t, Options{})
	har := HarDefaults{
		Path:          "network.har",
		ContentPolicy: HarContentEmbed,
		Mode:          HarModeMinimal,
		OmitContent:   true,
		URLFilter:     "*.api.example.com",
	}
	changed := st.SetHarDefaults(har)
	assert.True(t, changed)
	assert.Equal(t, &har, st.HarDefaults())

	changedAgain := st.SetHarDefaults(har)
	assert.False(t, changedAgain)

	assert.True(t, st.ClearHarDefaults())
	assert.Nil(t, st.HarDefaults())
}
