package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freitascorp/pwcli/internal/catalog"
)

func withFlags(t *testing.T, set func()) {
	t.Helper()
	saved := flags
	t.Cleanup(func() { flags = saved })
	flags = globalFlags{}
	set()
}

func TestMergeGlobalArgsNoOverridesLeavesArgsUntouched(t *testing.T) {
	withFlags(t, func() {})
	out, err := mergeGlobalArgs(json.RawMessage(`{"url":"https://example.com"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://example.com"}`, string(out))
}

func TestMergeGlobalArgsInjectsBrowserWhenAbsent(t *testing.T) {
	withFlags(t, func() { flags.browser = "firefox" })
	out, err := mergeGlobalArgs(json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"browser":"firefox"}`, string(out))
}

func TestMergeGlobalArgsDoesNotOverrideExplicitBrowser(t *testing.T) {
	withFlags(t, func() { flags.browser = "firefox" })
	out, err := mergeGlobalArgs(json.RawMessage(`{"browser":"webkit"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"browser":"webkit"}`, string(out))
}

func TestMergeGlobalArgsInjectsAuthFile(t *testing.T) {
	withFlags(t, func() { flags.authFile = "/tmp/state.json" })
	out, err := mergeGlobalArgs(json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"authFile":"/tmp/state.json"}`, string(out))
}

func TestMergeGlobalArgsHandlesEmptyRaw(t *testing.T) {
	withFlags(t, func() { flags.browser = "chromium" })
	out, err := mergeGlobalArgs(json.RawMessage(``))
	require.NoError(t, err)
	assert.JSONEq(t, `{"browser":"chromium"}`, string(out))
}

func TestNewCatalogCommandsCoversEveryCatalogEntry(t *testing.T) {
	cmds := newCatalogCommands()
	count := 0
	for id := catalog.ID(0); catalog.Name(id) != ""; id++ {
		count++
	}
	assert.Len(t, cmds, count)
	assert.Greater(t, count, 0)
}

func TestDefaultSmokeRequestDefaultsToChromium(t *testing.T) {
	withFlags(t, func() {})
	req := defaultSmokeRequest()
	assert.Equal(t, "chromium", req.Browser)
}

func TestDefaultSmokeRequestHonorsBrowserFlag(t *testing.T) {
	withFlags(t, func() { flags.browser = "webkit" })
	req := defaultSmokeRequest()
	assert.Equal(t, "webkit", req.Browser)
}
