package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsNil(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "session.json")
	d := Descriptor{
		SchemaVersion: SchemaVersion,
		PID:           os.Getpid(),
		Browser:       "chromium",
		Headless:      true,
		CdpEndpoint:   "ws://127.0.0.1:9300/devtools/browser/abc",
		WorkspaceID:   "ws-1",
		Namespace:     "default",
		DriverHash:    "dev",
		CreatedAt:     Now(),
	}
	require.NoError(t, Save(path, d))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, d.Browser, loaded.Browser)
	assert.True(t, loaded.BelongsTo("ws-1", "default"))
}

func TestLoadCorruptFileTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	d, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestMatchesRequiresBrowserAndHeadless(t *testing.T) {
	d := Descriptor{Browser: "chromium", Headless: true, DriverHash: "dev"}
	assert.True(t, d.Matches("chromium", true, "", "dev"))
	assert.False(t, d.Matches("firefox", true, "", "dev"))
	assert.False(t, d.Matches("chromium", false, "", "dev"))
}

func TestMatchesChecksRequestedEndpointAndDriverHash(t *testing.T) {
	d := Descriptor{Browser: "chromium", Headless: true, CdpEndpoint: "ws://a", DriverHash: "dev"}
	assert.True(t, d.Matches("chromium", true, "ws://a", "dev"))
	assert.False(t, d.Matches("chromium", true, "ws://b", "dev"))
	assert.False(t, d.Matches("chromium", true, "", "other"))
}

func TestPidAliveForCurrentProcess(t *testing.T) {
	d := Descriptor{PID: os.Getpid()}
	assert.True(t, d.PidAlive())
}

func TestPidAliveFalseForInvalidPid(t *testing.T) {
	d := Descriptor{PID: 0}
	assert.False(t, d.PidAlive())
}

func TestClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, Save(path, Descriptor{}))
	removed, err := Clear(path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = Clear(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEndpointFallsBackToWs(t *testing.T) {
	d := Descriptor{WsEndpoint: "ws://b"}
	assert.Equal(t, "ws://b", d.Endpoint())
	d.CdpEndpoint = "ws://a"
	assert.Equal(t, "ws://a", d.Endpoint())
}
