package envelope

import (
	"bytes"
	"strings"
	"testing"

	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderSuccessInvariant(t *testing.T) {
	env := New("page.read").Data(map[string]any{"ok": true}).Build()
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.NotNil(t, env.Data)
}

func TestBuilderFailureInvariant(t *testing.T) {
	env := New("navigate").Error(pwerr.NavigationFailed, "boom").Build()
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, pwerr.NavigationFailed, env.Error.Code)
}

func TestFailureKeepsArtifacts(t *testing.T) {
	env := New("screenshot").
		Error(pwerr.ScreenshotFailed, "disk full").
		Artifact(Artifact{Kind: ArtifactHTML, Path: "page.html"}).
		Build()
	assert.False(t, env.Success)
	require.Len(t, env.Artifacts, 1)
	assert.Equal(t, "page.html", env.Artifacts[0].Path)
}

func TestErrorCodeScreamingCase(t *testing.T) {
	assert.Equal(t, "SELECTOR_NOT_FOUND", pwerr.SelectorNotFound.Screaming())
	assert.Equal(t, "IO_ERROR", pwerr.IOError.Screaming())
}

func TestWriteJSONPrettyPrintsCommand(t *testing.T) {
	env := New("har.show").Data(map[string]any{"enabled": false}).Build()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, env))
	assert.Contains(t, buf.String(), `"command": "har.show"`)
}

func TestWriteNDJSONIsSingleLine(t *testing.T) {
	env := New("quit").Data(map[string]any{}).Build()
	var buf bytes.Buffer
	require.NoError(t, WriteNDJSON(&buf, env))
	s := buf.String()
	assert.Equal(t, 1, strings.Count(s, "\n"))
}

func TestWriteTextOnFailure(t *testing.T) {
	env := New("click").Error(pwerr.SelectorNotFound, "no match").Build()
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, env))
	assert.Contains(t, buf.String(), "Error [SELECTOR_NOT_FOUND]: no match")
}

func TestWriteToonArrayOfObjectsIsTabular(t *testing.T) {
	env := New("tabs.list").Data(map[string]any{
		"tabs": []any{
			map[string]any{"id": "1", "url": "https://a"},
			map[string]any{"id": "2", "url": "https://b"},
		},
	}).Build()
	var buf bytes.Buffer
	require.NoError(t, WriteToon(&buf, env))
	assert.Contains(t, buf.String(), "tabs[2]{id,url}:")
}

func TestParseFormatDefaultsToJSON(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("bogus"))
	assert.Equal(t, FormatToon, ParseFormat("toon"))
}
