package shell

import (
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freitascorp/pwcli/internal/command"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

func TestParseLineBareCommand(t *testing.T) {
	name, args := parseLine("session.status")
	assert.Equal(t, "session.status", name)
	assert.Nil(t, args)
}

func TestParseLineWithJSONArgs(t *testing.T) {
	name, args := parseLine(`navigate {"url":"https://example.com"}`)
	assert.Equal(t, "navigate", name)
	require.NotNil(t, args)
	var parsed map[string]string
	require.NoError(t, json.Unmarshal(args, &parsed))
	assert.Equal(t, "https://example.com", parsed["url"])
}

func TestParseLineIgnoresNonJSONTrailer(t *testing.T) {
	name, args := parseLine("click #submit")
	assert.Equal(t, "click", name)
	assert.Nil(t, args)
}

func TestRenderPrintsErrorMessage(t *testing.T) {
	outcome := command.Outcome{Envelope: envelope.New("navigate").ErrorFrom(pwerr.New(pwerr.NavigationFailed, "boom")).Build()}
	out := captureStdout(t, func() { render(outcome, nil) })
	assert.Contains(t, out, "navigation-failed")
	assert.Contains(t, out, "boom")
}

func TestRenderPrintsMarkdownForPageRead(t *testing.T) {
	env := envelope.New("page.read").Data(map[string]any{"format": "markdown", "content": "# Hello", "wordCount": 1}).Build()
	outcome := command.Outcome{Envelope: env}
	out := captureStdout(t, func() { render(outcome, nil) })
	assert.Contains(t, out, "# Hello")
}

func TestRenderPrintsJSONForOtherCommands(t *testing.T) {
	env := envelope.New("session.status").Data(map[string]any{"active": true}).Build()
	outcome := command.Outcome{Envelope: env}
	out := captureStdout(t, func() { render(outcome, nil) })
	assert.Contains(t, out, "session.status")
	assert.Contains(t, out, `"active": true`)
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}
