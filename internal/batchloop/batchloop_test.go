package batchloop

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/freitascorp/pwcli/internal/command"
	"github.com/freitascorp/pwcli/internal/contextstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecContext() (*command.ExecContext, *contextstore.State) {
	store := contextstore.New(contextstore.Options{NoContext: true})
	return &command.ExecContext{Ctx: context.Background(), Store: store}, store
}

func TestRunEmitsOneResponsePerLine(t *testing.T) {
	ec, store := newExecContext()
	in := strings.NewReader("{\"id\":\"1\",\"command\":\"init\",\"args\":{}}\n{\"id\":\"2\",\"command\":\"protect.list\",\"args\":{}}\n")
	var out bytes.Buffer

	err := Run(in, &out, ec, store)
	require.NoError(t, err)

	lines := splitNonEmpty(out.String())
	require.Len(t, lines, 2)

	var r1 map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &r1))
	assert.Equal(t, "1", r1["id"])
	assert.Equal(t, true, r1["ok"])
	assert.Equal(t, "init", r1["command"])
}

func TestRunStopsAfterQuit(t *testing.T) {
	ec, store := newExecContext()
	in := strings.NewReader("{\"id\":\"1\",\"command\":\"quit\",\"args\":{}}\n{\"id\":\"2\",\"command\":\"init\",\"args\":{}}\n")
	var out bytes.Buffer

	require.NoError(t, Run(in, &out, ec, store))

	lines := splitNonEmpty(out.String())
	require.Len(t, lines, 1)

	var r map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &r))
	assert.Equal(t, "quit", r["command"])
}

func TestRunUnknownCommandSurfacesInvalidInput(t *testing.T) {
	ec, store := newExecContext()
	in := strings.NewReader("{\"id\":\"1\",\"command\":\"not-a-command\",\"args\":{}}\n")
	var out bytes.Buffer

	require.NoError(t, Run(in, &out, ec, store))

	var r map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, false, r["ok"])
	errObj := r["error"].(map[string]any)
	assert.Equal(t, "INVALID_INPUT", errObj["code"])
}

func TestRunMalformedLineProducesErrorWithoutAbortingLoop(t *testing.T) {
	ec, store := newExecContext()
	in := strings.NewReader("not json\n{\"id\":\"2\",\"command\":\"init\",\"args\":{}}\n")
	var out bytes.Buffer

	require.NoError(t, Run(in, &out, ec, store))

	lines := splitNonEmpty(out.String())
	require.Len(t, lines, 2)
}

func TestRunSkipsBlankLines(t *testing.T) {
	ec, store := newExecContext()
	in := strings.NewReader("\n   \n{\"id\":\"1\",\"command\":\"init\",\"args\":{}}\n")
	var out bytes.Buffer

	require.NoError(t, Run(in, &out, ec, store))

	lines := splitNonEmpty(out.String())
	require.Len(t, lines, 1)
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
