package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freitascorp/pwcli/internal/command"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

func TestLookupResolvesCanonicalAndAlias(t *testing.T) {
	id, ok := Lookup("navigate")
	require.True(t, ok)
	aliasID, ok := Lookup("goto")
	require.True(t, ok)
	assert.Equal(t, id, aliasID)
	assert.Equal(t, "navigate", Name(id))
}

func TestLookupUnknownCommand(t *testing.T) {
	_, ok := Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestNameOutOfRangeReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", Name(ID(-1)))
	assert.Equal(t, "", Name(ID(len(entries))))
}

func TestRunUnknownIDProducesErrorOutcome(t *testing.T) {
	ec := &command.ExecContext{Mode: command.ModeOneShot}
	outcome := Run(ID(len(entries)+10), json.RawMessage(`{}`), false, ec)
	require.False(t, outcome.Envelope.Success)
	require.NotNil(t, outcome.Envelope.Error)
	assert.Equal(t, pwerr.InvalidInput, outcome.Envelope.Error.Code)
}

func TestRunStampsHasCdpOntoExecContext(t *testing.T) {
	id, ok := Lookup("init")
	require.True(t, ok)
	ec := &command.ExecContext{Mode: command.ModeOneShot}
	outcome := Run(id, nil, true, ec)
	assert.True(t, ec.HasCdp)
	assert.True(t, outcome.Envelope.Success)
}

func TestRunRejectsBatchForInteractiveOnlyCommand(t *testing.T) {
	id, ok := Lookup("auth.listen")
	require.True(t, ok)
	ec := &command.ExecContext{Mode: command.ModeBatch}
	outcome := Run(id, json.RawMessage(`{"outDir":"/tmp"}`), false, ec)
	require.False(t, outcome.Envelope.Success)
	assert.Equal(t, pwerr.UnsupportedMode, outcome.Envelope.Error.Code)
}

func TestEveryEntryHasAtLeastOneName(t *testing.T) {
	for _, e := range entries {
		require.NotEmpty(t, e.names)
		for _, n := range e.names {
			require.NotEmpty(t, n)
		}
	}
}

func TestPassthroughVariantsAreNotCatalogEntries(t *testing.T) {
	for _, name := range PassthroughCLIVariants {
		_, ok := Lookup(name)
		assert.False(t, ok, "passthrough variant %q must not collide with a catalog entry", name)
	}
}
