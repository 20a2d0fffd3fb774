package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

func TestDefineStampsCommandName(t *testing.T) {
	ec := &ExecContext{Mode: ModeOneShot}
	outcome := Init.Run(ec, nil)
	assert.True(t, outcome.Envelope.Success)
	assert.Equal(t, "init", outcome.Envelope.Command)
}

func TestDefineRejectsInvalidJSON(t *testing.T) {
	ec := &ExecContext{Mode: ModeOneShot}
	outcome := ProfileShow.Run(ec, json.RawMessage(`{not-json`))
	require.False(t, outcome.Envelope.Success)
	require.NotNil(t, outcome.Envelope.Error)
	assert.Equal(t, pwerr.InvalidInput, outcome.Envelope.Error.Code)
	assert.Equal(t, "profile.show", outcome.Envelope.Command)
}

func TestDefineRejectsResolveFailure(t *testing.T) {
	ec := &ExecContext{Mode: ModeOneShot}
	outcome := ProfileShow.Run(ec, json.RawMessage(`{}`))
	require.False(t, outcome.Envelope.Success)
	assert.Equal(t, pwerr.InvalidInput, outcome.Envelope.Error.Code)
}

func TestValidateModeRejectsInteractiveOnlyInBatch(t *testing.T) {
	err := AuthListen.ValidateMode(nil, ModeBatch)
	require.Error(t, err)
	coded, ok := pwerr.As(err)
	require.True(t, ok)
	assert.Equal(t, pwerr.UnsupportedMode, coded.Code)
}

func TestValidateModeAllowsBatchEnabledCommand(t *testing.T) {
	err := Quit.ValidateMode(nil, ModeBatch)
	assert.NoError(t, err)
}

func TestSuccessAttachesDelta(t *testing.T) {
	selector := "#main"
	out := Success(envelope.New("page.click").Data(map[string]any{"selector": selector}), contextstoreSelectorDelta(selector))
	require.NotNil(t, out.Delta.Selector)
	assert.Equal(t, selector, *out.Delta.Selector)
}
