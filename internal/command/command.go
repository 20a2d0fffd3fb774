// Package command implements C7 (the command contract) and hosts the C10
// command bodies. Each command is a Definition[Raw, Resolved]: a pure
// resolve step consulting the context store, and an execute step that may
// talk to the session manager and the driver. Definition erases the type
// parameters behind a uniform Run func so the catalog can dispatch by name
// alone, mirroring the original's trait-object command registry
// (crates/cli/src/commands/mod.rs) without needing Go interface{} dispatch
// sprinkled through call sites.
package command

import (
	"context"
	"encoding/json"

	"github.com/freitascorp/pwcli/internal/contextstore"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

// Mode is where a command is being invoked from (spec.md §4.7).
type Mode string

const (
	ModeOneShot Mode = "one-shot"
	ModeBatch   Mode = "batch"
)

// ExecContext is the shared execution environment passed to every command,
// assembled once per invocation (one-shot) or once per batch loop (C9).
type ExecContext struct {
	Ctx          context.Context
	Store        *contextstore.State
	Session      *sessionmgr.Manager
	Mode         Mode
	OutputFormat string
	ArtifactsDir string
	HasCdp       bool

	ProjectRoot      string
	Namespace        string
	DaemonSocketPath string
	DaemonDBPath     string
	AuthListenToken  string

	// Live holds the session acquired for this invocation, if any command
	// in this scope has already called Acquire. The batch loop's broker
	// stores one across requests; one-shot invocations start nil each time.
	Live *sessionmgr.Handle
}

// Outcome is what a command body produces before it's tagged with the
// canonical command name by run_command (spec.md §4.8 step 4).
type Outcome struct {
	Envelope envelope.Envelope
	Delta    contextstore.ContextDelta
}

// Definition is the erased, catalog-facing form of a command (C7).
type Definition struct {
	Name            string
	InteractiveOnly bool
	BatchEnabled    bool
	ValidateMode    func(raw json.RawMessage, mode Mode) error
	Run             func(ec *ExecContext, raw json.RawMessage) Outcome
}

// Define builds a Definition from a generically-typed command. Resolve is
// pure (spec.md §4.7: "consults context store, protected URLs, CDP-presence
// flag, command name" — no I/O beyond those reads); Execute may block.
func Define[Raw any, Resolved any](
	name string,
	interactiveOnly, batchEnabled bool,
	resolve func(raw Raw, ec *ExecContext) (Resolved, error),
	execute func(resolved Resolved, ec *ExecContext) (Outcome, error),
) Definition {
	return Definition{
		Name:            name,
		InteractiveOnly: interactiveOnly,
		BatchEnabled:    batchEnabled,
		ValidateMode: func(raw json.RawMessage, mode Mode) error {
			if mode == ModeBatch && interactiveOnly {
				return pwerr.New(pwerr.UnsupportedMode, "%s cannot run in batch mode", name)
			}
			if mode == ModeBatch && !batchEnabled {
				return pwerr.New(pwerr.UnsupportedMode, "%s is not enabled for batch mode", name)
			}
			return nil
		},
		Run: func(ec *ExecContext, raw json.RawMessage) Outcome {
			var parsed Raw
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &parsed); err != nil {
					return errOutcome(name, pwerr.New(pwerr.InvalidInput, "invalid arguments for %s: %s", name, err.Error()))
				}
			}
			resolved, err := resolve(parsed, ec)
			if err != nil {
				return errOutcome(name, err)
			}
			outcome, err := execute(resolved, ec)
			if err != nil {
				return errOutcome(name, err)
			}
			outcome.Envelope.Command = name
			return outcome
		},
	}
}

func errOutcome(name string, err error) Outcome {
	coded := pwerr.Wrap(pwerr.InternalError, err)
	env := envelope.New(name).ErrorFrom(coded).Build()
	return Outcome{Envelope: env}
}

// Success is a small helper most Execute bodies use to build an Outcome.
func Success(b *envelope.Builder, delta contextstore.ContextDelta) Outcome {
	return Outcome{Envelope: b.Build(), Delta: delta}
}
