// Each catalog entry (spec.md §4.8) projects to one generated cobra
// sub-command here; `init`/`quit` and the other catalog names all take the
// same shape (an optional JSON args blob), since the catalog itself erases
// each command's concrete Raw type, and `connect` is one of these catalog
// entries too. Passthrough variants (batch/shell/run/relay/test) are
// hand-written in their own files instead.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/freitascorp/pwcli/internal/catalog"
)

// newCatalogCommands builds one cobra.Command per catalog entry.
func newCatalogCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, 40)
	for id := catalog.ID(0); ; id++ {
		name := catalog.Name(id)
		if name == "" {
			break
		}
		cmds = append(cmds, newCatalogCmd(id, name))
	}
	return cmds
}

func newCatalogCmd(id catalog.ID, name string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [args-json]",
		Short: fmt.Sprintf("Run the %s command", name),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogCommand(cmd.Context(), id, args)
		},
	}
}

// runCatalogCommand builds an ExecContext, merges global-flag overrides
// into the command's JSON args, runs it through the catalog, applies the
// resulting context delta, and prints the envelope.
func runCatalogCommand(ctx context.Context, id catalog.ID, posArgs []string) error {
	sess, err := buildSession(ctx)
	if err != nil {
		return err
	}

	argsJSON := json.RawMessage("{}")
	if len(posArgs) == 1 && posArgs[0] != "" {
		argsJSON = json.RawMessage(posArgs[0])
	}
	argsJSON, err = mergeGlobalArgs(argsJSON)
	if err != nil {
		return err
	}

	hasCdp := sess.store.CdpEndpoint() != ""
	outcome := catalog.Run(id, argsJSON, hasCdp, sess.ec)
	sess.store.ApplyDelta(outcome.Delta)
	if err := sess.store.Persist(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to persist context store: %v\n", err)
	}

	return printEnvelope(outcome)
}

// mergeGlobalArgs folds --browser/--auth-file into the args object when the
// caller didn't already set them explicitly, so a command's Raw struct
// (which may declare a Browser/AuthFile field) picks up the global default
// without every cobra adapter needing to know the command's concrete shape.
func mergeGlobalArgs(raw json.RawMessage) (json.RawMessage, error) {
	if flags.browser == "" && flags.authFile == "" {
		return raw, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		obj = map[string]any{}
	}
	if flags.browser != "" {
		if _, ok := obj["browser"]; !ok {
			obj["browser"] = flags.browser
		}
	}
	if flags.authFile != "" {
		if _, ok := obj["authFile"]; !ok {
			obj["authFile"] = flags.authFile
		}
	}
	return json.Marshal(obj)
}
