package command

import "github.com/freitascorp/pwcli/internal/envelope"

// Init is an explicit no-op stub: spec.md's Non-goals exclude project
// scaffolding from this CLI's scope, but the original's command surface
// reserves the name, so batch scripts and CLI help referencing `init`
// still resolve to a command rather than "unknown-command".
var Init = Define("init", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		out := envelope.New("init").Data(map[string]any{
			"message": "project scaffolding is out of scope for this CLI; nothing to do",
		})
		return Success(out, noDelta()), nil
	},
)

// Quit is the batch-loop sentinel (spec.md §4.9). The loop dispatches it
// like any other command, writes this response, then checks for the
// literal command name and exits; registering it here keeps lookup_command/command_name total
// over every name the catalog advertises.
var Quit = Define("quit", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		out := envelope.New("quit").Data(map[string]any{"bye": true})
		return Success(out, noDelta()), nil
	},
)
