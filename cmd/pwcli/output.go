package main

import (
	"fmt"
	"os"

	"github.com/freitascorp/pwcli/internal/command"
	"github.com/freitascorp/pwcli/internal/envelope"
)

// printEnvelope serializes an outcome using the configured --output format
// (envelope.Write covers json/ndjson/toon/text) and reports failure to the
// caller so main sets exit code 1 (spec.md §6 "Primary exit codes").
func printEnvelope(outcome command.Outcome) error {
	env := outcome.Envelope
	if err := envelope.Write(os.Stdout, env, envelope.ParseFormat(flags.output)); err != nil {
		return err
	}
	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("%s failed", env.Command)
	}
	return nil
}
