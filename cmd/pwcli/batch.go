package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/freitascorp/pwcli/internal/batchloop"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Read NDJSON command requests from stdin, one response per line",
		Long: `batch drives the same command catalog as every other subcommand, but
reads one JSON request per line from stdin and writes one JSON response per
line to stdout until EOF or an explicit "quit" command (spec.md §4.9, §6
"NDJSON batch protocol").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := buildSession(cmd.Context())
			if err != nil {
				return err
			}
			return batchloop.Run(os.Stdin, os.Stdout, sess.ec, sess.store)
		},
	}
}
