package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/freitascorp/pwcli/internal/shell"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive line-editing session against the command catalog",
		Long: `shell starts a readline-driven REPL: each line names a command and an
optional JSON args blob, dispatched through the same catalog the batch loop
and one-shot CLI use. page.read output is rendered as markdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := buildSession(cmd.Context())
			if err != nil {
				return err
			}
			historyFile := filepath.Join(os.TempDir(), ".pwcli_history")
			return shell.Run(sess.ec, sess.store, historyFile)
		},
	}
}
