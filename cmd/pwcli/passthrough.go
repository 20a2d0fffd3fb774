// run/relay/test are the CLI-variant-to-invocation passthrough list named
// in spec.md §4.8 step 5: handled outside the catalog registry entirely,
// since none of the three maps onto a single resolve/execute command body.
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/freitascorp/pwcli/internal/batchloop"
	"github.com/freitascorp/pwcli/internal/driver"
)

// newRunCmd reads a file of NDJSON command requests and drives it through
// the batch loop, the same way `pwcli batch` drives stdin — a scripted
// variant for CI and fixtures.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script-file>",
		Short: "Run an NDJSON command script from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sess, err := buildSession(cmd.Context())
			if err != nil {
				return err
			}
			return batchloop.Run(f, os.Stdout, sess.ec, sess.store)
		},
	}
}

// newRelayCmd opens a direct JSON-RPC connection to a driver endpoint and
// prints any console events it captures, bypassing the command catalog
// entirely — a debug passthrough for watching the wire protocol directly
// (spec.md §6 "driver protocol... the system consumes this protocol; it
// does not re-serve it" — this is the one place it is observed raw, and
// only at the console-event granularity the client already buffers).
func newRelayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relay <driver-endpoint>",
		Short: "Connect to a driver endpoint and print console events as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := driver.Dial(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer client.Close()

			fmt.Fprintf(os.Stderr, "relaying %s — Ctrl-C to stop\n", args[0])
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
					for _, msg := range client.DrainConsole() {
						fmt.Printf("[%s] %s\n", msg.Type, msg.Text)
					}
				}
			}
		},
	}
}

// newTestCmd is a connectivity self-check: acquire a session against the
// configured browser/endpoint and report whether the pipeline works end to
// end, without asserting anything about page content (spec.md's Non-goals
// explicitly exclude a page-assertion test runner).
func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that a browser session can be acquired and driven",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := buildSession(cmd.Context())
			if err != nil {
				return err
			}

			req := defaultSmokeRequest()
			handle, err := sess.ec.Session.Acquire(req)
			if err != nil {
				fmt.Fprintf(os.Stderr, "FAIL: could not acquire a session: %v\n", err)
				return err
			}
			defer handle.Session.Close()

			w := bufio.NewWriter(os.Stdout)
			fmt.Fprintf(w, "OK: acquired %s session (cdp=%s)\n", req.Browser, handle.Session.CdpEndpoint())
			return w.Flush()
		},
	}
}
