// Package batchloop implements C9: the NDJSON request/response loop read
// from standard input, dispatching each line through internal/catalog and
// applying its context-store delta before the next line is read (spec.md
// §4.9, §5 "Ordering guarantees").
package batchloop

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/freitascorp/pwcli/internal/catalog"
	"github.com/freitascorp/pwcli/internal/command"
	"github.com/freitascorp/pwcli/internal/contextstore"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

const maxLineBytes = 10 * 1024 * 1024

// request is the wire shape of one batch line (spec.md §6 "NDJSON batch
// protocol"). SchemaVersion is accepted but not required; a request that
// omits id gets one generated so every response still carries a usable
// correlation id back to the caller.
type request struct {
	SchemaVersion int             `json:"schemaVersion,omitempty"`
	ID            string          `json:"id"`
	Command       string          `json:"command"`
	Args          json.RawMessage `json:"args"`
}

// Run drains in line by line until EOF or an explicit quit command,
// writing exactly one NDJSON response per non-blank request line to out.
func Run(in io.Reader, out io.Writer, ec *command.ExecContext, store *contextstore.State) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	enc := json.NewEncoder(out)
	ec.Mode = command.ModeBatch

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		var req request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			_ = enc.Encode(errorResponse("", "", pwerr.New(pwerr.InvalidInput, "malformed request line: %s", err.Error())))
			continue
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}

		id, ok := catalog.Lookup(req.Command)
		if !ok {
			_ = enc.Encode(errorResponse(req.ID, req.Command, pwerr.New(pwerr.InvalidInput, "unknown command: %s", req.Command)))
			continue
		}

		outcome := catalog.Run(id, req.Args, ec.HasCdp, ec)
		store.ApplyDelta(outcome.Delta)
		_ = store.Persist()
		_ = enc.Encode(toResponse(req.ID, outcome.Envelope))

		if req.Command == "quit" {
			return nil
		}
	}
	return scanner.Err()
}

func toResponse(id string, env envelope.Envelope) map[string]any {
	resp := map[string]any{
		"id":      id,
		"ok":      env.Success,
		"command": env.Command,
	}
	if env.Success {
		resp["data"] = env.Data
	}
	if env.Error != nil {
		resp["error"] = env.Error
	}
	if env.Inputs != nil {
		resp["inputs"] = env.Inputs
	}
	return resp
}

func errorResponse(id, cmd string, err error) map[string]any {
	coded := pwerr.Wrap(pwerr.InvalidInput, err)
	return map[string]any{
		"id":      id,
		"ok":      false,
		"command": cmd,
		"error":   map[string]any{"code": coded.Code, "message": coded.Message},
	}
}
