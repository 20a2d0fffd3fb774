// Package authlisten implements the bounded browser-extension cookie
// ingestion listener mentioned in spec.md §6: "a WebSocket server
// accepting a hello message with a token, followed by cookies grouped by
// domain; persisted as one storage-state file per domain." Spec.md
// explicitly scopes this out of the core design, so this package is kept
// deliberately small — grounded on the teacher's ws_relay.go accept/read
// loop, pared down to a single bounded connection.
package authlisten

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/freitascorp/pwcli/internal/connect"
)

// hello is the first frame a browser extension must send.
type hello struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// cookieBatch groups cookies by domain, the second and final frame.
type cookieBatch struct {
	Type    string                     `json:"type"`
	Domains map[string][]connect.Cookie `json:"domains"`
}

// Result reports what was written to disk.
type Result struct {
	Domains   []string
	AuthFiles []string
}

// Listen accepts exactly one connection on addr, validates its token,
// reads one cookie batch, and writes one storage-state file per domain
// under outDir, then shuts down. It returns when a session completes,
// timeout elapses, or ctx is canceled.
func Listen(ctx context.Context, addr, token, outDir string, timeout time.Duration) (Result, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return Result{}, fmt.Errorf("auth listener bind %s: %w", addr, err)
	}
	defer listener.Close()

	resultCh := make(chan Result, 1)
	errCh := make(chan error, 1)

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := handleSession(r.Context(), w, r, token, outDir)
			if err != nil {
				errCh <- err
				return
			}
			resultCh <- res
		}),
	}
	go srv.Serve(listener)
	defer srv.Close()

	select {
	case res := <-resultCh:
		return res, nil
	case err := <-errCh:
		return Result{}, err
	case <-time.After(timeout):
		return Result{}, fmt.Errorf("auth listener timed out after %s waiting for a connection", timeout)
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func handleSession(ctx context.Context, w http.ResponseWriter, r *http.Request, token, outDir string) (Result, error) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return Result{}, err
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	var h hello
	if err := wsjson.Read(ctx, conn, &h); err != nil {
		return Result{}, fmt.Errorf("read hello frame: %w", err)
	}
	if h.Type != "hello" || h.Token != token {
		conn.Close(websocket.StatusPolicyViolation, "invalid token")
		return Result{}, fmt.Errorf("auth listener: invalid or missing token")
	}

	var batch cookieBatch
	if err := wsjson.Read(ctx, conn, &batch); err != nil {
		return Result{}, fmt.Errorf("read cookie batch: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, err
	}

	res := Result{}
	for domain, cookies := range batch.Domains {
		state := connect.StorageState{Cookies: cookies}
		buf, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return Result{}, err
		}
		path := filepath.Join(outDir, sanitizeDomain(domain)+".json")
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			return Result{}, err
		}
		res.Domains = append(res.Domains, domain)
		res.AuthFiles = append(res.AuthFiles, path)
	}

	return res, nil
}

func sanitizeDomain(domain string) string {
	out := make([]byte, 0, len(domain))
	for i := 0; i < len(domain); i++ {
		c := domain[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '.':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
