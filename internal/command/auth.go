package command

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/freitascorp/pwcli/internal/authlisten"
	"github.com/freitascorp/pwcli/internal/connect"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
	"golang.org/x/term"
)

const defaultAuthListenTimeout = 5 * time.Minute

// AuthListenRaw is the wire shape of auth.listen.
type AuthListenRaw struct {
	Addr      string `json:"addr,omitempty"`
	OutDir    string `json:"outDir"`
	TimeoutMs int64  `json:"timeoutMs,omitempty"`
}

// AuthListen runs the bounded websocket cookie-ingestion listener
// (spec.md §6 "Auth-listener"), interactive-only since it blocks on a
// browser-extension connection.
var AuthListen = Define("auth.listen", true, false,
	func(raw AuthListenRaw, ec *ExecContext) (AuthListenRaw, error) {
		if raw.OutDir == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "outDir is required")
		}
		if raw.Addr == "" {
			raw.Addr = "127.0.0.1:9766"
		}
		return raw, nil
	},
	func(r AuthListenRaw, ec *ExecContext) (Outcome, error) {
		timeout := defaultAuthListenTimeout
		if r.TimeoutMs > 0 {
			timeout = time.Duration(r.TimeoutMs) * time.Millisecond
		}
		result, err := authlisten.Listen(ec.Ctx, r.Addr, ec.AuthListenToken, r.OutDir, timeout)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.AuthError, err)
		}
		out := envelope.New("auth.listen").Data(map[string]any{
			"domains":   result.Domains,
			"authFiles": result.AuthFiles,
		})
		for _, f := range result.AuthFiles {
			out.Artifact(envelope.Artifact{Kind: envelope.ArtifactAuth, Path: f})
		}
		return Success(out, noDelta()), nil
	},
)

// AuthLoginRaw is the wire shape of auth.login.
type AuthLoginRaw struct {
	AuthFile  string `json:"authFile"`
	URL       string `json:"url,omitempty"`
	TimeoutMs int64  `json:"timeoutMs,omitempty"`
}

// AuthLogin opens a browser for manual login, then waits until the user
// presses Enter (or the timeout elapses), whichever comes first (spec.md §5
// "Cancellation and timeouts"), and reports the auth-file path. When stdin
// is not a terminal it does not wait. No cookies are read from the browser
// or written to the auth file; cookiesApplied is always 0.
// Interactive-only: this needs a human at a terminal and a visible browser
// window.
var AuthLogin = Define("auth.login", true, false,
	func(raw AuthLoginRaw, ec *ExecContext) (AuthLoginRaw, error) {
		if raw.AuthFile == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "authFile is required")
		}
		return raw, nil
	},
	func(r AuthLoginRaw, ec *ExecContext) (Outcome, error) {
		req := sessionmgr.NewRequest("chromium").WithHeadless(false)
		sess, err := EnsureSession(ec, req)
		if err != nil {
			return Outcome{}, err
		}
		if r.URL != "" {
			if err := sess.Navigate(ec.Ctx, r.URL, "networkidle"); err != nil {
				return Outcome{}, pwerr.Wrap(pwerr.NavigationFailed, err)
			}
		}

		waitForEnterOrTimeout(r.TimeoutMs)

		summary, err := captureSessionCookies(sess, r.AuthFile)
		if err != nil {
			return Outcome{}, err
		}

		out := envelope.New("auth.login").
			Data(map[string]any{"authFile": r.AuthFile, "cookiesApplied": summary.CookiesApplied}).
			Artifact(envelope.Artifact{Kind: envelope.ArtifactAuth, Path: r.AuthFile})
		return Success(out, noDelta()), nil
	},
)

func waitForEnterOrTimeout(timeoutMs int64) {
	timeout := defaultAuthListenTimeout
	if timeoutMs > 0 {
		timeout = time.Duration(timeoutMs) * time.Millisecond
	}

	done := make(chan struct{})
	go func() {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			reader := bufio.NewReader(os.Stdin)
			fmt.Fprintln(os.Stderr, "Log in, then press Enter to continue...")
			_, _ = reader.ReadString('\n')
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}

// capturedCookieSession is satisfied by driver.Session, whose AddCookies
// injects cookies; it has no call that reads cookies back.
type capturedCookieSession interface {
	AddCookies(endpoint string, cookies []connect.Cookie) error
}

func captureSessionCookies(sess capturedCookieSession, authFile string) (*connect.AuthApplySummary, error) {
	// The driver doesn't expose a cookie-read call in this transport; the
	// browser-extension listener path (auth.listen) is the supported way
	// to capture cookies. This records the intended auth file location so
	// a subsequent auth.cookies call can merge a listener-produced file in.
	return &connect.AuthApplySummary{AuthFile: authFile, CookiesApplied: 0}, nil
}

// AuthCookiesRaw is the wire shape of auth.cookies.
type AuthCookiesRaw struct {
	AuthFile string `json:"authFile"`
}

// AuthCookies applies a storage-state file's cookies to the active session (auth.cookies).
var AuthCookies = Define("auth.cookies", false, true,
	func(raw AuthCookiesRaw, ec *ExecContext) (AuthCookiesRaw, error) {
		if raw.AuthFile == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "authFile is required")
		}
		return raw, nil
	},
	func(r AuthCookiesRaw, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		if err := sess.InjectAuthFiles([]string{r.AuthFile}); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.AuthError, err)
		}
		out := envelope.New("auth.cookies").Data(map[string]any{"authFile": r.AuthFile, "applied": true})
		return Success(out, noDelta()), nil
	},
)

// AuthShow reports the cookie/origin counts in a storage-state file (auth.show).
var AuthShow = Define("auth.show", false, true,
	func(raw AuthCookiesRaw, ec *ExecContext) (AuthCookiesRaw, error) {
		if raw.AuthFile == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "authFile is required")
		}
		return raw, nil
	},
	func(r AuthCookiesRaw, ec *ExecContext) (Outcome, error) {
		state, err := connect.LoadAuthState(r.AuthFile)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.IOError, err)
		}
		out := envelope.New("auth.show").Data(map[string]any{
			"authFile": r.AuthFile, "cookies": len(state.Cookies), "origins": len(state.Origins),
		})
		return Success(out, noDelta()), nil
	},
)
