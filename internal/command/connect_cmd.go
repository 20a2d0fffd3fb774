package command

import (
	"github.com/freitascorp/pwcli/internal/connect"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

// ConnectRaw is the wire shape of the standalone connect command, which
// discovers/launches/sets a CDP endpoint without going through session
// acquisition — useful for priming a port before other commands attach to
// it (spec.md §4.4).
type ConnectRaw struct {
	Port        int    `json:"port,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
	Clear       bool   `json:"clear,omitempty"`
	Launch      bool   `json:"launch,omitempty"`
	Discover    bool   `json:"discover,omitempty"`
	Kill        bool   `json:"kill,omitempty"`
	UserDataDir string `json:"userDataDir,omitempty"`
}

// Connect drives the connect subsystem directly (C4), matching
// connect.rs::run's precedence: clear, kill, launch (discover-first,
// launch-on-miss), discover, manual endpoint set, then show the current
// endpoint.
var Connect = Define("connect", false, true,
	func(raw ConnectRaw, ec *ExecContext) (ConnectRaw, error) { return raw, nil },
	func(r ConnectRaw, ec *ExecContext) (Outcome, error) {
		port := connect.ResolvePort(ec.Namespace, r.Port)

		if r.Clear {
			ec.Store.SetCdpEndpoint("")
			out := envelope.New("connect").Data(map[string]any{"action": "cleared", "endpoint": nil})
			return Success(out, noDelta()), nil
		}

		if r.Kill {
			detail, killed, err := connect.Kill(ec.Ctx, port)
			if err != nil {
				return Outcome{}, pwerr.Wrap(pwerr.SessionError, err)
			}
			out := envelope.New("connect").Data(map[string]any{"action": "killed", "port": port, "killed": killed, "detail": detail})
			return Success(out, noDelta()), nil
		}

		if r.Launch {
			info, err := connect.Discover(ec.Ctx, port)
			if err != nil {
				userDataDir, dirErr := connect.ResolveUserDataDir(ec.ProjectRoot, ec.Namespace, r.UserDataDir)
				if dirErr != nil {
					return Outcome{}, pwerr.Wrap(pwerr.IOError, dirErr)
				}
				info, err = connect.Launch(ec.Ctx, port, userDataDir)
				if err != nil {
					return Outcome{}, pwerr.Wrap(pwerr.BrowserLaunchFailed, err)
				}
			}
			ec.Store.SetCdpEndpoint(info.WebSocketDebuggerURL)
			out := envelope.New("connect").Data(map[string]any{
				"action": "launched", "port": port, "endpoint": info.WebSocketDebuggerURL, "browser": info.Browser,
			})
			return Success(out, noDelta()), nil
		}

		if r.Discover {
			info, err := connect.Discover(ec.Ctx, port)
			if err != nil {
				return Outcome{}, pwerr.Wrap(pwerr.SessionError, err)
			}
			ec.Store.SetCdpEndpoint(info.WebSocketDebuggerURL)
			out := envelope.New("connect").Data(map[string]any{
				"action": "discovered", "port": port, "endpoint": info.WebSocketDebuggerURL, "browser": info.Browser,
			})
			return Success(out, noDelta()), nil
		}

		if r.Endpoint != "" {
			ec.Store.SetCdpEndpoint(r.Endpoint)
			out := envelope.New("connect").Data(map[string]any{"action": "set", "endpoint": r.Endpoint})
			return Success(out, noDelta()), nil
		}

		if current := ec.Store.CdpEndpoint(); current != "" {
			out := envelope.New("connect").Data(map[string]any{"action": "show", "endpoint": current})
			return Success(out, noDelta()), nil
		}
		out := envelope.New("connect").Data(map[string]any{"action": "show", "endpoint": nil})
		return Success(out, noDelta()), nil
	},
)
