package driver

import (
	"context"
	"encoding/json"

	pwconnect "github.com/freitascorp/pwcli/internal/connect"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

// Launcher implements sessionmgr.Launcher against a running driver
// process reachable at DriverEndpoint (spec.md §4.4/§4.6).
type Launcher struct {
	// DriverEndpoint is the websocket URL of the Playwright-compatible
	// driver process itself (distinct from the CDP endpoint of a target
	// browser it connects out to).
	DriverEndpoint string
	ProjectRoot    string
	Namespace      string
}

var _ sessionmgr.Launcher = (*Launcher)(nil)

func (l *Launcher) newSession(ctx context.Context, cdpEndpoint string) (*Client, error) {
	endpoint := l.DriverEndpoint
	if endpoint == "" {
		return nil, pwerr.New(pwerr.InternalError, "driver endpoint not configured")
	}
	return Dial(ctx, endpoint)
}

func (l *Launcher) buildSession(client *Client, cdp, ws string) (*Session, error) {
	browserResult, err := client.CallTimeout(DefaultTimeout, "", "newBrowser", map[string]any{"cdpEndpoint": cdp})
	if err != nil {
		return nil, err
	}
	browserGUID, contextGUID := parseNewBrowserResult(browserResult)
	return &Session{client: client, cdpEndpoint: cdp, wsEndpoint: ws, browserGUID: browserGUID, contextGUID: contextGUID}, nil
}

// AttachCDP connects the driver to an already-running browser's CDP endpoint.
func (l *Launcher) AttachCDP(req sessionmgr.Request, storageState *pwconnect.StorageState, endpoint string) (sessionmgr.Session, error) {
	client, err := l.newSession(context.Background(), endpoint)
	if err != nil {
		return nil, err
	}
	session, err := l.buildSession(client, endpoint, "")
	if err != nil {
		client.Close()
		return nil, err
	}
	if storageState != nil {
		if err := session.addCookies(storageState.Cookies); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// LaunchPersistent launches (or reuses) a Chromium instance with a fixed
// remote-debugging port, per spec.md §4.6's persistent-debug strategy.
func (l *Launcher) LaunchPersistent(req sessionmgr.Request, storageState *pwconnect.StorageState, port int) (sessionmgr.Session, error) {
	ctx := context.Background()
	userDataDir, err := pwconnect.ResolveUserDataDir(l.ProjectRoot, l.Namespace, "")
	if err != nil {
		return nil, err
	}
	info, err := pwconnect.Discover(ctx, port)
	if err != nil {
		info, err = pwconnect.Launch(ctx, port, userDataDir)
		if err != nil {
			return nil, pwerr.Wrap(pwerr.BrowserLaunchFailed, err)
		}
	}
	return l.AttachCDP(req, storageState, info.WebSocketDebuggerURL)
}

// LaunchServer asks the driver to start a detached browser server and
// connects to the resulting websocket endpoint.
func (l *Launcher) LaunchServer(req sessionmgr.Request, storageState *pwconnect.StorageState) (sessionmgr.Session, error) {
	client, err := l.newSession(context.Background(), "")
	if err != nil {
		return nil, err
	}
	result, err := client.CallTimeout(DefaultTimeout, "", "launchServer", map[string]any{
		"browser":  req.Browser,
		"headless": req.Headless,
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	ws := parseLaunchServerResult(result)
	session, err := l.buildSession(client, "", ws)
	if err != nil {
		client.Close()
		return nil, err
	}
	if storageState != nil {
		if err := session.addCookies(storageState.Cookies); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// FreshLaunch asks the driver to launch a brand new browser process
// directly (the default acquisition path).
func (l *Launcher) FreshLaunch(req sessionmgr.Request, storageState *pwconnect.StorageState) (sessionmgr.Session, error) {
	client, err := l.newSession(context.Background(), "")
	if err != nil {
		return nil, err
	}
	result, err := client.CallTimeout(DefaultTimeout, "", "launch", map[string]any{
		"browser":   req.Browser,
		"headless":  req.Headless,
		"waitUntil": req.WaitUntil,
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	browserGUID, contextGUID := parseNewBrowserResult(result)
	session := &Session{client: client, browserGUID: browserGUID, contextGUID: contextGUID}
	if storageState != nil {
		if err := session.addCookies(storageState.Cookies); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func parseNewBrowserResult(raw []byte) (browserGUID, contextGUID string) {
	var payload struct {
		BrowserGUID string `json:"browserGuid"`
		ContextGUID string `json:"contextGuid"`
	}
	_ = decodeResult(raw, &payload)
	return payload.BrowserGUID, payload.ContextGUID
}

func parseLaunchServerResult(raw []byte) string {
	var payload struct {
		WsEndpoint string `json:"wsEndpoint"`
	}
	_ = decodeResult(raw, &payload)
	return payload.WsEndpoint
}

func decodeResult(raw []byte, target any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}
