package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/freitascorp/pwcli/internal/connect"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

// DefaultTimeout bounds driver round trips when callers don't pass a context.
var DefaultTimeout = 30 * time.Second

// Session wraps a Client with the browser/context/page guids a command
// needs plus the bookkeeping sessionmgr.Session requires.
type Session struct {
	client      *Client
	cdpEndpoint string
	wsEndpoint  string
	browserGUID string
	contextGUID string
	keepRunning bool

	pages  []string
	active int
}

var _ sessionmgr.Session = (*Session)(nil)
var _ connect.CookieInjector = (*Session)(nil)

func (s *Session) CdpEndpoint() string { return s.cdpEndpoint }
func (s *Session) WsEndpoint() string  { return s.wsEndpoint }

func (s *Session) SetKeepBrowserRunning(v bool) { s.keepRunning = v }

// Close shuts down the browser unless keep-running was requested.
func (s *Session) Close() error {
	if s.keepRunning {
		return s.client.Close()
	}
	_, err := s.client.CallTimeout(DefaultTimeout, s.browserGUID, "close", nil)
	closeErr := s.client.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// InjectAuthFiles loads each storage-state file and adds its cookies to
// the session's default browser context.
func (s *Session) InjectAuthFiles(files []string) error {
	for _, f := range files {
		state, err := connect.LoadAuthState(f)
		if err != nil {
			return err
		}
		if len(state.Cookies) == 0 {
			continue
		}
		if err := s.addCookies(state.Cookies); err != nil {
			return fmt.Errorf("failed to inject auth cookies from %s: %w", f, err)
		}
	}
	return nil
}

// AddCookies implements connect.CookieInjector (as used by
// connect.MaybeApplyAuth). endpoint is ignored; the cookies go to this
// session's default context.
func (s *Session) AddCookies(endpoint string, cookies []connect.Cookie) error {
	return s.addCookies(cookies)
}

func (s *Session) addCookies(cookies []connect.Cookie) error {
	if s.contextGUID == "" {
		return pwerr.New(pwerr.SessionError, "connected browser did not expose a default context for auth injection")
	}
	_, err := s.client.CallTimeout(DefaultTimeout, s.contextGUID, "addCookies", map[string]any{"cookies": cookies})
	return err
}

// Call issues a raw driver request scoped to this session's connection,
// for command implementations that need direct page/context access.
func (s *Session) Call(ctx context.Context, guid, method string, params any) ([]byte, error) {
	return s.client.Call(ctx, guid, method, params)
}

// BrowserGUID and ContextGUID expose the session's top-level handles to
// command implementations building page-scoped calls.
func (s *Session) BrowserGUID() string { return s.browserGUID }
func (s *Session) ContextGUID() string { return s.contextGUID }

// ActivePage returns the current tab's page guid, opening one lazily if
// none exists yet (every navigating/reading command needs a page).
func (s *Session) ActivePage(ctx context.Context) (string, error) {
	if len(s.pages) == 0 {
		guid, err := s.newPage(ctx)
		if err != nil {
			return "", err
		}
		return guid, nil
	}
	return s.pages[s.active], nil
}

// NewTab opens an additional page in the same context and makes it active.
func (s *Session) NewTab(ctx context.Context) (string, error) {
	return s.newPage(ctx)
}

func (s *Session) newPage(ctx context.Context) (string, error) {
	if s.contextGUID == "" {
		return "", pwerr.New(pwerr.SessionError, "connected browser did not expose a default context for page creation")
	}
	raw, err := s.client.Call(ctx, s.contextGUID, "newPage", nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		PageGUID string `json:"pageGuid"`
	}
	if err := decodeResult(raw, &payload); err != nil {
		return "", pwerr.Wrap(pwerr.InternalError, err)
	}
	if payload.PageGUID == "" {
		return "", pwerr.New(pwerr.InternalError, "driver did not return a page guid for newPage")
	}
	s.pages = append(s.pages, payload.PageGUID)
	s.active = len(s.pages) - 1
	return payload.PageGUID, nil
}

// ListTabs returns every known page guid in open order.
func (s *Session) ListTabs() []string { return append([]string(nil), s.pages...) }

// SwitchTab makes the page at index active, per tabs.switch.
func (s *Session) SwitchTab(index int) error {
	if index < 0 || index >= len(s.pages) {
		return pwerr.New(pwerr.InvalidInput, "tab index %d out of range (%d open)", index, len(s.pages))
	}
	s.active = index
	return nil
}

// CloseTab closes the page at index and drops it from the tab list.
func (s *Session) CloseTab(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.pages) {
		return pwerr.New(pwerr.InvalidInput, "tab index %d out of range (%d open)", index, len(s.pages))
	}
	guid := s.pages[index]
	_, err := s.client.Call(ctx, guid, "close", nil)
	s.pages = append(s.pages[:index], s.pages[index+1:]...)
	if s.active >= len(s.pages) {
		s.active = len(s.pages) - 1
	}
	return err
}
