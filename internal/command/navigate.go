package command

import (
	"github.com/freitascorp/pwcli/internal/contextstore"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

// NavigateRaw is the wire shape of the navigate command.
type NavigateRaw struct {
	URL       string `json:"url"`
	WaitUntil string `json:"waitUntil,omitempty"`
	Browser   string `json:"browser,omitempty"`
	Headless  *bool  `json:"headless,omitempty"`
}

type navigateResolved struct {
	url       string
	waitUntil string
	req       sessionmgr.Request
}

// Navigate is the navigate command (spec.md C10): goes to a URL, defaulting
// the target to the context's base URL (the cached last URL is not used)
// and rejecting any URL that matches a protected-URL pattern.
var Navigate = Define("navigate", false, true,
	func(raw NavigateRaw, ec *ExecContext) (navigateResolved, error) {
		url := raw.URL
		if url == "" {
			if ec.Store.HasContextURL() {
				url = ec.Store.BaseURL()
			}
			if url == "" {
				return navigateResolved{}, pwerr.New(pwerr.InvalidInput, "url is required")
			}
		}
		if ec.Store.IsProtected(url) {
			return navigateResolved{}, pwerr.New(pwerr.InvalidInput, "navigation to %s is blocked by a protected-url pattern", url)
		}
		waitUntil := raw.WaitUntil
		if waitUntil == "" {
			waitUntil = "networkidle"
		}
		req := sessionmgr.NewRequest(defaultBrowser(raw.Browser))
		if raw.Headless != nil {
			req = req.WithHeadless(*raw.Headless)
		}
		req = req.WithPreferredURL(url)
		return navigateResolved{url: url, waitUntil: waitUntil, req: req}, nil
	},
	func(r navigateResolved, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, r.req)
		if err != nil {
			return Outcome{}, err
		}
		if err := sess.Navigate(ec.Ctx, r.url, r.waitUntil); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.NavigationFailed, err)
		}
		b := envelope.New("navigate").
			Inputs(envelope.Inputs{URL: r.url}).
			Data(map[string]any{"url": r.url})
		return Success(b, contextstore.ContextDelta{URL: &r.url}), nil
	},
)

func defaultBrowser(requested string) string {
	if requested == "" {
		return "chromium"
	}
	return requested
}
