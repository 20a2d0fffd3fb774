package sessionmgr

import "github.com/freitascorp/pwcli/internal/contextstore"

// Request is a fully resolved request to acquire a browser session,
// mirroring the original's session::spec::SessionRequest.
type Request struct {
	WaitUntil           string
	Headless            bool
	AuthFile            string
	Browser             string
	CdpEndpoint         string
	LaunchServer        bool
	RemoteDebuggingPort int
	KeepBrowserRunning  bool
	ProtectedURLs       []string
	PreferredURL        string
	Har                 *contextstore.HarDefaults
	BlockPatterns       []string
	DownloadDir         string
}

// NewRequest builds a request from session-manager defaults: headless,
// network-idle waits, no explicit endpoint.
func NewRequest(browser string) Request {
	return Request{
		WaitUntil: "networkidle",
		Headless:  true,
		Browser:   browser,
	}
}

func (r Request) WithHeadless(v bool) Request            { r.Headless = v; return r }
func (r Request) WithAuthFile(v string) Request           { r.AuthFile = v; return r }
func (r Request) WithBrowser(v string) Request            { r.Browser = v; return r }
func (r Request) WithCdpEndpoint(v string) Request        { r.CdpEndpoint = v; return r }
func (r Request) WithRemoteDebuggingPort(v int) Request   { r.RemoteDebuggingPort = v; return r }
func (r Request) WithKeepBrowserRunning(v bool) Request   { r.KeepBrowserRunning = v; return r }
func (r Request) WithPreferredURL(v string) Request       { r.PreferredURL = v; return r }
func (r Request) WithProtectedURLs(v []string) Request    { r.ProtectedURLs = v; return r }
func (r Request) WithLaunchServer(v bool) Request         { r.LaunchServer = v; return r }
