package command

import (
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

// SessionStatus reports the current session descriptor (session.status).
var SessionStatus = Define("session.status", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		status, err := ec.Session.DescriptorStatus()
		if err != nil {
			return Outcome{}, err
		}
		out := envelope.New("session.status").Data(status)
		return Success(out, noDelta()), nil
	},
)

// SessionClear removes the session descriptor without touching the browser (session.clear).
var SessionClear = Define("session.clear", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		result, err := ec.Session.ClearDescriptorResponse()
		if err != nil {
			return Outcome{}, err
		}
		out := envelope.New("session.clear").Data(result)
		return Success(out, noDelta()), nil
	},
)

// SessionStartRaw is the wire shape of session.start.
type SessionStartRaw struct {
	Browser  string `json:"browser,omitempty"`
	Headless *bool  `json:"headless,omitempty"`
}

// SessionStart acquires (and persists) a session without running any page action.
var SessionStart = Define("session.start", false, true,
	func(raw SessionStartRaw, ec *ExecContext) (sessionmgr.Request, error) {
		req := sessionmgr.NewRequest(defaultBrowser(raw.Browser))
		if raw.Headless != nil {
			req = req.WithHeadless(*raw.Headless)
		}
		return req, nil
	},
	func(req sessionmgr.Request, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, req)
		if err != nil {
			return Outcome{}, err
		}
		out := envelope.New("session.start").Data(map[string]any{
			"cdpEndpoint": sess.CdpEndpoint(),
			"wsEndpoint":  sess.WsEndpoint(),
		})
		return Success(out, noDelta()), nil
	},
)

// SessionStop closes the descriptor-backed browser and removes the descriptor (session.stop).
var SessionStop = Define("session.stop", false, true,
	func(raw SessionStartRaw, ec *ExecContext) (sessionmgr.Request, error) {
		req := sessionmgr.NewRequest(defaultBrowser(raw.Browser))
		if raw.Headless != nil {
			req = req.WithHeadless(*raw.Headless)
		}
		return req, nil
	},
	func(req sessionmgr.Request, ec *ExecContext) (Outcome, error) {
		result, err := ec.Session.StopDescriptorSession(req)
		if err != nil {
			return Outcome{}, err
		}
		out := envelope.New("session.stop").Data(result)
		return Success(out, noDelta()), nil
	},
)
