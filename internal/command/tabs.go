package command

import (
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

// TabsList enumerates open tabs in the active session (tabs.list).
var TabsList = Define("tabs.list", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		out := envelope.New("tabs.list").Data(map[string]any{"tabs": sess.ListTabs()})
		return Success(out, noDelta()), nil
	},
)

// TabIndexRaw is the wire shape of tabs.switch / tabs.close.
type TabIndexRaw struct {
	Index int `json:"index"`
}

// TabsSwitch makes a given tab active (tabs.switch).
var TabsSwitch = Define("tabs.switch", false, true,
	func(raw TabIndexRaw, ec *ExecContext) (TabIndexRaw, error) { return raw, nil },
	func(r TabIndexRaw, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		if err := sess.SwitchTab(r.Index); err != nil {
			return Outcome{}, err
		}
		out := envelope.New("tabs.switch").Data(map[string]any{"active": r.Index})
		return Success(out, noDelta()), nil
	},
)

// TabsClose closes a tab (tabs.close).
var TabsClose = Define("tabs.close", false, true,
	func(raw TabIndexRaw, ec *ExecContext) (TabIndexRaw, error) { return raw, nil },
	func(r TabIndexRaw, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		if err := sess.CloseTab(ec.Ctx, r.Index); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
		}
		out := envelope.New("tabs.close").Data(map[string]any{"closed": r.Index})
		return Success(out, noDelta()), nil
	},
)

// TabsNew opens an additional tab and makes it active (tabs.new).
var TabsNew = Define("tabs.new", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		guid, err := sess.NewTab(ec.Ctx)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
		}
		out := envelope.New("tabs.new").Data(map[string]any{"pageGuid": guid})
		return Success(out, noDelta()), nil
	},
)
