package command

import (
	"github.com/freitascorp/pwcli/internal/contextstore"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

const defaultActionTimeoutMs = 30000

// ClickRaw is the wire shape of the click command.
type ClickRaw struct {
	Selector  string `json:"selector,omitempty"`
	TimeoutMs int64  `json:"timeoutMs,omitempty"`
}

type selectorResolved struct {
	selector  string
	timeoutMs int64
}

// Click clicks the resolved selector (provided, else last-used, spec.md §8 property 1).
var Click = Define("click", false, true,
	func(raw ClickRaw, ec *ExecContext) (selectorResolved, error) {
		selector, err := ec.Store.ResolveSelector(raw.Selector, "")
		if err != nil {
			return selectorResolved{}, err
		}
		timeout := raw.TimeoutMs
		if timeout <= 0 {
			timeout = defaultActionTimeoutMs
		}
		return selectorResolved{selector: selector, timeoutMs: timeout}, nil
	},
	func(r selectorResolved, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		if err := sess.Click(ec.Ctx, r.selector, r.timeoutMs); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.SelectorNotFound, err)
		}
		b := envelope.New("click").
			Inputs(envelope.Inputs{Selector: r.selector}).
			Data(map[string]any{"selector": r.selector, "clicked": true})
		return Success(b, contextstore.ContextDelta{Selector: &r.selector}), nil
	},
)

// FillRaw is the wire shape of the fill command.
type FillRaw struct {
	Selector  string `json:"selector,omitempty"`
	Value     string `json:"value"`
	TimeoutMs int64  `json:"timeoutMs,omitempty"`
}

type fillResolved struct {
	selector  string
	value     string
	timeoutMs int64
}

// Fill types a value into the resolved selector.
var Fill = Define("fill", false, true,
	func(raw FillRaw, ec *ExecContext) (fillResolved, error) {
		selector, err := ec.Store.ResolveSelector(raw.Selector, "")
		if err != nil {
			return fillResolved{}, err
		}
		timeout := raw.TimeoutMs
		if timeout <= 0 {
			timeout = defaultActionTimeoutMs
		}
		return fillResolved{selector: selector, value: raw.Value, timeoutMs: timeout}, nil
	},
	func(r fillResolved, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		if err := sess.Fill(ec.Ctx, r.selector, r.value, r.timeoutMs); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.SelectorNotFound, err)
		}
		b := envelope.New("fill").
			Inputs(envelope.Inputs{Selector: r.selector}).
			Data(map[string]any{"selector": r.selector, "filled": true})
		return Success(b, contextstore.ContextDelta{Selector: &r.selector}), nil
	},
)

// WaitRaw is the wire shape of the wait command.
type WaitRaw struct {
	Selector  string `json:"selector,omitempty"`
	TimeoutMs int64  `json:"timeoutMs,omitempty"`
}

// Wait blocks until the resolved selector appears.
var Wait = Define("wait", false, true,
	func(raw WaitRaw, ec *ExecContext) (selectorResolved, error) {
		selector, err := ec.Store.ResolveSelector(raw.Selector, "")
		if err != nil {
			return selectorResolved{}, err
		}
		timeout := raw.TimeoutMs
		if timeout <= 0 {
			timeout = defaultActionTimeoutMs
		}
		return selectorResolved{selector: selector, timeoutMs: timeout}, nil
	},
	func(r selectorResolved, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		if err := sess.WaitForSelector(ec.Ctx, r.selector, r.timeoutMs); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.Timeout, err)
		}
		b := envelope.New("wait").
			Inputs(envelope.Inputs{Selector: r.selector}).
			Data(map[string]any{"selector": r.selector, "appeared": true})
		return Success(b, contextstore.ContextDelta{Selector: &r.selector}), nil
	},
)
