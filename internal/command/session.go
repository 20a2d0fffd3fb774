package command

import (
	"github.com/freitascorp/pwcli/internal/driver"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

// EnsureSession acquires a session for this execution scope, reusing one
// already obtained earlier in the same batch loop/one-shot invocation
// (spec.md §5 "the broker holds at most one active session across
// requests").
func EnsureSession(ec *ExecContext, req sessionmgr.Request) (*driver.Session, error) {
	if ec.Live != nil {
		if sess, ok := ec.Live.Session.(*driver.Session); ok {
			return sess, nil
		}
	}
	handle, err := ec.Session.Acquire(req)
	if err != nil {
		return nil, err
	}
	ec.Live = handle
	sess, ok := handle.Session.(*driver.Session)
	if !ok {
		return nil, nil
	}
	return sess, nil
}
