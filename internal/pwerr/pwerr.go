// Package pwerr defines the closed error-code enum shared by every command
// and the envelope serializers.
package pwerr

import (
	"encoding/json"
	"fmt"
)

// Code is one of the closed set of error codes a command envelope may carry.
type Code string

const (
	BrowserLaunchFailed Code = "browser-launch-failed"
	NavigationFailed    Code = "navigation-failed"
	SelectorNotFound    Code = "selector-not-found"
	SelectorAmbiguous   Code = "selector-ambiguous"
	Timeout             Code = "timeout"
	JSEvalFailed        Code = "js-eval-failed"
	ScreenshotFailed    Code = "screenshot-failed"
	IOError             Code = "io-error"
	SessionError        Code = "session-error"
	InvalidInput        Code = "invalid-input"
	UnsupportedMode     Code = "unsupported-mode"
	AuthError           Code = "auth-error"
	InternalError       Code = "internal-error"
)

// MarshalJSON renders the code as SCREAMING_SNAKE_CASE on the wire, per
// spec.md §4.1 — envelopes must carry codes like "UNSUPPORTED_MODE", not
// the hyphenated internal constant.
func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Screaming())
}

// Screaming renders the code as SCREAMING_SNAKE_CASE, per spec.md §4.1.
func (c Code) Screaming() string {
	out := make([]byte, 0, len(c))
	for i := 0; i < len(c); i++ {
		ch := c[i]
		switch {
		case ch == '-':
			out = append(out, '_')
		case ch >= 'a' && ch <= 'z':
			out = append(out, ch-('a'-'A'))
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

// Error is the error type every command body should return.
type Error struct {
	Code    Code
	Message string
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code.Screaming(), e.Message)
}

// New builds a plain coded error.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails attaches structured details to a coded error.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// Wrap classifies an arbitrary error under a code, preserving its message.
func Wrap(code Code, err error) *Error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*Error); ok {
		return pe
	}
	return &Error{Code: code, Message: err.Error()}
}

// As extracts a *Error from any error, if present.
func As(err error) (*Error, bool) {
	pe, ok := err.(*Error)
	return pe, ok
}

// Classify maps driver-level error names (spec.md §7) onto codes.
// The mapping lives in one place so new driver error names are reclassified
// without touching command code.
func Classify(driverErrorName string, message string) *Error {
	switch driverErrorName {
	case "TimeoutError":
		return New(Timeout, "%s", message)
	case "TargetClosedError":
		return New(SessionError, "%s", message)
	default:
		return New(InternalError, "%s", message)
	}
}
