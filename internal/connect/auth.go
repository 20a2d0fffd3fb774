package connect

import (
	"encoding/json"
	"fmt"
	"os"
)

// Cookie mirrors a single entry of a Playwright storage-state file.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Origin mirrors one origin's localStorage entries in a storage-state file.
type Origin struct {
	Origin       string `json:"origin"`
	LocalStorage []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"localStorage"`
}

// StorageState is the on-disk auth snapshot format shared with the
// auth.* commands in internal/command (spec.md §4.4, §9 supplement).
type StorageState struct {
	Cookies []Cookie `json:"cookies"`
	Origins []Origin `json:"origins"`
}

// LoadAuthState reads and parses a storage-state file.
func LoadAuthState(path string) (StorageState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StorageState{}, fmt.Errorf("failed to load auth file: %w", err)
	}
	var state StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return StorageState{}, fmt.Errorf("failed to parse auth file: %w", err)
	}
	return state, nil
}

// CookieInjector is satisfied by the driver client: it connects over CDP
// and adds cookies to the resulting browser context's default context.
type CookieInjector interface {
	AddCookies(endpoint string, cookies []Cookie) error
}

// AuthApplySummary reports what an auth injection actually did.
type AuthApplySummary struct {
	AuthFile       string
	CookiesApplied int
	OriginsPresent int
}

// MaybeApplyAuth loads authFile (if non-empty) and injects its cookies
// into the browser listening at endpoint. A nil summary with nil error
// means no auth file was requested.
func MaybeApplyAuth(injector CookieInjector, endpoint, authFile string) (*AuthApplySummary, error) {
	if authFile == "" {
		return nil, nil
	}
	state, err := LoadAuthState(authFile)
	if err != nil {
		return nil, err
	}
	if len(state.Cookies) > 0 {
		if err := injector.AddCookies(endpoint, state.Cookies); err != nil {
			return nil, fmt.Errorf("failed to inject auth cookies from %s: %w", authFile, err)
		}
	}
	return &AuthApplySummary{
		AuthFile:       authFile,
		CookiesApplied: len(state.Cookies),
		OriginsPresent: len(state.Origins),
	}, nil
}
