// Package connect implements C4: discovery, launch, and teardown of a
// CDP-debuggable browser process outside the managed session lifecycle
// (spec.md §4.4), ported from the original's
// crates/cli/src/session/connect/{cdp_probe,browser_finder,browser_launcher,
// process_killer,user_data_dir,auth_injector}.rs.
package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProbeTimeout is the per-candidate HTTP timeout used when probing
// /json/version. spec.md §4.4 names 400ms.
var ProbeTimeout = 400 * time.Millisecond

// VersionInfo is the subset of Chrome DevTools Protocol's /json/version
// response this package cares about.
type VersionInfo struct {
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	Browser              string `json:"Browser"`
}

func candidateURLs(port int) []string {
	return []string{
		fmt.Sprintf("http://127.0.0.1:%d/json/version", port),
		fmt.Sprintf("http://localhost:%d/json/version", port),
		fmt.Sprintf("http://[::1]:%d/json/version", port),
	}
}

// FetchVersion probes /json/version on port across the three standard
// loopback addresses, returning the first successful response.
func FetchVersion(ctx context.Context, port int) (VersionInfo, error) {
	client := &http.Client{Timeout: ProbeTimeout}
	lastErr := "no response"

	for _, url := range candidateURLs(port) {
		reqCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			cancel()
			lastErr = err.Error()
			continue
		}
		resp, err := client.Do(req)
		cancel()
		if err != nil {
			lastErr = err.Error()
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = fmt.Sprintf("unexpected status %d", resp.StatusCode)
			resp.Body.Close()
			continue
		}
		var info VersionInfo
		err = json.NewDecoder(resp.Body).Decode(&info)
		resp.Body.Close()
		if err != nil {
			return VersionInfo{}, fmt.Errorf("failed to parse CDP response: %w", err)
		}
		return info, nil
	}

	return VersionInfo{}, fmt.Errorf("failed to connect to port %d: %s", port, lastErr)
}

// Discover finds an existing debug browser and returns its endpoint
// metadata, with an actionable error including a launch hint when not found.
func Discover(ctx context.Context, port int) (VersionInfo, error) {
	info, err := FetchVersion(ctx, port)
	if err == nil {
		return info, nil
	}
	hint := fmt.Sprintf("google-chrome --remote-debugging-port=%d", port)
	return VersionInfo{}, fmt.Errorf(
		"no Chrome instance with remote debugging found on port %d\nlast error: %v\ntry running: %s\nor use: pwcli connect '{\"launch\":true,\"port\":%d}'",
		port, err, hint, port,
	)
}
