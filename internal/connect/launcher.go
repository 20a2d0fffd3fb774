package connect

import (
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

const (
	launchPollAttempts = 8
	launchPollInterval = 200 * time.Millisecond
)

// Launch starts a detached Chrome-family process with remote debugging
// enabled on port and polls /json/version until it answers or the process
// exits first.
func Launch(ctx context.Context, port int, userDataDir string) (VersionInfo, error) {
	chromePath, ok := FindExecutable()
	if !ok {
		return VersionInfo{}, fmt.Errorf("could not find Chrome/Chromium executable; install Chrome or specify a path manually")
	}

	args := []string{
		fmt.Sprintf("--remote-debugging-port=%d", port),
		"--no-first-run",
		"--no-default-browser-check",
	}
	if userDataDir != "" {
		args = append(args, fmt.Sprintf("--user-data-dir=%s", userDataDir))
	}

	cmd := exec.Command(chromePath, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return VersionInfo{}, fmt.Errorf("failed to launch Chrome at %s: %w", chromePath, err)
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	var lastErr error = fmt.Errorf("endpoint not reachable")
	for i := 0; i < launchPollAttempts; i++ {
		select {
		case err := <-exited:
			return VersionInfo{}, fmt.Errorf(
				"Chrome exited before debugging endpoint became available (%v); launch it manually with --remote-debugging-port=%d and retry pwcli connect '{\"discover\":true}'",
				err, port,
			)
		case <-time.After(launchPollInterval):
		}

		info, err := FetchVersion(ctx, port)
		if err == nil {
			return info, nil
		}
		lastErr = err
	}

	return VersionInfo{}, fmt.Errorf(
		"Chrome launched but debugging endpoint not available on port %d; last error: %v; if Chrome/Chromium recently updated, remote debugging may require a dedicated --user-data-dir",
		port, lastErr,
	)
}
