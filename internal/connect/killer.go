package connect

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Kill terminates whatever process is listening on port, returning the
// killed pid(s) joined by ", " or ("", false) if nothing was listening.
func Kill(ctx context.Context, port int) (string, bool, error) {
	if _, err := FetchVersion(ctx, port); err != nil {
		return "", false, nil
	}

	if runtime.GOOS == "windows" {
		return killWindows(port)
	}
	return killUnix(port)
}

func killUnix(port int) (string, bool, error) {
	out, err := exec.Command("lsof", "-ti", fmt.Sprintf(":%d", port)).Output()
	if err != nil || len(out) == 0 {
		return "", false, fmt.Errorf("could not find process listening on port %d", port)
	}

	var pids []string
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			pids = append(pids, line)
		}
	}
	if len(pids) == 0 {
		return "", false, fmt.Errorf("no process found on port %d", port)
	}

	var killed []string
	for _, pid := range pids {
		if err := exec.Command("kill", "-TERM", pid).Run(); err == nil {
			killed = append(killed, pid)
		}
	}
	if len(killed) == 0 {
		return "", false, fmt.Errorf("failed to kill process on port %d", port)
	}
	return strings.Join(killed, ", "), true, nil
}

func killWindows(port int) (string, bool, error) {
	out, err := exec.Command("netstat", "-ano").Output()
	if err != nil {
		return "", false, fmt.Errorf("failed to run netstat: %w", err)
	}
	portMarker := fmt.Sprintf(":%d", port)
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, portMarker) && strings.Contains(line, "LISTENING") {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			pid := fields[len(fields)-1]
			if err := exec.Command("taskkill", "/PID", pid, "/F").Run(); err == nil {
				return pid, true, nil
			}
		}
	}
	return "", false, fmt.Errorf("could not find or kill process on port %d", port)
}
