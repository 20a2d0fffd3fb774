package connect

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

func candidatesForHost() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "windows":
		return windowsCandidates()
	default:
		return []string{
			"helium",
			"brave",
			"brave-browser",
			"google-chrome-stable",
			"google-chrome",
			"chromium-browser",
			"chromium",
			"/usr/bin/helium",
			"/usr/bin/brave",
			"/usr/bin/brave-browser",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium-browser",
			"/usr/bin/chromium",
			"/snap/bin/chromium",
			"/snap/bin/brave",
		}
	}
}

// windowsCandidates enumerates known install locations under common
// Windows program-file roots plus bare command names resolvable via PATH.
func windowsCandidates() []string {
	var roots []string
	for _, key := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)", "LOCALAPPDATA"} {
		if v := os.Getenv(key); v != "" {
			roots = append(roots, v)
		}
	}
	if len(roots) == 0 {
		roots = []string{`C:\Program Files`, `C:\Program Files (x86)`}
	}

	suffixes := [][]string{
		{"Google", "Chrome", "Application", "chrome.exe"},
		{"Microsoft", "Edge", "Application", "msedge.exe"},
		{"BraveSoftware", "Brave-Browser", "Application", "brave.exe"},
		{"Chromium", "Application", "chrome.exe"},
	}

	var candidates []string
	for _, root := range roots {
		for _, suffix := range suffixes {
			candidates = append(candidates, filepath.Join(append([]string{root}, suffix...)...))
		}
	}
	candidates = append(candidates,
		"chrome", "chrome.exe", "msedge", "msedge.exe",
		"brave", "brave.exe", "chromium", "chromium.exe",
	)
	return candidates
}

// FindExecutable locates an installed Chrome-family browser, checking
// absolute paths for existence and bare names via PATH lookup.
func FindExecutable() (string, bool) {
	for _, candidate := range candidatesForHost() {
		if strings.HasPrefix(candidate, "/") || strings.Contains(candidate, `\`) || strings.Contains(candidate, ":") {
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true
			}
			continue
		}
		if path, err := exec.LookPath(candidate); err == nil {
			return path, true
		}
	}
	return "", false
}
