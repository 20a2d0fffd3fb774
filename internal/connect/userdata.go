package connect

import (
	"os"
	"path/filepath"

	"github.com/freitascorp/pwcli/internal/workspace"
)

// ResolveUserDataDir resolves (and creates) the profile directory used by a
// launched browser instance: an explicit absolute path is used as-is, an
// explicit relative path is anchored at projectRoot, and the default is
// namespace-scoped under the workspace's state directory.
func ResolveUserDataDir(projectRoot, namespace, requested string) (string, error) {
	var resolved string
	switch {
	case requested == "":
		paths := workspace.New(projectRoot, namespace)
		resolved = paths.ConnectUserData
		if resolved == "" {
			resolved = filepath.Join(paths.GlobalSessionsDir, "..", "connect-user-data", namespace)
		} else if err := workspace.EnsureGitignore(paths.GitignoreFile); err != nil {
			return "", err
		}
	case filepath.IsAbs(requested):
		resolved = requested
	default:
		resolved = filepath.Join(projectRoot, requested)
	}

	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return "", err
	}
	return resolved, nil
}

// ResolvePort returns the explicit port if one was requested, else the
// namespace-derived default (spec.md §4.4).
func ResolvePort(namespace string, requested int) int {
	if requested > 0 {
		return requested
	}
	return workspace.DerivePort(namespace)
}
