// Package workspace resolves namespace-scoped state directories and derives
// deterministic debug ports, matching the persisted-state layout in
// spec.md §6.
package workspace

import (
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/freitascorp/pwcli/internal/config"
)

const (
	// PlaywrightDir is the project-relative directory holding all CLI state.
	PlaywrightDir = "playwright"
	// StateVersionDir is the versioned profile-state directory name.
	StateVersionDir = ".pw-cli-v4"
	// GlobalNamespace is used when no project root is available.
	GlobalNamespace = "default"

	minDerivedPort = 9300
	portSpan       = 900
)

// Paths bundles every path derived for a given (project root, namespace) pair.
type Paths struct {
	ProjectRoot string // may be empty
	Namespace   string

	ProfileDir      string // <root>/playwright/.pw-cli-v4/profiles/<namespace>
	ConfigFile      string // .../config.json
	SessionsDir     string // .../sessions
	SessionFile     string // .../sessions/session.json
	ConnectUserData string // .../connect-user-data
	GitignoreFile   string // <root>/playwright/.pw-cli-v4/.gitignore

	GlobalContextsFile string // <global>/pw/cli/contexts.json
	GlobalSessionsDir  string // <global>/pw/cli/sessions
	ProjectContextFile string // <root>/playwright/.pw-cli/contexts.json
}

// New computes every state path for a namespace, optionally rooted at a
// project directory. projectRoot == "" means global-only (no project store).
func New(projectRoot, namespace string) Paths {
	if namespace == "" {
		namespace = GlobalNamespace
	}
	global := config.GlobalStateRoot()

	p := Paths{
		ProjectRoot:        projectRoot,
		Namespace:          namespace,
		GlobalContextsFile: filepath.Join(global, "pw", "cli", "contexts.json"),
		GlobalSessionsDir:  filepath.Join(global, "pw", "cli", "sessions"),
	}

	if projectRoot != "" {
		base := filepath.Join(projectRoot, PlaywrightDir, StateVersionDir)
		profile := filepath.Join(base, "profiles", namespace)
		p.ProfileDir = profile
		p.ConfigFile = filepath.Join(profile, "config.json")
		p.SessionsDir = filepath.Join(profile, "sessions")
		p.SessionFile = filepath.Join(p.SessionsDir, "session.json")
		p.ConnectUserData = filepath.Join(profile, "connect-user-data")
		p.GitignoreFile = filepath.Join(base, ".gitignore")
		p.ProjectContextFile = filepath.Join(projectRoot, PlaywrightDir, ".pw-cli", "contexts.json")
	}

	return p
}

// EnsureGitignore writes a `.gitignore` seeding the state directory as
// ignored, once, on first write (spec.md §6).
func EnsureGitignore(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("*\n"), 0o644)
}

// DerivePort returns a deterministic debug port for a namespace, used when
// no explicit --port is given (spec.md §4.4 "Port selection").
func DerivePort(namespace string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(namespace))
	return minDerivedPort + int(h.Sum32()%uint32(portSpan))
}

// NormalizeProfile lower-cases a profile/namespace name for filesystem
// safety (profile.* commands, §5 supplement): spaces become '-', characters
// outside [a-z0-9_-] are dropped, and an empty result becomes the global
// namespace.
func NormalizeProfile(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
			out = append(out, c)
		case c == ' ':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return GlobalNamespace
	}
	return string(out)
}
