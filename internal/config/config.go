// Package config loads process-wide defaults from the environment, layered
// under explicit CLI flags. This is distinct from the per-namespace
// config.json cache (see internal/command's profile commands): that one is a
// plain JSON mirror of resolved request defaults, this one is knobs.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds environment-sourced process defaults.
type Config struct {
	DefaultBrowser   string        `env:"PWCLI_BROWSER" envDefault:"chromium"`
	DefaultHeadless  bool          `env:"PWCLI_HEADLESS" envDefault:"true"`
	NoDaemon         bool          `env:"PWCLI_NO_DAEMON" envDefault:"false"`
	DaemonSocketPath string        `env:"PWCLI_DAEMON_SOCKET"`
	DriverEndpoint   string        `env:"PWCLI_DRIVER_ENDPOINT" envDefault:"ws://127.0.0.1:9223/"`
	DriverConnectTO  time.Duration `env:"PWCLI_DRIVER_TIMEOUT" envDefault:"10s"`
	CDPProbeTimeout  time.Duration `env:"PWCLI_CDP_PROBE_TIMEOUT" envDefault:"400ms"`
	OutputFormat     string        `env:"PWCLI_OUTPUT_FORMAT" envDefault:"json"`
}

// Load parses environment variables into a Config with defaults applied.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.DaemonSocketPath == "" {
		cfg.DaemonSocketPath = filepath.Join(GlobalStateRoot(), "pw", "cli", "daemon.sock")
	}
	return cfg, nil
}

// GlobalStateRoot returns the root directory for global (non-project) state:
// $XDG_CONFIG_HOME, falling back to $HOME/.config, per spec.md §6.
func GlobalStateRoot() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	if h := os.Getenv("HOME"); h != "" {
		return filepath.Join(h, ".config")
	}
	return "."
}
