// pwcli — control plane CLI for a Playwright-compatible browser server.
//
// Three entry paths resolve into one command catalog dispatch (spec.md §1):
// a one-shot CLI invocation, an NDJSON batch stream read from stdin, and an
// interactive shell. This file wires the persistent global flags shared by
// all three, following the teacher's cobra_cli.go root-command pattern
// (PersistentFlags, SilenceUsage/Errors, a PersistentPreRunE that derives
// shared state before any subcommand body runs).
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/freitascorp/pwcli/internal/command"
	"github.com/freitascorp/pwcli/internal/config"
	"github.com/freitascorp/pwcli/internal/contextstore"
	"github.com/freitascorp/pwcli/internal/daemon"
	"github.com/freitascorp/pwcli/internal/driver"
	"github.com/freitascorp/pwcli/internal/logging"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
	"github.com/freitascorp/pwcli/internal/workspace"
)

// globalFlags holds every persistent flag named in spec.md §6.
type globalFlags struct {
	verbosity    int
	authFile     string
	browser      string
	noProject    bool
	workspaceDir string
	namespace    string
	context      string
	refresh      bool
	noSave       bool
	noContext    bool
	noDaemon     bool
	baseURL      string
	output       string
	artifactsDir string
	cdpEndpoint  string
}

var flags globalFlags

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pwcli",
		Short: "Control plane CLI for a Playwright-compatible browser server",
		Long: `pwcli drives a Playwright-compatible browser server over its JSON-RPC
driver protocol: navigate, click, fill, read page content, manage tabs and
auth state, one command at a time or as an NDJSON batch stream.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetVerbosity(flags.verbosity)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", "Increase log verbosity (-v, -vv)")
	root.PersistentFlags().StringVar(&flags.authFile, "auth-file", "", "Storage-state file to inject cookies from")
	root.PersistentFlags().StringVar(&flags.browser, "browser", "", "Browser engine (chromium, firefox, webkit)")
	root.PersistentFlags().BoolVar(&flags.noProject, "no-project", false, "Ignore any project-scoped context store")
	root.PersistentFlags().StringVar(&flags.workspaceDir, "workspace", "", "Project root override (default: discovered from cwd)")
	root.PersistentFlags().StringVar(&flags.namespace, "namespace", "", "Namespace for session/profile state")
	root.PersistentFlags().StringVar(&flags.context, "context", "", "Named context to resolve against")
	root.PersistentFlags().BoolVar(&flags.refresh, "refresh", false, "Force a fresh session instead of reusing a descriptor")
	root.PersistentFlags().BoolVar(&flags.noSave, "no-save", false, "Do not persist context-store deltas")
	root.PersistentFlags().BoolVar(&flags.noContext, "no-context", false, "Disable context-store resolution entirely")
	root.PersistentFlags().BoolVar(&flags.noDaemon, "no-daemon", false, "Skip the daemon lease and launch directly")
	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "Base URL override for relative navigation targets")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "Output format (json, ndjson, toon, text)")
	root.PersistentFlags().StringVar(&flags.artifactsDir, "artifacts-dir", "", "Directory for screenshots and other artifacts")
	root.PersistentFlags().StringVar(&flags.cdpEndpoint, "cdp-endpoint", "", "CDP endpoint override, bypassing discovery")

	root.AddCommand(
		newCatalogCommands()...,
	)
	root.AddCommand(
		newBatchCmd(),
		newShellCmd(),
		newRunCmd(),
		newRelayCmd(),
		newTestCmd(),
	)

	return root
}

// session bundles everything a subcommand needs to build an ExecContext:
// built once per invocation in buildSession, torn down by the caller.
type session struct {
	ec    *command.ExecContext
	store *contextstore.State
}

// buildSession resolves the project root, loads environment defaults,
// constructs the context store and session manager, and returns an
// ExecContext ready for catalog.Run (spec.md §4.6, §6 persisted-state
// layout).
func buildSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	projectRoot := flags.workspaceDir
	if projectRoot == "" && !flags.noProject {
		projectRoot = findProjectRoot()
	}
	if flags.noProject {
		projectRoot = ""
	}

	namespace := flags.namespace
	if namespace == "" {
		namespace = workspace.GlobalNamespace
	}
	paths := workspace.New(projectRoot, namespace)
	if projectRoot != "" {
		_ = workspace.EnsureGitignore(paths.GitignoreFile)
	}

	store := contextstore.New(contextstore.Options{
		ProjectRoot:       projectRoot,
		RequestedContext:  flags.context,
		BaseURLOverride:   flags.baseURL,
		NoContext:         flags.noContext,
		NoSave:            flags.noSave,
		Refresh:           flags.refresh,
		ScreenshotDefault: "screenshot.png",
	})

	if flags.cdpEndpoint != "" {
		store.SetCdpEndpoint(flags.cdpEndpoint)
	}

	if flags.browser == "" {
		flags.browser = cfg.DefaultBrowser
	}

	noDaemon := flags.noDaemon || cfg.NoDaemon
	daemonSocketPath := cfg.DaemonSocketPath
	daemonDBPath := filepath.Join(filepath.Dir(daemonSocketPath), "daemon.db")

	var daemonClient sessionmgr.DaemonClient
	if !noDaemon {
		if client, ok := daemon.TryConnect(daemonSocketPath); ok {
			daemonClient = client
		}
	}

	launcher := &driver.Launcher{
		DriverEndpoint: cfg.DriverEndpoint,
		ProjectRoot:    projectRoot,
		Namespace:      namespace,
	}

	var authFiles []string
	if flags.authFile != "" {
		authFiles = []string{flags.authFile}
	}

	manager := &sessionmgr.Manager{
		DescriptorPath: paths.SessionFile,
		WorkspaceID:    projectRoot,
		Namespace:      namespace,
		NamespaceID:    namespace,
		NoDaemon:       noDaemon,
		Refresh:        flags.refresh,
		AuthFiles:      authFiles,
		Launcher:       launcher,
		Daemon:         daemonClient,
	}

	outputFormat := flags.output
	if outputFormat == "" {
		outputFormat = cfg.OutputFormat
	}

	ec := &command.ExecContext{
		Ctx:              ctx,
		Store:            store,
		Session:          manager,
		Mode:             command.ModeOneShot,
		OutputFormat:     outputFormat,
		ArtifactsDir:     flags.artifactsDir,
		ProjectRoot:      projectRoot,
		Namespace:        namespace,
		DaemonSocketPath: daemonSocketPath,
		DaemonDBPath:     daemonDBPath,
	}

	return &session{ec: ec, store: store}, nil
}

// findProjectRoot walks up from the working directory looking for a
// playwright/ state directory (§6 persisted-state layout), falling back to
// no project scope if none is found.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if info, statErr := os.Stat(filepath.Join(dir, workspace.PlaywrightDir)); statErr == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// defaultSmokeRequest builds the session request used by `pwcli test`.
func defaultSmokeRequest() sessionmgr.Request {
	browser := flags.browser
	if browser == "" {
		browser = "chromium"
	}
	return sessionmgr.NewRequest(browser).WithPreferredURL("about:blank")
}
