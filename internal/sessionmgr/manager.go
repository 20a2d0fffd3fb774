package sessionmgr

import (
	"fmt"
	"os"

	"github.com/freitascorp/pwcli/internal/connect"
	"github.com/freitascorp/pwcli/internal/descriptor"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/logging"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

// Session is anything acquisition can hand back to a command: a live
// connection to a browser plus enough metadata to persist a descriptor.
type Session interface {
	CdpEndpoint() string
	WsEndpoint() string
	Close() error
	InjectAuthFiles(files []string) error
	SetKeepBrowserRunning(bool)
}

// Launcher performs the four primary acquisition paths plus CDP attach for
// descriptor/daemon reuse. Implemented by internal/driver.
type Launcher interface {
	AttachCDP(req Request, storageState *connect.StorageState, endpoint string) (Session, error)
	LaunchPersistent(req Request, storageState *connect.StorageState, port int) (Session, error)
	LaunchServer(req Request, storageState *connect.StorageState) (Session, error)
	FreshLaunch(req Request, storageState *connect.StorageState) (Session, error)
}

// DaemonClient requests a leased browser endpoint from the daemon.
// A nil DaemonClient (or Connect failing) means "no daemon reachable".
type DaemonClient interface {
	RequestBrowser(browser string, headless bool, sessionKey string) (string, error)
}

type lease struct {
	endpoint   string
	sessionKey string
}

// Handle is the result of a successful acquisition.
type Handle struct {
	Session Session
	Source  envelope.SessionSource
}

// Manager orchestrates session acquisition for one command execution scope
// (spec.md §4.6).
type Manager struct {
	DescriptorPath string
	WorkspaceID    string
	Namespace      string
	NamespaceID    string
	NoDaemon       bool
	Refresh        bool
	AuthFiles      []string

	Launcher Launcher
	Daemon   DaemonClient
}

// DescriptorStatus returns the structured payload for session.status.
func (m *Manager) DescriptorStatus() (map[string]any, error) {
	if m.DescriptorPath == "" {
		return map[string]any{
			"active":  false,
			"message": "No active namespace; session status unavailable",
		}, nil
	}

	desc, err := descriptor.Load(m.DescriptorPath)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return map[string]any{
			"active":  false,
			"message": "No session descriptor for namespace; run a browser command to create one",
		}, nil
	}

	return map[string]any{
		"active":        true,
		"path":          m.DescriptorPath,
		"schemaVersion": desc.SchemaVersion,
		"browser":       desc.Browser,
		"headless":      desc.Headless,
		"cdpEndpoint":   desc.CdpEndpoint,
		"wsEndpoint":    desc.WsEndpoint,
		"workspaceId":   desc.WorkspaceID,
		"namespace":     desc.Namespace,
		"sessionKey":    desc.SessionKey,
		"driverHash":    desc.DriverHash,
		"instanceId":    desc.InstanceID,
		"pid":           desc.PID,
		"createdAt":     desc.CreatedAt,
		"alive":         m.isAlive(desc),
	}, nil
}

// ClearDescriptorResponse removes the descriptor and returns session.clear's payload.
func (m *Manager) ClearDescriptorResponse() (map[string]any, error) {
	if m.DescriptorPath == "" {
		return map[string]any{"cleared": false, "message": "No active namespace; nothing to clear"}, nil
	}
	removed, err := descriptor.Clear(m.DescriptorPath)
	if err != nil {
		return nil, err
	}
	if removed {
		logging.With("sessionmgr").Info("session descriptor removed", "path", m.DescriptorPath)
		return map[string]any{"cleared": true, "path": m.DescriptorPath}, nil
	}
	logging.With("sessionmgr").Warn("no session descriptor to remove", "path", m.DescriptorPath)
	return map[string]any{"cleared": false, "path": m.DescriptorPath, "message": "No session descriptor found"}, nil
}

// StopDescriptorSession attaches to a descriptor-backed session, closes the
// browser, and removes the descriptor (spec.md §4.6 "Stop").
func (m *Manager) StopDescriptorSession(req Request) (map[string]any, error) {
	if m.DescriptorPath == "" {
		return map[string]any{"stopped": false, "message": "No active namespace; nothing to stop"}, nil
	}

	desc, err := descriptor.Load(m.DescriptorPath)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return map[string]any{"stopped": false, "message": "No session descriptor for namespace; nothing to stop"}, nil
	}

	endpoint := desc.Endpoint()
	if endpoint == "" {
		_, _ = descriptor.Clear(m.DescriptorPath)
		return map[string]any{
			"stopped": false,
			"path":    m.DescriptorPath,
			"message": "Descriptor missing endpoint; removed descriptor",
		}, nil
	}

	stopReq := req.WithBrowser(desc.Browser).WithHeadless(desc.Headless).WithCdpEndpoint(endpoint).WithLaunchServer(false)
	session, err := m.Launcher.AttachCDP(stopReq, nil, endpoint)
	if err != nil {
		return nil, err
	}
	if err := session.Close(); err != nil {
		return nil, err
	}
	_, _ = descriptor.Clear(m.DescriptorPath)

	return map[string]any{"stopped": true, "path": m.DescriptorPath}, nil
}

// Acquire runs the full acquisition cascade described in spec.md §4.6:
// descriptor reuse, then daemon lease, then the primary strategy; auto
// auth-injection and descriptor persistence follow.
func (m *Manager) Acquire(req Request) (*Handle, error) {
	var storageState *connect.StorageState
	if req.AuthFile != "" {
		ss, err := connect.LoadAuthState(req.AuthFile)
		if err != nil {
			return nil, pwerr.Wrap(pwerr.BrowserLaunchFailed, err)
		}
		storageState = &ss
	}

	strategy := ResolveStrategy(StrategyInput{
		HasDescriptorPath:     m.DescriptorPath != "",
		Refresh:               m.Refresh,
		NoDaemon:              m.NoDaemon,
		CdpEndpoint:           req.CdpEndpoint,
		RemoteDebuggingPort:   req.RemoteDebuggingPort,
		LaunchServerRequested: req.LaunchServer,
	})

	log := logging.With("sessionmgr")

	if m.Refresh {
		_, _ = descriptor.Clear(m.DescriptorPath)
	} else if strategy.TryDescriptorReuse {
		if handle, err := m.acquireFromDescriptor(req, storageState); err != nil {
			return nil, err
		} else if handle != nil {
			return handle, nil
		}
	}

	daemonLease := m.acquireFromDaemon(req, strategy.TryDaemonLease)

	session, source, err := m.acquirePrimary(req, strategy.Primary, storageState, daemonLease)
	if err != nil {
		return nil, err
	}

	m.autoInjectAuthIfNeeded(req, daemonLease, session)
	m.persistDescriptorIfNeeded(req, session, daemonLease)

	log.Debug("session acquired", "source", string(source))
	return &Handle{Session: session, Source: source}, nil
}

func (m *Manager) acquireFromDescriptor(req Request, storageState *connect.StorageState) (*Handle, error) {
	desc, err := descriptor.Load(m.DescriptorPath)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, nil
	}
	if !desc.BelongsTo(m.WorkspaceID, m.Namespace) {
		return nil, nil
	}
	if !desc.Matches(req.Browser, req.Headless, req.CdpEndpoint, descriptor.DriverHash) {
		return nil, nil
	}
	if !m.isAlive(desc) {
		return nil, nil
	}

	endpoint := desc.Endpoint()
	if endpoint == "" {
		logging.With("sessionmgr").Debug("descriptor lacks endpoint; ignoring")
		return nil, nil
	}

	attachReq := req.WithCdpEndpoint(endpoint)
	session, err := m.Launcher.AttachCDP(attachReq, storageState, endpoint)
	if err != nil {
		return nil, err
	}
	session.SetKeepBrowserRunning(true)

	return &Handle{Session: session, Source: envelope.SessionSourceCachedDescriptor}, nil
}

func (m *Manager) acquireFromDaemon(req Request, tryDaemonLease bool) *lease {
	if !tryDaemonLease || m.Daemon == nil || m.NamespaceID == "" {
		return nil
	}

	headlessTag := "headful"
	if req.Headless {
		headlessTag = "headless"
	}
	sessionKey := fmt.Sprintf("%s:%s:%s", m.NamespaceID, req.Browser, headlessTag)

	endpoint, err := m.Daemon.RequestBrowser(req.Browser, req.Headless, sessionKey)
	if err != nil {
		logging.With("sessionmgr").Debug("daemon request failed; falling back", "error", err)
		return nil
	}
	logging.With("sessionmgr").Debug("using daemon browser", "endpoint", endpoint, "sessionKey", sessionKey)
	return &lease{endpoint: endpoint, sessionKey: sessionKey}
}

func (m *Manager) acquirePrimary(req Request, primary PrimaryStrategy, storageState *connect.StorageState, daemonLease *lease) (Session, envelope.SessionSource, error) {
	if daemonLease != nil {
		session, err := m.Launcher.AttachCDP(req.WithCdpEndpoint(daemonLease.endpoint), storageState, daemonLease.endpoint)
		if err != nil {
			return nil, "", err
		}
		session.SetKeepBrowserRunning(true)
		return session, envelope.SessionSourceDaemon, nil
	}

	switch primary {
	case AttachCdp:
		if req.CdpEndpoint == "" {
			return nil, "", pwerr.New(pwerr.BrowserLaunchFailed, "missing CDP endpoint for attach strategy")
		}
		session, err := m.Launcher.AttachCDP(req, storageState, req.CdpEndpoint)
		if err != nil {
			return nil, "", err
		}
		session.SetKeepBrowserRunning(true)
		return session, envelope.SessionSourceCdpConnect, nil
	case PersistentDebug:
		if req.RemoteDebuggingPort <= 0 {
			return nil, "", pwerr.New(pwerr.BrowserLaunchFailed, "missing remote debugging port for persistent strategy")
		}
		if req.Browser != "chromium" {
			return nil, "", pwerr.New(pwerr.BrowserLaunchFailed, "persistent sessions with remote debugging port require chromium")
		}
		session, err := m.Launcher.LaunchPersistent(req, storageState, req.RemoteDebuggingPort)
		if err != nil {
			return nil, "", err
		}
		return session, envelope.SessionSourcePersistentDebug, nil
	case LaunchServer:
		session, err := m.Launcher.LaunchServer(req, storageState)
		if err != nil {
			return nil, "", err
		}
		return session, envelope.SessionSourceBrowserServer, nil
	default:
		session, err := m.Launcher.FreshLaunch(req, storageState)
		if err != nil {
			return nil, "", err
		}
		return session, envelope.SessionSourceFresh, nil
	}
}

func (m *Manager) autoInjectAuthIfNeeded(req Request, daemonLease *lease, session Session) {
	attached := req.CdpEndpoint != "" || daemonLease != nil
	if !attached || req.AuthFile != "" || len(m.AuthFiles) == 0 {
		return
	}
	logging.With("sessionmgr").Debug("auto-injecting cookies from project auth files", "count", len(m.AuthFiles))
	if err := session.InjectAuthFiles(m.AuthFiles); err != nil {
		logging.With("sessionmgr").Warn("auto auth injection failed", "error", err)
	}
}

func (m *Manager) persistDescriptorIfNeeded(req Request, session Session, daemonLease *lease) {
	if m.DescriptorPath == "" {
		return
	}
	cdp := session.CdpEndpoint()
	ws := session.WsEndpoint()
	if cdp == "" && ws == "" {
		logging.With("sessionmgr").Debug("no endpoint available; skipping descriptor save")
		return
	}

	sessionKey := fmt.Sprintf("%s:%s:%v", m.Namespace, req.Browser, req.Headless)
	if daemonLease != nil {
		sessionKey = daemonLease.sessionKey
	}

	desc := descriptor.Descriptor{
		SchemaVersion: descriptor.SchemaVersion,
		PID:           os.Getpid(),
		Browser:       req.Browser,
		Headless:      req.Headless,
		CdpEndpoint:   cdp,
		WsEndpoint:    ws,
		WorkspaceID:   m.WorkspaceID,
		Namespace:     m.Namespace,
		SessionKey:    sessionKey,
		DriverHash:    descriptor.DriverHash,
		InstanceID:    descriptor.NewInstanceID(),
		CreatedAt:     descriptor.Now(),
	}

	if err := descriptor.Save(m.DescriptorPath, desc); err != nil {
		logging.With("sessionmgr").Warn("failed to save session descriptor", "path", m.DescriptorPath, "error", err)
		return
	}
	logging.With("sessionmgr").Debug("saved session descriptor", "cdp", cdp, "ws", ws)
}

// isAlive treats any descriptor that records an endpoint as alive; the
// endpoint is not probed and the pid is not checked in that case. The pid
// check is used only when no endpoint is present.
func (m *Manager) isAlive(desc *descriptor.Descriptor) bool {
	if desc.Endpoint() != "" {
		return true
	}
	return desc.PidAlive()
}
