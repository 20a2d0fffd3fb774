package sessionmgr

import (
	"path/filepath"
	"testing"

	"github.com/freitascorp/pwcli/internal/connect"
	"github.com/freitascorp/pwcli/internal/descriptor"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStrategyIsPure(t *testing.T) {
	in := StrategyInput{HasDescriptorPath: true, CdpEndpoint: "ws://x"}
	first := ResolveStrategy(in)
	second := ResolveStrategy(in)
	assert.Equal(t, first, second)
	assert.Equal(t, AttachCdp, first.Primary)
	assert.False(t, first.TryDaemonLease)
}

func TestResolveStrategyRefreshDisablesDescriptorReuse(t *testing.T) {
	s := ResolveStrategy(StrategyInput{HasDescriptorPath: true, Refresh: true})
	assert.False(t, s.TryDescriptorReuse)
}

func TestResolveStrategyPrimaryFallsThroughInOrder(t *testing.T) {
	assert.Equal(t, PersistentDebug, ResolveStrategy(StrategyInput{RemoteDebuggingPort: 9222}).Primary)
	assert.Equal(t, LaunchServer, ResolveStrategy(StrategyInput{LaunchServerRequested: true}).Primary)
	assert.Equal(t, FreshLaunch, ResolveStrategy(StrategyInput{}).Primary)
}

func TestResolveStrategyNoDaemonDisablesLease(t *testing.T) {
	s := ResolveStrategy(StrategyInput{NoDaemon: true})
	assert.False(t, s.TryDaemonLease)
}

type fakeSession struct {
	cdp, ws       string
	closed        bool
	keepRunning   bool
	injectedFiles []string
}

func (f *fakeSession) CdpEndpoint() string { return f.cdp }
func (f *fakeSession) WsEndpoint() string  { return f.ws }
func (f *fakeSession) Close() error        { f.closed = true; return nil }
func (f *fakeSession) InjectAuthFiles(files []string) error {
	f.injectedFiles = files
	return nil
}
func (f *fakeSession) SetKeepBrowserRunning(v bool) { f.keepRunning = v }

type fakeLauncher struct {
	attachCalls int
	freshCalls  int
	lastEndpoint string
}

func (f *fakeLauncher) AttachCDP(req Request, ss *connect.StorageState, endpoint string) (Session, error) {
	f.attachCalls++
	f.lastEndpoint = endpoint
	return &fakeSession{cdp: endpoint}, nil
}
func (f *fakeLauncher) LaunchPersistent(req Request, ss *connect.StorageState, port int) (Session, error) {
	return &fakeSession{cdp: "ws://persistent"}, nil
}
func (f *fakeLauncher) LaunchServer(req Request, ss *connect.StorageState) (Session, error) {
	return &fakeSession{ws: "ws://server"}, nil
}
func (f *fakeLauncher) FreshLaunch(req Request, ss *connect.StorageState) (Session, error) {
	f.freshCalls++
	return &fakeSession{cdp: "ws://fresh"}, nil
}

func TestAcquireFreshLaunchWhenNoDescriptor(t *testing.T) {
	launcher := &fakeLauncher{}
	m := &Manager{DescriptorPath: filepath.Join(t.TempDir(), "session.json"), Launcher: launcher}
	handle, err := m.Acquire(NewRequest("chromium"))
	require.NoError(t, err)
	assert.Equal(t, envelope.SessionSourceFresh, handle.Source)
	assert.Equal(t, 1, launcher.freshCalls)

	desc, err := descriptor.Load(m.DescriptorPath)
	require.NoError(t, err)
	require.NotNil(t, desc)
	assert.Equal(t, "ws://fresh", desc.CdpEndpoint)
}

func TestAcquireReusesAliveMatchingDescriptor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, descriptor.Save(path, descriptor.Descriptor{
		Browser:     "chromium",
		Headless:    true,
		CdpEndpoint: "ws://cached",
		WorkspaceID: "ws-1",
		Namespace:   "default",
		DriverHash:  descriptor.DriverHash,
	}))

	launcher := &fakeLauncher{}
	m := &Manager{DescriptorPath: path, WorkspaceID: "ws-1", Namespace: "default", Launcher: launcher}
	handle, err := m.Acquire(NewRequest("chromium"))
	require.NoError(t, err)
	assert.Equal(t, envelope.SessionSourceCachedDescriptor, handle.Source)
	assert.Equal(t, "ws://cached", launcher.lastEndpoint)
	assert.Equal(t, 0, launcher.freshCalls)
}

func TestAcquireIgnoresDescriptorFromDifferentWorkspace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, descriptor.Save(path, descriptor.Descriptor{
		Browser: "chromium", Headless: true, CdpEndpoint: "ws://cached", WorkspaceID: "other", Namespace: "default",
	}))

	launcher := &fakeLauncher{}
	m := &Manager{DescriptorPath: path, WorkspaceID: "ws-1", Namespace: "default", Launcher: launcher}
	handle, err := m.Acquire(NewRequest("chromium"))
	require.NoError(t, err)
	assert.Equal(t, envelope.SessionSourceFresh, handle.Source)
}

func TestAcquireRefreshClearsDescriptorFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, descriptor.Save(path, descriptor.Descriptor{Browser: "chromium", Headless: true, CdpEndpoint: "ws://cached"}))

	launcher := &fakeLauncher{}
	m := &Manager{DescriptorPath: path, Refresh: true, Launcher: launcher}
	handle, err := m.Acquire(NewRequest("chromium"))
	require.NoError(t, err)
	assert.Equal(t, envelope.SessionSourceFresh, handle.Source)

	_, err = descriptor.Load(path)
	require.NoError(t, err)
}

type fakeDaemon struct {
	endpoint string
	err      error
}

func (f *fakeDaemon) RequestBrowser(browser string, headless bool, sessionKey string) (string, error) {
	return f.endpoint, f.err
}

func TestAcquirePrefersDaemonLeaseOverFreshLaunch(t *testing.T) {
	launcher := &fakeLauncher{}
	m := &Manager{
		DescriptorPath: filepath.Join(t.TempDir(), "session.json"),
		NamespaceID:    "ns-1",
		Launcher:       launcher,
		Daemon:         &fakeDaemon{endpoint: "ws://daemon"},
	}
	handle, err := m.Acquire(NewRequest("chromium"))
	require.NoError(t, err)
	assert.Equal(t, envelope.SessionSourceDaemon, handle.Source)
	assert.Equal(t, "ws://daemon", launcher.lastEndpoint)
}

func TestAcquireAttachCdpUsesExplicitEndpoint(t *testing.T) {
	launcher := &fakeLauncher{}
	m := &Manager{Launcher: launcher}
	req := NewRequest("firefox").WithCdpEndpoint("ws://explicit")
	handle, err := m.Acquire(req)
	require.NoError(t, err)
	assert.Equal(t, envelope.SessionSourceCdpConnect, handle.Source)
}

func TestStopDescriptorSessionWithoutEndpointRemovesDescriptor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, descriptor.Save(path, descriptor.Descriptor{Browser: "chromium"}))
	m := &Manager{DescriptorPath: path, Launcher: &fakeLauncher{}}

	result, err := m.StopDescriptorSession(NewRequest("chromium"))
	require.NoError(t, err)
	assert.Equal(t, false, result["stopped"])
	assert.Equal(t, "Descriptor missing endpoint; removed descriptor", result["message"])

	desc, err := descriptor.Load(path)
	require.NoError(t, err)
	assert.Nil(t, desc)
}

func TestDescriptorStatusNoPathReportsInactive(t *testing.T) {
	m := &Manager{}
	status, err := m.DescriptorStatus()
	require.NoError(t, err)
	assert.Equal(t, false, status["active"])
}

func TestClearDescriptorResponseNoPathIsNoop(t *testing.T) {
	m := &Manager{}
	status, err := m.ClearDescriptorResponse()
	require.NoError(t, err)
	assert.Equal(t, false, status["cleared"])
}
