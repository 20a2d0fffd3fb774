package daemon

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetDelete(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "leases.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(Lease{SessionKey: "ns:chromium:headless", Endpoint: "ws://x", Browser: "chromium", Headless: true, PID: 1, CreatedAt: Now()}))

	got, err := store.Get("ns:chromium:headless")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ws://x", got.Endpoint)
	assert.True(t, got.Headless)

	require.NoError(t, store.Delete("ns:chromium:headless"))
	got, err = store.Get("ns:chromium:headless")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreListOrdersByCreation(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "leases.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(Lease{SessionKey: "a", Endpoint: "ws://a", CreatedAt: 1}))
	require.NoError(t, store.Put(Lease{SessionKey: "b", Endpoint: "ws://b", CreatedAt: 2}))

	leases, err := store.List()
	require.NoError(t, err)
	require.Len(t, leases, 2)
	assert.Equal(t, "a", leases[0].SessionKey)
}

func TestServerStatusReflectsStoredLeases(t *testing.T) {
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "daemon.sock")
	srv, err := NewServer(socketPath, filepath.Join(dir, "leases.db"))
	require.NoError(t, err)
	require.NoError(t, srv.Store.Put(Lease{SessionKey: "ns:chromium:headless", Endpoint: "ws://existing", CreatedAt: Now()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)
	defer srv.Close()

	waitForSocket(t, socketPath)

	leases, err := Status(socketPath)
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, "ws://existing", leases[0].Endpoint)
}

func TestServerRequestBrowserReusesExistingLease(t *testing.T) {
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "daemon.sock")
	srv, err := NewServer(socketPath, filepath.Join(dir, "leases.db"))
	require.NoError(t, err)
	require.NoError(t, srv.Store.Put(Lease{SessionKey: "ns:chromium:headless", Endpoint: "ws://existing", CreatedAt: Now()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)
	defer srv.Close()

	waitForSocket(t, socketPath)

	client, ok := TryConnect(socketPath)
	require.True(t, ok)
	defer client.Close()

	endpoint, err := client.RequestBrowser("chromium", true, "ns:chromium:headless")
	require.NoError(t, err)
	assert.Equal(t, "ws://existing", endpoint)
}

func TestTryConnectFailsWhenNothingListening(t *testing.T) {
	_, ok := TryConnect(filepath.Join(t.TempDir(), "missing.sock"))
	assert.False(t, ok)
}

func waitForSocket(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c, ok := TryConnect(path); ok {
			c.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("daemon socket %s never became ready", path)
}
