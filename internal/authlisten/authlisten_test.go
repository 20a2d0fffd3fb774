package authlisten

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freitascorp/pwcli/internal/connect"
)

func TestSanitizeDomain(t *testing.T) {
	assert.Equal(t, "example.com", sanitizeDomain("example.com"))
	assert.Equal(t, "sub_example.com", sanitizeDomain("sub*example.com"))
	assert.Equal(t, "a_b_c", sanitizeDomain("a/b:c"))
}

func TestListenTimesOutWithNoConnection(t *testing.T) {
	addr := freeAddr(t)
	_, err := Listen(context.Background(), addr, "tok", t.TempDir(), 50*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestListenRejectsWrongToken(t *testing.T) {
	addr := freeAddr(t)
	outDir := t.TempDir()
	errCh := make(chan error, 1)
	go func() {
		_, err := Listen(context.Background(), addr, "expected", outDir, 2*time.Second)
		errCh <- err
	}()
	waitForDial(t, addr)

	conn, _, err := websocket.Dial(context.Background(), "ws://"+addr, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")
	require.NoError(t, wsjson.Write(context.Background(), conn, hello{Type: "hello", Token: "wrong"}))

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after a bad token")
	}
}

func TestListenWritesStorageStatePerDomain(t *testing.T) {
	addr := freeAddr(t)
	outDir := t.TempDir()
	resultCh := make(chan Result, 1)
	errCh := make(chan error, 1)
	go func() {
		res, err := Listen(context.Background(), addr, "secret", outDir, 2*time.Second)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- res
	}()
	waitForDial(t, addr)

	conn, _, err := websocket.Dial(context.Background(), "ws://"+addr, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.NoError(t, wsjson.Write(context.Background(), conn, hello{Type: "hello", Token: "secret"}))
	batch := cookieBatch{
		Type: "cookies",
		Domains: map[string][]connect.Cookie{
			"example.com": {{Name: "session", Value: "abc"}},
		},
	}
	require.NoError(t, wsjson.Write(context.Background(), conn, batch))

	select {
	case res := <-resultCh:
		require.Len(t, res.Domains, 1)
		require.Len(t, res.AuthFiles, 1)
		data, err := os.ReadFile(res.AuthFiles[0])
		require.NoError(t, err)
		var state connect.StorageState
		require.NoError(t, json.Unmarshal(data, &state))
		require.Len(t, state.Cookies, 1)
		assert.Equal(t, "session", state.Cookies[0].Name)
	case err := <-errCh:
		t.Fatalf("Listen returned an error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not produce a result in time")
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func waitForDial(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("listener on %s never became ready", addr)
}
