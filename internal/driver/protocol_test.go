package driver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer accepts one connection and echoes back a fixed result for
// every request it receives, keyed by the incoming id.
func echoServer(t *testing.T, handle func(ctx context.Context, conn *websocket.Conn, req envelope)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/driver", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "done")
		ctx := r.Context()
		for {
			var req envelope
			if err := wsjson.Read(ctx, conn, &req); err != nil {
				return
			}
			handle(ctx, conn, req)
		}
	})
	return httptest.NewServer(mux)
}

func dialURL(ts *httptest.Server) string {
	return "ws" + ts.URL[4:] + "/driver"
}

func TestClientCallCorrelatesResponseByID(t *testing.T) {
	ts := echoServer(t, func(ctx context.Context, conn *websocket.Conn, req envelope) {
		_ = wsjson.Write(ctx, conn, envelope{ID: req.ID, Result: []byte(`{"ok":true}`)})
	})
	defer ts.Close()

	client, err := Dial(context.Background(), dialURL(ts))
	require.NoError(t, err)
	defer client.Close()

	result, err := client.CallTimeout(2*time.Second, "browser1", "launch", map[string]any{"headless": true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(result))
}

func TestClientCallSurfacesDriverErrors(t *testing.T) {
	ts := echoServer(t, func(ctx context.Context, conn *websocket.Conn, req envelope) {
		_ = wsjson.Write(ctx, conn, envelope{ID: req.ID, Error: &rpcError{Name: "TimeoutError", Message: "timed out"}})
	})
	defer ts.Close()

	client, err := Dial(context.Background(), dialURL(ts))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.CallTimeout(2*time.Second, "page1", "click", map[string]any{"selector": "#go"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestClientCallTimesOutWhenNoResponse(t *testing.T) {
	ts := echoServer(t, func(ctx context.Context, conn *websocket.Conn, req envelope) {
		// never respond
	})
	defer ts.Close()

	client, err := Dial(context.Background(), dialURL(ts))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.CallTimeout(50*time.Millisecond, "page1", "click", nil)
	require.Error(t, err)
}

func TestClientIgnoresEventFrames(t *testing.T) {
	ts := echoServer(t, func(ctx context.Context, conn *websocket.Conn, req envelope) {
		_ = wsjson.Write(ctx, conn, envelope{Method: "console", Params: []byte(`{"text":"hi"}`)})
		_ = wsjson.Write(ctx, conn, envelope{ID: req.ID, Result: []byte(`{"done":true}`)})
	})
	defer ts.Close()

	client, err := Dial(context.Background(), dialURL(ts))
	require.NoError(t, err)
	defer client.Close()

	result, err := client.CallTimeout(2*time.Second, "page1", "waitForEvent", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"done":true}`, string(result))
}
