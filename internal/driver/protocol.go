// Package driver implements the JSON-RPC-over-websocket client that talks
// to an external Playwright-compatible browser driver (spec.md §4.4, §6),
// grounded on the teacher's pkg/relay/ws_relay.go request/response
// correlation pattern (coder/websocket + wsjson, id-keyed pending map).
package driver

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

// envelope is the wire frame exchanged with the driver. A frame with a
// non-zero ID is a request/response; a frame without one is an event.
type envelope struct {
	ID     int64           `json:"id,omitempty"`
	GUID   string          `json:"guid,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ConsoleMessage is a buffered page console event (spec.md "page.console").
type ConsoleMessage struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Client is a single JSON-RPC connection to a driver endpoint.
type Client struct {
	conn     *websocket.Conn
	endpoint string

	nextID  int64
	mu      sync.Mutex
	pending map[int64]chan envelope

	consoleMu  sync.Mutex
	consoleLog []ConsoleMessage

	closeOnce sync.Once
	readDone  chan struct{}
}

// Dial connects to a driver websocket endpoint and starts its read loop.
func Dial(ctx context.Context, endpoint string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return nil, pwerr.Wrap(pwerr.BrowserLaunchFailed, err)
	}
	c := &Client{
		conn:     conn,
		endpoint: endpoint,
		pending:  make(map[int64]chan envelope),
		readDone: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Endpoint returns the websocket URL this client is connected to.
func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) readLoop() {
	defer close(c.readDone)
	ctx := context.Background()
	for {
		var env envelope
		if err := wsjson.Read(ctx, c.conn, &env); err != nil {
			c.mu.Lock()
			for id, ch := range c.pending {
				close(ch)
				delete(c.pending, id)
			}
			c.mu.Unlock()
			return
		}
		if env.ID == 0 {
			if env.Method == "console" {
				c.bufferConsole(env.Params)
			}
			continue // other event frames need no correlation at this layer
		}
		c.mu.Lock()
		ch, ok := c.pending[env.ID]
		if ok {
			delete(c.pending, env.ID)
		}
		c.mu.Unlock()
		if ok {
			ch <- env
		}
	}
}

// Call issues a request and blocks for its correlated response.
func (c *Client) Call(ctx context.Context, guid, method string, params any) (json.RawMessage, error) {
	id := atomic.AddInt64(&c.nextID, 1)
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, pwerr.Wrap(pwerr.InternalError, err)
	}

	respCh := make(chan envelope, 1)
	c.mu.Lock()
	c.pending[id] = respCh
	c.mu.Unlock()

	req := envelope{ID: id, GUID: guid, Method: method, Params: paramsJSON}
	if err := wsjson.Write(ctx, c.conn, req); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, pwerr.Wrap(pwerr.SessionError, err)
	}

	select {
	case resp, ok := <-respCh:
		if !ok {
			return nil, pwerr.New(pwerr.SessionError, "driver connection closed while awaiting %s", method)
		}
		if resp.Error != nil {
			return nil, pwerr.Classify(resp.Error.Name, resp.Error.Message)
		}
		return resp.Result, nil
	case <-ctx.Done():
		return nil, pwerr.Wrap(pwerr.Timeout, ctx.Err())
	}
}

// CallTimeout is Call with a bounded deadline, the common case for command execution.
func (c *Client) CallTimeout(timeout time.Duration, guid, method string, params any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.Call(ctx, guid, method, params)
}

func (c *Client) bufferConsole(params json.RawMessage) {
	var msg ConsoleMessage
	if err := json.Unmarshal(params, &msg); err != nil {
		return
	}
	c.consoleMu.Lock()
	c.consoleLog = append(c.consoleLog, msg)
	c.consoleMu.Unlock()
}

// DrainConsole returns and clears every console message buffered since the
// last drain.
func (c *Client) DrainConsole() []ConsoleMessage {
	c.consoleMu.Lock()
	defer c.consoleMu.Unlock()
	out := c.consoleLog
	c.consoleLog = nil
	return out
}

// Close terminates the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.conn.Close(websocket.StatusNormalClosure, "client closing")
	})
	return err
}
