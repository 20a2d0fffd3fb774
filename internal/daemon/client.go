package daemon

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

// Client is a short-lived connection to a running daemon, used once per
// lease request and discarded.
type Client struct {
	conn net.Conn
}

var _ sessionmgr.DaemonClient = (*Client)(nil)

// TryConnect dials socketPath, returning (nil, false) if nothing is
// listening — callers should silently fall back to other strategies.
func TryConnect(socketPath string) (*Client, bool) {
	conn, err := net.DialTimeout("unix", socketPath, 500*time.Millisecond)
	if err != nil {
		return nil, false
	}
	return &Client{conn: conn}, true
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// RequestBrowser implements sessionmgr.DaemonClient.
func (c *Client) RequestBrowser(browser string, headless bool, sessionKey string) (string, error) {
	_ = c.conn.SetDeadline(time.Now().Add(5 * time.Second))

	req := request{Op: "request_browser", Browser: browser, Headless: headless, SessionKey: sessionKey}
	if err := json.NewEncoder(c.conn).Encode(req); err != nil {
		return "", err
	}

	scanner := bufio.NewScanner(c.conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("daemon closed connection without a response")
	}

	var resp response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return "", err
	}
	if !resp.OK {
		return "", fmt.Errorf("daemon: %s", resp.Error)
	}
	return resp.Endpoint, nil
}

// Status requests the daemon's active lease list for daemon.status.
func Status(socketPath string) ([]Lease, error) {
	client, ok := TryConnect(socketPath)
	if !ok {
		return nil, fmt.Errorf("daemon not running")
	}
	defer client.Close()

	_ = client.conn.SetDeadline(time.Now().Add(5 * time.Second))
	if err := json.NewEncoder(client.conn).Encode(request{Op: "status"}); err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(client.conn)
	if !scanner.Scan() {
		return nil, fmt.Errorf("no response from daemon")
	}
	var resp response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("daemon: %s", resp.Error)
	}
	return resp.Leases, nil
}

// StopAll asks the daemon to drop every lease (daemon.stop).
func StopAll(socketPath string) error {
	client, ok := TryConnect(socketPath)
	if !ok {
		return fmt.Errorf("daemon not running")
	}
	defer client.Close()

	_ = client.conn.SetDeadline(time.Now().Add(5 * time.Second))
	if err := json.NewEncoder(client.conn).Encode(request{Op: "stop"}); err != nil {
		return err
	}
	scanner := bufio.NewScanner(client.conn)
	if !scanner.Scan() {
		return fmt.Errorf("no response from daemon")
	}
	var resp response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("daemon: %s", resp.Error)
	}
	return nil
}
