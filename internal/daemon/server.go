package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"sync"

	"github.com/freitascorp/pwcli/internal/connect"
	"github.com/freitascorp/pwcli/internal/logging"
	"github.com/freitascorp/pwcli/internal/workspace"
)

// Server is the long-running lease-broker process listening on a unix
// domain socket (spec.md GLOSSARY "daemon lease").
type Server struct {
	SocketPath string
	Store      *Store

	mu       sync.Mutex
	listener net.Listener
}

// NewServer opens the lease store at dbPath; SocketPath is bound by Serve.
func NewServer(socketPath, dbPath string) (*Server, error) {
	store, err := OpenStore(dbPath)
	if err != nil {
		return nil, err
	}
	return &Server{SocketPath: socketPath, Store: store}, nil
}

// Serve accepts connections until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	_ = os.Remove(s.SocketPath)
	listener, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	log := logging.With("daemon")
	log.Info("daemon listening", "socket", s.SocketPath)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go s.handleConn(conn)
	}
}

// Close stops accepting connections and closes the lease store.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	return s.Store.Close()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		var req request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			_ = enc.Encode(response{OK: false, Error: err.Error()})
			continue
		}
		_ = enc.Encode(s.dispatch(req))
	}
}

func (s *Server) dispatch(req request) response {
	switch req.Op {
	case "request_browser":
		return s.requestBrowser(req)
	case "status":
		leases, err := s.Store.List()
		if err != nil {
			return response{OK: false, Error: err.Error()}
		}
		return response{OK: true, Leases: leases}
	case "stop":
		leases, err := s.Store.List()
		if err != nil {
			return response{OK: false, Error: err.Error()}
		}
		for _, l := range leases {
			_ = s.Store.Delete(l.SessionKey)
		}
		return response{OK: true}
	default:
		return response{OK: false, Error: "unknown op: " + req.Op}
	}
}

func (s *Server) requestBrowser(req request) response {
	if existing, err := s.Store.Get(req.SessionKey); err == nil && existing != nil {
		return response{OK: true, Endpoint: existing.Endpoint}
	}

	port := workspace.DerivePort(req.SessionKey)
	ctx := context.Background()
	info, err := connect.Discover(ctx, port)
	if err != nil {
		userDataDir, dirErr := connect.ResolveUserDataDir("", req.SessionKey, "")
		if dirErr != nil {
			return response{OK: false, Error: dirErr.Error()}
		}
		info, err = connect.Launch(ctx, port, userDataDir)
		if err != nil {
			return response{OK: false, Error: err.Error()}
		}
	}

	_ = s.Store.Put(Lease{
		SessionKey: req.SessionKey,
		Endpoint:   info.WebSocketDebuggerURL,
		Browser:    req.Browser,
		Headless:   req.Headless,
		PID:        os.Getpid(),
		CreatedAt:  Now(),
	})

	return response{OK: true, Endpoint: info.WebSocketDebuggerURL}
}
