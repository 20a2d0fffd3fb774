package command

import (
	"context"
	"time"

	"github.com/freitascorp/pwcli/internal/daemon"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

// DaemonStatus lists the daemon's active leases (daemon.status).
var DaemonStatus = Define("daemon.status", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		leases, err := daemon.Status(ec.DaemonSocketPath)
		if err != nil {
			return Outcome{}, pwerr.New(pwerr.SessionError, "daemon not reachable: %s", err.Error())
		}
		out := envelope.New("daemon.status").Data(map[string]any{"leases": leases})
		return Success(out, noDelta()), nil
	},
)

// DaemonStop drops every lease held by the running daemon (daemon.stop).
var DaemonStop = Define("daemon.stop", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		if err := daemon.StopAll(ec.DaemonSocketPath); err != nil {
			return Outcome{}, pwerr.New(pwerr.SessionError, "daemon not reachable: %s", err.Error())
		}
		out := envelope.New("daemon.stop").Data(map[string]any{"stopped": true})
		return Success(out, noDelta()), nil
	},
)

// DaemonStart launches the lease broker in the background if one isn't
// already listening (daemon.start). Interactive-only: a batch script has no
// business backgrounding a long-running process on its own behalf.
var DaemonStart = Define("daemon.start", true, false,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		if client, ok := daemon.TryConnect(ec.DaemonSocketPath); ok {
			client.Close()
			out := envelope.New("daemon.start").Data(map[string]any{"started": false, "message": "daemon already running"})
			return Success(out, noDelta()), nil
		}

		srv, err := daemon.NewServer(ec.DaemonSocketPath, ec.DaemonDBPath)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
		}
		go func() {
			_ = srv.Serve(context.Background())
		}()
		// Give the listener a moment to bind before reporting success.
		time.Sleep(50 * time.Millisecond)

		out := envelope.New("daemon.start").Data(map[string]any{"started": true, "socket": ec.DaemonSocketPath})
		return Success(out, noDelta()), nil
	},
)
