// Package descriptor implements C5: the per-namespace persisted record of
// an acquired browser session (spec.md §4.5), ported from the original's
// crates/cli/src/session/descriptor.rs.
package descriptor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current descriptor file schema version.
const SchemaVersion = 1

// DriverHash identifies the driver build this descriptor was acquired
// against; a mismatch invalidates descriptor reuse (spec.md §4.6 step 2).
// In production this would hash the negotiated driver version string; here
// it is a package-level var so callers (and tests) can pin it.
var DriverHash = "dev"

// Descriptor is the persisted session record (spec.md §3, C5).
type Descriptor struct {
	SchemaVersion int    `json:"schemaVersion"`
	PID           int    `json:"pid"`
	Browser       string `json:"browser"`
	Headless      bool   `json:"headless"`
	CdpEndpoint   string `json:"cdpEndpoint,omitempty"`
	WsEndpoint    string `json:"wsEndpoint,omitempty"`
	WorkspaceID   string `json:"workspaceId"`
	Namespace     string `json:"namespace"`
	SessionKey    string `json:"sessionKey,omitempty"`
	DriverHash    string `json:"driverHash"`
	InstanceID    string `json:"instanceId"`
	CreatedAt     int64  `json:"createdAt"`
}

// Now returns the current unix timestamp, used when stamping new descriptors.
func Now() int64 { return time.Now().Unix() }

// NewInstanceID returns a fresh identifier for a newly acquired session,
// distinguishing it in logs and batch diagnostics from any prior session
// that happened to reuse the same pid.
func NewInstanceID() string { return uuid.NewString() }

// Load reads a descriptor from path. A missing file is not an error; it
// returns (nil, nil).
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, nil // corrupt file treated as absent, per spec.md §4.5
	}
	return &d, nil
}

// Save is best-effort: callers should log a warning on error but never
// fail the command, per spec.md §4.5.
func Save(path string, d Descriptor) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	buf, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// Clear removes the descriptor file. Absence is not an error.
func Clear(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	err := os.Remove(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// BelongsTo reports whether this descriptor was created for the given
// workspace/namespace pair.
func (d *Descriptor) BelongsTo(workspaceID, namespace string) bool {
	return d.WorkspaceID == workspaceID && d.Namespace == namespace
}

// Matches reports whether this descriptor satisfies a new request's
// requirements: browser kind, headless flag, (if the request specifies
// one) CDP endpoint, and driver hash must all match. Per spec.md §9 Open
// Question (ii), a descriptor whose endpoint is present when the request's
// is absent is accepted (current behavior, kept deliberately loose).
func (d *Descriptor) Matches(browser string, headless bool, requestedCdp, driverHash string) bool {
	if d.Browser != browser || d.Headless != headless {
		return false
	}
	if requestedCdp != "" && d.CdpEndpoint != requestedCdp {
		return false
	}
	if driverHash != "" && d.DriverHash != driverHash {
		return false
	}
	return true
}

// Endpoint returns the CDP endpoint, falling back to the websocket endpoint.
func (d *Descriptor) Endpoint() string {
	if d.CdpEndpoint != "" {
		return d.CdpEndpoint
	}
	return d.WsEndpoint
}

// PidAlive reports whether d.PID exists on this host. Descriptors
// reference pids that may be reused by unrelated processes (spec.md §9);
// callers should prefer an endpoint probe when the endpoint is reachable
// and fall back to this check otherwise.
func (d *Descriptor) PidAlive() bool {
	if d.PID <= 0 {
		return false
	}
	proc, err := os.FindProcess(d.PID)
	if err != nil {
		return false
	}
	// On Unix, FindProcess always succeeds; signal 0 probes existence
	// without affecting the process.
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}
