// Package envelope implements C1: the uniform, schema-versioned output
// record returned by every command, and its four serializers.
package envelope

import (
	"time"

	"github.com/freitascorp/pwcli/internal/pwerr"
)

// SchemaVersion is the current envelope schema version (spec.md §4.1).
const SchemaVersion = 4

// ArtifactKind is the closed enum of artifact kinds (spec.md §3).
type ArtifactKind string

const (
	ArtifactScreenshot ArtifactKind = "screenshot"
	ArtifactHTML       ArtifactKind = "html"
	ArtifactAuth       ArtifactKind = "auth"
	ArtifactTrace      ArtifactKind = "trace"
	ArtifactVideo      ArtifactKind = "video"
	ArtifactDownload   ArtifactKind = "download"
)

// DiagnosticLevel is the closed enum of diagnostic severities.
type DiagnosticLevel string

const (
	DiagInfo    DiagnosticLevel = "info"
	DiagWarning DiagnosticLevel = "warning"
	DiagError   DiagnosticLevel = "error"
)

// Artifact is a file produced as a side effect of a command.
type Artifact struct {
	Kind      ArtifactKind `json:"type"`
	Path      string       `json:"path"`
	SizeBytes *int64       `json:"sizeBytes,omitempty"`
}

// Diagnostic is a non-fatal message attached to a result.
type Diagnostic struct {
	Level   DiagnosticLevel `json:"level"`
	Message string          `json:"message"`
	Source  string          `json:"source,omitempty"`
}

// CdpEndpointSource records where a CDP endpoint came from.
type CdpEndpointSource string

const (
	CdpSourceCliFlag CdpEndpointSource = "cli_flag"
	CdpSourceContext CdpEndpointSource = "context"
	CdpSourceNone    CdpEndpointSource = "none"
)

// SessionSource records how a browser session was acquired (spec.md §4.6).
type SessionSource string

const (
	SessionSourceDaemon           SessionSource = "daemon"
	SessionSourceCachedDescriptor SessionSource = "cached_descriptor"
	SessionSourceFresh            SessionSource = "fresh"
	SessionSourceCdpConnect       SessionSource = "cdp_connect"
	SessionSourcePersistentDebug  SessionSource = "persistent_debug"
	SessionSourceBrowserServer    SessionSource = "browser_server"
)

// EffectiveConfig describes the configuration actually used for a command.
type EffectiveConfig struct {
	Browser           string             `json:"browser"`
	Headless          bool               `json:"headless"`
	WaitUntil         string             `json:"waitUntil,omitempty"`
	TimeoutMs         *int64             `json:"timeoutMs,omitempty"`
	Endpoint          string             `json:"endpoint,omitempty"`
	CdpEndpointSource *CdpEndpointSource `json:"cdpEndpointSource,omitempty"`
	SessionSource     *SessionSource     `json:"sessionSource,omitempty"`
	TargetSource      string             `json:"targetSource,omitempty"`
}

// Inputs records the resolved inputs used for a command execution.
type Inputs struct {
	URL        string         `json:"url,omitempty"`
	Selector   string         `json:"selector,omitempty"`
	Expression string         `json:"expression,omitempty"`
	OutputPath string         `json:"outputPath,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Error is the error payload of a failed envelope.
type Error struct {
	Code    pwerr.Code `json:"code"`
	Message string     `json:"message"`
	Details any        `json:"details,omitempty"`
}

// Envelope is the uniform result record (spec.md §3, C1).
//
// Invariant: Success == (Error == nil && Data != nil).
type Envelope struct {
	SchemaVersion int              `json:"schemaVersion"`
	Success       bool             `json:"success"`
	Command       string           `json:"command"`
	Inputs        *Inputs          `json:"inputs,omitempty"`
	Data          any              `json:"data,omitempty"`
	Error         *Error           `json:"error,omitempty"`
	DurationMs    *int64           `json:"durationMs,omitempty"`
	Artifacts     []Artifact       `json:"artifacts,omitempty"`
	Diagnostics   []Diagnostic     `json:"diagnostics,omitempty"`
	Config        *EffectiveConfig `json:"config,omitempty"`
}

// durationMs converts a duration to whole milliseconds for DurationMs.
func durationMs(d time.Duration) int64 {
	return d.Milliseconds()
}
