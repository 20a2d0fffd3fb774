package command

import (
	"github.com/freitascorp/pwcli/internal/contextstore"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

// HarSetRaw is the wire shape of har.set (spec.md §5 supplement).
type HarSetRaw struct {
	Path          string `json:"path"`
	ContentPolicy string `json:"contentPolicy,omitempty"`
	Mode          string `json:"mode,omitempty"`
	OmitContent   bool   `json:"omitContent,omitempty"`
	URLFilter     string `json:"urlFilter,omitempty"`
}

// HarSet caches HAR capture defaults for the active context (har.set).
var HarSet = Define("har.set", false, true,
	func(raw HarSetRaw, ec *ExecContext) (contextstore.HarDefaults, error) {
		if raw.Path == "" {
			return contextstore.HarDefaults{}, pwerr.New(pwerr.InvalidInput, "path is required")
		}
		policy := contextstore.HarContentPolicy(raw.ContentPolicy)
		if policy == "" {
			policy = contextstore.HarContentEmbed
		}
		mode := contextstore.HarMode(raw.Mode)
		if mode == "" {
			mode = contextstore.HarModeFull
		}
		return contextstore.HarDefaults{
			Path: raw.Path, ContentPolicy: policy, Mode: mode,
			OmitContent: raw.OmitContent, URLFilter: raw.URLFilter,
		}, nil
	},
	func(har contextstore.HarDefaults, ec *ExecContext) (Outcome, error) {
		changed := ec.Store.SetHarDefaults(har)
		out := envelope.New("har.set").Data(map[string]any{"har": har, "changed": changed, "enabled": true})
		return Success(out, noDelta()), nil
	},
)

// HarShow returns the cached HAR defaults, if any (har.show).
var HarShow = Define("har.show", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		har := ec.Store.HarDefaults()
		out := envelope.New("har.show").Data(map[string]any{"har": har, "enabled": har != nil})
		return Success(out, noDelta()), nil
	},
)

// HarClear removes cached HAR defaults (har.clear).
var HarClear = Define("har.clear", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		enabled := ec.Store.HarDefaults() != nil
		cleared := ec.Store.ClearHarDefaults()
		out := envelope.New("har.clear").Data(map[string]any{"cleared": cleared, "enabled": enabled})
		return Success(out, noDelta()), nil
	},
)
