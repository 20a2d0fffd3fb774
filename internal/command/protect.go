package command

import (
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

// ProtectPatternRaw is the wire shape of protect.add / protect.remove.
type ProtectPatternRaw struct {
	Pattern string `json:"pattern"`
}

// ProtectAdd adds a URL pattern to the protected list (protect.add).
var ProtectAdd = Define("protect.add", false, true,
	func(raw ProtectPatternRaw, ec *ExecContext) (ProtectPatternRaw, error) {
		if raw.Pattern == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "pattern is required")
		}
		return raw, nil
	},
	func(r ProtectPatternRaw, ec *ExecContext) (Outcome, error) {
		added := ec.Store.AddProtected(r.Pattern)
		out := envelope.New("protect.add").Data(map[string]any{"pattern": r.Pattern, "added": added})
		return Success(out, noDelta()), nil
	},
)

// ProtectRemove removes a URL pattern from the protected list (protect.remove).
var ProtectRemove = Define("protect.remove", false, true,
	func(raw ProtectPatternRaw, ec *ExecContext) (ProtectPatternRaw, error) {
		if raw.Pattern == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "pattern is required")
		}
		return raw, nil
	},
	func(r ProtectPatternRaw, ec *ExecContext) (Outcome, error) {
		removed := ec.Store.RemoveProtected(r.Pattern)
		out := envelope.New("protect.remove").Data(map[string]any{"pattern": r.Pattern, "removed": removed})
		return Success(out, noDelta()), nil
	},
)

// ProtectList lists protected URL patterns (protect.list).
var ProtectList = Define("protect.list", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		out := envelope.New("protect.list").Data(map[string]any{"patterns": ec.Store.ProtectedURLs()})
		return Success(out, noDelta()), nil
	},
)
