package command

import (
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/freitascorp/pwcli/internal/contextstore"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

// ScreenshotRaw is the wire shape of the screenshot command.
type ScreenshotRaw struct {
	Output   string `json:"output,omitempty"`
	FullPage bool   `json:"fullPage,omitempty"`
}

type screenshotResolved struct {
	output   string
	fullPage bool
}

// Screenshot captures the active page and writes it to the resolved output path.
var Screenshot = Define("screenshot", false, true,
	func(raw ScreenshotRaw, ec *ExecContext) (screenshotResolved, error) {
		return screenshotResolved{output: ec.Store.ResolveOutput(raw.Output), fullPage: raw.FullPage}, nil
	},
	func(r screenshotResolved, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		b64, err := sess.Screenshot(ec.Ctx, r.fullPage)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.ScreenshotFailed, err)
		}
		raw, err := base64.StdEncoding.DecodeString(string(b64))
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.ScreenshotFailed, err)
		}
		if err := os.MkdirAll(filepath.Dir(r.output), 0o755); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.IOError, err)
		}
		if err := os.WriteFile(r.output, raw, 0o644); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.IOError, err)
		}
		size := int64(len(raw))
		out := envelope.New("screenshot").
			Inputs(envelope.Inputs{OutputPath: r.output}).
			Data(map[string]any{"path": r.output, "fullPage": r.fullPage}).
			Artifact(envelope.Artifact{Kind: envelope.ArtifactScreenshot, Path: r.output, SizeBytes: &size})
		return Success(out, contextstore.ContextDelta{Output: &r.output}), nil
	},
)

