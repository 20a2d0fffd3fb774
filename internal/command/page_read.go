package command

import (
	"strings"

	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/readable"
	"github.com/freitascorp/pwcli/internal/sessionmgr"
)

type noArgs struct{}

// PageHTML returns the page's current HTML (page.html).
var PageHTML = Define("page.html", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		html, err := sess.Content(ec.Ctx)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
		}
		out := envelope.New("page.html").Data(map[string]any{"html": html})
		return Success(out, noDelta()), nil
	},
)

// PageText returns the page's extracted plain text (via the readable pipeline).
var PageText = Define("page.text", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		html, err := sess.Content(ec.Ctx)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
		}
		url, _ := sess.URL(ec.Ctx)
		extracted, err := readable.Extract(html, url)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
		}
		out := envelope.New("page.text").Data(map[string]any{"text": extracted.Text})
		return Success(out, noDelta()), nil
	},
)

// PageReadRaw is the wire shape of page.read: a content-format selector
// (the "format" field: markdown|text|html, default markdown) and an opt-in
// metadata fold.
type PageReadRaw struct {
	Format   string `json:"format,omitempty"`
	Metadata bool   `json:"metadata,omitempty"`
}

// PageRead runs the readable pipeline over the active page and returns the
// selected rendering plus word count, per tests/page_read.rs.
var PageRead = Define("page.read", false, true,
	func(raw PageReadRaw, ec *ExecContext) (PageReadRaw, error) {
		if raw.Format == "" {
			raw.Format = "markdown"
		}
		switch raw.Format {
		case "markdown", "text", "html":
		default:
			return raw, pwerr.New(pwerr.InvalidInput, "format must be markdown, text, or html")
		}
		return raw, nil
	},
	func(r PageReadRaw, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		html, err := sess.Content(ec.Ctx)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
		}
		url, _ := sess.URL(ec.Ctx)
		extracted, err := readable.Extract(html, url)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
		}

		var content string
		switch r.Format {
		case "text":
			content = extracted.Text
		case "html":
			content = extracted.CleanedHTML
		default:
			content = extracted.Markdown
		}

		data := map[string]any{
			"format":    r.Format,
			"content":   content,
			"wordCount": countWords(extracted.Text),
		}
		if r.Metadata {
			if extracted.Metadata.Title != "" {
				data["title"] = extracted.Metadata.Title
			}
			if extracted.Metadata.Author != "" {
				data["author"] = extracted.Metadata.Author
			}
			if extracted.Metadata.Published != "" {
				data["published"] = extracted.Metadata.Published
			}
			if extracted.Metadata.Description != "" {
				data["description"] = extracted.Metadata.Description
			}
			if extracted.Metadata.Image != "" {
				data["image"] = extracted.Metadata.Image
			}
			if extracted.Metadata.Site != "" {
				data["site"] = extracted.Metadata.Site
			}
		}

		out := envelope.New("page.read").Data(data)
		return Success(out, noDelta()), nil
	},
)

func countWords(text string) int {
	return len(strings.Fields(text))
}

// EvalRaw is the wire shape of page.eval.
type EvalRaw struct {
	Expression string `json:"expression"`
}

// PageEval evaluates a JS expression in the active page.
var PageEval = Define("page.eval", false, true,
	func(raw EvalRaw, ec *ExecContext) (EvalRaw, error) {
		if raw.Expression == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "expression is required")
		}
		return raw, nil
	},
	func(r EvalRaw, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		result, err := sess.Evaluate(ec.Ctx, r.Expression)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.JSEvalFailed, err)
		}
		out := envelope.New("page.eval").
			Inputs(envelope.Inputs{Expression: r.Expression}).
			Data(map[string]any{"result": result})
		return Success(out, noDelta()), nil
	},
)

// PageConsole drains buffered console messages since the last read.
var PageConsole = Define("page.console", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		logs := sess.ConsoleLogs()
		out := envelope.New("page.console").Data(map[string]any{"messages": logs})
		return Success(out, noDelta()), nil
	},
)

// ElementsRaw is the wire shape of page.elements.
type ElementsRaw struct {
	Selector string `json:"selector"`
}

// PageElements lists elements matching a selector.
var PageElements = Define("page.elements", false, true,
	func(raw ElementsRaw, ec *ExecContext) (ElementsRaw, error) {
		if raw.Selector == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "selector is required")
		}
		return raw, nil
	},
	func(r ElementsRaw, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		els, err := sess.Elements(ec.Ctx, r.Selector)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.SelectorNotFound, err)
		}
		out := envelope.New("page.elements").
			Inputs(envelope.Inputs{Selector: r.Selector}).
			Data(map[string]any{"elements": els})
		return Success(out, noDelta()), nil
	},
)

// PageSnapshot returns an accessibility-tree snapshot of the active page.
var PageSnapshot = Define("page.snapshot", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		snap, err := sess.Snapshot(ec.Ctx)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
		}
		out := envelope.New("page.snapshot").Data(map[string]any{"snapshot": snap})
		return Success(out, noDelta()), nil
	},
)

// CoordsRaw is the wire shape of page.coords / page.coords-all.
type CoordsRaw struct {
	Selector string `json:"selector"`
}

// PageCoords returns the first matching element's bounding-box center point.
var PageCoords = Define("page.coords", false, true,
	func(raw CoordsRaw, ec *ExecContext) (CoordsRaw, error) {
		selector, err := ec.Store.ResolveSelector(raw.Selector, "")
		if err != nil {
			return raw, err
		}
		raw.Selector = selector
		return raw, nil
	},
	func(r CoordsRaw, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		boxes, err := sess.BoundingBoxes(ec.Ctx, r.Selector, false)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.SelectorNotFound, err)
		}
		if len(boxes) == 0 {
			return Outcome{}, pwerr.New(pwerr.SelectorNotFound, "no element matched %s", r.Selector)
		}
		box := boxes[0]
		out := envelope.New("page.coords").
			Inputs(envelope.Inputs{Selector: r.Selector}).
			Data(map[string]any{
				"x": box.X + box.Width/2, "y": box.Y + box.Height/2,
				"width": box.Width, "height": box.Height,
			})
		return Success(out, contextstoreSelectorDelta(r.Selector)), nil
	},
)

// PageCoordsAll returns every matching element's bounding box.
var PageCoordsAll = Define("page.coords-all", false, true,
	func(raw CoordsRaw, ec *ExecContext) (CoordsRaw, error) {
		if raw.Selector == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "selector is required")
		}
		return raw, nil
	},
	func(r CoordsRaw, ec *ExecContext) (Outcome, error) {
		sess, err := EnsureSession(ec, sessionmgr.NewRequest("chromium"))
		if err != nil {
			return Outcome{}, err
		}
		boxes, err := sess.BoundingBoxes(ec.Ctx, r.Selector, true)
		if err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.SelectorNotFound, err)
		}
		out := envelope.New("page.coords-all").
			Inputs(envelope.Inputs{Selector: r.Selector}).
			Data(map[string]any{"boxes": boxes})
		return Success(out, noDelta()), nil
	},
)
