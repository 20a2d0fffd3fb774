package driver

import (
	"context"
	"encoding/json"

	"github.com/freitascorp/pwcli/internal/pwerr"
)

// Page-scoped convenience calls used by internal/command's C10 bodies.
// Method names match the Playwright-compatible driver protocol consumed
// by this CLI (spec.md §6 "Driver protocol").

func (s *Session) Navigate(ctx context.Context, url, waitUntil string) error {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return err
	}
	_, err = s.client.Call(ctx, page, "goto", map[string]any{"url": url, "waitUntil": waitUntil})
	return err
}

func (s *Session) Click(ctx context.Context, selector string, timeoutMs int64) error {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return err
	}
	_, err = s.client.Call(ctx, page, "click", map[string]any{"selector": selector, "timeoutMs": timeoutMs})
	return err
}

func (s *Session) Fill(ctx context.Context, selector, value string, timeoutMs int64) error {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return err
	}
	_, err = s.client.Call(ctx, page, "fill", map[string]any{"selector": selector, "value": value, "timeoutMs": timeoutMs})
	return err
}

func (s *Session) WaitForSelector(ctx context.Context, selector string, timeoutMs int64) error {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return err
	}
	_, err = s.client.Call(ctx, page, "waitForSelector", map[string]any{"selector": selector, "timeoutMs": timeoutMs})
	return err
}

func (s *Session) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Call(ctx, page, "screenshot", map[string]any{"fullPage": fullPage})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Base64 string `json:"base64"`
	}
	if err := decodeResult(raw, &payload); err != nil {
		return nil, pwerr.Wrap(pwerr.ScreenshotFailed, err)
	}
	return []byte(payload.Base64), nil
}

func (s *Session) Content(ctx context.Context) (string, error) {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return "", err
	}
	raw, err := s.client.Call(ctx, page, "content", nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		HTML string `json:"html"`
	}
	if err := decodeResult(raw, &payload); err != nil {
		return "", pwerr.Wrap(pwerr.InternalError, err)
	}
	return payload.HTML, nil
}

func (s *Session) Evaluate(ctx context.Context, expression string) (json.RawMessage, error) {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Call(ctx, page, "evaluate", map[string]any{"expression": expression})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Result json.RawMessage `json:"result"`
	}
	if err := decodeResult(raw, &payload); err != nil {
		return nil, pwerr.Wrap(pwerr.JSEvalFailed, err)
	}
	return payload.Result, nil
}

func (s *Session) URL(ctx context.Context) (string, error) {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return "", err
	}
	raw, err := s.client.Call(ctx, page, "url", nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		URL string `json:"url"`
	}
	_ = decodeResult(raw, &payload)
	return payload.URL, nil
}

// ElementBox is a bounding box for page.coords/coords-all.
type ElementBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Session) BoundingBoxes(ctx context.Context, selector string, all bool) ([]ElementBox, error) {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Call(ctx, page, "boundingBoxes", map[string]any{"selector": selector, "all": all})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Boxes []ElementBox `json:"boxes"`
	}
	if err := decodeResult(raw, &payload); err != nil {
		return nil, pwerr.Wrap(pwerr.SelectorNotFound, err)
	}
	return payload.Boxes, nil
}

// ElementSummary describes one matched element for page.elements.
type ElementSummary struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

func (s *Session) Elements(ctx context.Context, selector string) ([]ElementSummary, error) {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Call(ctx, page, "queryElements", map[string]any{"selector": selector})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Elements []ElementSummary `json:"elements"`
	}
	if err := decodeResult(raw, &payload); err != nil {
		return nil, pwerr.Wrap(pwerr.SelectorNotFound, err)
	}
	return payload.Elements, nil
}

func (s *Session) Snapshot(ctx context.Context) (string, error) {
	page, err := s.ActivePage(ctx)
	if err != nil {
		return "", err
	}
	raw, err := s.client.Call(ctx, page, "accessibilitySnapshot", nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		Snapshot string `json:"snapshot"`
	}
	if err := decodeResult(raw, &payload); err != nil {
		return "", pwerr.Wrap(pwerr.InternalError, err)
	}
	return payload.Snapshot, nil
}

// ConsoleLogs returns console messages buffered by the driver connection
// since the last call (events arrive with ID==0 and are captured by the
// client's event sink; see Client.DrainConsole).
func (s *Session) ConsoleLogs() []ConsoleMessage {
	return s.client.DrainConsole()
}
