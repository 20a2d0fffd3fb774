package driver

import (
	"context"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageServer handles the small subset of driver methods page.go exercises,
// keyed by method name, so one table drives every test below.
func pageServer(t *testing.T, results map[string]string) *Client {
	t.Helper()
	ts := echoServer(t, func(ctx context.Context, conn *websocket.Conn, req envelope) {
		result, ok := results[req.Method]
		if !ok {
			result = `{}`
		}
		_ = wsjson.Write(ctx, conn, envelope{ID: req.ID, Result: []byte(result)})
	})
	t.Cleanup(ts.Close)

	client, err := Dial(context.Background(), dialURL(ts))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestActivePageOpensALazyPage(t *testing.T) {
	client := pageServer(t, map[string]string{"newPage": `{"pageGuid":"page-1"}`})
	s := &Session{client: client, contextGUID: "ctx-1"}

	guid, err := s.ActivePage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "page-1", guid)
	assert.Equal(t, []string{"page-1"}, s.ListTabs())

	guid2, err := s.ActivePage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "page-1", guid2, "a second call must reuse the already-open page")
}

func TestNavigateCallsGotoOnActivePage(t *testing.T) {
	client := pageServer(t, map[string]string{"newPage": `{"pageGuid":"page-1"}`, "goto": `{}`})
	s := &Session{client: client, contextGUID: "ctx-1"}

	require.NoError(t, s.Navigate(context.Background(), "https://example.com", "load"))
}

func TestScreenshotReturnsBase64Payload(t *testing.T) {
	client := pageServer(t, map[string]string{
		"newPage":    `{"pageGuid":"page-1"}`,
		"screenshot": `{"base64":"aGVsbG8="}`,
	})
	s := &Session{client: client, contextGUID: "ctx-1"}

	data, err := s.Screenshot(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", string(data))
}

func TestContentReturnsHTML(t *testing.T) {
	client := pageServer(t, map[string]string{
		"newPage": `{"pageGuid":"page-1"}`,
		"content": `{"html":"<html></html>"}`,
	})
	s := &Session{client: client, contextGUID: "ctx-1"}

	html, err := s.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)
}

func TestBoundingBoxesDecodesBoxList(t *testing.T) {
	client := pageServer(t, map[string]string{
		"newPage":       `{"pageGuid":"page-1"}`,
		"boundingBoxes": `{"boxes":[{"x":1,"y":2,"width":3,"height":4}]}`,
	})
	s := &Session{client: client, contextGUID: "ctx-1"}

	boxes, err := s.BoundingBoxes(context.Background(), "#go", false)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, ElementBox{X: 1, Y: 2, Width: 3, Height: 4}, boxes[0])
}

func TestActivePageSurfacesErrorWithoutContext(t *testing.T) {
	client := pageServer(t, nil)
	s := &Session{client: client}

	_, err := s.ActivePage(context.Background())
	require.Error(t, err)
}

func TestConsoleLogsDrainsBufferedMessages(t *testing.T) {
	client := pageServer(t, nil)
	s := &Session{client: client}
	client.bufferConsole([]byte(`{"type":"log","text":"hi"}`))

	msgs := s.ConsoleLogs()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Text)

	assert.Empty(t, s.ConsoleLogs(), "DrainConsole must empty the buffer")
}
