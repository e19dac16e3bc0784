package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/standardbeagle/cup/internal/adapter"
	"github.com/standardbeagle/cup/internal/search"
	"github.com/standardbeagle/cup/internal/tree"
)

// Client talks to a remote server. It doubles as an adapter.Adapter, so a
// local session can capture from a remote machine and normalize, prune,
// and search the tree locally.
type Client struct {
	url  string
	info Info

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int64
}

var _ adapter.Adapter = (*Client)(nil)

// Dial connects to a remote server ("ws://host:9800") and fetches its
// machine info.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{url: url, conn: conn}
	if err := c.call(ctx, "info", nil, &c.info); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Info returns the remote machine's metadata, fetched at dial time.
func (c *Client) Info() Info { return c.info }

// call performs one request/response exchange. The connection carries one
// call at a time; the lock serializes callers.
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return errors.New("client is closed")
	}

	c.nextID++
	req := request{ID: c.nextID, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode params: %w", err)
		}
		req.Params = raw
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(deadline)
		_ = c.conn.SetWriteDeadline(deadline)
	}

	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	var resp response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if resp.Error != "" {
		return fmt.Errorf("remote %s: %s", method, resp.Error)
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

// Snapshot captures on the remote machine and returns its compact text.
// The remote session renders; nothing is normalized locally.
func (c *Client) Snapshot(ctx context.Context, scope, app, detail string, maxDepth int) (string, error) {
	var text string
	err := c.call(ctx, "snapshot", snapshotParams{
		Scope: scope, App: app, Detail: detail, MaxDepth: maxDepth,
	}, &text)
	return text, err
}

// Overview returns the remote machine's window list text.
func (c *Client) Overview(ctx context.Context) (string, error) {
	var text string
	err := c.call(ctx, "overview", nil, &text)
	return text, err
}

// Find searches the remote session's last capture.
func (c *Client) Find(ctx context.Context, q search.Query) ([]search.Match, error) {
	var matches []search.Match
	err := c.call(ctx, "find", q, &matches)
	return matches, err
}

// ---- adapter.Adapter ------------------------------------------------------

// Platform reports the remote machine's platform identifier.
func (c *Client) Platform() string { return c.info.Platform }

// ScreenInfo fetches the remote primary display.
func (c *Client) ScreenInfo(ctx context.Context) (tree.Screen, error) {
	var s tree.Screen
	err := c.call(ctx, "screen", nil, &s)
	return s, err
}

// ForegroundWindow fetches the remote focused window.
func (c *Client) ForegroundWindow(ctx context.Context) (adapter.WindowInfo, error) {
	wins, err := c.enumerate(ctx, "foreground")
	if err != nil {
		return adapter.WindowInfo{}, err
	}
	if len(wins) == 0 {
		return adapter.WindowInfo{}, errors.New("remote reported no foreground window")
	}
	return wins[0], nil
}

// AllWindows fetches every remote top-level window.
func (c *Client) AllWindows(ctx context.Context) ([]adapter.WindowInfo, error) {
	return c.enumerate(ctx, "all")
}

// WindowList fetches lightweight remote window metadata.
func (c *Client) WindowList(ctx context.Context) ([]adapter.WindowInfo, error) {
	return c.enumerate(ctx, "list")
}

// DesktopWindow fetches the remote desktop surface window.
func (c *Client) DesktopWindow(ctx context.Context) (adapter.WindowInfo, error) {
	wins, err := c.enumerate(ctx, "desktop")
	if err != nil {
		if errors.Is(err, adapter.ErrNoDesktop) || isNoDesktop(err) {
			return adapter.WindowInfo{}, adapter.ErrNoDesktop
		}
		return adapter.WindowInfo{}, err
	}
	if len(wins) == 0 {
		return adapter.WindowInfo{}, adapter.ErrNoDesktop
	}
	return wins[0], nil
}

// CaptureTree walks the remote accessibility tree for the given windows.
// Window handles must come from a prior enumeration on this client.
func (c *Client) CaptureTree(ctx context.Context, windows []adapter.WindowInfo, maxDepth int) ([]*tree.RawNode, error) {
	handles := make([]string, len(windows))
	for i, w := range windows {
		h, ok := w.Handle.(string)
		if !ok {
			return nil, fmt.Errorf("window %q has no remote handle", w.Title)
		}
		handles[i] = h
	}
	var raws []*tree.RawNode
	err := c.call(ctx, "capture_tree", captureTreeParams{Handles: handles, MaxDepth: maxDepth}, &raws)
	return raws, err
}

func (c *Client) enumerate(ctx context.Context, kind string) ([]adapter.WindowInfo, error) {
	var wire []wireWindow
	if err := c.call(ctx, "windows", windowsParams{Kind: kind}, &wire); err != nil {
		return nil, err
	}
	out := make([]adapter.WindowInfo, len(wire))
	for i, w := range wire {
		out[i] = adapter.WindowInfo{
			Handle:     w.Handle,
			Title:      w.Title,
			PID:        w.PID,
			BundleID:   w.BundleID,
			Foreground: w.Foreground,
			Bounds:     w.Bounds,
			URL:        w.URL,
		}
	}
	return out, nil
}

// isNoDesktop matches the stringified ErrNoDesktop a server sends back.
func isNoDesktop(err error) bool {
	return err != nil && strings.Contains(err.Error(), adapter.ErrNoDesktop.Error())
}
