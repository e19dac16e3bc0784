package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cup/internal/adapter"
	"github.com/standardbeagle/cup/internal/search"
	"github.com/standardbeagle/cup/internal/session"
	"github.com/standardbeagle/cup/internal/taxonomy"
	"github.com/standardbeagle/cup/internal/tree"
)

type fakeAdapter struct{}

func (fakeAdapter) Platform() string { return taxonomy.PlatformLinux }

func (fakeAdapter) ScreenInfo(context.Context) (tree.Screen, error) {
	return tree.Screen{W: 1280, H: 800, Scale: 1}, nil
}

func (fakeAdapter) ForegroundWindow(context.Context) (adapter.WindowInfo, error) {
	return adapter.WindowInfo{Handle: 7, Title: "Files", PID: 321, Foreground: true}, nil
}

func (f fakeAdapter) AllWindows(ctx context.Context) ([]adapter.WindowInfo, error) {
	w, _ := f.ForegroundWindow(ctx)
	return []adapter.WindowInfo{w}, nil
}

func (f fakeAdapter) WindowList(ctx context.Context) ([]adapter.WindowInfo, error) {
	return []adapter.WindowInfo{
		{Title: "Files", PID: 321, Foreground: true, Bounds: &tree.Rect{W: 1280, H: 800}},
	}, nil
}

func (fakeAdapter) DesktopWindow(context.Context) (adapter.WindowInfo, error) {
	return adapter.WindowInfo{}, adapter.ErrNoDesktop
}

func (fakeAdapter) CaptureTree(ctx context.Context, windows []adapter.WindowInfo, maxDepth int) ([]*tree.RawNode, error) {
	roots := make([]*tree.RawNode, 0, len(windows))
	for _, w := range windows {
		roots = append(roots, &tree.RawNode{
			Role: "frame", Name: w.Title,
			Bounds: &tree.RectF{W: 1280, H: 800},
			Children: []*tree.RawNode{{
				Role: "push-button", Name: "Open",
				Bounds:  &tree.RectF{X: 5, Y: 5, W: 60, H: 24},
				Actions: []string{"click"},
			}},
		})
	}
	return roots, nil
}

// dialTestServer spins up the RPC handler on an httptest server and
// connects a client to it.
func dialTestServer(t *testing.T) *Client {
	t.Helper()
	srv := NewServer(fakeAdapter{}, "")
	ts := httptest.NewServer(http.HandlerFunc(srv.handleWS))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestDialFetchesInfo(t *testing.T) {
	c := dialTestServer(t)
	info := c.Info()
	assert.Equal(t, "linux", info.Platform)
	assert.Equal(t, tree.Version, info.Version)
	assert.NotEmpty(t, info.OS)
}

func TestRemoteSnapshotAndFind(t *testing.T) {
	c := dialTestServer(t)
	ctx := context.Background()

	text, err := c.Snapshot(ctx, "foreground", "", "standard", 0)
	require.NoError(t, err)
	assert.Contains(t, text, "# CUP 0.1.0 | linux | 1280x800")
	assert.Contains(t, text, `btn "Open"`)

	matches, err := c.Find(ctx, search.Query{Query: "open button"})
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Open", matches[0].Node.Name)
}

func TestRemoteFindWithoutCaptureFails(t *testing.T) {
	c := dialTestServer(t)
	_, err := c.Find(context.Background(), search.Query{Query: "open"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no prior capture")
}

func TestRemoteOverview(t *testing.T) {
	c := dialTestServer(t)
	text, err := c.Overview(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "# overview | 1 windows")
	assert.Contains(t, text, "* [fg] Files (pid:321)")
}

func TestClientActsAsAdapter(t *testing.T) {
	c := dialTestServer(t)
	ctx := context.Background()

	screen, err := c.ScreenInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, tree.Screen{W: 1280, H: 800, Scale: 1}, screen)

	win, err := c.ForegroundWindow(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Files", win.Title)
	require.IsType(t, "", win.Handle)

	raws, err := c.CaptureTree(ctx, []adapter.WindowInfo{win}, 0)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "frame", raws[0].Role)
	require.Len(t, raws[0].Children, 1)
	assert.Equal(t, []string{"click"}, raws[0].Children[0].Actions)
}

func TestLocalSessionOverRemoteAdapter(t *testing.T) {
	c := dialTestServer(t)
	s := session.New(c)

	res, err := s.Capture(context.Background(), session.CaptureOptions{})
	require.NoError(t, err)
	assert.Equal(t, "linux", res.Envelope.Platform)
	assert.Contains(t, res.Text, `btn "Open"`)

	matches, err := s.Find(search.Query{Role: "button"})
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, taxonomy.RoleButton, matches[0].Node.Role)
}

func TestStaleHandleRejected(t *testing.T) {
	c := dialTestServer(t)
	_, err := c.CaptureTree(context.Background(), []adapter.WindowInfo{
		{Handle: "w999", Title: "Ghost"},
	}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stale window handle")
}

func TestUnknownMethodErrors(t *testing.T) {
	c := dialTestServer(t)
	err := c.call(context.Background(), "teleport", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown method")
}
