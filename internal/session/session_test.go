package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cup/internal/adapter"
	"github.com/standardbeagle/cup/internal/search"
	"github.com/standardbeagle/cup/internal/taxonomy"
	"github.com/standardbeagle/cup/internal/tree"
)

// fakeAdapter serves a two-window desktop from canned data.
type fakeAdapter struct {
	captured [][]adapter.WindowInfo
}

func (f *fakeAdapter) Platform() string { return taxonomy.PlatformWindows }

func (f *fakeAdapter) ScreenInfo(context.Context) (tree.Screen, error) {
	return tree.Screen{W: 1920, H: 1080, Scale: 1}, nil
}

func (f *fakeAdapter) ForegroundWindow(context.Context) (adapter.WindowInfo, error) {
	return adapter.WindowInfo{Handle: "w1", Title: "Editor", PID: 101, Foreground: true}, nil
}

func (f *fakeAdapter) AllWindows(ctx context.Context) ([]adapter.WindowInfo, error) {
	return []adapter.WindowInfo{
		{Handle: "w1", Title: "Editor", PID: 101, Foreground: true},
		{Handle: "w2", Title: "Music Player", PID: 102},
	}, nil
}

func (f *fakeAdapter) WindowList(ctx context.Context) ([]adapter.WindowInfo, error) {
	return []adapter.WindowInfo{
		{Title: "Editor", PID: 101, Foreground: true, Bounds: &tree.Rect{W: 1920, H: 1080}},
		{Title: "Music Player", PID: 102, Bounds: &tree.Rect{X: 100, Y: 100, W: 800, H: 600}},
	}, nil
}

func (f *fakeAdapter) DesktopWindow(context.Context) (adapter.WindowInfo, error) {
	return adapter.WindowInfo{}, adapter.ErrNoDesktop
}

func (f *fakeAdapter) CaptureTree(ctx context.Context, windows []adapter.WindowInfo, maxDepth int) ([]*tree.RawNode, error) {
	f.captured = append(f.captured, windows)
	roots := make([]*tree.RawNode, 0, len(windows))
	for _, w := range windows {
		roots = append(roots, &tree.RawNode{
			Role: "window", Name: w.Title,
			Bounds: &tree.RectF{W: 1920, H: 1080},
			Children: []*tree.RawNode{{
				Role: "button", Name: "Play",
				Bounds:  &tree.RectF{X: 10, Y: 10, W: 40, H: 20},
				Actions: []string{"click"},
			}},
		})
	}
	return roots, nil
}

func TestCaptureForegroundStoresEnvelope(t *testing.T) {
	fake := &fakeAdapter{}
	s := New(fake)
	require.Nil(t, s.Last())

	res, err := s.Capture(context.Background(), CaptureOptions{})
	require.NoError(t, err)

	require.NotNil(t, res.Envelope)
	assert.Equal(t, "foreground", res.Envelope.Scope)
	assert.Equal(t, "windows", res.Envelope.Platform)
	require.NotNil(t, res.Envelope.App)
	assert.Equal(t, "Editor", res.Envelope.App.Name)
	assert.Equal(t, 101, res.Envelope.App.PID)

	assert.Contains(t, res.Text, "# app: Editor")
	assert.Contains(t, res.Text, "# --- 2 open windows ---")
	assert.Contains(t, res.Text, `btn "Play"`)

	assert.Same(t, res.Envelope, s.Last())

	// Only the foreground window was walked.
	require.Len(t, fake.captured, 1)
	require.Len(t, fake.captured[0], 1)
	assert.Equal(t, "Editor", fake.captured[0][0].Title)
}

func TestCaptureOverviewWalksNoTree(t *testing.T) {
	fake := &fakeAdapter{}
	s := New(fake)

	res, err := s.Capture(context.Background(), CaptureOptions{Scope: ScopeOverview})
	require.NoError(t, err)

	assert.Nil(t, res.Envelope)
	assert.Contains(t, res.Text, "# overview | 2 windows")
	assert.Contains(t, res.Text, "* [fg] Editor (pid:101)")
	assert.Empty(t, fake.captured)
	// Overview never replaces the last envelope.
	assert.Nil(t, s.Last())
}

func TestCaptureFullFiltersByAppTitle(t *testing.T) {
	fake := &fakeAdapter{}
	s := New(fake)

	res, err := s.Capture(context.Background(), CaptureOptions{Scope: ScopeFull, App: "music"})
	require.NoError(t, err)

	require.Len(t, fake.captured, 1)
	require.Len(t, fake.captured[0], 1)
	assert.Equal(t, "Music Player", fake.captured[0][0].Title)
	assert.Len(t, res.Envelope.Tree, 1)
}

func TestCaptureDesktopFallsBackToOverview(t *testing.T) {
	s := New(&fakeAdapter{})

	res, err := s.Capture(context.Background(), CaptureOptions{Scope: ScopeDesktop})
	require.NoError(t, err)
	assert.Nil(t, res.Envelope)
	assert.Contains(t, res.Text, "# overview |")
}

func TestCaptureRejectsUnknownScope(t *testing.T) {
	s := New(&fakeAdapter{})
	_, err := s.Capture(context.Background(), CaptureOptions{Scope: "galaxy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scope")
}

func TestFindRequiresPriorCapture(t *testing.T) {
	s := New(&fakeAdapter{})

	_, err := s.Find(search.Query{Query: "play button"})
	assert.ErrorIs(t, err, search.ErrNoCapture)

	_, err = s.Capture(context.Background(), CaptureOptions{})
	require.NoError(t, err)

	matches, err := s.Find(search.Query{Query: "play button"})
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Play", matches[0].Node.Name)
}

func TestFindSearchesPrunedEnvelope(t *testing.T) {
	s := New(&fakeAdapter{})
	_, err := s.Capture(context.Background(), CaptureOptions{})
	require.NoError(t, err)

	// The window root survives pruning and is findable by name.
	matches, err := s.Find(search.Query{Name: "editor"})
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, taxonomy.RoleWindow, matches[0].Node.Role)
}
