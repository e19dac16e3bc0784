// Package session orchestrates the capture pipeline and owns the single
// "last envelope" slot that search reads from.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/standardbeagle/cup/internal/adapter"
	"github.com/standardbeagle/cup/internal/compact"
	"github.com/standardbeagle/cup/internal/prune"
	"github.com/standardbeagle/cup/internal/search"
	"github.com/standardbeagle/cup/internal/tree"
)

// Capture scopes.
const (
	ScopeOverview   = "overview"
	ScopeForeground = "foreground"
	ScopeDesktop    = "desktop"
	ScopeFull       = "full"
)

// CaptureOptions select what to capture and how much of it to keep.
type CaptureOptions struct {
	// Scope is one of the Scope* constants; empty means foreground.
	Scope string
	// App filters windows by case-insensitive title substring. Only
	// meaningful for the full scope.
	App string
	// MaxDepth caps tree walking; zero means the builder default.
	MaxDepth int
	// Detail is the pruning level; empty means standard.
	Detail prune.Detail
	// MaxChars caps the compact text; zero means the serializer default.
	MaxChars int
}

// CaptureResult is one capture: the pruned envelope, its counts, the
// compact text rendering, and the window list when the scope carries one.
type CaptureResult struct {
	Envelope *tree.Envelope
	Counts   prune.Counts
	Text     string
	Windows  []compact.Window
}

// Session drives one adapter and holds at most one last envelope. Element
// ids are ephemeral: they are only valid against the most recent capture.
type Session struct {
	adapter adapter.Adapter

	mu   sync.Mutex
	last *tree.Envelope // pruned envelope from the most recent capture
}

// New creates a session around an adapter.
func New(a adapter.Adapter) *Session {
	return &Session{adapter: a}
}

// Capture walks the adapter's accessibility tree per the options, prunes
// it, stores the pruned envelope as the session's last capture, and returns
// it alongside the compact text. Overview captures walk no tree and do not
// replace the last envelope.
func (s *Session) Capture(ctx context.Context, opts CaptureOptions) (*CaptureResult, error) {
	scope := opts.Scope
	if scope == "" {
		scope = ScopeForeground
	}
	detail := opts.Detail
	if detail == "" {
		detail = prune.DefaultDetail
	}

	screen, err := s.adapter.ScreenInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("screen info: %w", err)
	}

	if scope == ScopeOverview {
		return s.overview(ctx, screen)
	}

	var (
		windows    []adapter.WindowInfo
		headerList []compact.Window
		app        *tree.AppInfo
	)
	switch scope {
	case ScopeForeground:
		win, err := s.adapter.ForegroundWindow(ctx)
		if err != nil {
			return nil, fmt.Errorf("foreground window: %w", err)
		}
		windows = []adapter.WindowInfo{win}
		app = &tree.AppInfo{Name: win.Title, PID: win.PID, BundleID: win.BundleID}
		if list, err := s.adapter.WindowList(ctx); err == nil {
			headerList = toCompactWindows(list)
		}
	case ScopeDesktop:
		win, err := s.adapter.DesktopWindow(ctx)
		if err == adapter.ErrNoDesktop {
			// No desktop surface: degrade to an overview.
			return s.overview(ctx, screen)
		}
		if err != nil {
			return nil, fmt.Errorf("desktop window: %w", err)
		}
		windows = []adapter.WindowInfo{win}
		app = &tree.AppInfo{Name: "Desktop", PID: win.PID}
	case ScopeFull:
		all, err := s.adapter.AllWindows(ctx)
		if err != nil {
			return nil, fmt.Errorf("window enumeration: %w", err)
		}
		if opts.App != "" {
			filter := strings.ToLower(opts.App)
			for _, w := range all {
				if strings.Contains(strings.ToLower(w.Title), filter) {
					windows = append(windows, w)
				}
			}
		} else {
			windows = all
		}
	default:
		return nil, fmt.Errorf("unknown scope %q", scope)
	}

	raws, err := s.adapter.CaptureTree(ctx, windows, opts.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("capture tree: %w", err)
	}

	env := tree.Build(raws, tree.BuildOptions{
		Platform: s.adapter.Platform(),
		Scope:    scope,
		Screen:   screen,
		App:      app,
		MaxDepth: opts.MaxDepth,
	})
	pruned, counts := prune.Prune(env, detail)

	s.mu.Lock()
	s.last = pruned
	s.mu.Unlock()

	return &CaptureResult{
		Envelope: pruned,
		Counts:   counts,
		Text: compact.Serialize(pruned, counts, compact.Options{
			Windows:  headerList,
			MaxChars: opts.MaxChars,
		}),
		Windows: headerList,
	}, nil
}

// Find searches the last captured envelope. It never captures implicitly:
// with no prior capture it fails with search.ErrNoCapture.
func (s *Session) Find(q search.Query) ([]search.Match, error) {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	return search.Find(last, q)
}

// Last returns the most recent pruned envelope, or nil.
func (s *Session) Last() *tree.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Platform reports the underlying adapter's platform identifier.
func (s *Session) Platform() string {
	return s.adapter.Platform()
}

func (s *Session) overview(ctx context.Context, screen tree.Screen) (*CaptureResult, error) {
	list, err := s.adapter.WindowList(ctx)
	if err != nil {
		return nil, fmt.Errorf("window list: %w", err)
	}
	windows := toCompactWindows(list)
	return &CaptureResult{
		Text:    compact.SerializeOverview(windows, s.adapter.Platform(), screen),
		Windows: windows,
	}, nil
}

func toCompactWindows(list []adapter.WindowInfo) []compact.Window {
	out := make([]compact.Window, len(list))
	for i, w := range list {
		out[i] = compact.Window{
			Title:      w.Title,
			PID:        w.PID,
			Foreground: w.Foreground,
			Bounds:     w.Bounds,
			URL:        w.URL,
		}
	}
	return out
}
