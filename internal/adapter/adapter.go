// Package adapter defines the boundary between the normalization core and
// platform accessibility APIs. The core depends only on this interface;
// concrete adapters (web, remote) live in subpackages.
package adapter

import (
	"context"
	"errors"

	"github.com/standardbeagle/cup/internal/tree"
)

// ErrNoDesktop is returned by DesktopWindow on platforms with no desktop
// surface concept (e.g. a browser).
var ErrNoDesktop = errors.New("platform has no desktop surface")

// WindowInfo is lightweight metadata for one top-level window. Handle is an
// opaque platform reference used only by the adapter that produced it.
type WindowInfo struct {
	Handle     any        `json:"-"`
	Title      string     `json:"title"`
	PID        int        `json:"pid,omitempty"`
	BundleID   string     `json:"bundleId,omitempty"`
	Foreground bool       `json:"foreground,omitempty"`
	Bounds     *tree.Rect `json:"bounds,omitempty"`
	URL        string     `json:"url,omitempty"`
}

// Adapter captures raw accessibility trees from one platform. All methods
// take a context because captures cross a process or network boundary.
type Adapter interface {
	// Platform returns the canonical platform identifier (one of the
	// taxonomy.Platform* constants).
	Platform() string

	// ScreenInfo returns the primary display's dimensions and scale.
	ScreenInfo(ctx context.Context) (tree.Screen, error)

	// ForegroundWindow returns the focused top-level window.
	ForegroundWindow(ctx context.Context) (WindowInfo, error)

	// AllWindows returns every visible top-level window, capture-ready.
	AllWindows(ctx context.Context) ([]WindowInfo, error)

	// WindowList returns lightweight window metadata without any tree
	// walking. Must be near-instant.
	WindowList(ctx context.Context) ([]WindowInfo, error)

	// DesktopWindow returns the desktop surface window, or ErrNoDesktop.
	DesktopWindow(ctx context.Context) (WindowInfo, error)

	// CaptureTree walks the accessibility tree of the given windows and
	// returns one raw root per window, in the given order.
	CaptureTree(ctx context.Context, windows []WindowInfo, maxDepth int) ([]*tree.RawNode, error)
}
