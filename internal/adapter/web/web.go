// Package web captures Chromium accessibility trees over the DevTools
// protocol. Browser tabs map to the window concept; the page viewport
// stands in for the screen.
package web

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/standardbeagle/cup/internal/adapter"
	"github.com/standardbeagle/cup/internal/taxonomy"
	"github.com/standardbeagle/cup/internal/tree"
)

// Adapter connects to a Chromium instance and exposes its tabs as windows.
// The zero value is not usable; construct with New.
type Adapter struct {
	url string

	mu      sync.Mutex
	browser *rod.Browser
}

var _ adapter.Adapter = (*Adapter)(nil)

// New returns an adapter for the given remote debugging endpoint
// (host:port, an http devtools URL, or a ws control URL). An empty URL
// launches a headless Chromium via rod's launcher on first use.
func New(controlURL string) *Adapter {
	return &Adapter{url: controlURL}
}

// Platform identifies captures from this adapter.
func (a *Adapter) Platform() string { return taxonomy.PlatformWeb }

// Close disconnects from the browser. A launched browser is shut down.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.browser == nil {
		return nil
	}
	b := a.browser
	a.browser = nil
	return b.Close()
}

// connect lazily establishes the browser connection.
func (a *Adapter) connect() (*rod.Browser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.browser != nil {
		return a.browser, nil
	}

	u := a.url
	switch {
	case u == "":
		launched, err := launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("web: launch chromium: %w", err)
		}
		u = launched
	case !strings.HasPrefix(u, "ws"):
		resolved, err := launcher.ResolveURL(u)
		if err != nil {
			return nil, fmt.Errorf("web: resolve debugging endpoint %q: %w", u, err)
		}
		u = resolved
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("web: connect %q: %w", u, err)
	}
	a.browser = b
	return b, nil
}

// pages returns the open page targets. The first page is treated as the
// foreground tab.
func (a *Adapter) pages(ctx context.Context) (rod.Pages, error) {
	b, err := a.connect()
	if err != nil {
		return nil, err
	}
	pages, err := b.Context(ctx).Pages()
	if err != nil {
		return nil, fmt.Errorf("web: list pages: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("web: no open pages; open at least one tab")
	}
	return pages, nil
}

// ScreenInfo reports the foreground tab's viewport and device pixel ratio.
func (a *Adapter) ScreenInfo(ctx context.Context) (tree.Screen, error) {
	pages, err := a.pages(ctx)
	if err != nil {
		return tree.Screen{}, err
	}
	p := pages[0].Context(ctx)
	vp := viewportOf(p)
	scale := 1.0
	if obj, err := p.Eval(`() => window.devicePixelRatio`); err == nil {
		scale = obj.Value.Num()
	}
	return tree.Screen{W: vp.w, H: vp.h, Scale: scale}, nil
}

// ForegroundWindow returns the active tab.
func (a *Adapter) ForegroundWindow(ctx context.Context) (adapter.WindowInfo, error) {
	wins, err := a.AllWindows(ctx)
	if err != nil {
		return adapter.WindowInfo{}, err
	}
	return wins[0], nil
}

// AllWindows returns every open tab, capture-ready.
func (a *Adapter) AllWindows(ctx context.Context) ([]adapter.WindowInfo, error) {
	pages, err := a.pages(ctx)
	if err != nil {
		return nil, err
	}
	wins := make([]adapter.WindowInfo, 0, len(pages))
	for i, page := range pages {
		info, err := page.Context(ctx).Info()
		if err != nil {
			continue
		}
		wins = append(wins, adapter.WindowInfo{
			Handle:     page,
			Title:      info.Title,
			URL:        info.URL,
			Foreground: i == 0,
		})
	}
	if len(wins) == 0 {
		return nil, fmt.Errorf("web: no reachable pages")
	}
	return wins, nil
}

// WindowList returns tab metadata without capture handles.
func (a *Adapter) WindowList(ctx context.Context) ([]adapter.WindowInfo, error) {
	wins, err := a.AllWindows(ctx)
	if err != nil {
		return nil, err
	}
	for i := range wins {
		wins[i].Handle = nil
	}
	return wins, nil
}

// DesktopWindow always fails: a browser has no desktop surface.
func (a *Adapter) DesktopWindow(ctx context.Context) (adapter.WindowInfo, error) {
	return adapter.WindowInfo{}, adapter.ErrNoDesktop
}

// CaptureTree walks the accessibility tree of each tab. A tab that fails
// mid-capture is logged and skipped so one wedged page cannot sink a
// multi-window snapshot.
func (a *Adapter) CaptureTree(ctx context.Context, windows []adapter.WindowInfo, maxDepth int) ([]*tree.RawNode, error) {
	var forest []*tree.RawNode
	for _, w := range windows {
		page, ok := w.Handle.(*rod.Page)
		if !ok {
			return nil, fmt.Errorf("web: window %q has no page handle; enumerate windows through this adapter", w.Title)
		}
		roots, err := capturePage(ctx, page, maxDepth)
		if err != nil {
			log.Printf("web: capture %q failed: %v", w.Title, err)
			continue
		}
		forest = append(forest, roots...)
	}
	return forest, nil
}

func capturePage(ctx context.Context, page *rod.Page, maxDepth int) ([]*tree.RawNode, error) {
	p := page.Context(ctx)
	if err := (proto.AccessibilityEnable{}).Call(p); err != nil {
		return nil, fmt.Errorf("enable accessibility: %w", err)
	}
	_ = proto.DOMEnable{}.Call(p)

	vp := viewportOf(p)

	res, err := proto.AccessibilityGetFullAXTree{}.Call(p)
	if err != nil {
		return nil, fmt.Errorf("get accessibility tree: %w", err)
	}

	nodes := make([]axNode, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		nodes = append(nodes, fromProto(p, n))
	}
	return buildForest(nodes, maxDepth, vp), nil
}

// fromProto flattens one wire node: AXValue wrappers unpacked, properties
// collected into a plain map, bounds resolved through the DOM box model.
// Box model lookups fail routinely for detached or unrendered nodes; those
// nodes simply carry no bounds.
func fromProto(p *rod.Page, n *proto.AccessibilityAXNode) axNode {
	ax := axNode{
		id:      string(n.NodeID),
		ignored: n.Ignored,
		role:    "generic",
		props:   make(map[string]any, len(n.Properties)),
	}
	if n.Role != nil {
		if s := n.Role.Value.Str(); s != "" {
			ax.role = s
		}
	}
	if n.Name != nil {
		ax.name = n.Name.Value.Str()
	}
	if n.Value != nil && !n.Value.Value.Nil() {
		ax.value = n.Value.Value.Val()
	}
	for _, prop := range n.Properties {
		if prop.Value != nil {
			ax.props[string(prop.Name)] = prop.Value.Value.Val()
		}
	}
	for _, cid := range n.ChildIDs {
		ax.childIDs = append(ax.childIDs, string(cid))
	}

	if n.BackendDOMNodeID != 0 && !ax.ignored && !taxonomy.WebSkipRole(ax.role) {
		if box, err := (proto.DOMGetBoxModel{BackendNodeID: n.BackendDOMNodeID}).Call(p); err == nil && box.Model != nil && len(box.Model.Border) >= 2 {
			ax.bounds = &tree.RectF{
				X: box.Model.Border[0],
				Y: box.Model.Border[1],
				W: float64(box.Model.Width),
				H: float64(box.Model.Height),
			}
		}
	}
	return ax
}

// viewportOf reads the CSS layout viewport, falling back to a common
// default when layout metrics are unavailable.
func viewportOf(p *rod.Page) viewport {
	m, err := proto.PageGetLayoutMetrics{}.Call(p)
	if err != nil || m.CSSLayoutViewport == nil {
		return viewport{w: 1920, h: 1080}
	}
	return viewport{w: m.CSSLayoutViewport.ClientWidth, h: m.CSSLayoutViewport.ClientHeight}
}
