// Package tree defines the normalized CUP data model (envelopes and nodes)
// and the builder that turns a raw adapter tree into a canonical envelope.
package tree

import (
	"github.com/standardbeagle/cup/internal/taxonomy"
)

// Version is the CUP envelope format version.
const Version = "0.1.0"

// Rect is an absolute screen rectangle in integer pixels. W and H may be
// zero for off-screen or hidden elements.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Empty reports whether the rectangle has zero area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the intersection of two rectangles. A zero-area result
// means the rectangles do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.W, o.X+o.W)
	y2 := min(r.Y+r.H, o.Y+o.H)
	return Rect{X: x1, Y: y1, W: max(0, x2-x1), H: max(0, y2-y1)}
}

// Intersects reports whether two rectangles share any area.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// RectF is a raw rectangle as reported by a platform accessibility API,
// before truncation to integer pixels.
type RectF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Truncate converts to integer pixels, truncating toward zero (never
// rounding).
func (r RectF) Truncate() Rect {
	return Rect{X: int(r.X), Y: int(r.Y), W: int(r.W), H: int(r.H)}
}

// Screen describes the primary display of a capture.
type Screen struct {
	W     int     `json:"w"`
	H     int     `json:"h"`
	Scale float64 `json:"scale,omitempty"`
}

// Rect returns the screen as a rectangle at the origin.
func (s Screen) Rect() Rect {
	return Rect{X: 0, Y: 0, W: s.W, H: s.H}
}

// AppInfo identifies the application a capture targeted.
type AppInfo struct {
	Name     string `json:"name,omitempty"`
	PID      int    `json:"pid,omitempty"`
	BundleID string `json:"bundleId,omitempty"`
}

// Node is one normalized UI element. Nodes are constructed once per capture
// and immutable thereafter.
type Node struct {
	ID      string            `json:"id"`
	Role    taxonomy.Role     `json:"role"`
	Name    string            `json:"name,omitempty"`
	Bounds  Rect              `json:"bounds"`
	States  []taxonomy.State  `json:"states,omitempty"`
	Actions []taxonomy.Action `json:"actions,omitempty"`
	Value   any               `json:"value,omitempty"`
	Extra   map[string]string `json:"platform_extra,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// HasState reports membership in the node's state set.
func (n *Node) HasState(s taxonomy.State) bool {
	for _, st := range n.States {
		if st == s {
			return true
		}
	}
	return false
}

// HasAction reports membership in the node's action set.
func (n *Node) HasAction(a taxonomy.Action) bool {
	for _, act := range n.Actions {
		if act == a {
			return true
		}
	}
	return false
}

// Interactive reports whether the node carries any action beyond focus.
// Focus alone is noise: nearly every element is focusable.
func (n *Node) Interactive() bool {
	for _, act := range n.Actions {
		if act != taxonomy.ActionFocus {
			return true
		}
	}
	return false
}

// Clone returns a copy of the node with a freshly allocated children slice.
// Shared leaf data (name, extra map) is not copied; callers must treat
// nodes as immutable.
func (n *Node) Clone() *Node {
	c := *n
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		copy(c.Children, n.Children)
	}
	return &c
}

// Count returns the total number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	for _, n := range roots {
		total += 1 + Count(n.Children)
	}
	return total
}

// Envelope is one normalized capture: metadata plus a forest of root nodes
// (normally one window; several under the "full" scope).
type Envelope struct {
	Version   string   `json:"version"`
	Platform  string   `json:"platform"`
	Timestamp int64    `json:"timestamp"` // unix milliseconds
	Screen    Screen   `json:"screen"`
	Scope     string   `json:"scope,omitempty"`
	App       *AppInfo `json:"app,omitempty"`
	Tree      []*Node  `json:"tree"`
}

// RawNode is one element as reported by a platform adapter, before
// normalization. Role/state/action vocabulary is platform-native; bounds
// are raw floats; Extra passes through unmodified.
type RawNode struct {
	Role    string            `json:"role"`
	Name    string            `json:"name,omitempty"`
	Value   any               `json:"value,omitempty"`
	Bounds  *RectF            `json:"bounds,omitempty"`
	States  []string          `json:"states,omitempty"`
	Actions []string          `json:"actions,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`

	// NativeID is an opaque platform identity used for cycle detection.
	// Empty when the platform has no usable identity.
	NativeID string `json:"nativeId,omitempty"`

	Children []*RawNode `json:"children,omitempty"`
}
