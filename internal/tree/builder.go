package tree

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/standardbeagle/cup/internal/taxonomy"
)

// DefaultMaxDepth bounds tree recursion. Real accessibility trees rarely
// exceed a few dozen levels; anything deeper is a platform bug or a cycle
// the identity check missed.
const DefaultMaxDepth = 999

// BuildOptions configure envelope construction.
type BuildOptions struct {
	Platform string
	Scope    string
	Screen   Screen
	App      *AppInfo

	// MaxDepth caps recursion; zero means DefaultMaxDepth.
	MaxDepth int
}

// Build normalizes a raw adapter forest into a CUP envelope. Node ids are
// assigned in pre-order ("e0", "e1", ...) across the whole forest, roles,
// states and actions are mapped into the canonical taxonomy, bounds are
// truncated to integer pixels, and cycles or runaway depth are cut off.
func Build(raws []*RawNode, opts BuildOptions) *Envelope {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	b := &builder{platform: opts.Platform, maxDepth: maxDepth}
	tree := make([]*Node, 0, len(raws))
	for _, raw := range raws {
		if n := b.convert(raw, Rect{}, 0, nil); n != nil {
			tree = append(tree, n)
		}
	}

	return &Envelope{
		Version:   Version,
		Platform:  opts.Platform,
		Timestamp: time.Now().UnixMilli(),
		Screen:    opts.Screen,
		Scope:     opts.Scope,
		App:       opts.App,
		Tree:      tree,
	}
}

type builder struct {
	platform string
	maxDepth int
	next     int
}

// convert normalizes one raw node and its subtree. parentOrigin anchors
// nodes with missing bounds; path carries the native identities of the
// current ancestor chain for cycle detection.
func (b *builder) convert(raw *RawNode, parentOrigin Rect, depth int, path []string) *Node {
	if raw == nil || depth > b.maxDepth {
		return nil
	}
	if raw.NativeID != "" {
		for _, id := range path {
			if id == raw.NativeID {
				return nil
			}
		}
		path = append(path, raw.NativeID)
	}

	n := &Node{
		ID:     fmt.Sprintf("e%d", b.next),
		Role:   b.mapRole(raw),
		Name:   strings.TrimSpace(raw.Name),
		Bounds: nodeBounds(raw, parentOrigin),
		Value:  raw.Value,
		Extra:  raw.Extra,
	}
	b.next++

	n.States = mapStates(b.platform, raw.States)
	n.Actions = mapActions(b.platform, raw.Actions)

	for _, child := range raw.Children {
		if c := b.convert(child, n.Bounds, depth+1, path); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// mapRole resolves the canonical role. macOS nodes that report an
// AXSubrole (carried in Extra under "subrole") get the refined mapping,
// e.g. an AXWindow/AXDialog pair maps to dialog rather than window.
func (b *builder) mapRole(raw *RawNode) taxonomy.Role {
	if b.platform == taxonomy.PlatformMacOS {
		if sub := raw.Extra["subrole"]; sub != "" {
			if r, ok := taxonomy.MacSubroleOverride(raw.Role, sub); ok {
				return r
			}
		}
	}
	return taxonomy.MapRole(b.platform, raw.Role)
}

// nodeBounds truncates raw bounds, or synthesizes a zero-area rectangle at
// the parent's origin when the platform reported none. Zero-area bounds let
// the visibility pass drop the node rather than invent a position.
func nodeBounds(raw *RawNode, parentOrigin Rect) Rect {
	if raw.Bounds == nil {
		return Rect{X: parentOrigin.X, Y: parentOrigin.Y}
	}
	return raw.Bounds.Truncate()
}

func mapStates(platform string, raw []string) []taxonomy.State {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[taxonomy.State]bool, len(raw))
	for _, r := range raw {
		if s, ok := taxonomy.MapState(platform, r); ok {
			seen[s] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]taxonomy.State, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func mapActions(platform string, raw []string) []taxonomy.Action {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[taxonomy.Action]bool, len(raw))
	for _, r := range raw {
		if a, ok := taxonomy.MapAction(platform, r); ok {
			seen[a] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]taxonomy.Action, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
