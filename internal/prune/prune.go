// Package prune reduces a canonical envelope to its visible, semantically
// relevant subset. Pruning is a pure function: the input envelope is never
// mutated and the output shares no nodes with it.
package prune

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/cup/internal/taxonomy"
	"github.com/standardbeagle/cup/internal/tree"
)

// Detail selects how aggressively a tree is trimmed.
type Detail string

const (
	// DetailFull keeps every node.
	DetailFull Detail = "full"
	// DetailStandard applies visibility clipping and relevance pruning.
	DetailStandard Detail = "standard"
	// DetailMinimal keeps only interactive nodes and their ancestors.
	DetailMinimal Detail = "minimal"
)

// DefaultDetail is used when a caller supplies no detail level.
const DefaultDetail = DetailStandard

// ParseDetail resolves a user-supplied detail string. "compact" is accepted
// as an alias for standard; the empty string means the default.
func ParseDetail(s string) (Detail, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultDetail, nil
	case "full":
		return DetailFull, nil
	case "standard", "compact":
		return DetailStandard, nil
	case "minimal":
		return DetailMinimal, nil
	}
	return "", fmt.Errorf("unknown detail level %q (want full, standard, or minimal)", s)
}

// Counts reports node totals before and after pruning.
type Counts struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

// alwaysKeepRoles survive the visibility test even with zero-area clip
// intersection. These are the top-level containers whose absence would
// orphan the rest of the tree.
var alwaysKeepRoles = map[taxonomy.Role]bool{
	taxonomy.RoleWindow:      true,
	taxonomy.RoleApplication: true,
	taxonomy.RoleDocument:    true,
	taxonomy.RoleDialog:      true,
	taxonomy.RoleAlertDialog: true,
}

// collapsibleRoles are structural containers eligible for single-child
// pass-through collapse when they carry no information of their own. The
// always-keep containers (window, document, dialog) are excluded: they are
// the tree's top-level structure and must survive even when empty-handed.
var collapsibleRoles = map[taxonomy.Role]bool{
	taxonomy.RoleGeneric:       true,
	taxonomy.RoleGroup:         true,
	taxonomy.RoleRegion:        true,
	taxonomy.RoleMain:          true,
	taxonomy.RoleComplementary: true,
	taxonomy.RoleNavigation:    true,
	taxonomy.RoleSearch:        true,
	taxonomy.RoleBanner:        true,
	taxonomy.RoleContentInfo:   true,
	taxonomy.RoleForm:          true,
}

// notableStates block relevance pruning: a node in one of these states is
// information the caller almost certainly wants even when it is unnamed.
var notableStates = map[taxonomy.State]bool{
	taxonomy.StateFocused:  true,
	taxonomy.StateSelected: true,
	taxonomy.StateChecked:  true,
	taxonomy.StatePressed:  true,
	taxonomy.StateExpanded: true,
	taxonomy.StateModal:    true,
	taxonomy.StateMixed:    true,
}

// Prune returns a pruned copy of the envelope at the given detail level,
// plus before/after node counts. Root nodes always survive.
func Prune(env *tree.Envelope, detail Detail) (*tree.Envelope, Counts) {
	counts := Counts{Before: tree.Count(env.Tree)}
	if detail == DetailFull {
		counts.After = counts.Before
		return env, counts
	}

	out := &tree.Envelope{
		Version:   env.Version,
		Platform:  env.Platform,
		Timestamp: env.Timestamp,
		Screen:    env.Screen,
		Scope:     env.Scope,
		App:       env.App,
	}
	out.Tree = make([]*tree.Node, 0, len(env.Tree))
	for _, root := range env.Tree {
		pruned := visit(root, rootClip(root, env.Screen), detail, true)
		if pruned == nil {
			// Root preservation: keep the root itself, childless.
			pruned = root.Clone()
			pruned.Children = nil
		}
		out.Tree = append(out.Tree, pruned)
	}
	counts.After = tree.Count(out.Tree)
	return out, counts
}

// clip is the running clip rectangle of a traversal. Unbounded clips happen
// when neither the root nor the screen reported usable bounds.
type clip struct {
	r       tree.Rect
	bounded bool
}

func (c clip) allows(b tree.Rect) bool {
	return !c.bounded || b.Intersects(c.r)
}

// narrow intersects the clip with a scroll-bearing node's bounds.
func (c clip) narrow(b tree.Rect) clip {
	if b.Empty() {
		return c
	}
	if !c.bounded {
		return clip{r: b, bounded: true}
	}
	return clip{r: c.r.Intersect(b), bounded: true}
}

// rootClip initializes the clip for one root: the root's own bounds, the
// screen as a fallback, or unbounded when neither is known.
func rootClip(root *tree.Node, screen tree.Screen) clip {
	if !root.Bounds.Empty() {
		return clip{r: root.Bounds, bounded: true}
	}
	if sr := screen.Rect(); !sr.Empty() {
		return clip{r: sr, bounded: true}
	}
	return clip{}
}

// visit prunes one subtree. It returns nil when the node and its whole
// subtree are dropped.
func visit(n *tree.Node, c clip, detail Detail, isRoot bool) *tree.Node {
	if !isRoot && !alwaysKeepRoles[n.Role] && !c.allows(n.Bounds) {
		return nil
	}

	childClip := c
	if n.HasAction(taxonomy.ActionScroll) {
		childClip = c.narrow(n.Bounds)
	}

	out := n.Clone()
	out.Children = nil
	for _, child := range n.Children {
		if kept := visit(child, childClip, detail, false); kept != nil {
			out.Children = append(out.Children, kept)
		}
	}

	if isRoot {
		return out
	}
	switch detail {
	case DetailMinimal:
		if !out.Interactive() && len(out.Children) == 0 {
			return nil
		}
		return collapse(out)
	default:
		return relevance(out)
	}
}

// relevance applies the standard-level drop and collapse rules to a node
// whose children are already pruned.
func relevance(n *tree.Node) *tree.Node {
	named := n.Name != ""

	// Unconditional drops: decorative images and empty text.
	if n.Role == taxonomy.RoleImage && !named && !n.Interactive() {
		return nil
	}
	if n.Role == taxonomy.RoleText && !named {
		return nil
	}

	if passthrough(n) && len(n.Children) == 0 {
		return nil
	}
	return collapse(n)
}

// passthrough reports whether a node carries no information of its own:
// unnamed, inert, and in no notable state.
func passthrough(n *tree.Node) bool {
	if n.Name != "" || n.Interactive() {
		return false
	}
	for _, s := range n.States {
		if notableStates[s] {
			return false
		}
	}
	return true
}

// collapse replaces a single-child pass-through container with its child.
// Both standard and minimal apply it, so the minimal id set stays a subset
// of the standard one.
func collapse(n *tree.Node) *tree.Node {
	if collapsibleRoles[n.Role] && len(n.Children) == 1 && passthrough(n) {
		return n.Children[0]
	}
	return n
}
