package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/cup/internal/taxonomy"
)

func TestBuildAssignsPreOrderIDs(t *testing.T) {
	raw := &RawNode{
		Role: "window",
		Name: "Main",
		Children: []*RawNode{
			{Role: "document", Children: []*RawNode{
				{Role: "button", Name: "OK"},
				{Role: "button", Name: "Cancel"},
			}},
			{Role: "statusbar"},
		},
	}

	env := Build([]*RawNode{raw}, BuildOptions{
		Platform: taxonomy.PlatformWindows,
		Scope:    "foreground",
		Screen:   Screen{W: 1920, H: 1080, Scale: 1},
	})

	require.Len(t, env.Tree, 1)
	root := env.Tree[0]
	assert.Equal(t, "e0", root.ID)
	assert.Equal(t, taxonomy.RoleWindow, root.Role)

	doc := root.Children[0]
	assert.Equal(t, "e1", doc.ID)
	assert.Equal(t, "e2", doc.Children[0].ID)
	assert.Equal(t, "e3", doc.Children[1].ID)
	assert.Equal(t, "e4", root.Children[1].ID)
	assert.Equal(t, taxonomy.RoleStatus, root.Children[1].Role)

	assert.Equal(t, Version, env.Version)
	assert.Equal(t, "windows", env.Platform)
	assert.Equal(t, "foreground", env.Scope)
	assert.Positive(t, env.Timestamp)
}

func TestBuildIDsSpanForest(t *testing.T) {
	env := Build([]*RawNode{
		{Role: "window", Name: "A"},
		{Role: "window", Name: "B", Children: []*RawNode{{Role: "button"}}},
	}, BuildOptions{Platform: taxonomy.PlatformWindows, Scope: "full"})

	require.Len(t, env.Tree, 2)
	assert.Equal(t, "e0", env.Tree[0].ID)
	assert.Equal(t, "e1", env.Tree[1].ID)
	assert.Equal(t, "e2", env.Tree[1].Children[0].ID)
}

func TestBuildTruncatesBounds(t *testing.T) {
	env := Build([]*RawNode{{
		Role:   "button",
		Bounds: &RectF{X: 10.9, Y: 20.2, W: 99.7, H: 49.99},
	}}, BuildOptions{Platform: taxonomy.PlatformWeb})

	b := env.Tree[0].Bounds
	assert.Equal(t, Rect{X: 10, Y: 20, W: 99, H: 49}, b)
}

func TestBuildMissingBoundsAnchorToParent(t *testing.T) {
	env := Build([]*RawNode{{
		Role:     "window",
		Bounds:   &RectF{X: 100, Y: 50, W: 800, H: 600},
		Children: []*RawNode{{Role: "button", Name: "Go"}},
	}}, BuildOptions{Platform: taxonomy.PlatformWindows})

	child := env.Tree[0].Children[0]
	assert.Equal(t, Rect{X: 100, Y: 50, W: 0, H: 0}, child.Bounds)
	assert.True(t, child.Bounds.Empty())
}

func TestBuildNormalizesStatesAndActions(t *testing.T) {
	env := Build([]*RawNode{{
		Role:    "push-button",
		Name:    "  Save  ",
		States:  []string{"focused", "FOCUSED", "sensitive", "indeterminate"},
		Actions: []string{"press", "activate", "warp"},
	}}, BuildOptions{Platform: taxonomy.PlatformLinux})

	n := env.Tree[0]
	assert.Equal(t, taxonomy.RoleButton, n.Role)
	assert.Equal(t, "Save", n.Name)
	// Deduplicated, unknown tokens dropped, sorted for determinism.
	assert.Equal(t, []taxonomy.State{taxonomy.StateFocused, taxonomy.StateMixed}, n.States)
	assert.Equal(t, []taxonomy.Action{taxonomy.ActionClick}, n.Actions)
}

func TestBuildRefinesMacSubroles(t *testing.T) {
	env := Build([]*RawNode{
		{Role: "AXWindow", Name: "Save As", Extra: map[string]string{"subrole": "AXDialog"}},
		{Role: "AXWindow", Name: "Main"},
		{Role: "AXGroup", Extra: map[string]string{"subrole": "AXLandmarkSearch"}},
		{Role: "AXTextField", Extra: map[string]string{"subrole": "AXSearchField"}},
	}, BuildOptions{Platform: taxonomy.PlatformMacOS})

	require.Len(t, env.Tree, 4)
	assert.Equal(t, taxonomy.RoleDialog, env.Tree[0].Role)
	assert.Equal(t, taxonomy.RoleWindow, env.Tree[1].Role)
	assert.Equal(t, taxonomy.RoleSearch, env.Tree[2].Role)
	assert.Equal(t, taxonomy.RoleSearchBox, env.Tree[3].Role)
}

func TestBuildSubrolesIgnoredOffMacOS(t *testing.T) {
	// An unknown-subrole carrier on another platform maps by role alone.
	env := Build([]*RawNode{
		{Role: "window", Extra: map[string]string{"subrole": "AXDialog"}},
	}, BuildOptions{Platform: taxonomy.PlatformWindows})

	assert.Equal(t, taxonomy.RoleWindow, env.Tree[0].Role)
}

func TestBuildBreaksCycles(t *testing.T) {
	a := &RawNode{Role: "window", NativeID: "a"}
	b := &RawNode{Role: "group", NativeID: "b"}
	a.Children = []*RawNode{b}
	b.Children = []*RawNode{a} // cycle back to the root

	env := Build([]*RawNode{a}, BuildOptions{Platform: taxonomy.PlatformLinux})

	require.Len(t, env.Tree, 1)
	root := env.Tree[0]
	require.Len(t, root.Children, 1)
	assert.Empty(t, root.Children[0].Children)
	assert.Equal(t, 2, Count(env.Tree))
}

func TestBuildDepthCap(t *testing.T) {
	root := &RawNode{Role: "window"}
	cur := root
	for i := 0; i < 10; i++ {
		child := &RawNode{Role: "group"}
		cur.Children = []*RawNode{child}
		cur = child
	}

	env := Build([]*RawNode{root}, BuildOptions{
		Platform: taxonomy.PlatformWindows,
		MaxDepth: 3,
	})

	// Root at depth 0 plus three levels below it.
	assert.Equal(t, 4, Count(env.Tree))
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	b := Rect{X: 50, Y: 50, W: 100, H: 100}
	assert.Equal(t, Rect{X: 50, Y: 50, W: 50, H: 50}, a.Intersect(b))
	assert.True(t, a.Intersects(b))

	c := Rect{X: 200, Y: 200, W: 10, H: 10}
	assert.True(t, a.Intersect(c).Empty())
	assert.False(t, a.Intersects(c))

	// Touching edges share no area.
	d := Rect{X: 100, Y: 0, W: 10, H: 100}
	assert.False(t, a.Intersects(d))
}

func TestNodeHelpers(t *testing.T) {
	n := &Node{
		States:  []taxonomy.State{taxonomy.StateFocused},
		Actions: []taxonomy.Action{taxonomy.ActionFocus},
	}
	assert.True(t, n.HasState(taxonomy.StateFocused))
	assert.False(t, n.HasState(taxonomy.StateChecked))
	assert.False(t, n.Interactive(), "focus alone is not interactive")

	n.Actions = append(n.Actions, taxonomy.ActionClick)
	assert.True(t, n.Interactive())
}
