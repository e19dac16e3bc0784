package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbbrevTablesCoverCanonicalSets(t *testing.T) {
	seen := make(map[string]Role)
	for _, r := range Roles() {
		ab := RoleAbbrev(r)
		require.NotEmpty(t, ab)
		require.LessOrEqual(t, len(ab), 4, "abbrev for %q too long", r)
		if prev, dup := seen[ab]; dup {
			t.Fatalf("abbrev %q shared by %q and %q", ab, prev, r)
		}
		seen[ab] = r
	}
	for _, s := range States() {
		require.NotEmpty(t, StateAbbrev(s))
	}
	for _, a := range Actions() {
		require.NotEmpty(t, ActionAbbrev(a))
	}
}

func TestCanonicalLookups(t *testing.T) {
	r, ok := CanonicalRole("  Button ")
	require.True(t, ok)
	assert.Equal(t, RoleButton, r)

	r, ok = CanonicalRole("definitely-not-a-role")
	assert.False(t, ok)
	assert.Equal(t, RoleGeneric, r)

	s, ok := CanonicalState("FOCUSED")
	require.True(t, ok)
	assert.Equal(t, StateFocused, s)

	_, ok = CanonicalState("sparkly")
	assert.False(t, ok)
}

func TestMapRolePlatformTables(t *testing.T) {
	assert.Equal(t, RoleTabList, MapRole(PlatformWindows, "Tab"))
	assert.Equal(t, RoleTab, MapRole(PlatformWindows, "TabItem"))
	assert.Equal(t, RoleGeneric, MapRole(PlatformWindows, "Pane"))

	assert.Equal(t, RoleButton, MapRole(PlatformMacOS, "AXButton"))
	assert.Equal(t, RoleCombobox, MapRole(PlatformMacOS, "AXPopUpButton"))

	assert.Equal(t, RoleButton, MapRole(PlatformLinux, "push-button"))
	assert.Equal(t, RoleTreeGrid, MapRole(PlatformLinux, "tree-table"))

	assert.Equal(t, RoleDocument, MapRole(PlatformWeb, "RootWebArea"))
	assert.Equal(t, RoleText, MapRole(PlatformWeb, "StaticText"))

	// Canonical names pass through for every platform.
	assert.Equal(t, RoleSearchBox, MapRole(PlatformWeb, "searchbox"))
	// Unknown vocabulary degrades to generic instead of failing.
	assert.Equal(t, RoleGeneric, MapRole(PlatformWindows, "HoloLensWidget"))
}

func TestMacSubroleOverride(t *testing.T) {
	r, ok := MacSubroleOverride("AXTextField", "AXSearchField")
	require.True(t, ok)
	assert.Equal(t, RoleSearchBox, r)

	r, ok = MacSubroleOverride("AXWindow", "AXDialog")
	require.True(t, ok)
	assert.Equal(t, RoleDialog, r)

	_, ok = MacSubroleOverride("AXButton", "AXNothing")
	assert.False(t, ok)
}

func TestMapStateAndAction(t *testing.T) {
	s, ok := MapState(PlatformLinux, "indeterminate")
	require.True(t, ok)
	assert.Equal(t, StateMixed, s)

	a, ok := MapAction(PlatformLinux, "activate")
	require.True(t, ok)
	assert.Equal(t, ActionClick, a)

	// Canonical tokens work regardless of platform.
	s, ok = MapState(PlatformWindows, "focused")
	require.True(t, ok)
	assert.Equal(t, StateFocused, s)

	_, ok = MapAction(PlatformWindows, "teleport")
	assert.False(t, ok)
}

func TestResolveRoles(t *testing.T) {
	roles := ResolveRoles("button")
	require.NotNil(t, roles)
	assert.True(t, roles[RoleButton])
	assert.Len(t, roles, 1)

	roles = ResolveRoles("search bar")
	require.NotNil(t, roles)
	assert.True(t, roles[RoleSearchBox])
	assert.True(t, roles[RoleSearch])

	// Substring fallback.
	roles = ResolveRoles("menuitemch")
	require.NotNil(t, roles)
	assert.True(t, roles[RoleMenuItemCheckbox])

	assert.Nil(t, ResolveRoles(""))
	assert.Nil(t, ResolveRoles("zz"))
}

func TestKnownPhrase(t *testing.T) {
	assert.True(t, KnownPhrase("dropdown"))
	assert.True(t, KnownPhrase("checkbox"))
	assert.False(t, KnownPhrase("flux capacitor"))
}
