package web

import (
	"strconv"
	"strings"

	"github.com/standardbeagle/cup/internal/taxonomy"
	"github.com/standardbeagle/cup/internal/tree"
)

// axNode is a protocol-independent view of one CDP accessibility node.
// Decoupling conversion from the wire types keeps tree assembly testable
// without a live browser.
type axNode struct {
	id       string
	role     string
	name     string
	value    any
	ignored  bool
	props    map[string]any
	bounds   *tree.RectF
	childIDs []string
}

// viewport is the page viewport in CSS pixels, used for offscreen checks.
type viewport struct {
	w, h int
}

// Role sets that determine derived actions. Keys are canonical roles, so
// derivation runs after the CDP role has been mapped.
var (
	clickableRoles = map[taxonomy.Role]bool{
		taxonomy.RoleButton:           true,
		taxonomy.RoleLink:             true,
		taxonomy.RoleMenuItem:         true,
		taxonomy.RoleMenuItemCheckbox: true,
		taxonomy.RoleMenuItemRadio:    true,
		taxonomy.RoleOption:           true,
		taxonomy.RoleTab:              true,
	}
	toggleRoles = map[taxonomy.Role]bool{
		taxonomy.RoleCheckbox:         true,
		taxonomy.RoleSwitch:           true,
		taxonomy.RoleMenuItemCheckbox: true,
	}
	selectableRoles = map[taxonomy.Role]bool{
		taxonomy.RoleOption:   true,
		taxonomy.RoleTab:      true,
		taxonomy.RoleTreeItem: true,
		taxonomy.RoleListItem: true,
		taxonomy.RoleRow:      true,
		taxonomy.RoleCell:     true,
	}
	textInputRoles = map[taxonomy.Role]bool{
		taxonomy.RoleTextBox:    true,
		taxonomy.RoleSearchBox:  true,
		taxonomy.RoleCombobox:   true,
		taxonomy.RoleSpinButton: true,
	}
	rangeRoles = map[taxonomy.Role]bool{
		taxonomy.RoleSlider:      true,
		taxonomy.RoleSpinButton:  true,
		taxonomy.RoleProgressBar: true,
		taxonomy.RoleScrollBar:   true,
	}
)

// buildForest converts the flat CDP AX node list into nested raw trees.
// CDP returns nodes with nodeId plus childIds references; the first node
// is the root (typically RootWebArea). Skipped and ignored nodes drop out
// with their children hoisted into the parent.
func buildForest(nodes []axNode, maxDepth int, vp viewport) []*tree.RawNode {
	if len(nodes) == 0 {
		return nil
	}
	byID := make(map[string]*axNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].id] = &nodes[i]
	}

	var convert func(id string, depth int) []*tree.RawNode
	convert = func(id string, depth int) []*tree.RawNode {
		if depth > maxDepth {
			return nil
		}
		ax, ok := byID[id]
		if !ok {
			return nil
		}
		// Guard against reference cycles in the flat list.
		delete(byID, id)

		if ax.ignored || taxonomy.WebSkipRole(ax.role) {
			var hoisted []*tree.RawNode
			for _, cid := range ax.childIDs {
				hoisted = append(hoisted, convert(cid, depth)...)
			}
			return hoisted
		}

		raw := convertNode(ax, vp)
		for _, cid := range ax.childIDs {
			raw.Children = append(raw.Children, convert(cid, depth+1)...)
		}
		return []*tree.RawNode{raw}
	}

	return convert(nodes[0].id, 0)
}

// convertNode maps one AX node to a raw node: role refinement, states,
// derived actions, and the attribute bag.
func convertNode(ax *axNode, vp viewport) *tree.RawNode {
	rawRole := ax.role
	role := taxonomy.MapRole(taxonomy.PlatformWeb, rawRole)
	// An HTML <section> with an accessible name is a landmark.
	if role == taxonomy.RoleGeneric && strings.EqualFold(rawRole, "section") && ax.name != "" {
		rawRole = string(taxonomy.RoleRegion)
		role = taxonomy.RoleRegion
	}

	states := extractStates(ax.props, role, ax.bounds, vp)
	return &tree.RawNode{
		Role:     rawRole,
		Name:     ax.name,
		Value:    ax.value,
		Bounds:   ax.bounds,
		States:   states,
		Actions:  deriveActions(role, ax.props, states),
		Extra:    extractAttrs(ax.props, role),
		NativeID: ax.id,
	}
}

// extractStates derives canonical states from CDP AX properties. Offscreen
// is computed against the viewport rather than trusting a property.
func extractStates(props map[string]any, role taxonomy.Role, bounds *tree.RectF, vp viewport) []string {
	var states []string
	add := func(s taxonomy.State) { states = append(states, string(s)) }

	if propBool(props, "disabled") {
		add(taxonomy.StateDisabled)
	}
	if propBool(props, "focused") {
		add(taxonomy.StateFocused)
	}
	if v, ok := propTristate(props, "expanded"); ok {
		if v {
			add(taxonomy.StateExpanded)
		} else {
			add(taxonomy.StateCollapsed)
		}
	}
	if propBool(props, "selected") {
		add(taxonomy.StateSelected)
	}
	// Checked and pressed are tristate: true, false, or "mixed".
	switch props["checked"] {
	case true, "true":
		add(taxonomy.StateChecked)
	case "mixed":
		add(taxonomy.StateMixed)
	}
	switch props["pressed"] {
	case true, "true":
		add(taxonomy.StatePressed)
	case "mixed":
		add(taxonomy.StateMixed)
	}
	if propBool(props, "busy") {
		add(taxonomy.StateBusy)
	}
	if propBool(props, "modal") {
		add(taxonomy.StateModal)
	}
	if propBool(props, "required") {
		add(taxonomy.StateRequired)
	}
	readonly := propBool(props, "readonly")
	if readonly {
		add(taxonomy.StateReadonly)
	}
	if textInputRoles[role] && !readonly {
		add(taxonomy.StateEditable)
	}

	if bounds != nil {
		offscreen := bounds.W <= 0 || bounds.H <= 0 ||
			bounds.X+bounds.W <= 0 || bounds.Y+bounds.H <= 0 ||
			bounds.X >= float64(vp.w) || bounds.Y >= float64(vp.h)
		if offscreen {
			add(taxonomy.StateOffscreen)
		}
	}
	return states
}

// deriveActions infers available actions from the role and states. The
// browser exposes no per-node action list, so role semantics stand in.
func deriveActions(role taxonomy.Role, props map[string]any, states []string) []string {
	if hasState(states, taxonomy.StateDisabled) {
		return nil
	}
	var actions []string
	add := func(a taxonomy.Action) { actions = append(actions, string(a)) }

	if clickableRoles[role] {
		add(taxonomy.ActionClick)
		add(taxonomy.ActionRightClick)
		add(taxonomy.ActionDoubleClick)
	}
	if toggleRoles[role] {
		add(taxonomy.ActionToggle)
	}
	if selectableRoles[role] {
		add(taxonomy.ActionSelect)
	}
	if hasState(states, taxonomy.StateExpanded) || hasState(states, taxonomy.StateCollapsed) {
		add(taxonomy.ActionExpand)
		add(taxonomy.ActionCollapse)
	}
	if textInputRoles[role] && !hasState(states, taxonomy.StateReadonly) {
		add(taxonomy.ActionType)
		add(taxonomy.ActionSetValue)
	}
	if role == taxonomy.RoleSlider || role == taxonomy.RoleSpinButton {
		add(taxonomy.ActionIncrement)
		add(taxonomy.ActionDecrement)
	}
	if role == taxonomy.RoleScrollBar {
		add(taxonomy.ActionScroll)
	}
	if len(actions) == 0 && propBool(props, "focusable") {
		add(taxonomy.ActionFocus)
	}
	return actions
}

// extractAttrs collects the optional attribute bag: heading level,
// placeholder, orientation, range bounds, link target.
func extractAttrs(props map[string]any, role taxonomy.Role) map[string]string {
	attrs := map[string]string{}
	if lvl, ok := propFloat(props, "level"); ok {
		attrs["level"] = strconv.Itoa(int(lvl))
	}
	if ph, _ := props["placeholder"].(string); ph != "" {
		attrs["placeholder"] = ph
	}
	if o, _ := props["orientation"].(string); o != "" {
		attrs["orientation"] = o
	}
	if rangeRoles[role] {
		if v, ok := propFloat(props, "valuemin"); ok {
			attrs["valueMin"] = formatNum(v)
		}
		if v, ok := propFloat(props, "valuemax"); ok {
			attrs["valueMax"] = formatNum(v)
		}
	}
	if role == taxonomy.RoleLink {
		if u, _ := props["url"].(string); u != "" {
			attrs["url"] = u
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func hasState(states []string, s taxonomy.State) bool {
	for _, have := range states {
		if have == string(s) {
			return true
		}
	}
	return false
}

func propBool(props map[string]any, name string) bool {
	switch v := props[name].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// propTristate reports a boolean property that is only meaningful when
// present at all (e.g. expanded: absent means "not expandable").
func propTristate(props map[string]any, name string) (value, present bool) {
	switch v := props[name].(type) {
	case bool:
		return v, true
	case string:
		if v == "true" || v == "false" {
			return v == "true", true
		}
	}
	return false, false
}

func propFloat(props map[string]any, name string) (float64, bool) {
	switch v := props[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func formatNum(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
