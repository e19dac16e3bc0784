// Package taxonomy defines the canonical CUP vocabulary: the closed sets of
// roles, states, and actions that every platform's accessibility tree is
// normalized into, plus the compact abbreviations used by the text serializer
// and the natural-language synonyms used by element search.
//
// All tables are read-only package-level data with no dependencies, so there
// are no initialization-order hazards.
package taxonomy

import "strings"

// Role is a canonical CUP role.
type Role string

// State is a canonical CUP state tag.
type State string

// Action is a canonical CUP action tag.
type Action string

// RoleGeneric is the sentinel role for unmapped platform vocabulary.
const RoleGeneric Role = "generic"

// Canonical roles. The set is closed: platform adapters map into it and
// unknown input falls back to RoleGeneric.
const (
	RoleAlert            Role = "alert"
	RoleAlertDialog      Role = "alertdialog"
	RoleApplication      Role = "application"
	RoleArticle          Role = "article"
	RoleBanner           Role = "banner"
	RoleButton           Role = "button"
	RoleCell             Role = "cell"
	RoleCheckbox         Role = "checkbox"
	RoleColumnHeader     Role = "columnheader"
	RoleCombobox         Role = "combobox"
	RoleComplementary    Role = "complementary"
	RoleContentInfo      Role = "contentinfo"
	RoleDefinition       Role = "definition"
	RoleDialog           Role = "dialog"
	RoleDocument         Role = "document"
	RoleFigure           Role = "figure"
	RoleForm             Role = "form"
	RoleGrid             Role = "grid"
	RoleGroup            Role = "group"
	RoleHeading          Role = "heading"
	RoleImage            Role = "img"
	RoleLink             Role = "link"
	RoleList             Role = "list"
	RoleListItem         Role = "listitem"
	RoleLog              Role = "log"
	RoleMain             Role = "main"
	RoleMarquee          Role = "marquee"
	RoleMath             Role = "math"
	RoleMenu             Role = "menu"
	RoleMenuBar          Role = "menubar"
	RoleMenuItem         Role = "menuitem"
	RoleMenuItemCheckbox Role = "menuitemcheckbox"
	RoleMenuItemRadio    Role = "menuitemradio"
	RoleNavigation       Role = "navigation"
	RoleNote             Role = "note"
	RoleOption           Role = "option"
	RoleParagraph        Role = "paragraph"
	RoleProgressBar      Role = "progressbar"
	RoleRadio            Role = "radio"
	RoleRegion           Role = "region"
	RoleRow              Role = "row"
	RoleRowHeader        Role = "rowheader"
	RoleScrollBar        Role = "scrollbar"
	RoleSearch           Role = "search"
	RoleSearchBox        Role = "searchbox"
	RoleSeparator        Role = "separator"
	RoleSlider           Role = "slider"
	RoleSpinButton       Role = "spinbutton"
	RoleStatus           Role = "status"
	RoleSwitch           Role = "switch"
	RoleTab              Role = "tab"
	RoleTable            Role = "table"
	RoleTabList          Role = "tablist"
	RoleTabPanel         Role = "tabpanel"
	RoleTerm             Role = "term"
	RoleText             Role = "text"
	RoleTextBox          Role = "textbox"
	RoleTimer            Role = "timer"
	RoleTitleBar         Role = "titlebar"
	RoleToolbar          Role = "toolbar"
	RoleTooltip          Role = "tooltip"
	RoleTree             Role = "tree"
	RoleTreeGrid         Role = "treegrid"
	RoleTreeItem         Role = "treeitem"
	RoleWindow           Role = "window"
)

// Canonical states.
const (
	StateBusy            State = "busy"
	StateChecked         State = "checked"
	StateCollapsed       State = "collapsed"
	StateDisabled        State = "disabled"
	StateEditable        State = "editable"
	StateExpanded        State = "expanded"
	StateFocused         State = "focused"
	StateHidden          State = "hidden"
	StateMixed           State = "mixed"
	StateModal           State = "modal"
	StateMultiselectable State = "multiselectable"
	StateOffscreen       State = "offscreen"
	StatePressed         State = "pressed"
	StateReadonly        State = "readonly"
	StateRequired        State = "required"
	StateSelected        State = "selected"
)

// Canonical actions.
const (
	ActionClick       Action = "click"
	ActionCollapse    Action = "collapse"
	ActionDecrement   Action = "decrement"
	ActionDismiss     Action = "dismiss"
	ActionDoubleClick Action = "doubleclick"
	ActionExpand      Action = "expand"
	ActionFocus       Action = "focus"
	ActionIncrement   Action = "increment"
	ActionLongPress   Action = "longpress"
	ActionRightClick  Action = "rightclick"
	ActionScroll      Action = "scroll"
	ActionSelect      Action = "select"
	ActionSetValue    Action = "setvalue"
	ActionToggle      Action = "toggle"
	ActionType        Action = "type"
)

// roleAbbrevs holds the compact alias for every canonical role. These cut
// per-node token cost roughly in half on role strings.
var roleAbbrevs = map[Role]string{
	RoleAlert:            "alrt",
	RoleAlertDialog:      "adlg",
	RoleApplication:      "app",
	RoleArticle:          "art",
	RoleBanner:           "bnr",
	RoleButton:           "btn",
	RoleCell:             "cel",
	RoleCheckbox:         "chk",
	RoleColumnHeader:     "colh",
	RoleCombobox:         "cmb",
	RoleComplementary:    "cmp",
	RoleContentInfo:      "ci",
	RoleDefinition:       "def",
	RoleDialog:           "dlg",
	RoleDocument:         "doc",
	RoleFigure:           "fig",
	RoleForm:             "frm",
	RoleGeneric:          "gen",
	RoleGrid:             "grd",
	RoleGroup:            "grp",
	RoleHeading:          "hdg",
	RoleImage:            "img",
	RoleLink:             "lnk",
	RoleList:             "lst",
	RoleListItem:         "li",
	RoleLog:              "log",
	RoleMain:             "main",
	RoleMarquee:          "mrq",
	RoleMath:             "mth",
	RoleMenu:             "mnu",
	RoleMenuBar:          "mnub",
	RoleMenuItem:         "mi",
	RoleMenuItemCheckbox: "mic",
	RoleMenuItemRadio:    "mir",
	RoleNavigation:       "nav",
	RoleNote:             "note",
	RoleOption:           "opt",
	RoleParagraph:        "par",
	RoleProgressBar:      "pbar",
	RoleRadio:            "rad",
	RoleRegion:           "rgn",
	RoleRow:              "row",
	RoleRowHeader:        "rowh",
	RoleScrollBar:        "sb",
	RoleSearch:           "srch",
	RoleSearchBox:        "sbx",
	RoleSeparator:        "sep",
	RoleSlider:           "sld",
	RoleSpinButton:       "spn",
	RoleStatus:           "sts",
	RoleSwitch:           "sw",
	RoleTab:              "tab",
	RoleTable:            "tbl",
	RoleTabList:          "tabs",
	RoleTabPanel:         "tpnl",
	RoleTerm:             "term",
	RoleText:             "txt",
	RoleTextBox:          "tbx",
	RoleTimer:            "tmr",
	RoleTitleBar:         "ttlb",
	RoleToolbar:          "tlbr",
	RoleTooltip:          "ttp",
	RoleTree:             "tre",
	RoleTreeGrid:         "tgrd",
	RoleTreeItem:         "ti",
	RoleWindow:           "win",
}

var stateAbbrevs = map[State]string{
	StateBusy:            "bsy",
	StateChecked:         "chk",
	StateCollapsed:       "col",
	StateDisabled:        "dis",
	StateEditable:        "edt",
	StateExpanded:        "exp",
	StateFocused:         "foc",
	StateHidden:          "hid",
	StateMixed:           "mix",
	StateModal:           "mod",
	StateMultiselectable: "msel",
	StateOffscreen:       "off",
	StatePressed:         "prs",
	StateReadonly:        "ro",
	StateRequired:        "req",
	StateSelected:        "sel",
}

var actionAbbrevs = map[Action]string{
	ActionClick:       "clk",
	ActionCollapse:    "col",
	ActionDecrement:   "dec",
	ActionDismiss:     "dsm",
	ActionDoubleClick: "dbl",
	ActionExpand:      "exp",
	ActionFocus:       "foc",
	ActionIncrement:   "inc",
	ActionLongPress:   "lp",
	ActionRightClick:  "rclk",
	ActionScroll:      "scr",
	ActionSelect:      "sel",
	ActionSetValue:    "sv",
	ActionToggle:      "tog",
	ActionType:        "typ",
}

// allRoles is derived from the abbreviation table so the two can never
// drift apart.
var allRoles = func() map[Role]bool {
	m := make(map[Role]bool, len(roleAbbrevs))
	for r := range roleAbbrevs {
		m[r] = true
	}
	return m
}()

var allStates = func() map[State]bool {
	m := make(map[State]bool, len(stateAbbrevs))
	for s := range stateAbbrevs {
		m[s] = true
	}
	return m
}()

var allActions = func() map[Action]bool {
	m := make(map[Action]bool, len(actionAbbrevs))
	for a := range actionAbbrevs {
		m[a] = true
	}
	return m
}()

// Roles returns every canonical role. The returned slice is a fresh copy.
func Roles() []Role {
	out := make([]Role, 0, len(allRoles))
	for r := range allRoles {
		out = append(out, r)
	}
	return out
}

// States returns every canonical state.
func States() []State {
	out := make([]State, 0, len(allStates))
	for s := range allStates {
		out = append(out, s)
	}
	return out
}

// Actions returns every canonical action.
func Actions() []Action {
	out := make([]Action, 0, len(allActions))
	for a := range allActions {
		out = append(out, a)
	}
	return out
}

// ValidRole reports whether r is a canonical role.
func ValidRole(r Role) bool { return allRoles[r] }

// ValidState reports whether s is a canonical state.
func ValidState(s State) bool { return allStates[s] }

// ValidAction reports whether a is a canonical action.
func ValidAction(a Action) bool { return allActions[a] }

// RoleAbbrev returns the compact alias for a canonical role. The table is
// total over the canonical set; unknown roles render as themselves so the
// serializer can never produce an empty token.
func RoleAbbrev(r Role) string {
	if a, ok := roleAbbrevs[r]; ok {
		return a
	}
	return string(r)
}

// StateAbbrev returns the compact alias for a canonical state.
func StateAbbrev(s State) string {
	if a, ok := stateAbbrevs[s]; ok {
		return a
	}
	return string(s)
}

// ActionAbbrev returns the compact alias for a canonical action.
func ActionAbbrev(a Action) string {
	if s, ok := actionAbbrevs[a]; ok {
		return s
	}
	return string(a)
}

// normalizeToken lowercases and trims a raw vocabulary token.
func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CanonicalRole maps a raw role string to a canonical role using a
// case/whitespace-normalized lookup. Unknown strings report ok=false.
func CanonicalRole(raw string) (Role, bool) {
	r := Role(normalizeToken(raw))
	if allRoles[r] {
		return r, true
	}
	return RoleGeneric, false
}

// CanonicalState maps a raw state token to a canonical state.
func CanonicalState(raw string) (State, bool) {
	s := State(normalizeToken(raw))
	if allStates[s] {
		return s, true
	}
	return "", false
}

// CanonicalAction maps a raw action token to a canonical action.
func CanonicalAction(raw string) (Action, bool) {
	a := Action(normalizeToken(raw))
	if allActions[a] {
		return a, true
	}
	return "", false
}
