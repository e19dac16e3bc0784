package taxonomy

// Platform identifiers used in CUP envelopes.
const (
	PlatformWindows = "windows"
	PlatformMacOS   = "macos"
	PlatformLinux   = "linux"
	PlatformWeb     = "web"
)

// windowsRoles maps UIA ControlType display names to canonical roles.
var windowsRoles = map[string]Role{
	"button":      RoleButton,
	"calendar":    RoleGrid,
	"checkbox":    RoleCheckbox,
	"combobox":    RoleCombobox,
	"edit":        RoleTextBox,
	"hyperlink":   RoleLink,
	"image":       RoleImage,
	"listitem":    RoleListItem,
	"list":        RoleList,
	"menu":        RoleMenu,
	"menubar":     RoleMenuBar,
	"menuitem":    RoleMenuItem,
	"progressbar": RoleProgressBar,
	"radiobutton": RoleRadio,
	"scrollbar":   RoleScrollBar,
	"slider":      RoleSlider,
	"spinner":     RoleSpinButton,
	"statusbar":   RoleStatus,
	"tab":         RoleTabList, // the Tab control is the container
	"tabitem":     RoleTab,
	"text":        RoleText,
	"toolbar":     RoleToolbar,
	"tooltip":     RoleTooltip,
	"tree":        RoleTree,
	"treeitem":    RoleTreeItem,
	"custom":      RoleGeneric,
	"group":       RoleGroup,
	"thumb":       RoleGeneric,
	"datagrid":    RoleGrid,
	"dataitem":    RoleRow,
	"document":    RoleDocument,
	"splitbutton": RoleButton,
	"window":      RoleWindow,
	"pane":        RoleGeneric,
	"header":      RoleGroup,
	"headeritem":  RoleColumnHeader,
	"table":       RoleTable,
	"titlebar":    RoleTitleBar,
	"separator":   RoleSeparator,
	"appbar":      RoleToolbar,
}

// macRoles maps macOS AXRole strings to canonical roles. Keys are stored
// pre-normalized (lowercase).
var macRoles = map[string]Role{
	"axapplication":        RoleApplication,
	"axwindow":             RoleWindow,
	"axbutton":             RoleButton,
	"axcheckbox":           RoleCheckbox,
	"axradiobutton":        RoleRadio,
	"axcombobox":           RoleCombobox,
	"axpopupbutton":        RoleCombobox,
	"axtextfield":          RoleTextBox,
	"axtextarea":           RoleTextBox,
	"axstatictext":         RoleText,
	"aximage":              RoleImage,
	"axlink":               RoleLink,
	"axlist":               RoleList,
	"axoutline":            RoleTree,
	"axtable":              RoleTable,
	"axtabgroup":           RoleTabList,
	"axslider":             RoleSlider,
	"axprogressindicator":  RoleProgressBar,
	"axmenu":               RoleMenu,
	"axmenubar":            RoleMenuBar,
	"axmenubaritem":        RoleMenuItem,
	"axmenuitem":           RoleMenuItem,
	"axtoolbar":            RoleToolbar,
	"axscrollbar":          RoleScrollBar,
	"axscrollarea":         RoleGeneric,
	"axgroup":              RoleGroup,
	"axsplitgroup":         RoleGroup,
	"axsplitter":           RoleSeparator,
	"axheading":            RoleHeading,
	"axwebarea":            RoleDocument,
	"axcell":               RoleCell,
	"axrow":                RoleRow,
	"axcolumn":             RoleColumnHeader,
	"axsheet":              RoleAlertDialog,
	"axdrawer":             RoleComplementary,
	"axincrementor":        RoleSpinButton,
	"axhelptag":            RoleTooltip,
	"axcolorwell":          RoleButton,
	"axdisclosuretriangle": RoleButton,
	"axdatefield":          RoleTextBox,
	"axbrowser":            RoleTree,
	"axbusyindicator":      RoleProgressBar,
	"axrelevanceindicator": RoleProgressBar,
	"axlevelindicator":     RoleSlider,
	"axlayoutarea":         RoleGroup,
	"axlistmarker":         RoleText,
	"axmenubutton":         RoleButton,
	"axradiogroup":         RoleGroup,
}

// macSubroleOverrides refines (AXRole, AXSubrole) pairs. The envelope
// builder consults it before the primary lookup when a macOS node carries
// a subrole.
var macSubroleOverrides = map[[2]string]Role{
	{"axgroup", "axapplicationalert"}:       RoleAlert,
	{"axgroup", "axapplicationdialog"}:      RoleDialog,
	{"axgroup", "axapplicationstatus"}:      RoleStatus,
	{"axgroup", "axlandmarknavigation"}:     RoleNavigation,
	{"axgroup", "axlandmarksearch"}:         RoleSearch,
	{"axgroup", "axlandmarkregion"}:         RoleRegion,
	{"axgroup", "axlandmarkmain"}:           RoleMain,
	{"axgroup", "axlandmarkcomplementary"}:  RoleComplementary,
	{"axgroup", "axlandmarkcontentinfo"}:    RoleContentInfo,
	{"axgroup", "axlandmarkbanner"}:         RoleBanner,
	{"axgroup", "axdocument"}:               RoleDocument,
	{"axgroup", "axwebapplication"}:         RoleApplication,
	{"axgroup", "axtab"}:                    RoleTabPanel,
	{"axwindow", "axdialog"}:                RoleDialog,
	{"axwindow", "axfloatingwindow"}:        RoleDialog,
	{"axwindow", "axsystemdialog"}:          RoleDialog,
	{"axwindow", "axsystemfloatingwindow"}:  RoleDialog,
	{"axradiobutton", "axtabbutton"}:        RoleTab,
	{"axmenuitem", "axmenuitemcheckbox"}:    RoleMenuItemCheckbox,
	{"axmenuitem", "axmenuitemradio"}:       RoleMenuItemRadio,
	{"axtextfield", "axsearchfield"}:        RoleSearchBox,
	{"axstatictext", "axapplicationstatus"}: RoleStatus,
	{"axrow", "axoutlinerow"}:               RoleTreeItem,
	{"axcheckbox", "axtoggle"}:              RoleSwitch,
	{"axcheckbox", "axswitch"}:              RoleSwitch,
}

// linuxRoles maps AT-SPI role names (Atspi.Role enum names, dashed) to
// canonical roles, per the W3C Core AAM mappings.
var linuxRoles = map[string]Role{
	"push-button":           RoleButton,
	"toggle-button":         RoleButton,
	"check-box":             RoleCheckbox,
	"radio-button":          RoleRadio,
	"combo-box":             RoleCombobox,
	"text":                  RoleTextBox,
	"password-text":         RoleTextBox,
	"entry":                 RoleTextBox,
	"spin-button":           RoleSpinButton,
	"slider":                RoleSlider,
	"scroll-bar":            RoleScrollBar,
	"progress-bar":          RoleProgressBar,
	"link":                  RoleLink,
	"menu":                  RoleMenu,
	"menu-bar":              RoleMenuBar,
	"menu-item":             RoleMenuItem,
	"check-menu-item":       RoleMenuItemCheckbox,
	"radio-menu-item":       RoleMenuItemRadio,
	"separator":             RoleSeparator,
	"frame":                 RoleWindow,
	"dialog":                RoleDialog,
	"alert":                 RoleAlert,
	"file-chooser":          RoleDialog,
	"color-chooser":         RoleDialog,
	"font-chooser":          RoleDialog,
	"window":                RoleWindow,
	"panel":                 RoleGroup,
	"filler":                RoleGeneric,
	"grouping":              RoleGroup,
	"split-pane":            RoleGroup,
	"viewport":              RoleGroup,
	"scroll-pane":           RoleGroup,
	"layered-pane":          RoleGroup,
	"glass-pane":            RoleGroup,
	"internal-frame":        RoleGroup,
	"desktop-frame":         RoleGroup,
	"root-pane":             RoleGroup,
	"option-pane":           RoleGroup,
	"table":                 RoleTable,
	"table-cell":            RoleCell,
	"table-row":             RoleRow,
	"table-column-header":   RoleColumnHeader,
	"table-row-header":      RoleRowHeader,
	"tree-table":            RoleTreeGrid,
	"list":                  RoleList,
	"list-item":             RoleListItem,
	"tree":                  RoleTree,
	"tree-item":             RoleTreeItem,
	"page-tab-list":         RoleTabList,
	"page-tab":              RoleTab,
	"label":                 RoleText,
	"static":                RoleText,
	"caption":               RoleText,
	"heading":               RoleHeading,
	"paragraph":             RoleText,
	"section":               RoleGeneric,
	"block-quote":           RoleGeneric,
	"image":                 RoleImage,
	"icon":                  RoleImage,
	"animation":             RoleImage,
	"canvas":                RoleImage,
	"chart":                 RoleImage,
	"document-frame":        RoleDocument,
	"document-web":          RoleDocument,
	"document-text":         RoleDocument,
	"document-email":        RoleDocument,
	"document-spreadsheet":  RoleDocument,
	"document-presentation": RoleDocument,
	"article":               RoleArticle,
	"form":                  RoleForm,
	"tool-bar":              RoleToolbar,
	"tool-tip":              RoleTooltip,
	"status-bar":            RoleStatus,
	"info-bar":              RoleStatus,
	"notification":          RoleAlert,
	"landmark":              RoleRegion,
	"log":                   RoleLog,
	"marquee":               RoleMarquee,
	"math":                  RoleMath,
	"timer":                 RoleTimer,
	"definition":            RoleDefinition,
	"note":                  RoleNote,
	"figure":                RoleFigure,
	"footer":                RoleContentInfo,
	"content-deletion":      RoleGeneric,
	"content-insertion":     RoleGeneric,
	"description-list":      RoleList,
	"description-term":      RoleTerm,
	"description-value":     RoleDefinition,
	"comment":               RoleNote,
	"page":                  RoleRegion,
	"redundant-object":      RoleGeneric,
	"application":           RoleApplication,
	"autocomplete":          RoleCombobox,
	"embedded":              RoleGeneric,
	"editbar":               RoleToolbar,
	"unknown":               RoleGeneric,
	"invalid":               RoleGeneric,
	"extended":              RoleGeneric,
}

// linuxStates maps AT-SPI state names to canonical states. States that only
// contribute by their absence (sensitive, visible, ...) are derived by the
// adapter and are deliberately missing here.
var linuxStates = map[string]State{
	"focused":            StateFocused,
	"selected":           StateSelected,
	"checked":            StateChecked,
	"pressed":            StatePressed,
	"expanded":           StateExpanded,
	"editable":           StateEditable,
	"required":           StateRequired,
	"modal":              StateModal,
	"multi-selectable":   StateMultiselectable,
	"busy":               StateBusy,
	"read-only":          StateReadonly,
	"indeterminate":      StateMixed,
}

// linuxActions maps AT-SPI action names to canonical actions.
var linuxActions = map[string]Action{
	"click":              ActionClick,
	"press":              ActionClick,
	"activate":           ActionClick,
	"jump":               ActionClick,
	"toggle":             ActionToggle,
	"expand or contract": ActionExpand,
	"menu":               ActionClick,
}

// webSkipRoles are Chromium-internal CDP AX roles whose nodes never reach
// the canonical tree.
var webSkipRoles = map[string]bool{
	"inlinetextbox":         true,
	"linebreak":             true,
	"iframepresentational":  true,
	"none":                  true,
	"ignored":               true,
	"ignoredrole":           true,
}

// webRoles maps CDP AX role strings to canonical roles for the cases that
// don't match CUP names directly; everything else falls through to the
// canonical identity lookup.
var webRoles = map[string]Role{
	"rootwebarea":           RoleDocument,
	"webarea":               RoleDocument,
	"genericcontainer":      RoleGeneric,
	"iframe":                RoleGeneric,
	"div":                   RoleGeneric,
	"span":                  RoleGeneric,
	"pre":                   RoleGeneric,
	"mark":                  RoleGeneric,
	"abbr":                  RoleGeneric,
	"ruby":                  RoleGeneric,
	"time":                  RoleGeneric,
	"subscript":             RoleGeneric,
	"superscript":           RoleGeneric,
	"labeltext":             RoleGeneric,
	"legend":                RoleGeneric,
	"statictext":            RoleText,
	"blockquote":            RoleGroup,
	"figcaption":            RoleGroup,
	"descriptionlistdetail": RoleGroup,
	"details":               RoleGroup,
	"descriptionlist":       RoleList,
	"descriptionlistterm":   RoleListItem,
	"progressindicator":     RoleProgressBar,
	"comboboxgrouping":      RoleCombobox,
	"comboboxmenubutton":    RoleCombobox,
	"comboboxselect":        RoleCombobox,
	"summary":               RoleButton,
	"meter":                 RoleProgressBar,
	"output":                RoleStatus,
	"canvas":                RoleImage,
	"video":                 RoleGeneric,
	"audio":                 RoleGeneric,
	"section":               RoleGeneric, // refined to region by the adapter when named
	"image":                 RoleImage,
	"presentation":          RoleGeneric,
	"listbox":               RoleList,
	"gridcell":              RoleCell,
	"radiogroup":            RoleGroup,
	"rowgroup":              RoleGroup,
	"pane":                  RoleGeneric,
	"meterbar":              RoleProgressBar,
}

// WebSkipRole reports whether a CDP AX role denotes an internal browser
// node that should be skipped entirely (its children are still walked).
func WebSkipRole(raw string) bool {
	return webSkipRoles[normalizeToken(raw)]
}

// MacSubroleOverride resolves an (AXRole, AXSubrole) refinement, if one
// exists.
func MacSubroleOverride(axRole, axSubrole string) (Role, bool) {
	r, ok := macSubroleOverrides[[2]string{normalizeToken(axRole), normalizeToken(axSubrole)}]
	return r, ok
}

// MapRole maps a platform-native role string to a canonical role. Unmapped
// vocabulary falls back to RoleGeneric; this never fails.
func MapRole(platform, raw string) Role {
	key := normalizeToken(raw)
	var table map[string]Role
	switch platform {
	case PlatformWindows:
		table = windowsRoles
	case PlatformMacOS:
		table = macRoles
	case PlatformLinux:
		table = linuxRoles
	case PlatformWeb:
		table = webRoles
	}
	if table != nil {
		if r, ok := table[key]; ok {
			return r
		}
	}
	if r, ok := CanonicalRole(key); ok {
		return r
	}
	return RoleGeneric
}

// MapState maps a platform-native state token to a canonical state.
// Unrecognized tokens report ok=false and are silently dropped upstream.
func MapState(platform, raw string) (State, bool) {
	key := normalizeToken(raw)
	if platform == PlatformLinux {
		if s, ok := linuxStates[key]; ok {
			return s, true
		}
	}
	return CanonicalState(key)
}

// MapAction maps a platform-native action token to a canonical action.
func MapAction(platform, raw string) (Action, bool) {
	key := normalizeToken(raw)
	if platform == PlatformLinux {
		if a, ok := linuxActions[key]; ok {
			return a, true
		}
	}
	return CanonicalAction(key)
}
