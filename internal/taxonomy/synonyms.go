package taxonomy

import "strings"

// roleSynonyms maps natural-language phrases to the canonical roles they
// imply. Search uses this to resolve role filters like "search bar" and to
// extract role hints from freeform queries. Exact canonical role names
// resolve via the identity check in ResolveRoles, so they are not repeated
// here.
var roleSynonyms = map[string][]Role{
	// text input
	"input":      {RoleTextBox, RoleCombobox, RoleSearchBox, RoleSpinButton, RoleSlider},
	"text input": {RoleTextBox, RoleSearchBox, RoleCombobox},
	"text field": {RoleTextBox, RoleSearchBox, RoleCombobox},
	"text box":   {RoleTextBox, RoleSearchBox},
	"textarea":   {RoleTextBox, RoleDocument},
	"edit":       {RoleTextBox, RoleSearchBox, RoleCombobox, RoleDocument},
	"editor":     {RoleTextBox, RoleDocument},
	// search
	"search":       {RoleSearch, RoleSearchBox, RoleTextBox, RoleCombobox},
	"search bar":   {RoleSearch, RoleSearchBox, RoleTextBox, RoleCombobox},
	"search box":   {RoleSearch, RoleSearchBox, RoleTextBox, RoleCombobox},
	"search field": {RoleSearch, RoleSearchBox, RoleTextBox, RoleCombobox},
	"search input": {RoleSearch, RoleSearchBox, RoleTextBox, RoleCombobox},
	// buttons
	"btn":       {RoleButton},
	"clickable": {RoleButton, RoleLink, RoleMenuItem, RoleTab, RoleTreeItem, RoleListItem},
	// links
	"hyperlink": {RoleLink},
	"anchor":    {RoleLink},
	// dropdowns / selects
	"dropdown":  {RoleCombobox, RoleMenu, RoleList},
	"select":    {RoleCombobox, RoleList, RoleListItem},
	"combo":     {RoleCombobox},
	"combo box": {RoleCombobox},
	// toggles
	"check":        {RoleCheckbox, RoleSwitch, RoleMenuItemCheckbox},
	"toggle":       {RoleSwitch, RoleCheckbox},
	"radio button": {RoleRadio, RoleMenuItemRadio},
	// sliders / ranges
	"range":        {RoleSlider, RoleProgressBar, RoleSpinButton},
	"progress":     {RoleProgressBar},
	"progress bar": {RoleProgressBar},
	"spinner":      {RoleSpinButton},
	// tabs
	"tab bar":   {RoleTabList},
	"tab list":  {RoleTabList},
	"tabs":      {RoleTabList, RoleTab},
	"tab panel": {RoleTabPanel},
	// menus
	"menu bar":  {RoleMenuBar},
	"menu item": {RoleMenuItem, RoleMenuItemCheckbox, RoleMenuItemRadio},
	// dialogs
	"modal":        {RoleDialog, RoleAlertDialog},
	"popup":        {RoleDialog, RoleAlertDialog, RoleTooltip, RoleMenu},
	"notification": {RoleAlert, RoleStatus, RoleLog},
	"message":      {RoleAlert, RoleStatus, RoleLog},
	// headings / titles
	"title":  {RoleHeading, RoleTitleBar},
	"header": {RoleHeading, RoleBanner, RoleColumnHeader, RoleRowHeader},
	// images
	"image":   {RoleImage},
	"picture": {RoleImage},
	"icon":    {RoleImage, RoleButton},
	// trees / lists
	"tree item": {RoleTreeItem},
	"list item": {RoleListItem},
	// navigation
	"nav":     {RoleNavigation},
	"sidebar": {RoleComplementary, RoleNavigation},
	// containers
	"panel":     {RoleRegion, RoleGroup, RoleTabPanel},
	"section":   {RoleRegion, RoleGroup, RoleMain},
	"container": {RoleRegion, RoleGroup, RoleGeneric},
	// misc
	"divider":    {RoleSeparator},
	"scroll":     {RoleScrollBar},
	"status bar": {RoleStatus},
	"tool bar":   {RoleToolbar},
}

// KnownPhrase reports whether the (already tokenized, space-joined) phrase
// resolves to roles, either as a synonym or as a canonical role name.
func KnownPhrase(phrase string) bool {
	key := normalizeToken(phrase)
	if _, ok := roleSynonyms[key]; ok {
		return true
	}
	_, ok := CanonicalRole(key)
	return ok
}

// ResolveRoles resolves a role query (canonical role, synonym phrase, or
// fragment) to the set of canonical roles it denotes. A nil result means
// the query does not constrain roles at all.
func ResolveRoles(query string) map[Role]bool {
	key := normalizeToken(query)
	if key == "" {
		return nil
	}

	if roles, ok := roleSynonyms[key]; ok {
		return roleSet(roles)
	}
	if r, ok := CanonicalRole(key); ok {
		return map[Role]bool{r: true}
	}

	// Token fallback: any single token that resolves on its own.
	for _, tok := range splitTokens(key) {
		if roles, ok := roleSynonyms[tok]; ok {
			return roleSet(roles)
		}
		if r, ok := CanonicalRole(tok); ok {
			return map[Role]bool{r: true}
		}
	}

	// Last resort: the query is a substring of a role name. The reverse
	// check (role inside query) is skipped; too many false positives.
	if len(key) >= 3 {
		var matches map[Role]bool
		for r := range allRoles {
			if strings.Contains(string(r), key) {
				if matches == nil {
					matches = make(map[Role]bool)
				}
				matches[r] = true
			}
		}
		if matches != nil {
			return matches
		}
	}

	return nil
}

func roleSet(roles []Role) map[Role]bool {
	m := make(map[Role]bool, len(roles))
	for _, r := range roles {
		m[r] = true
	}
	return m
}

// splitTokens breaks a normalized string on non-alphanumeric runes.
func splitTokens(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
