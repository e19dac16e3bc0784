// Package compact renders pruned envelopes as deterministic, LLM-friendly
// text. The projection is one-way: nothing here is meant to be parsed back.
package compact

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/cup/internal/prune"
	"github.com/standardbeagle/cup/internal/taxonomy"
	"github.com/standardbeagle/cup/internal/tree"
)

// MaxOutputChars is the default hard cap on serialized output. It keeps a
// runaway tree well under typical MCP host limits, leaving room for JSON
// wrapping around the text.
const MaxOutputChars = 40_000

const (
	maxNameChars        = 80
	maxValueChars       = 120
	maxPlaceholderChars = 30
	maxURLChars         = 80
	maxWindowTitleChars = 50
)

// Window is one open top-level window, as listed in overview output and
// optional snapshot headers.
type Window struct {
	Title      string     `json:"title"`
	PID        int        `json:"pid,omitempty"`
	Foreground bool       `json:"foreground,omitempty"`
	Bounds     *tree.Rect `json:"bounds,omitempty"`
	URL        string     `json:"url,omitempty"`
}

// Options adjust serialization. The zero value is valid.
type Options struct {
	// Windows, when non-empty, adds an open-window list to the header for
	// situational awareness.
	Windows []Window

	// MaxChars caps output length; zero means MaxOutputChars, negative
	// disables the cap.
	MaxChars int
}

// Serialize renders a pruned envelope as compact text. Identical inputs
// always produce byte-identical output.
func Serialize(env *tree.Envelope, counts prune.Counts, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# CUP %s | %s | %dx%d\n", env.Version, env.Platform, env.Screen.W, env.Screen.H)
	if env.App != nil && env.App.Name != "" {
		fmt.Fprintf(&b, "# app: %s\n", env.App.Name)
	}
	fmt.Fprintf(&b, "# %d nodes (%d before pruning)\n", counts.After, counts.Before)

	if len(opts.Windows) > 0 {
		fmt.Fprintf(&b, "# --- %d open windows ---\n", len(opts.Windows))
		for _, w := range opts.Windows {
			marker := ""
			if w.Foreground {
				marker = " [fg]"
			}
			fmt.Fprintf(&b, "#   %s%s\n", clampString(w.Title, maxWindowTitleChars), marker)
		}
	}
	b.WriteString("\n")

	for _, root := range env.Tree {
		emit(&b, root, 0)
	}

	return truncate(b.String(), opts.MaxChars)
}

// SerializeOverview renders a window list with no tree at all.
func SerializeOverview(windows []Window, platform string, screen tree.Screen) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# CUP %s | %s | %dx%d\n", tree.Version, platform, screen.W, screen.H)
	fmt.Fprintf(&b, "# overview | %d windows\n\n", len(windows))

	for _, w := range windows {
		title := w.Title
		if title == "" {
			title = "(untitled)"
		}
		prefix := "  "
		if w.Foreground {
			prefix = "* [fg] "
		}
		b.WriteString(prefix)
		b.WriteString(title)
		if w.PID != 0 {
			fmt.Fprintf(&b, " (pid:%d)", w.PID)
		}
		if w.Bounds != nil {
			fmt.Fprintf(&b, " @%d,%d %dx%d", w.Bounds.X, w.Bounds.Y, w.Bounds.W, w.Bounds.H)
		}
		if w.URL != "" {
			fmt.Fprintf(&b, " url:%s", clampString(w.URL, maxURLChars))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func emit(b *strings.Builder, n *tree.Node, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
	b.WriteString(FormatLine(n))
	b.WriteString("\n")
	for _, c := range n.Children {
		emit(b, c, depth+1)
	}
}

// valueRoles are the roles whose value is worth rendering. Values on other
// roles are usually redundant with the name.
var valueRoles = map[taxonomy.Role]bool{
	taxonomy.RoleTextBox:     true,
	taxonomy.RoleSearchBox:   true,
	taxonomy.RoleCombobox:    true,
	taxonomy.RoleSpinButton:  true,
	taxonomy.RoleSlider:      true,
	taxonomy.RoleProgressBar: true,
}

// FormatLine renders one node as a single line:
//
//	[id] role "name" x,y wxh {states} [actions] val="v" (attrs)
//
// Empty trailing sections are omitted entirely. Search surfaces use this
// to render flat match lists in the same grammar as snapshots.
func FormatLine(n *tree.Node) string {
	parts := []string{
		"[" + n.ID + "]",
		taxonomy.RoleAbbrev(n.Role),
	}

	if n.Name != "" {
		parts = append(parts, `"`+escape(clampString(n.Name, maxNameChars))+`"`)
	}

	parts = append(parts, fmt.Sprintf("%d,%d %dx%d", n.Bounds.X, n.Bounds.Y, n.Bounds.W, n.Bounds.H))

	if len(n.States) > 0 {
		codes := make([]string, len(n.States))
		for i, s := range n.States {
			codes[i] = taxonomy.StateAbbrev(s)
		}
		parts = append(parts, "{"+strings.Join(codes, ",")+"}")
	}

	// Focus is implied on nearly everything; rendering it is pure noise.
	var actions []string
	for _, a := range n.Actions {
		if a != taxonomy.ActionFocus {
			actions = append(actions, taxonomy.ActionAbbrev(a))
		}
	}
	if len(actions) > 0 {
		parts = append(parts, "["+strings.Join(actions, ",")+"]")
	}

	if v := valueString(n); v != "" {
		parts = append(parts, `val="`+escape(clampString(v, maxValueChars))+`"`)
	}

	if attrs := formatAttrs(n.Extra); attrs != "" {
		parts = append(parts, "("+attrs+")")
	}

	return strings.Join(parts, " ")
}

func valueString(n *tree.Node) string {
	if n.Value == nil || !valueRoles[n.Role] {
		return ""
	}
	switch v := n.Value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatAttrs renders the platform attribute bag in a fixed order so output
// stays byte-stable: heading level, placeholder, orientation, value range.
func formatAttrs(extra map[string]string) string {
	if len(extra) == 0 {
		return ""
	}
	var parts []string
	if lvl, ok := extra["level"]; ok {
		parts = append(parts, "L"+lvl)
	}
	if ph, ok := extra["placeholder"]; ok {
		parts = append(parts, `ph="`+escape(clampString(ph, maxPlaceholderChars))+`"`)
	}
	if o, ok := extra["orientation"]; ok && o != "" {
		parts = append(parts, o[:1])
	}
	vmin, hasMin := extra["valueMin"]
	vmax, hasMax := extra["valueMax"]
	if hasMin || hasMax {
		parts = append(parts, "range="+vmin+".."+vmax)
	}
	return strings.Join(parts, " ")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func clampString(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// truncate enforces the output cap, cutting at a line boundary and
// appending a diagnostic footer so agents know how to recover.
func truncate(out string, maxChars int) string {
	if maxChars < 0 {
		return out
	}
	if maxChars == 0 {
		maxChars = MaxOutputChars
	}
	if len(out) <= maxChars {
		return out
	}
	cut := out[:maxChars]
	if nl := strings.LastIndexByte(cut, '\n'); nl > 0 {
		cut = cut[:nl]
	}
	return cut + "\n\n# OUTPUT TRUNCATED - exceeded character limit.\n" +
		"# Use find(name=...) to locate specific elements instead.\n" +
		"# Or use snapshot_app(app='<title>') to target a specific window.\n"
}
