// Package tools registers the cup MCP tool surface: snapshot, snapshot_app,
// snapshot_desktop, overview, and find.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/cup/internal/compact"
	"github.com/standardbeagle/cup/internal/config"
	"github.com/standardbeagle/cup/internal/prune"
	"github.com/standardbeagle/cup/internal/search"
	"github.com/standardbeagle/cup/internal/session"
)

// SnapshotAppInput defines input for the snapshot_app tool.
type SnapshotAppInput struct {
	App string `json:"app" jsonschema:"required,description=Target app by window title (case-insensitive substring match)"`
}

// FindInput defines input for the find tool.
type FindInput struct {
	Query string `json:"query,omitempty" jsonschema:"description=Freeform semantic query like 'play button' or 'search input'"`
	Role  string `json:"role,omitempty" jsonschema:"description=Role filter: exact CUP role or natural language synonym like 'search bar'"`
	Name  string `json:"name,omitempty" jsonschema:"description=Name filter (fuzzy token matching)"`
	State string `json:"state,omitempty" jsonschema:"description=State filter: exact match like 'focused' or 'checked'"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum results to return (default 5)"`
}

// TextOutput is the shared output shape for tools that return text.
type TextOutput struct {
	Text string `json:"text"`
}

type emptyInput struct{}

// cupTools binds the tool handlers to one session and its defaults.
type cupTools struct {
	session *session.Session
	cfg     *config.Config
}

// Register adds the cup tools to an MCP server.
func Register(server *mcp.Server, s *session.Session, cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	t := &cupTools{session: s, cfg: cfg}

	mcp.AddTool(server, &mcp.Tool{
		Name: "snapshot",
		Description: `Capture the foreground (active) window's accessibility tree.

Returns a structured text representation where each UI element has an ID
(e.g. 'e14'). The format is:

    [id] role "name" x,y wxh {states} [actions] val="value"

Indentation shows the element hierarchy. A window list in the header shows
all open apps. Element IDs are ephemeral: they are only valid for THIS
snapshot and change on the next capture.`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, TextOutput, error) {
		return t.snapshot(ctx, session.CaptureOptions{Scope: session.ScopeForeground})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name: "snapshot_app",
		Description: `Capture a specific app's window accessibility tree by title.

Use this when the target window is NOT in the foreground. The 'app'
parameter is a case-insensitive substring match against window titles
(e.g. "Spotify", "Firefox"). Same output format as snapshot.`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in SnapshotAppInput) (*mcp.CallToolResult, TextOutput, error) {
		if strings.TrimSpace(in.App) == "" {
			return errorResult("Missing required parameter: app"), TextOutput{}, nil
		}
		return t.snapshot(ctx, session.CaptureOptions{Scope: session.ScopeFull, App: in.App})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name: "snapshot_desktop",
		Description: `Capture the desktop surface (icons, widgets, shortcuts).

Falls back to a window overview if the platform has no desktop concept.
Same output format as snapshot.`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, TextOutput, error) {
		return t.snapshot(ctx, session.CaptureOptions{Scope: session.ScopeDesktop})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name: "overview",
		Description: `List all open windows. Near-instant, no tree walking.

Returns app names, PIDs, and bounds. No element IDs are returned. Use this
to discover what is open before targeting a window with snapshot_app.`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, TextOutput, error) {
		return t.snapshot(ctx, session.CaptureOptions{Scope: session.ScopeOverview})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name: "find",
		Description: `Search the last captured tree for elements matching criteria.

Results are sorted by relevance, best match first, rendered one per line in
the snapshot grammar. Requires a prior snapshot in this session; find never
captures implicitly.

QUERY MODE (recommended): pass a freeform query describing the element.
    query="the play button"  -> buttons with "play" in the name
    query="search input"     -> textbox/searchbox/combobox elements

STRUCTURED MODE: pass explicit role, name, and/or state filters. Both modes
combine: query + state="focused" narrows to focused elements.`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in FindInput) (*mcp.CallToolResult, TextOutput, error) {
		return t.find(in)
	})
}

func (t *cupTools) snapshot(ctx context.Context, opts session.CaptureOptions) (*mcp.CallToolResult, TextOutput, error) {
	detail, err := prune.ParseDetail(t.cfg.Detail)
	if err != nil {
		detail = prune.DefaultDetail
	}
	opts.Detail = detail
	opts.MaxDepth = t.cfg.MaxDepth
	opts.MaxChars = t.cfg.MaxOutputChars

	res, err := t.session.Capture(ctx, opts)
	if err != nil {
		return errorResult(fmt.Sprintf("Capture failed: %v", err)), TextOutput{}, nil
	}
	return textResult(res.Text), TextOutput{Text: res.Text}, nil
}

func (t *cupTools) find(in FindInput) (*mcp.CallToolResult, TextOutput, error) {
	matches, err := t.session.Find(search.Query{
		Query: in.Query,
		Role:  in.Role,
		Name:  in.Name,
		State: in.State,
		Limit: in.Limit,
	})
	switch {
	case errors.Is(err, search.ErrNoCriteria):
		return errorResult("At least one search parameter (query, role, name, or state) must be provided."), TextOutput{}, nil
	case errors.Is(err, search.ErrNoCapture):
		return errorResult("No tree captured yet. Call snapshot first."), TextOutput{}, nil
	case err != nil:
		return errorResult(fmt.Sprintf("Search failed: %v", err)), TextOutput{}, nil
	}

	if len(matches) == 0 {
		text := "# 0 matches found\n"
		return textResult(text), TextOutput{Text: text}, nil
	}

	var b strings.Builder
	plural := "es"
	if len(matches) == 1 {
		plural = ""
	}
	fmt.Fprintf(&b, "# %d match%s found\n\n", len(matches), plural)
	for _, m := range matches {
		b.WriteString(compact.FormatLine(m.Node))
		b.WriteString("\n")
	}
	text := b.String()
	return textResult(text), TextOutput{Text: text}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
