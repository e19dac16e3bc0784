package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/cup/internal/compact"
	"github.com/standardbeagle/cup/internal/prune"
	"github.com/standardbeagle/cup/internal/search"
	"github.com/standardbeagle/cup/internal/session"
)

var (
	snapScope    string
	snapApp      string
	snapDetail   string
	snapDepth    int
	snapMaxChars int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture an accessibility tree as compact text",
	Long: `Capture an accessibility tree and print it as compact text.

Scopes:
  foreground  the active window (default)
  desktop     the desktop surface, falling back to an overview
  full        every window, optionally filtered with --app
  overview    window list only, no tree walking`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		s, closer, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer closer()

		res, err := s.Capture(ctx, captureOptions())
		if err != nil {
			return err
		}
		fmt.Println(res.Text)
		return nil
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "List open windows without walking any tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		s, closer, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer closer()

		res, err := s.Capture(ctx, session.CaptureOptions{Scope: session.ScopeOverview})
		if err != nil {
			return err
		}
		fmt.Println(res.Text)
		return nil
	},
}

var (
	findRole  string
	findName  string
	findState string
	findLimit int
)

var findCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Capture a tree, then search it for matching elements",
	Long: `Capture a tree and search it in one step.

The positional query is freeform ("the play button", "search input");
--role, --name, and --state add exact filters. Matches print one per
line in the snapshot grammar, best first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		s, closer, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer closer()

		if _, err := s.Capture(ctx, captureOptions()); err != nil {
			return err
		}

		q := search.Query{
			Role:  findRole,
			Name:  findName,
			State: findState,
			Limit: findLimit,
		}
		if len(args) > 0 {
			q.Query = args[0]
		}
		matches, err := s.Find(q)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("no matches")
			return nil
		}
		var b strings.Builder
		for _, m := range matches {
			b.WriteString(compact.FormatLine(m.Node))
			b.WriteString("\n")
		}
		fmt.Print(b.String())
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{snapshotCmd, findCmd} {
		cmd.Flags().StringVar(&snapScope, "scope", session.ScopeForeground, "Capture scope: foreground, desktop, full, overview")
		cmd.Flags().StringVar(&snapApp, "app", "", "Filter to windows whose title contains this string (full scope)")
		cmd.Flags().StringVar(&snapDetail, "detail", "", "Pruning level: full, standard, minimal")
		cmd.Flags().IntVar(&snapDepth, "depth", 0, "Max tree depth (0 = config default)")
		cmd.Flags().IntVar(&snapMaxChars, "max-chars", 0, "Output cap in characters (0 = config default)")
	}

	findCmd.Flags().StringVar(&findRole, "role", "", "Role filter (exact role or synonym like 'search bar')")
	findCmd.Flags().StringVar(&findName, "name", "", "Name filter (fuzzy token matching)")
	findCmd.Flags().StringVar(&findState, "state", "", "State filter (e.g. focused, checked)")
	findCmd.Flags().IntVar(&findLimit, "limit", 0, "Max results (0 = default)")
}

// newSession builds a session on the configured adapter.
func newSession(ctx context.Context) (*session.Session, func() error, error) {
	cfg := loadConfig()
	a, closer, err := newAdapter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return session.New(a), closer, nil
}

// captureOptions merges flags over config defaults.
func captureOptions() session.CaptureOptions {
	cfg := loadConfig()

	detailName := snapDetail
	if detailName == "" {
		detailName = cfg.Detail
	}
	detail, err := prune.ParseDetail(detailName)
	if err != nil {
		detail = prune.DefaultDetail
	}

	depth := snapDepth
	if depth <= 0 {
		depth = cfg.MaxDepth
	}
	maxChars := snapMaxChars
	if maxChars <= 0 {
		maxChars = cfg.MaxOutputChars
	}

	scope := snapScope
	if snapApp != "" && scope == session.ScopeForeground {
		scope = session.ScopeFull
	}

	return session.CaptureOptions{
		Scope:    scope,
		App:      snapApp,
		Detail:   detail,
		MaxDepth: depth,
		MaxChars: maxChars,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
