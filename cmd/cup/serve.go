package main

import (
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/standardbeagle/cup/internal/remote"
	"github.com/standardbeagle/cup/internal/session"
	"github.com/standardbeagle/cup/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as MCP server over stdio",
	Long: `Run as an MCP (Model Context Protocol) server for AI assistants.

This is the primary mode for integration with MCP clients. Tools capture
through the configured backend: a Chromium connection by default, or a
remote cup server with --remote.`,
	Run: runMCP,
}

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the remote capture server",
	Long: `Serve this machine's accessibility trees over WebSocket.

Other machines point "cup --remote ws://host:9800" (or the MCP server)
at this endpoint to capture, prune, and search trees from here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		cfg := loadConfig()
		addr := serveListen
		if addr == "" {
			addr = cfg.Listen
		}

		a, closer, err := newAdapter(ctx, cfg)
		if err != nil {
			return err
		}
		defer closer()

		return remote.NewServer(a, addr).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Bind address (default from config, :9800)")
}

func runMCP(cmd *cobra.Command, args []string) {
	ctx, cancel := signalContext()
	defer cancel()

	cfg := loadConfig()
	a, closer, err := newAdapter(ctx, cfg)
	if err != nil {
		log.Fatalf("adapter: %v", err)
	}
	defer closer()

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    appName,
			Version: appVersion,
		},
		&mcp.ServerOptions{
			HasTools: true,
			Instructions: `Accessibility tree capture in Computer Use Protocol format.

Available tools:
- snapshot: capture the foreground window's tree as compact text
- snapshot_app: capture a specific app's window by title
- snapshot_desktop: capture the desktop surface
- overview: list open windows (near-instant, no tree walking)
- find: search the last captured tree by query/role/name/state`,
		},
	)

	tools.Register(server, session.New(a), cfg)

	go func() {
		<-ctx.Done()
		log.Println("MCP client shutdown signal received...")
	}()

	log.Printf("Starting %s v%s", appName, appVersion)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		if ctx.Err() == nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}
