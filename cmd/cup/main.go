package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/standardbeagle/cup/internal/adapter"
	"github.com/standardbeagle/cup/internal/adapter/web"
	"github.com/standardbeagle/cup/internal/config"
	"github.com/standardbeagle/cup/internal/remote"
)

const (
	appName    = "cup"
	appVersion = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Capture accessibility trees in Computer Use Protocol format",
	Long: `Cup normalizes platform accessibility trees into a compact,
LLM-friendly text format:
  - MCP server exposing snapshot/overview/find tools for AI assistants
  - One-shot CLI captures of browser tabs or remote machines
  - WebSocket server for capturing across a network boundary`,
	Version: appVersion,
	// Default behavior: if stdin is not a terminal, run as MCP server
	Run: func(cmd *cobra.Command, args []string) {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			runMCP(cmd, args)
		} else {
			cmd.Help()
		}
	},
}

var (
	flagRemote  string
	flagBrowser string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRemote, "remote", "", "Capture through a remote cup server (ws://host:9800)")
	rootCmd.PersistentFlags().StringVar(&flagBrowser, "browser", "", "Chromium remote debugging endpoint (default: launch headless)")

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s v%s\n", appName, appVersion))
}

func main() {
	log.SetOutput(os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the effective config; a broken file is reported but
// never fatal.
func loadConfig() *config.Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfg, err := config.Load(wd)
	if err != nil {
		log.Printf("config: %v (using defaults)", err)
		return config.DefaultConfig()
	}
	return cfg
}

// newAdapter picks the capture backend: a remote cup server when --remote
// is set, otherwise a Chromium connection. The returned closer releases
// the backend connection.
func newAdapter(ctx context.Context, cfg *config.Config) (adapter.Adapter, func() error, error) {
	if flagRemote != "" {
		client, err := remote.Dial(ctx, flagRemote)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
	url := flagBrowser
	if url == "" {
		url = cfg.BrowserURL
	}
	a := web.New(url)
	return a, a.Close, nil
}
