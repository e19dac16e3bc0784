// Package remote exposes a session over WebSocket and lets another machine
// consume it, either as rendered text (snapshot/find RPCs) or as a full
// adapter whose raw trees are normalized locally.
//
// The wire protocol is JSON-RPC shaped:
//
//	-> {"id": 1, "method": "snapshot", "params": {"scope": "foreground"}}
//	<- {"id": 1, "result": "# CUP 0.1.0 | windows | ..."}
package remote

import (
	"encoding/json"

	"github.com/standardbeagle/cup/internal/tree"
)

// DefaultPort is the conventional CUP remote server port.
const DefaultPort = 9800

type request struct {
	ID     int64           `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type response struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Info describes the machine behind a remote server.
type Info struct {
	Machine  string `json:"machine"`
	OS       string `json:"os"`
	Platform string `json:"platform"`
	Version  string `json:"version"`
}

// snapshotParams selects a capture for the text-level snapshot RPC.
type snapshotParams struct {
	Scope    string `json:"scope,omitempty"`
	App      string `json:"app,omitempty"`
	MaxDepth int    `json:"maxDepth,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// windowsParams selects which enumeration the windows RPC performs.
type windowsParams struct {
	Kind string `json:"kind"` // foreground | all | list | desktop
}

// wireWindow is a window with a server-assigned handle token in place of
// the native reference, so it can round-trip to a capture_tree call.
type wireWindow struct {
	Handle     string     `json:"handle,omitempty"`
	Title      string     `json:"title"`
	PID        int        `json:"pid,omitempty"`
	BundleID   string     `json:"bundleId,omitempty"`
	Foreground bool       `json:"foreground,omitempty"`
	Bounds     *tree.Rect `json:"bounds,omitempty"`
	URL        string     `json:"url,omitempty"`
}

type captureTreeParams struct {
	Handles  []string `json:"handles"`
	MaxDepth int      `json:"maxDepth,omitempty"`
}
