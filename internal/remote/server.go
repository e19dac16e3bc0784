package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/standardbeagle/cup/internal/adapter"
	"github.com/standardbeagle/cup/internal/prune"
	"github.com/standardbeagle/cup/internal/search"
	"github.com/standardbeagle/cup/internal/session"
	"github.com/standardbeagle/cup/internal/tree"
)

// Server exposes one adapter and its session over WebSocket. One RPC is
// served at a time per connection; concurrent connections share the same
// session, so callers coordinating multiple agents should run one server
// per session.
type Server struct {
	adapter  adapter.Adapter
	session  *session.Session
	addr     string
	upgrader websocket.Upgrader

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener

	// windows maps handle tokens issued by the windows RPC back to the
	// native window references they stand for.
	winMu      sync.Mutex
	windows    map[string]adapter.WindowInfo
	nextHandle int
}

// NewServer creates a remote server for the adapter, listening on addr
// (":9800" style).
func NewServer(a adapter.Adapter, addr string) *Server {
	if addr == "" {
		addr = ":" + strconv.Itoa(DefaultPort)
	}
	return &Server{
		adapter: a,
		session: session.New(a),
		addr:    addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		windows: make(map[string]adapter.WindowInfo),
	}
}

// Addr returns the bound listen address once Start has succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start binds the listener and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWS)

	srv := &http.Server{Handler: mux}
	s.mu.Lock()
	s.listener = listener
	s.httpServer = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("cup remote server listening on ws://%s", listener.Addr())
	if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()
	log.Printf("client connected from %s", r.RemoteAddr)

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %s: %v", r.RemoteAddr, err)
			}
			return
		}

		resp := response{ID: req.ID}
		result, err := s.dispatch(r.Context(), req.Method, req.Params)
		if err != nil {
			resp.Error = err.Error()
		} else if raw, err := json.Marshal(result); err != nil {
			resp.Error = fmt.Sprintf("encode result: %v", err)
		} else {
			resp.Result = raw
		}

		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("write to %s failed: %v", r.RemoteAddr, err)
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "info":
		return s.info(), nil
	case "snapshot":
		return s.snapshot(ctx, params)
	case "overview":
		res, err := s.session.Capture(ctx, session.CaptureOptions{Scope: session.ScopeOverview})
		if err != nil {
			return nil, err
		}
		return res.Text, nil
	case "find":
		var q search.Query
		if err := unmarshalParams(params, &q); err != nil {
			return nil, err
		}
		return s.session.Find(q)
	case "screen":
		return s.adapter.ScreenInfo(ctx)
	case "windows":
		return s.enumerate(ctx, params)
	case "capture_tree":
		return s.captureTree(ctx, params)
	}
	return nil, fmt.Errorf("unknown method %q", method)
}

func (s *Server) info() Info {
	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	return Info{
		Machine:  host,
		OS:       runtime.GOOS,
		Platform: s.adapter.Platform(),
		Version:  tree.Version,
	}
}

func (s *Server) snapshot(ctx context.Context, params json.RawMessage) (any, error) {
	var p snapshotParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	detail, err := prune.ParseDetail(p.Detail)
	if err != nil {
		return nil, err
	}
	res, err := s.session.Capture(ctx, session.CaptureOptions{
		Scope:    p.Scope,
		App:      p.App,
		MaxDepth: p.MaxDepth,
		Detail:   detail,
	})
	if err != nil {
		return nil, err
	}
	return res.Text, nil
}

func (s *Server) enumerate(ctx context.Context, params json.RawMessage) (any, error) {
	var p windowsParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}

	var (
		wins []adapter.WindowInfo
		err  error
	)
	switch p.Kind {
	case "foreground":
		var w adapter.WindowInfo
		w, err = s.adapter.ForegroundWindow(ctx)
		wins = []adapter.WindowInfo{w}
	case "all":
		wins, err = s.adapter.AllWindows(ctx)
	case "list":
		wins, err = s.adapter.WindowList(ctx)
	case "desktop":
		var w adapter.WindowInfo
		w, err = s.adapter.DesktopWindow(ctx)
		wins = []adapter.WindowInfo{w}
	default:
		return nil, fmt.Errorf("unknown window kind %q", p.Kind)
	}
	if err != nil {
		return nil, err
	}

	out := make([]wireWindow, len(wins))
	for i, w := range wins {
		out[i] = wireWindow{
			Handle:     s.registerWindow(w),
			Title:      w.Title,
			PID:        w.PID,
			BundleID:   w.BundleID,
			Foreground: w.Foreground,
			Bounds:     w.Bounds,
			URL:        w.URL,
		}
	}
	return out, nil
}

func (s *Server) captureTree(ctx context.Context, params json.RawMessage) (any, error) {
	var p captureTreeParams
	if err := unmarshalParams(params, &p); err != nil {
		return nil, err
	}
	wins := make([]adapter.WindowInfo, 0, len(p.Handles))
	s.winMu.Lock()
	for _, h := range p.Handles {
		w, ok := s.windows[h]
		if !ok {
			s.winMu.Unlock()
			return nil, fmt.Errorf("stale window handle %q: re-enumerate windows", h)
		}
		wins = append(wins, w)
	}
	s.winMu.Unlock()

	return s.adapter.CaptureTree(ctx, wins, p.MaxDepth)
}

// registerWindow issues a handle token for a native window reference.
// Tokens stay valid for the life of the server; windows are re-registered
// on every enumeration, so clients should always enumerate before capture.
func (s *Server) registerWindow(w adapter.WindowInfo) string {
	s.winMu.Lock()
	defer s.winMu.Unlock()
	s.nextHandle++
	h := "w" + strconv.Itoa(s.nextHandle)
	s.windows[h] = w
	return h
}

func unmarshalParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("bad params: %w", err)
	}
	return nil
}
