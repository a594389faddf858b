// Package bridge exposes a command registry to the editor front end over a
// local WebSocket and a plain HTTP endpoint.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/arthur-debert/latexstudio/pkg/latexstudio/dispatch"
)

// DefaultMaxMessageBytes bounds a single WebSocket frame or HTTP body
// when Options.MaxMessageBytes is zero.
const DefaultMaxMessageBytes = 64 << 20

// Invoker runs commands by name.
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error)
	Names() []string
}

// Options configure a Server.
type Options struct {
	Addr           string
	Token          string
	AllowedOrigins []string
	// MaxMessageBytes caps request bodies and WebSocket frames.
	MaxMessageBytes int64
}

// clientConn tracks a single WebSocket connection.
type clientConn struct {
	id        uint64
	ws        *websocket.Conn
	sendCh    chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func (cc *clientConn) close() {
	cc.closeOnce.Do(func() { close(cc.done) })
}

// Server is the IPC bridge between the front end and an Invoker.
type Server struct {
	invoker   Invoker
	opts      Options
	auth      tokenAuth
	logger    zerolog.Logger
	httpSrv   *http.Server
	clients   sync.Map // connID (uint64) -> *clientConn
	nextID    atomic.Uint64
	ready     chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
	boundAddr string
}

// NewServer creates a bridge for invoker.
func NewServer(invoker Invoker, opts Options, logger zerolog.Logger) *Server {
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = DefaultMaxMessageBytes
	}
	return &Server{
		invoker: invoker,
		opts:    opts,
		auth:    newTokenAuth(opts.Token),
		logger:  logger.With().Str("component", "bridge").Logger(),
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Handler returns the HTTP routes of the bridge.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /ipc/{cmd}", s.handleIPC)
	mux.HandleFunc("/ws", s.handleUpgrade)
	return mux
}

// Start listens on the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("bridge listen: %w", err)
	}
	s.boundAddr = listener.Addr().String()
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	close(s.ready)

	s.logger.Info().Str("addr", s.boundAddr).Msg("bridge started")

	go func() {
		select {
		case <-ctx.Done():
			if err := s.Stop(context.Background()); err != nil {
				s.logger.Warn().Err(err).Msg("bridge shutdown")
			}
		case <-s.done:
		}
	}()

	if err := s.httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge serve: %w", err)
	}
	return nil
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// BoundAddr returns the address the server bound to. Only valid after Ready.
func (s *Server) BoundAddr() string { return s.boundAddr }

// Done is closed once Stop has been called.
func (s *Server) Done() <-chan struct{} { return s.done }

// Stop closes all client connections and shuts the HTTP server down.
// It is safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })

	s.clients.Range(func(key, value any) bool {
		cc := value.(*clientConn)
		cc.close()
		cc.ws.Close(websocket.StatusGoingAway, "server shutting down")
		s.clients.Delete(key)
		return true
	})

	select {
	case <-s.ready:
	default:
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"commands": s.invoker.Names(),
	})
}

func (s *Server) handleIPC(w http.ResponseWriter, r *http.Request) {
	if !s.auth.check(bearer(r)) {
		writeJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cmd := r.PathValue("cmd")
	args, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxMessageBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeJSON(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return
	}

	invocationID := ulid.Make().String()
	w.Header().Set("X-Invocation-Id", invocationID)

	result, err := s.invoke(r.Context(), invocationID, cmd, args)
	switch {
	case errors.Is(err, dispatch.ErrCommandNotFound):
		writeJSON(w, http.StatusNotFound, err.Error())
	case err != nil:
		writeJSON(w, http.StatusBadRequest, err.Error())
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result)
	}
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if !s.auth.check(r.URL.Query().Get("token")) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	patterns := append([]string{
		"localhost",
		"localhost:*",
		"127.0.0.1",
		"127.0.0.1:*",
		"[::1]",
		"[::1]:*",
	}, s.opts.AllowedOrigins...)
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: patterns})
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	ws.SetReadLimit(s.opts.MaxMessageBytes)

	cc := &clientConn{
		id:     s.nextID.Add(1),
		ws:     ws,
		sendCh: make(chan Frame, 64),
		done:   make(chan struct{}),
	}
	s.clients.Store(cc.id, cc)
	s.logger.Debug().Uint64("conn_id", cc.id).Msg("client connected")

	go s.writeLoop(cc)
	s.readLoop(r.Context(), cc)

	cc.close()
	s.clients.Delete(cc.id)
	ws.Close(websocket.StatusNormalClosure, "")
	s.logger.Debug().Uint64("conn_id", cc.id).Msg("client disconnected")
}

func (s *Server) readLoop(ctx context.Context, cc *clientConn) {
	for {
		select {
		case <-cc.done:
			return
		default:
		}

		var frame Frame
		if err := wsjson.Read(ctx, cc.ws, &frame); err != nil {
			return
		}
		if frame.Type != FrameTypeRequest {
			continue
		}
		go s.dispatch(ctx, cc, frame)
	}
}

func (s *Server) writeLoop(cc *clientConn) {
	for {
		select {
		case <-cc.done:
			return
		case frame := <-cc.sendCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := wsjson.Write(ctx, cc.ws, frame)
			cancel()
			if err != nil {
				cc.close()
				return
			}
		}
	}
}

func (s *Server) dispatch(ctx context.Context, cc *clientConn, req Frame) {
	result, err := s.invoke(ctx, ulid.Make().String(), req.Cmd, req.Args)
	resp := Frame{
		Type:    FrameTypeResponse,
		ID:      req.ID,
		Payload: result,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	select {
	case cc.sendCh <- resp:
	case <-cc.done:
	}
}

func (s *Server) invoke(ctx context.Context, invocationID, cmd string, args json.RawMessage) (json.RawMessage, error) {
	s.logger.Trace().
		Str("invocation_id", invocationID).
		Str("command", cmd).
		Msg("invoke")
	result, err := s.invoker.Invoke(ctx, cmd, args)
	if err != nil {
		s.logger.Debug().
			Str("invocation_id", invocationID).
			Str("command", cmd).
			Err(err).
			Msg("invoke failed")
	}
	return result, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
