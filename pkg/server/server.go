package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/tablesync/internal/config"
	"github.com/vango-dev/tablesync/internal/errors"
	"github.com/vango-dev/tablesync/pkg/middleware"
	"github.com/vango-dev/tablesync/pkg/protocol"
	"github.com/vango-dev/tablesync/pkg/table"
	"github.com/vango-dev/tablesync/pkg/urlquery"
)

// Timeouts of the websocket transport.
const (
	HandshakeTimeout = 10 * time.Second
	WriteTimeout     = 10 * time.Second
	PongWait         = 60 * time.Second
	PingPeriod       = PongWait * 9 / 10

	// MaxMessageSize bounds a single client message.
	MaxMessageSize = protocol.FrameHeaderSize + protocol.MaxPayloadSize
)

// TableFactory creates the table a new session talks to. history is the
// session's navigator, positioned at the page URL sent in the handshake.
type TableFactory func(ctx context.Context, history urlquery.History) (*table.Table, error)

// Server serves registered tables over websockets, plus the URL helper API,
// health and metrics endpoints.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	mu       sync.RWMutex
	tables   map[string]TableFactory
	sessions map[string]*Session

	upgrader   websocket.Upgrader
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. cfg may be nil for defaults.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger.With("component", "server"),
		tables:   make(map[string]TableFactory),
		sessions: make(map[string]*Session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.Server.ReadBufferSize,
		WriteBufferSize: cfg.Server.WriteBufferSize,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	return s
}

// Register makes a table available under id. Clients select it with the
// TableID of their ClientHello.
func (s *Server) Register(id string, factory TableFactory) error {
	if id == "" || factory == nil {
		return errors.New("E400").WithDetail("a table needs an id and a factory")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.tables[id]; dup {
		return errors.New("E302").WithDetailf("table %q is already registered", id)
	}
	s.tables[id] = factory
	return nil
}

// Tables returns the registered table ids, sorted.
func (s *Server) Tables() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) factory(id string) (TableFactory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.tables[id]
	return f, ok
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.cfg.Server.AllowedOrigins, "*") || slices.Contains(s.cfg.Server.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

// HandleWebSocket upgrades the connection, performs the handshake, mounts
// the requested table and serves the session until the client goes away.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		middleware.RecordWebSocketError("upgrade")
		return
	}
	conn.SetReadLimit(MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(HandshakeTimeout))

	hello, status := s.readClientHello(conn)
	if status != protocol.HandshakeOK {
		s.rejectHandshake(conn, status)
		return
	}

	factory, ok := s.factory(hello.TableID)
	if !ok {
		s.logger.Warn("handshake for unknown table", "table", hello.TableID)
		s.rejectHandshake(conn, protocol.HandshakeUnknownTable)
		return
	}

	id := uuid.NewString()
	ctx := table.ContextWithSessionID(r.Context(), id)
	sess := newSession(id, conn, hello.Location, s.logger)

	tbl, err := factory(ctx, sess.nav)
	if err != nil {
		s.logger.Error("table factory failed", "table", hello.TableID, "error", err)
		s.rejectHandshake(conn, protocol.HandshakeInternalError)
		return
	}
	sess.table = tbl

	if err := sess.writeFrame(protocol.FrameHandshake, protocol.EncodeServerHello(
		protocol.NewServerHello(id, uint64(time.Now().UnixMilli())),
	)); err != nil {
		s.logger.Error("server hello failed", "error", err)
		conn.Close()
		return
	}
	middleware.RecordHandshake("ok")

	s.addSession(sess)
	defer s.removeSession(sess)

	s.logger.Info("session started", "session_id", id, "table", hello.TableID)
	sess.Serve(ctx)
	s.logger.Info("session ended", "session_id", id)
}

func (s *Server) readClientHello(conn *websocket.Conn) (*protocol.ClientHello, protocol.HandshakeStatus) {
	_, msg, err := conn.ReadMessage()
	if err != nil {
		s.logger.Error("handshake read failed", "error", err)
		return nil, protocol.HandshakeInvalidFormat
	}
	frame, err := protocol.DecodeFrame(msg)
	if err == nil && frame.Type != protocol.FrameHandshake {
		err = ErrInvalidHandshake
	}
	if err != nil {
		s.logger.Error("handshake frame invalid", "error", err)
		return nil, protocol.HandshakeInvalidFormat
	}
	hello, err := protocol.DecodeClientHello(frame.Payload)
	if err != nil {
		s.logger.Error("client hello invalid", "error", errors.New("E200").Wrap(err))
		return nil, protocol.HandshakeInvalidFormat
	}
	if !hello.Version.Compatible() {
		s.logger.Warn("protocol version mismatch", "error", errors.New("E201").WithDetailf(
			"client %d.%d, server %d.%d",
			hello.Version.Major, hello.Version.Minor,
			protocol.CurrentVersion.Major, protocol.CurrentVersion.Minor))
		return nil, protocol.HandshakeVersionMismatch
	}
	return hello, protocol.HandshakeOK
}

func (s *Server) rejectHandshake(conn *websocket.Conn, status protocol.HandshakeStatus) {
	middleware.RecordHandshake(statusLabel(status))
	frame, err := protocol.NewFrame(protocol.FrameHandshake,
		protocol.EncodeServerHello(protocol.NewServerHelloError(status))).Encode()
	if err == nil {
		conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		conn.WriteMessage(websocket.BinaryMessage, frame)
	}
	conn.Close()
}

// statusLabel turns "UnknownTable" into "unknown_table".
func statusLabel(status protocol.HandshakeStatus) string {
	var b strings.Builder
	for i, r := range status.String() {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Server) addSession(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	middleware.RecordSessionCreate()
}

func (s *Server) removeSession(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	middleware.RecordSessionDestroy()
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.cfg.Server.Addr, "tables", s.Tables())
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return errors.New("E401").Wrap(err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.RUnlock()
	for _, sess := range open {
		sess.Close()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/url", s.handleURL)
	r.Get("/api/tables", s.handleTables)
	r.Get("/ws", s.HandleWebSocket)
	if s.cfg.Metrics.Enabled {
		r.Handle("/metrics", metricsHandler())
	}
	return r
}
