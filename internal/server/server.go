// Package server is the level and leaderboard service: a line protocol
// over telnet and WebSocket plus a small HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/openscroller/internal/antispam"
	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/database"
	"github.com/lawnchairsociety/openscroller/internal/logger"
	"github.com/lawnchairsociety/openscroller/internal/namefilter"
)

// shutdownTimeout bounds how long Shutdown waits for HTTP requests.
const shutdownTimeout = 5 * time.Second

type Server struct {
	address    string
	httpAddr   string
	listener   net.Listener
	httpServer *http.Server

	mu       sync.RWMutex
	clients  map[Client]struct{}
	sessions map[string]*Session

	shutdown     chan struct{}
	shutdownOnce sync.Once
	StartTime    time.Time

	db               *database.Database
	gameConfig       *config.GameConfig
	serverConfig     *config.ServerConfig
	levels           *LevelService
	connLimiter      *ConnLimiter
	loginRateLimiter *LoginRateLimiter
	nameFilter       *namefilter.NameFilter
}

// NewServer builds a server from the game configuration. Levels are
// generated with cfg's screen and world settings so they match what the
// game builds locally for the same seed.
func NewServer(cfg *config.GameConfig, db *database.Database) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	sc := cfg.Server
	return &Server{
		address:          sc.TelnetAddr,
		httpAddr:         sc.HTTPAddr,
		clients:          make(map[Client]struct{}),
		sessions:         make(map[string]*Session),
		shutdown:         make(chan struct{}),
		StartTime:        time.Now(),
		db:               db,
		gameConfig:       cfg,
		serverConfig:     &sc,
		levels:           NewLevelService(cfg, db),
		connLimiter:      NewConnLimiter(sc.Connections),
		loginRateLimiter: NewLoginRateLimiter(sc.RateLimit),
		nameFilter:       namefilter.New(sc.Names),
	}
}

// Levels returns the level service.
func (s *Server) Levels() *LevelService {
	return s.levels
}

// Listen binds the telnet address. Start calls it; tests call it directly
// to learn the bound address before serving.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener
	logger.Info("Server listening", "address", listener.Addr().String())
	return nil
}

// Addr is the bound telnet address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start listens on the telnet address and serves until Shutdown.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Serve accepts telnet connections on the bound listener.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Error("Error accepting connection", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	ip := extractIP(remoteAddr)

	if !s.connLimiter.TryAcquire(ip) {
		logger.Warning("Connection rejected - limit exceeded", "remote_addr", remoteAddr, "ip", ip)
		conn.Write([]byte("Too many connections. Please try again later.\r\n"))
		conn.Close()
		return
	}
	defer func() {
		s.connLimiter.Release(ip)
		conn.Close()
	}()

	s.handleClient(NewTelnetClient(conn))
}

// handleClient runs one connection, telnet or WebSocket, from the welcome
// screen to disconnect.
func (s *Server) handleClient(client Client) {
	if !s.track(client) {
		return
	}
	defer s.untrack(client)

	logger.Info("Client connected", "remote_addr", client.RemoteAddr())

	sess, err := s.handleAuth(client)
	if err != nil {
		logger.Info("Authentication failed", "remote_addr", client.RemoteAddr(), "error", err)
		return
	}
	sess.throttle = antispam.NewTracker(s.serverConfig.CommandLimit)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.ID)
		s.mu.Unlock()
		logger.Info("Client disconnected", "player", sess.Name, "session", sess.ID,
			"duration", time.Since(sess.ConnectedAt).Round(time.Second))
	}()

	s.runSession(sess)
}

// track records a live client. After Shutdown it refuses and closes it.
func (s *Server) track(client Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.shutdown:
		client.WriteLine("Server is shutting down.")
		client.Close()
		return false
	default:
	}
	s.clients[client] = struct{}{}
	return true
}

func (s *Server) untrack(client Client) {
	s.mu.Lock()
	delete(s.clients, client)
	s.mu.Unlock()
}

// StartHTTP serves the HTTP API and the /ws endpoint until Shutdown.
func (s *Server) StartHTTP() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.httpAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	logger.Info("HTTP server listening", "address", s.httpAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleWebSocketUpgrade checks the connection limits and the origin, then
// hands the socket to the shared client loop.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !s.connLimiter.TryAcquire(ip) {
		logger.Warning("WebSocket connection rejected - limit exceeded", "remote_addr", r.RemoteAddr, "client_ip", ip)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if s.serverConfig.WebSocket.IsOriginAllowed(origin, r.Host) {
				return true
			}
			logger.Warning("WebSocket connection rejected - origin not allowed",
				"origin", origin,
				"host", r.Host,
				"remote_addr", r.RemoteAddr)
			return false
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("WebSocket upgrade failed", "client_ip", ip, "error", err)
		s.connLimiter.Release(ip)
		return
	}

	go func() {
		defer func() {
			s.connLimiter.Release(ip)
			conn.Close()
		}()
		s.handleClient(NewWebSocketClient(conn, s.serverConfig.WebSocket.MaxMessageSize))
	}()
}

// Shutdown stops accepting connections, closes every client and waits
// briefly for HTTP requests in flight. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		close(s.shutdown)
		httpServer := s.httpServer
		clients := make([]Client, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.mu.Unlock()

		if s.listener != nil {
			s.listener.Close()
		}
		if httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Warning("HTTP shutdown incomplete", "error", err)
			}
			cancel()
		}
		s.loginRateLimiter.Stop()

		for _, c := range clients {
			c.WriteLine("Server is shutting down. Goodbye!")
			c.Close()
		}
		logger.Info("Server shutdown complete", "clients_closed", len(clients))
	})
}

// OnlinePlayers returns the names of authenticated sessions, sorted.
func (s *Server) OnlinePlayers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.sessions))
	for _, sess := range s.sessions {
		names = append(names, sess.Name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) Uptime() time.Duration {
	return time.Since(s.StartTime)
}
