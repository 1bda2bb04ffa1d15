package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suzent/suzentd/internal/backend"
)

const (

	// Default listen address when none is configured. Port 0 lets the OS
	// pick; the resolved address is published via the state file.
	defaultAddr = "127.0.0.1:0"

	// Grace period for in-flight requests during shutdown.
	shutdownTimeout = 2 * time.Second
)

// Origins the shell's embedded browser context presents. Tauri webviews use
// the tauri scheme in release builds and the Vite dev server during
// development.
var allowedOrigins = []string{
	"tauri://localhost",
	"https://tauri.localhost",
	"http://localhost:1420",
}

// Holds control server configuration.
type Config struct {
	Addr       string           // Listen address. Empty uses the loopback default.
	Launcher   backend.Launcher // Supervised backend the API reports on.
	OnShutdown func()           // Invoked when a shutdown request is received.
}

// Serves the host-facing control API on a loopback address.
//
// The desktop shell queries it for the backend port and daemon status, loads
// /bootstrap.js into the webview at startup to receive the one-shot port
// injection, and posts /api/shutdown on exit.
type Server struct {
	addr       string
	launcher   backend.Launcher
	onShutdown func()
	instanceID string

	listener  net.Listener
	http      *http.Server
	startedAt time.Time
	stopOnce  sync.Once
	done      chan struct{}
}

// Creates a new server instance.
//
// The listener is not opened until [Start] is called.
func New(cfg Config) (*Server, error) {
	if cfg.Launcher == nil {
		return nil, fmt.Errorf("%w: launcher is required", ErrServer)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}

	s := &Server{
		addr:       addr,
		launcher:   cfg.Launcher,
		onShutdown: cfg.OnShutdown,
		instanceID: uuid.NewString(),
		done:       make(chan struct{}),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	s.routes(engine)

	s.http = &http.Server{Handler: engine}

	return s, nil
}

// Opens the loopback listener, writes the discovery files, and begins
// serving.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("%w: failed to listen on %s: %w", ErrServer, s.addr, err)
	}

	s.listener = listener
	s.startedAt = time.Now()

	if err := s.writeStateFiles(); err != nil {
		zap.L().Warn("failed to write state files", zap.Error(err))
	}

	zap.L().Info("control API listening", zap.String("addr", s.Addr()))

	go func() {
		if err := s.http.Serve(listener); err != nil && err != http.ErrServerClosed {
			zap.L().Error("control API serve error", zap.Error(err))
		}
	}()

	return nil
}

// Returns the resolved listen address, including the OS-assigned port.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Shuts down the server and removes the discovery files. Safe to call more
// than once.
func (s *Server) Stop() error {
	var err error

	s.stopOnce.Do(func() {
		close(s.done)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err = s.http.Shutdown(ctx)
		s.removeStateFiles()
	})

	return err
}

// Blocks until the server stops.
func (s *Server) Wait() {
	<-s.done
}
