package backend

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suzent/suzentd/internal/config"
	"github.com/suzent/suzentd/internal/paths"
	"github.com/suzent/suzentd/internal/port"
)

// Launcher is the start contract shared by both launch strategies: the
// sidecar supervisor that spawns the bundled backend, and the external
// strategy that assumes a manually-run instance in dev mode.
type Launcher interface {
	// Starts the backend and blocks until it is ready, returning the port
	// it is listening on.
	Start(ctx context.Context) (uint16, error)

	// Tears the backend down. Idempotent; never fails outwardly.
	Stop()

	// Returns the last allocated port, 0 before the first successful
	// start. A non-zero port does not imply the backend is alive; check
	// State for that.
	Port() uint16

	// Returns the current lifecycle state.
	State() State
}

var (
	_ Launcher = (*Supervisor)(nil)
	_ Launcher = (*External)(nil)
)

// Controls supervisor construction.
type Options struct {
	Config *config.Config

	// Override for the backend executable. Empty resolves the bundled
	// binary under the resource directory.
	BackendPath string

	// Extra arguments passed to the backend. The shipped backend takes
	// none; tests use these to drive mock children.
	BackendArgs []string
}

// Owns the lifecycle of one backend sidecar process.
//
// A Supervisor allocates the listen port, builds the child environment,
// spawns the process, polls its liveness endpoint until ready, and kills it
// on Stop. At most one live child exists per Supervisor. All state is guarded
// by a mutex; Start holds it for the full critical section, so concurrent
// Port and Stop calls block until startup resolves.
type Supervisor struct {
	cfg         *config.Config
	allocator   *port.Allocator
	backendPath string
	backendArgs []string

	mu    sync.Mutex
	port  uint16
	cmd   *exec.Cmd
	state State
}

// Creates a supervisor. The backend is not spawned until Start is called.
func NewSupervisor(opts Options) *Supervisor {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	return &Supervisor{
		cfg:         cfg,
		allocator:   port.New(cfg.Backend.Host),
		backendPath: opts.BackendPath,
		backendArgs: opts.BackendArgs,
		state:       StateIdle,
	}
}

// Starts the backend sidecar and blocks until it answers its liveness
// endpoint.
//
// The sequence is: allocate a port, resolve the executable and data
// directory, create the data directory, spawn the child with the injected
// environment, then poll for readiness. Every step is fatal on failure and
// leaves the supervisor in the failed state; a child that was already
// spawned is killed before the error is reported, so no orphan survives a
// failed start. A failed supervisor may be started again.
func (s *Supervisor) Start(ctx context.Context) (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanStart() {
		return 0, fmt.Errorf("%w: state is %s", ErrAlreadyStarted, s.state)
	}
	s.state = StateStarting

	listenPort, err := s.allocator.Allocate()
	if err != nil {
		s.state = StateFailed
		return 0, err
	}
	s.port = listenPort

	exe, err := s.resolveBackend()
	if err != nil {
		s.state = StateFailed
		return 0, fmt.Errorf("%w: %w", ErrEnvironment, err)
	}

	dataDir, err := s.ensureDataDir()
	if err != nil {
		s.state = StateFailed
		return 0, err
	}

	if err := s.spawn(exe, listenPort, dataDir); err != nil {
		s.state = StateFailed
		return 0, err
	}

	if err := s.awaitReady(ctx, listenPort); err != nil {
		s.killLocked()
		s.state = StateFailed
		return 0, err
	}

	s.state = StateReady
	return listenPort, nil
}

// Resolves the backend executable path, honoring the test override and the
// resource directory configuration.
func (s *Supervisor) resolveBackend() (string, error) {
	if s.backendPath != "" {
		return s.backendPath, nil
	}

	resourceDir := s.cfg.Backend.ResourceDir
	if resourceDir == "" {
		dir, err := paths.Resources()
		if err != nil {
			return "", err
		}
		resourceDir = dir
	}

	return paths.Backend(resourceDir)
}

// Resolves the application data directory and creates it, returning the
// absolute path the child's store paths are rooted under.
func (s *Supervisor) ensureDataDir() (string, error) {
	dataDir := s.cfg.Backend.DataDir
	if dataDir == "" {
		dataDir = paths.Data()
	}

	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return "", fmt.Errorf("%w: failed to resolve data dir %s: %w", ErrEnvironment, dataDir, err)
	}

	if err := os.MkdirAll(abs, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: failed to create data dir %s: %w", ErrEnvironment, abs, err)
	}

	return abs, nil
}

// Spawns the backend with the injected environment and registers the reaper.
// Must be called with the mutex held.
func (s *Supervisor) spawn(exe string, listenPort uint16, dataDir string) error {
	stdout := newLogWriter(zap.L().Named("backend"), zapcore.InfoLevel)
	stderr := newLogWriter(zap.L().Named("backend"), zapcore.WarnLevel)

	cmd := exec.Command(exe, s.backendArgs...)
	cmd.Env = environ(s.cfg.Backend.Host, listenPort, dataDir)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSpawn, exe, err)
	}

	s.cmd = cmd
	go reap(cmd, stdout, stderr)

	zap.L().Info("backend spawned",
		zap.String("path", exe),
		zap.Uint16("port", listenPort),
		zap.String("data_dir", dataDir),
		zap.Int("pid", cmd.Process.Pid),
	)

	return nil
}

// Polls the liveness endpoint until the backend is ready or the attempt
// budget runs out.
func (s *Supervisor) awaitReady(ctx context.Context, listenPort uint16) error {
	addr := net.JoinHostPort(s.cfg.Backend.Host, strconv.Itoa(int(listenPort)))

	attempts := 0
	hook := func(_ retryablehttp.Logger, _ *http.Request, n int) {
		attempts = n + 1
		zap.L().Debug("health poll attempt", zap.Int("attempt", attempts))
	}

	if err := waitReady(ctx, s.cfg.Health, "http://"+addr, hook); err != nil {
		return err
	}

	zap.L().Info("backend ready", zap.Uint16("port", listenPort), zap.Int("attempts", attempts))
	return nil
}

// Tears the backend down with a hard kill.
//
// Valid from any state and safe to call repeatedly; calls after the first
// observe no handle and do nothing. Termination errors are swallowed: on
// shutdown there is no actionable recovery.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.killLocked()

	if s.state != StateIdle {
		s.state = StateStopped
	}
}

// Kills the child and clears the handle. Must be called with the mutex held.
func (s *Supervisor) killLocked() {
	if s.cmd == nil {
		return
	}

	if s.cmd.Process != nil {
		if err := s.cmd.Process.Kill(); err != nil {
			zap.L().Debug("backend kill failed", zap.Error(err))
		}
	}

	s.cmd = nil
}

// Returns the last allocated port, 0 before the first start. The value is
// retained across stop so late queries by the shell still resolve.
func (s *Supervisor) Port() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Returns the current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Waits for the backend to exit and logs the result.
//
// Runs in its own goroutine so the child is always reaped, whether it exits
// on its own or is killed by Stop. Buffered output is flushed once the
// process is gone.
func reap(cmd *exec.Cmd, writers ...*logWriter) {
	err := cmd.Wait()

	for _, w := range writers {
		w.Flush()
	}

	if err != nil {
		zap.L().Debug("backend exited", zap.Error(err))
		return
	}
	zap.L().Debug("backend exited cleanly")
}
