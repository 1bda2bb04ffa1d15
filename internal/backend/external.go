package backend

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/suzent/suzentd/internal/config"
)

// Assumes an externally-run backend on a fixed port.
//
// This is the dev-mode strategy: the developer runs the backend by hand
// (python src/suzent/server.py) and the launcher only publishes the agreed
// port to the shell. Nothing is spawned, polled, or killed; the strategy
// exists so the launcher's public contract is identical in both modes.
type External struct {
	host string
	port uint16

	mu    sync.Mutex
	state State
}

// Creates an external launcher using the configured dev port.
func NewExternal(cfg *config.Config) *External {
	if cfg == nil {
		cfg = config.Default()
	}

	return &External{
		host:  cfg.Backend.Host,
		port:  cfg.Backend.DevPort,
		state: StateIdle,
	}
}

// Publishes the fixed dev port without spawning anything.
//
// The backend is not health-checked; in dev mode the developer owns its
// lifecycle and a not-yet-started backend is an expected condition.
func (e *External) Start(_ context.Context) (uint16, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.CanStart() {
		return 0, fmt.Errorf("%w: state is %s", ErrAlreadyStarted, e.state)
	}

	e.state = StateReady

	zap.L().Info("dev mode: expecting externally-run backend",
		zap.String("host", e.host),
		zap.Uint16("port", e.port),
	)
	zap.L().Info("start it manually with: python src/suzent/server.py")

	return e.port, nil
}

// Marks the launcher stopped. There is no process to kill.
func (e *External) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		e.state = StateStopped
	}
}

// Returns the fixed dev port once started, 0 before.
func (e *External) Port() uint16 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateIdle {
		return 0
	}
	return e.port
}

// Returns the current lifecycle state.
func (e *External) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
