package backend

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suzent/suzentd/internal/config"
	"github.com/suzent/suzentd/internal/port"
)

// Not a real test. The supervisor tests re-exec this test binary as the
// backend child; the helper reads the injected environment and plays the
// backend role selected by HELPER_MODE.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	addr := net.JoinHostPort(os.Getenv("SUZENT_HOST"), os.Getenv("SUZENT_PORT"))

	switch os.Getenv("HELPER_MODE") {
	case "ready":
		// Healthy backend: answers 200 on every route.
		http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	case "notfound":
		// Backend that is up but has not initialized the liveness route.
		http.ListenAndServe(addr, http.NotFoundHandler())

	case "mute":
		// Backend that binds its port but never answers, forcing every
		// poll attempt into the per-request timeout.
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			os.Exit(1)
		}
		var held []net.Conn
		for {
			conn, err := listener.Accept()
			if err != nil {
				os.Exit(1)
			}
			held = append(held, conn)
		}
	}
}

// Builds a supervisor whose child is this test binary running
// TestHelperProcess in the given mode.
func newTestSupervisor(t *testing.T, mode string, attempts int) *Supervisor {
	t.Helper()

	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_MODE", mode)

	cfg := config.Default()
	cfg.Backend.DataDir = t.TempDir()
	cfg.Health = config.HealthConfig{
		Path:           "/api/config",
		Attempts:       attempts,
		Interval:       20 * time.Millisecond,
		RequestTimeout: 250 * time.Millisecond,
	}

	return NewSupervisor(Options{
		Config:      cfg,
		BackendPath: os.Args[0],
		BackendArgs: []string{"-test.run=TestHelperProcess"},
	})
}

// Waits until the given port is bindable again, which is the observable
// proof that the child has been killed and its socket released.
func requirePortReleased(t *testing.T, p uint16) {
	t.Helper()

	allocator := port.New("")
	require.Eventually(t, func() bool {
		return allocator.Probe(p)
	}, 3*time.Second, 20*time.Millisecond, "child still holds port %d", p)
}

func TestStartReachesReady(t *testing.T) {
	sup := newTestSupervisor(t, "ready", 100)
	defer sup.Stop()

	require.Zero(t, sup.Port(), "port must be 0 before start")
	require.Equal(t, StateIdle, sup.State())

	p, err := sup.Start(context.Background())
	require.NoError(t, err)
	require.NotZero(t, p)

	assert.Equal(t, StateReady, sup.State())
	assert.Equal(t, p, sup.Port())
}

func TestStartTreats404BackendAsReady(t *testing.T) {
	sup := newTestSupervisor(t, "notfound", 100)
	defer sup.Stop()

	p, err := sup.Start(context.Background())
	require.NoError(t, err)
	require.NotZero(t, p)
	assert.Equal(t, StateReady, sup.State())
}

func TestStartKillsChildOnHealthTimeout(t *testing.T) {
	sup := newTestSupervisor(t, "mute", 3)

	p, err := sup.Start(context.Background())
	require.ErrorIs(t, err, ErrHealthCheck)
	require.Zero(t, p)

	assert.Equal(t, StateFailed, sup.State())
	assert.NotZero(t, sup.Port(), "allocated port is retained after a failed start")

	// The already-spawned child must not survive the failed start.
	requirePortReleased(t, sup.Port())
}

func TestStartFailsOnMissingExecutable(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.DataDir = t.TempDir()

	sup := NewSupervisor(Options{
		Config:      cfg,
		BackendPath: filepath.Join(t.TempDir(), "no-such-backend"),
	})

	_, err := sup.Start(context.Background())
	require.ErrorIs(t, err, ErrSpawn)
	assert.Equal(t, StateFailed, sup.State())
}

func TestStartAgainAfterFailure(t *testing.T) {
	sup := newTestSupervisor(t, "mute", 2)

	_, err := sup.Start(context.Background())
	require.ErrorIs(t, err, ErrHealthCheck)
	requirePortReleased(t, sup.Port())

	// The host may retry a failed start; flip the mock backend to healthy.
	t.Setenv("HELPER_MODE", "ready")
	sup.cfg.Health.Attempts = 100

	p, err := sup.Start(context.Background())
	require.NoError(t, err)
	require.NotZero(t, p)
	assert.Equal(t, StateReady, sup.State())

	sup.Stop()
	requirePortReleased(t, p)
}

func TestStartRejectedWhileRunning(t *testing.T) {
	sup := newTestSupervisor(t, "ready", 100)
	defer sup.Stop()

	_, err := sup.Start(context.Background())
	require.NoError(t, err)

	_, err = sup.Start(context.Background())
	require.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestStopIsIdempotent(t *testing.T) {
	sup := newTestSupervisor(t, "ready", 100)

	p, err := sup.Start(context.Background())
	require.NoError(t, err)

	sup.Stop()
	requirePortReleased(t, p)
	require.Equal(t, StateStopped, sup.State())

	// A second stop observes no handle and does nothing.
	sup.Stop()
	assert.Equal(t, StateStopped, sup.State())
	assert.Equal(t, p, sup.Port(), "port survives repeated stops")
}

func TestStopBeforeStartIsNoOp(t *testing.T) {
	sup := newTestSupervisor(t, "ready", 100)

	sup.Stop()

	assert.Equal(t, StateIdle, sup.State())
	assert.Zero(t, sup.Port())
}
