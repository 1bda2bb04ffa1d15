package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/suzent/suzentd/internal"
	"github.com/suzent/suzentd/internal/backend"
	"github.com/suzent/suzentd/internal/config"
	"github.com/suzent/suzentd/internal/server"
)

// Represents the 'suzentd start' command.
type StartCmd struct{}

// Executes the start command.
//
// Starts the backend (spawned sidecar, or an assumed external instance in
// dev mode), publishes its port over the control API, and blocks until the
// context is cancelled (SIGINT, SIGTERM, or a shutdown request). The
// deferred Stop calls guarantee the child is killed and the discovery files
// are removed on every exit path, including a failed start.
func (c *StartCmd) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if RootCmd.DataDir != "" {
		cfg.Backend.DataDir = RootCmd.DataDir
	}
	if RootCmd.Control != "" {
		cfg.Control.Addr = RootCmd.Control
	}

	launcher := newLauncher(cfg)
	defer launcher.Stop()

	backendPort, err := launcher.Start(ctx)
	if err != nil {
		return err
	}

	zap.L().Info("backend configured", zap.Uint16("port", backendPort))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, err := server.New(server.Config{
		Addr:       cfg.Control.Addr,
		Launcher:   launcher,
		OnShutdown: cancel,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()

	zap.L().Info("suzentd is running")

	<-runCtx.Done()

	zap.L().Info("shutting down")
	return nil
}

// Selects the launch strategy: the sidecar supervisor by default, or the
// external strategy when dev mode is requested by flag or build default.
func newLauncher(cfg *config.Config) backend.Launcher {
	if RootCmd.Dev || internal.IsDev() {
		return backend.NewExternal(cfg)
	}

	return backend.NewSupervisor(backend.Options{
		Config:      cfg,
		BackendPath: RootCmd.Backend,
	})
}
