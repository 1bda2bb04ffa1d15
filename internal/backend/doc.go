// Supervises the backend sidecar process for the desktop shell.
//
// A [Supervisor] owns exactly one child: it allocates an ephemeral loopback
// port, builds the child environment pointing at the per-install data
// stores, spawns the bundled backend executable, and polls its liveness
// endpoint with a fixed-interval, bounded-attempt budget before declaring it
// ready. Stop is a hard kill with no grace period; a start that fails after
// spawn kills the child before reporting, so no orphan survives any failure
// combination. Teardown is guaranteed by the owning command, which defers
// Stop on every exit path.
//
// The [External] strategy implements the same [Launcher] contract for dev
// mode, where the backend runs outside the launcher on a fixed port.
//
// Example usage:
//
//	sup := backend.NewSupervisor(backend.Options{Config: cfg})
//	defer sup.Stop()
//
//	port, err := sup.Start(ctx)
//	if err != nil {
//	    return err
//	}
package backend
