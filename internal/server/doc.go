// Implements the loopback control API the desktop shell talks to.
//
// The server listens on a loopback TCP address (an ephemeral port by
// default) and publishes its resolved address through a state file in the
// runtime directory, alongside a PID file. The shell queries /api/port and
// /api/status, loads /bootstrap.js into the embedded browser context at
// window creation to receive the one-shot backend port injection, and posts
// /api/shutdown on exit.
//
// CORS is restricted to the webview origins the shell presents; nothing
// here is reachable off the local machine.
//
// Example usage:
//
//	srv, err := server.New(server.Config{
//	    Launcher:   sup,
//	    OnShutdown: cancel,
//	})
//	if err != nil {
//	    return err
//	}
//
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
//	srv.Wait()
package server
