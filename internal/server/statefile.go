package server

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/suzent/suzentd/internal/paths"
)

// Discovery record the desktop shell reads to find a running daemon.
type stateFile struct {
	PID         int       `json:"pid"`
	ControlAddr string    `json:"control_addr"`
	BackendPort uint16    `json:"backend_port"`
	Instance    string    `json:"instance"`
	StartedAt   time.Time `json:"started_at"`
}

// Writes the daemon PID and the launcher state file to the runtime
// directory so the shell can detect a running daemon and reach the control
// API.
func (s *Server) writeStateFiles() error {
	if err := os.MkdirAll(paths.Runtime(), paths.DefaultDirMode); err != nil {
		return err
	}

	pid := []byte(fmt.Sprintf("%d", os.Getpid()))
	if err := os.WriteFile(paths.PIDFile(), pid, paths.DefaultFileMode); err != nil {
		return err
	}

	state := stateFile{
		PID:         os.Getpid(),
		ControlAddr: s.Addr(),
		BackendPort: s.launcher.Port(),
		Instance:    s.instanceID,
		StartedAt:   s.startedAt,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(paths.StateFile(), data, paths.DefaultFileMode)
}

// Removes the discovery files. Missing files are not an error; a previous
// stop may already have cleaned up.
func (s *Server) removeStateFiles() {
	os.Remove(paths.StateFile())
	os.Remove(paths.PIDFile())
}
