package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	"github.com/suzent/suzentd/internal"
)

const (

	// Application name used for the shared data directory. The desktop shell
	// and the backend both resolve their persistent stores under it.
	appName = "suzent"

	// Filename of the bundled backend executable, without platform suffix.
	backendBinary = "suzent-backend"

	// Directory under the resource root that holds bundled executables.
	binariesDir = "binaries"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the per-install application data directory.
//
//	Linux:   ~/.local/share/suzent
//	macOS:   ~/Library/Application Support/suzent
//	Windows: %LOCALAPPDATA%\suzent
func Data() string {
	return filepath.Join(xdg.DataHome, appName)
}

// Path to the directory for runtime files (PID and state files).
//
//	Linux:   $XDG_RUNTIME_DIR/suzentd or /run/user/<uid>/suzentd
//	macOS:   ~/Library/Caches/suzentd/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, internal.Name)
	}
	return filepath.Join(xdg.CacheHome, internal.Name, "run")
}

// Default path to the PID file.
func PIDFile() string {
	return filepath.Join(Runtime(), internal.Name+".pid")
}

// Default path to the state file the desktop shell reads to discover the
// control address and backend port.
func StateFile() string {
	return filepath.Join(Runtime(), "launcher.json")
}

// Path to the primary chat database file under the given data directory.
func ChatsDB(dataDir string) string {
	return filepath.Join(dataDir, "chats.db")
}

// Path to the vector-memory store directory under the given data directory.
func MemoryStore(dataDir string) string {
	return filepath.Join(dataDir, "memory")
}

// Path to the sandbox data directory under the given data directory.
func SandboxData(dataDir string) string {
	return filepath.Join(dataDir, "sandbox-data")
}

// Path to the skills directory under the given data directory.
func Skills(dataDir string) string {
	return filepath.Join(dataDir, "skills")
}

// Resolves the bundled backend executable under the given resource directory.
//
// The executable lives in the "binaries" subdirectory and carries an ".exe"
// suffix on Windows. Returns an error if the file does not exist, so a broken
// bundle is reported before spawn is attempted.
func Backend(resourceDir string) (string, error) {
	name := backendBinary
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	path := filepath.Join(resourceDir, binariesDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backend executable not found at %s: %w", path, err)
	}

	return path, nil
}

// Default resource directory: the directory containing the running binary.
//
// Installers place the launcher next to the "binaries" directory, so the
// executable's own location is the resource root.
func Resources() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}

	return filepath.Dir(resolved), nil
}
