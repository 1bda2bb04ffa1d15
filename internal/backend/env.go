package backend

import (
	"fmt"
	"os"
	"strings"

	"github.com/suzent/suzentd/internal/paths"
)

// Environment variable names the backend reads at startup. The set is fixed;
// the shell, the launcher, and the backend all agree on these keys.
const (
	envHost    = "SUZENT_HOST"
	envPort    = "SUZENT_PORT"
	envAppData = "SUZENT_APP_DATA"
	envChatsDB = "CHATS_DB_PATH"
	envMemory  = "LANCEDB_URI"
	envSandbox = "SANDBOX_DATA_PATH"
	envSkills  = "SKILLS_DIR"
)

// Builds the environment for the backend process.
//
// The launcher's own environment is inherited, then overlaid with the listen
// address and the persistent store paths, all rooted under the given data
// directory. The data directory must already be absolute.
func environ(host string, port uint16, dataDir string) []string {
	overrides := map[string]string{
		envHost:    host,
		envPort:    fmt.Sprintf("%d", port),
		envAppData: dataDir,
		envChatsDB: paths.ChatsDB(dataDir),
		envMemory:  paths.MemoryStore(dataDir),
		envSandbox: paths.SandboxData(dataDir),
		envSkills:  paths.Skills(dataDir),
	}

	return mergeEnviron(os.Environ(), overrides)
}

// Merges override variables on top of a base "key=value" environment slice.
// Later values win; malformed base entries are dropped.
func mergeEnviron(base []string, overrides map[string]string) []string {
	merged := make(map[string]string, len(base)+len(overrides))
	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			merged[k] = v
		}
	}
	for k, v := range overrides {
		merged[k] = v
	}

	result := make([]string, 0, len(merged))
	for k, v := range merged {
		result = append(result, k+"="+v)
	}
	return result
}
