// Provides platform-appropriate paths for the launcher daemon.
//
// Application data follows XDG conventions on Linux and platform-native
// conventions on macOS and Windows, with "suzent" as the subdirectory shared
// with the desktop shell. Runtime files (PID, state) live under the daemon
// name "suzentd". Bundled resources, including the backend executable, are
// resolved relative to the launcher binary itself.
package paths
