// Parses flags and configures logging for the launcher daemon.
//
// The daemon accepts the following flags:
//
//	-q, --quiet     Suppress informational output.
//	-d, --debug     Enable debug output.
//	    --dev       Assume an externally-run backend on the dev port.
//	    --control   Control API listen address.
//	    --data-dir  Application data directory.
//	    --backend   Backend executable path.
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is installed with the final level before any command
// runs.
package cli
