package main

import (
	"fmt"
	"os"

	"github.com/suzent/suzentd/internal/cli"
)

// The entry point for the suzentd launcher daemon.
//
// Executes the root command. If any error occurs during execution, it is
// reported on stderr and the process exits with a non-zero code.
func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "suzentd:", err)
		os.Exit(1)
	}
}
