package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/suzent/suzentd/internal"
	"github.com/suzent/suzentd/internal/logging"
)

// Represents the root command for the launcher daemon.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Dev     bool       `help:"Assume an externally-run backend on the dev port instead of spawning the bundled one."`
	Control string     `help:"Override the control API listen address." placeholder:"ADDR"`
	DataDir string     `help:"Override the application data directory." placeholder:"PATH"`
	Backend string     `help:"Override the backend executable path." placeholder:"PATH"`
	Start   StartCmd   `cmd:"" help:"Start the launcher daemon."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("The Suzent launcher daemon.\n\nSupervises the backend sidecar for the desktop shell and publishes its port over a loopback control API."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	flush, err := logging.Setup(
		RootCmd.Debug || internal.IsDebug(),
		RootCmd.Quiet || internal.IsQuiet(),
	)
	if err != nil {
		return err
	}
	defer flush()

	zap.L().Debug("build", zap.String("version", internal.VersionString()))
	zap.L().Debug("suzentd is running",
		zap.Int("pid", os.Getpid()),
		zap.Strings("args", os.Args),
	)

	return kongCtx.Run()
}
