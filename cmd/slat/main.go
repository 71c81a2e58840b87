package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slatview/slat/internal/app"
)

var (
	configPath string
	prefsPath  string
	logFile    string
)

var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "slat [directory]",
		Short:   "Browse large directories with windowed rendering",
		Long:    "slat is a terminal file browser that renders only the visible window of a directory listing, with inline previews cached under a byte budget.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options{
				ConfigPath: configPath,
				PrefsPath:  prefsPath,
				LogFile:    logFile,
			}
			if len(args) == 1 {
				opts.StartDir = args[0]
			}
			return app.Run(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/slat/config.toml)")
	cmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "preferences file path (default ~/.config/slat/prefs.toml)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write structured logs to this file")
	return cmd
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "slat: %v\n", err)
		return 1
	}
	return 0
}
