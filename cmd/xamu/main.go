package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/config"
	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/logging"
)

var (
	cfg     *config.Config
	logger  *slog.Logger
	cleanup = func() {}

	newLogger = logging.New
)

var rootCmd = &cobra.Command{
	Use:   "xamu",
	Short: "XAMU wetlands field data server",
	Long: `xamu records wetland field observations for consulting clients and
their projects, and serves the web app used to capture, analyse and export them.

Run without a subcommand to start the web server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.LogLevel = lvl
		}
		logger, cleanup, err = newLogger(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, statsCmd, exportCmd)
}

// execute runs the command line and releases the logger afterwards, including
// when the command fails.
func execute(ctx context.Context, args []string) error {
	defer func() {
		cleanup()
		cleanup = func() {}
	}()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		log.Printf("xamu: %v", err)
		os.Exit(1)
	}
}
