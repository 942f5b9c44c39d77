package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studyhall-live/relay-server/internal/app"
	"github.com/studyhall-live/relay-server/internal/config"
	"github.com/studyhall-live/relay-server/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		pretty     bool
	)

	root := &cobra.Command{
		Use:           "relay-server",
		Short:         "studyhall real-time presence and session relay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&pretty, "pretty", false, "human-readable log output")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "start the relay server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLogger := log.New("info", pretty)

			cfg, path, err := config.Load(bootLogger, configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			logger := log.New(cfg.LogLevel, pretty)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting relay server")

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}
	root.AddCommand(serve)

	return root
}
