package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/config"
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/mantonx/moviegraph/internal/logger"
	"github.com/mantonx/moviegraph/internal/metrics"
	"github.com/mantonx/moviegraph/internal/server"
	"github.com/spf13/cobra"
)

const configReloadDebounce = 500 * time.Millisecond

func newServeCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer database.Close(db)

			var m *metrics.Metrics
			if cfg.Metrics.Enabled {
				m = metrics.New(cfg.Metrics.Namespace)
			}

			srv, err := server.New(server.Options{
				Config:  cfg,
				DB:      db,
				Logger:  log,
				Metrics: m,
			})
			if err != nil {
				return err
			}

			if watch {
				stop := watchConfig(log)
				defer stop()
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch-config", true, "reload the config file when it changes")
	return cmd
}

// watchConfig applies runtime-adjustable settings on reload. Only the log level
// takes effect without a restart.
func watchConfig(log hclog.Logger) func() {
	config.AddWatcher(func(oldConfig, newConfig *config.Config) {
		if oldConfig.Logging.Level != newConfig.Logging.Level {
			logger.SetLevel(newConfig.Logging.Level)
			log.Info("log level changed", "from", oldConfig.Logging.Level, "to", newConfig.Logging.Level)
		}
	})

	manager := config.GetConfigManager()
	if manager.ConfigPath() == "" {
		return func() {}
	}

	watcher, err := config.NewFileWatcher(manager, log.Named("config"), configReloadDebounce)
	if err != nil {
		log.Warn("config watcher unavailable", "error", err)
		return func() {}
	}
	if err := watcher.Start(); err != nil {
		log.Warn("config watcher failed to start", "error", err)
		return func() {}
	}
	return func() {
		if err := watcher.Stop(); err != nil {
			log.Warn("config watcher stop failed", "error", err)
		}
	}
}
