// Command moviegraph serves the movie and person catalog over GraphQL.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/config"
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/mantonx/moviegraph/internal/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	// Modules register themselves with the module manager
	_ "github.com/mantonx/moviegraph/internal/modules/catalogmodule"
	_ "github.com/mantonx/moviegraph/internal/modules/databasemodule"
)

const configPathEnv = "MOVIEGRAPH_CONFIG_PATH"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "moviegraph",
		Short:         "GraphQL API over a movie and person catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML or JSON config file (defaults to $"+configPathEnv+")")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd(), newVersionCmd())
	return root
}

// bootstrap loads the configuration and installs the root logger
func bootstrap() (*config.Config, hclog.Logger, error) {
	path := configPath
	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if err := config.Load(path); err != nil {
		return nil, nil, err
	}
	cfg := config.Get()

	err := logger.Setup(logger.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Output:   cfg.Logging.Output,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	log := logger.Default()
	if path != "" {
		log.Info("configuration loaded", "path", path)
	} else {
		log.Info("using default configuration")
	}
	return cfg, log, nil
}

// openDatabase connects with the configured pool settings
func openDatabase(cfg *config.Config, log hclog.Logger) (*gorm.DB, error) {
	return database.Open(cfg.Database, log.Named("database"))
}
