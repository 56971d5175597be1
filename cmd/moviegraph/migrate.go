package main

import (
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/mantonx/moviegraph/internal/modules/modulemanager"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog tables",
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

			if err := modulemanager.Registry.MigrateAll(db, cfg.Modules.Disabled, log); err != nil {
				return err
			}
			log.Info("migrations complete")
			return nil
		},
	}
}
