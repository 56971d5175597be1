package main

import (
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the reference roles and movie statuses",
		Long:  "Seed migrates the catalog tables and inserts missing reference rows. Existing rows are left untouched.",
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

			if err := database.Migrate(db); err != nil {
				return err
			}
			if err := database.Seed(cmd.Context(), db); err != nil {
				return err
			}
			log.Info("reference data seeded",
				"roles", len(database.ReferenceRoles),
				"statuses", len(database.ReferenceStatuses))
			return nil
		},
	}
}
