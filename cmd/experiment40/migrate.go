package main

import (
	"github.com/spf13/cobra"

	"github.com/joestump/experiment40/internal/config"
	"github.com/joestump/experiment40/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			database, err := db.New(cmd.Context(), cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(cmd.Context(), database, cfg.DB.Driver, log); err != nil {
				return err
			}

			log.Info("migrations complete")
			return nil
		},
	}
}
