package cli

import (
	pgmigrations "airport-cyber-crisis/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return pgmigrations.Run(cmd.Context(), cfg.Postgres.URL)
		},
	}
}
