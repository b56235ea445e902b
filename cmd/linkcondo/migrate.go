package main

import (
	"fmt"

	"github.com/deppfellow/linkcondo/internal/config"
	"github.com/deppfellow/linkcondo/internal/database"
	"github.com/deppfellow/linkcondo/internal/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	Long: `Apply every pending migration to the database configured by the
LINKCONDO_DATABASE.* variables. Already applied migrations are skipped.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.NewLoggerWithService(cfg.Observability, nil)

	if err := database.Migrate(cmd.Context(), &log, cfg); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
