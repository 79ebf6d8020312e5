package main

import (
	"fittrack/internal/repository"
	"fittrack/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "applies pending database migrations",
	SilenceUsage: true,
	RunE:         runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Migrate(cmd.Context()); err != nil {
		logger.Logger().Error("migration failed", zap.Error(err))
		return err
	}

	logger.Logger().Info("migrations applied")
	return nil
}
