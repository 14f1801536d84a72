package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"millionaire-service/internal/config"
	"millionaire-service/internal/infra/memory"
	"millionaire-service/internal/infra/postgres"
	"millionaire-service/internal/logger"
)

// NewSeedCmd loads the bundled question set into postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert or refresh the bundled questions in postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log.Level, cfg.Log.File)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := postgres.SeedQuestions(cmd.Context(), db, memory.SampleQuestions())
			if err != nil {
				return err
			}
			log.Info("questions seeded", zap.Int64("rows", n))
			return nil
		},
	}
}
