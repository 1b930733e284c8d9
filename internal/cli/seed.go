package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bootstrap admins, default products, message templates and the first fiscal period",
	Long: `Seeding is idempotent. Products are only added to an empty catalogue and
existing message templates are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := loadConfig(logger)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx, cfg, logger, false)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		if err := a.services.Seeder.Seed(ctx, cfg.AdminTelegramIDs); err != nil {
			logger.Error("Seeding failed", slog.String("error", err.Error()))
			return err
		}
		logger.Info("Seeding complete", slog.Int("admins", len(cfg.AdminTelegramIDs)))
		return nil
	},
}
