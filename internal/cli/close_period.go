package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(closePeriodCmd)
	closePeriodCmd.Flags().Int64("admin-telegram-id", 0, "Telegram id of the admin recorded as closing the period")
	_ = closePeriodCmd.MarkFlagRequired("admin-telegram-id")
	closePeriodCmd.Flags().String("period-id", "", "Only close if this period is still the open one")
}

var closePeriodCmd = &cobra.Command{
	Use:   "close-period",
	Short: "Close the open fiscal period",
	Long: `Closes the open fiscal period the same way the admin API does. Intended for
scheduled closes; pass --period-id to make a retried job a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		telegramID, _ := cmd.Flags().GetInt64("admin-telegram-id")
		periodID, _ := cmd.Flags().GetString("period-id")

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

		admin, err := a.repos.MemberRepo.FindMemberByTelegramID(ctx, telegramID)
		if err != nil {
			return fmt.Errorf("failed to find admin with telegram id %d: %w", telegramID, err)
		}

		result, err := a.services.Fiscal.ClosePeriod(ctx, *admin, periodID)
		if err != nil {
			logger.Error("Failed to close fiscal period", slog.String("error", err.Error()))
			return err
		}
		logger.Info("Fiscal period closed",
			slog.String("closed_period_id", result.ClosedPeriodID),
			slog.String("new_period_id", result.NewPeriodID),
			slog.Int("debts_created", result.DebtsCreated),
			slog.Int64("members_reset", result.MembersReset))
		return nil
	},
}
