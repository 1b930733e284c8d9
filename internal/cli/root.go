package cli

import (
	"log/slog"
	"os"

	"github.com/SscSPs/club_tab_app/internal/platform/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tab_backend",
	Short: "Club tab and credit ledger backend",
	Long: `Backend for the club tab Mini App. Members buy products on credit,
report payments for admin approval and settle the debts left by fiscal period closes.
Without a subcommand the HTTP server is started.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	return logger
}

// loadConfig is shared by every subcommand.
func loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		return nil, err
	}
	return cfg, nil
}
