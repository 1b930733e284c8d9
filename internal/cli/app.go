package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/club_tab_app/internal/adapters/events"
	"github.com/SscSPs/club_tab_app/internal/adapters/telegram"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/core/services"
	"github.com/SscSPs/club_tab_app/internal/platform/config"
	"github.com/SscSPs/club_tab_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/club_tab_app/internal/repositories/memory"
	"github.com/SscSPs/club_tab_app/internal/seed"
	"github.com/SscSPs/club_tab_app/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

// app owns the long-lived collaborators of one process.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	repos    portsrepo.RepositoryProvider
	services *portssvc.ServiceContainer
	events   portssvc.EventPublisher
	runner   *services.AsyncRunner
}

// newApp opens storage and builds the service container. background selects
// the async runner for post-commit side effects; CLI jobs run them inline.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, background bool) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	switch cfg.DBDriver {
	case config.DriverMemory:
		a.repos = memory.NewRepositoryProvider(memory.NewStore())
	default:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		a.pool = pool
		a.repos = pgsql.NewRepositoryProvider(pool)
		logger.Info("Database connection pool established.")
	}

	defaults, err := seed.Load()
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to load seed defaults: %w", err)
	}

	var sender portssvc.MessageSender
	if cfg.DevMode {
		sender = telegram.LogSender{}
	} else {
		sender = telegram.NewBotSender(cfg.TelegramAPIBaseURL, cfg.BotToken, cfg.TelegramSendTimeout)
	}

	if len(cfg.KafkaBrokers) > 0 {
		a.events = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("Publishing ledger events to Kafka", slog.String("topic", cfg.KafkaTopic))
	} else {
		a.events = events.NoopPublisher{}
	}

	adapters := services.Adapters{
		Verifier: telegram.NewInitDataVerifier(cfg.BotToken, cfg.TelegramInitDataMaxAge),
		Sender:   sender,
		Events:   a.events,
		Runner:   services.InlineRunner{},
		Defaults: defaults,
	}
	if background {
		a.runner = services.NewAsyncRunner()
		adapters.Runner = a.runner
	}

	a.services = services.NewServiceContainer(cfg, a.repos, adapters)
	return a, nil
}

// Close drains background work before releasing the event writer and the pool.
func (a *app) Close(ctx context.Context) {
	if a.runner != nil {
		waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := a.runner.Wait(waitCtx); err != nil {
			a.logger.Warn("Background tasks still running at shutdown", slog.String("error", err.Error()))
		}
		cancel()
	}
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Error("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
