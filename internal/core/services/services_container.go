package services

import (
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/platform/config"
	"github.com/SscSPs/club_tab_app/internal/seed"
)

// Adapters are the outbound collaborators shared by the services.
type Adapters struct {
	Verifier portssvc.IdentityVerifier
	Sender   portssvc.MessageSender
	Events   portssvc.EventPublisher
	Runner   portssvc.BackgroundRunner
	Defaults *seed.Defaults
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, adapters Adapters) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Notification goes first; every workflow service sends through it after commit.
	container.Notification = NewNotificationService(
		repos.TemplateRepo,
		adapters.Sender,
		cfg.NotificationConcurrency,
	)

	shared := []ServiceOption{
		WithNotifier(container.Notification),
		WithEventPublisher(adapters.Events),
		WithBackgroundRunner(adapters.Runner),
	}

	container.Member = NewMemberService(repos.TxManager, repos.MemberRepo, shared...)
	container.Transaction = NewTransactionService(
		repos.TxManager,
		repos.TxRepo,
		repos.MemberRepo,
		repos.ProductRepo,
		cfg.AutoApprovePurchases,
		shared...,
	)
	container.Fiscal = NewFiscalService(repos.TxManager, repos.FiscalRepo, repos.MemberRepo, repos.TxRepo, shared...)
	container.Debt = NewDebtService(repos.TxManager, repos.FiscalRepo, repos.MemberRepo, shared...)
	container.Product = NewProductService(repos.ProductRepo)
	container.Template = NewMessageTemplateService(repos.TemplateRepo)
	container.Auth = NewAuthService(cfg, adapters.Verifier, container.Member)
	container.Seeder = NewSeederService(adapters.Defaults, repos.ProductRepo, repos.TemplateRepo, container.Member, container.Fiscal)

	return container
}
