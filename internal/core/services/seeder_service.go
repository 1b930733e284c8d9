package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/seed"
	"github.com/google/uuid"
)

type seederService struct {
	BaseService
	defaults     *seed.Defaults
	productRepo  portsrepo.ProductRepositoryFacade
	templateRepo portsrepo.MessageTemplateRepositoryFacade
	members      portssvc.MemberIdentitySvc
	fiscal       portssvc.FiscalSvcFacade
}

// NewSeederService prepares an empty or partially seeded ledger for use. Seeding is idempotent.
func NewSeederService(
	defaults *seed.Defaults,
	productRepo portsrepo.ProductRepositoryFacade,
	templateRepo portsrepo.MessageTemplateRepositoryFacade,
	members portssvc.MemberIdentitySvc,
	fiscal portssvc.FiscalSvcFacade,
	opts ...ServiceOption,
) portssvc.SeederSvc {
	return &seederService{
		BaseService:  newBaseService(opts...),
		defaults:     defaults,
		productRepo:  productRepo,
		templateRepo: templateRepo,
		members:      members,
		fiscal:       fiscal,
	}
}

var _ portssvc.SeederSvc = (*seederService)(nil)

func (s *seederService) Seed(ctx context.Context, adminTelegramIDs []int64) error {
	if err := s.members.BootstrapAdmins(ctx, adminTelegramIDs); err != nil {
		return err
	}
	if err := s.seedProducts(ctx); err != nil {
		return err
	}
	if err := s.seedTemplates(ctx); err != nil {
		return err
	}
	if _, err := s.fiscal.EnsureOpenPeriod(ctx); err != nil {
		return fmt.Errorf("failed to open fiscal period: %w", err)
	}
	return nil
}

// seedProducts only fills an empty catalogue, so admin edits and removals stick.
func (s *seederService) seedProducts(ctx context.Context) error {
	count, err := s.productRepo.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := s.Now()
	for _, p := range s.defaults.Products {
		product := domain.Product{
			ProductID: uuid.NewString(),
			Name:      p.Name,
			Price:     p.Price,
			Emoji:     p.Emoji,
			IsActive:  true,
			SortOrder: p.SortOrder,
			CreatedAt: now,
		}
		if err := s.productRepo.SaveProduct(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
	}
	s.LogInfo(ctx, "Seeded products", slog.Int("count", len(s.defaults.Products)))
	return nil
}

// seedTemplates adds templates for events that have none. Existing texts are kept.
func (s *seederService) seedTemplates(ctx context.Context) error {
	now := s.Now()
	added := 0
	for _, event := range domain.AllEventTypes {
		tmpl := domain.MessageTemplate{
			TemplateID: uuid.NewString(),
			EventType:  event,
			Template:   s.defaults.Templates[event],
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		inserted, err := s.templateRepo.SaveTemplateIfMissing(ctx, tmpl)
		if err != nil {
			return fmt.Errorf("failed to seed template %s: %w", event, err)
		}
		if inserted {
			added++
		}
	}
	if added > 0 {
		s.LogInfo(ctx, "Seeded message templates", slog.Int("count", added))
	}
	return nil
}
