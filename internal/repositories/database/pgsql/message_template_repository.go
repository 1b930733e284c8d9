package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
	"github.com/SscSPs/club_tab_app/internal/models"
	"github.com/SscSPs/club_tab_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const templateColumns = `template_id, event_type, template, is_active, created_at, updated_at`

type PgxMessageTemplateRepository struct {
	db PgxPool
}

func newPgxMessageTemplateRepository(db PgxPool) portsrepo.MessageTemplateRepositoryFacade {
	return &PgxMessageTemplateRepository{db: db}
}

var _ portsrepo.MessageTemplateRepositoryFacade = (*PgxMessageTemplateRepository)(nil)

func scanTemplate(row rowScanner) (domain.MessageTemplate, error) {
	var m models.MessageTemplate
	if err := row.Scan(&m.TemplateID, &m.EventType, &m.Template, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return domain.MessageTemplate{}, err
	}
	return mapping.ToDomainMessageTemplate(m), nil
}

func (r *PgxMessageTemplateRepository) findOne(ctx context.Context, what, query string, arg any) (*domain.MessageTemplate, error) {
	t, err := scanTemplate(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("message template %s: %w", what, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find message template %s: %w", what, err)
	}
	return &t, nil
}

func (r *PgxMessageTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.MessageTemplate, error) {
	return r.findOne(ctx, templateID, `SELECT `+templateColumns+` FROM message_templates WHERE template_id = $1;`, templateID)
}

func (r *PgxMessageTemplateRepository) FindTemplateByEventType(ctx context.Context, eventType domain.EventType) (*domain.MessageTemplate, error) {
	return r.findOne(ctx, string(eventType), `SELECT `+templateColumns+` FROM message_templates WHERE event_type = $1;`, string(eventType))
}

func (r *PgxMessageTemplateRepository) ListTemplates(ctx context.Context) ([]domain.MessageTemplate, error) {
	rows, err := r.db.Query(ctx, `SELECT `+templateColumns+` FROM message_templates ORDER BY event_type;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query message templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.MessageTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message template row: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message template rows: %w", err)
	}
	return templates, nil
}

func (r *PgxMessageTemplateRepository) SaveTemplateIfMissing(ctx context.Context, template domain.MessageTemplate) (bool, error) {
	m := mapping.ToModelMessageTemplate(template)
	cmdTag, err := r.db.Exec(ctx, `
		INSERT INTO message_templates (`+templateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_type) DO NOTHING;`,
		m.TemplateID, m.EventType, m.Template, m.IsActive, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to save message template: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *PgxMessageTemplateRepository) UpdateTemplate(ctx context.Context, template domain.MessageTemplate) error {
	m := mapping.ToModelMessageTemplate(template)
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE message_templates SET template = $1, is_active = $2, updated_at = $3 WHERE template_id = $4;`,
		m.Template, m.IsActive, m.UpdatedAt, m.TemplateID)
	if err != nil {
		return fmt.Errorf("failed to update message template: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("message template %s: %w", m.TemplateID, apperrors.ErrNotFound)
	}
	return nil
}
