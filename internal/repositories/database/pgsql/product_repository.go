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

const productColumns = `product_id, name, price, emoji, is_active, sort_order, created_at`

const activeProductClause = `is_active = TRUE`

type PgxProductRepository struct {
	db PgxPool
}

func newPgxProductRepository(db PgxPool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{db: db}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func scanProduct(row rowScanner) (domain.Product, error) {
	var m models.Product
	if err := row.Scan(&m.ProductID, &m.Name, &m.Price, &m.Emoji, &m.IsActive, &m.SortOrder, &m.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	return mapping.ToDomainProduct(m), nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = $1;`, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return &p, nil
}

func (r *PgxProductRepository) ListProducts(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if !includeInactive {
		query += ` WHERE ` + activeProductClause
	}
	query += ` ORDER BY sort_order, name;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

func (r *PgxProductRepository) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	_, err := r.db.Exec(ctx, `INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		m.ProductID, m.Name, m.Price, m.Emoji, m.IsActive, m.SortOrder, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product %s: %w", m.ProductID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		UPDATE products
		SET name = $1, price = $2, emoji = $3, is_active = $4, sort_order = $5
		WHERE product_id = $6;
	`
	cmdTag, err := r.db.Exec(ctx, query, m.Name, m.Price, m.Emoji, m.IsActive, m.SortOrder, m.ProductID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", m.ProductID, apperrors.ErrNotFound)
	}
	return nil
}
