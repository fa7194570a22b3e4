package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/yourorg/brokerage/internal/domain"
)

type PortfolioRepo struct {
	db *sqlx.DB
}

func NewPortfolioRepo(db *sqlx.DB) *PortfolioRepo {
	return &PortfolioRepo{db: db}
}

func (r *PortfolioRepo) Create(ctx context.Context, p *domain.Portfolio) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
		INSERT INTO portfolios (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.Name).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PortfolioRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Portfolio, error) {
	var portfolios []domain.Portfolio
	err := r.db.SelectContext(ctx, &portfolios,
		`SELECT * FROM portfolios WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	return portfolios, nil
}

// GetOwnedTx resolves a portfolio by id and owner in one query, so a
// portfolio belonging to another user is indistinguishable from one
// that does not exist.
func (r *PortfolioRepo) GetOwnedTx(ctx context.Context, tx *sqlx.Tx, id, userID uuid.UUID) (*domain.Portfolio, error) {
	var p domain.Portfolio
	err := tx.GetContext(ctx, &p,
		`SELECT * FROM portfolios WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PortfolioRepo) Rename(ctx context.Context, id, userID uuid.UUID, newName string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE portfolios SET name = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		newName, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("portfolio %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
