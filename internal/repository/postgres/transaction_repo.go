package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/yourorg/brokerage/internal/domain"
)

type TransactionRepo struct {
	db *sqlx.DB
}

func NewTransactionRepo(db *sqlx.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) InsertTx(ctx context.Context, tx *sqlx.Tx, t *domain.Transaction) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, amount)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		t.UserID, t.Amount).
		Scan(&t.ID, &t.CreatedAt)
}

func (r *TransactionRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := r.db.SelectContext(ctx, &transactions,
		`SELECT * FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
