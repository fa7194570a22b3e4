// Package ledger owns user cash: deposits, withdrawals and the
// append-only transaction log recording them. Trade-driven balance
// changes happen in the execution engine and are recorded as orders
// only, never as ledger transactions.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/yourorg/brokerage/internal/domain"
)

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type UserStore interface {
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.User, error)
	UpdateBalanceTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, balance decimal.Decimal) error
}

type TransactionStore interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, t *domain.Transaction) error
}

type Service struct {
	tx           TxRunner
	users        UserStore
	transactions TransactionStore
}

func NewService(tx TxRunner, users UserStore, transactions TransactionStore) *Service {
	return &Service{tx: tx, users: users, transactions: transactions}
}

// AddFunds credits the user's balance and appends a positive-amount
// transaction, both inside one transaction.
func (s *Service) AddFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero: %w", domain.ErrInvalidArgument)
	}
	var newBalance decimal.Decimal
	err := s.tx.RunInTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdateTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		newBalance = user.Balance.Add(amount)
		if err := s.users.UpdateBalanceTx(ctx, tx, userID, newBalance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		entry := &domain.Transaction{UserID: userID, Amount: amount}
		if err := s.transactions.InsertTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// WithdrawFunds debits the user's balance and appends a
// negative-amount transaction. The balance is checked under the row
// lock and can never go negative.
func (s *Service) WithdrawFunds(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero: %w", domain.ErrInvalidArgument)
	}
	var newBalance decimal.Decimal
	err := s.tx.RunInTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdateTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if user.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		newBalance = user.Balance.Sub(amount)
		if err := s.users.UpdateBalanceTx(ctx, tx, userID, newBalance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		entry := &domain.Transaction{UserID: userID, Amount: amount.Neg()}
		if err := s.transactions.InsertTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}
