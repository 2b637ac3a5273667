// Package token implements the fungible token account ledger the engine
// debits and credits for stakes and payouts. Balances live in their own
// table; the engine never touches them outside Transfer.
package token

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("transfer amount must be positive")
)

type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Transfer moves amount from one account to another. The debit carries a
// balance guard so an account can never go negative; zero rows affected
// means insufficient funds and nothing is credited.
func (l *Ledger) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		UPDATE balances SET balance = balance - ?, updated_at = ? WHERE address = ? AND balance >= ?
	`, amount.String(), now, from, amount.String())
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", from, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO balances (address, balance, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE balance = balance + VALUES(balance), updated_at = VALUES(updated_at)
	`, to, amount.String(), now, now)
	if err != nil {
		return fmt.Errorf("failed to credit %s: %w", to, err)
	}

	return tx.Commit()
}

// BalanceOf returns an account's balance, zero for unknown accounts.
func (l *Ledger) BalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	var balance string
	err := l.db.QueryRowContext(ctx,
		"SELECT balance FROM balances WHERE address = ?", address).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}

	d, err := decimal.NewFromString(balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse balance for %s: %w", address, err)
	}
	return d, nil
}

// Mint credits freshly issued tokens to an account. Only reachable through
// the faucet endpoint, which is disabled outside development.
func (l *Ledger) Mint(ctx context.Context, address string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	now := time.Now()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO balances (address, balance, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE balance = balance + VALUES(balance), updated_at = VALUES(updated_at)
	`, address, amount.String(), now, now)
	if err != nil {
		return fmt.Errorf("failed to mint to %s: %w", address, err)
	}
	return nil
}
