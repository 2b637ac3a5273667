package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
)

type StakeRepository struct {
	db *sql.DB
}

func NewStakeRepository(db *sql.DB) *StakeRepository {
	return &StakeRepository{db: db}
}

// Deposit accumulates a staker's contribution to a question and bumps the
// owning forum's cumulative total in one transaction. The token transfer
// into escrow has already happened when this is called.
func (r *StakeRepository) Deposit(ctx context.Context, questionID, forumID uint64, staker string, amount decimal.Decimal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO stakes (question_id, staker, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount), updated_at = VALUES(updated_at)
	`, questionID, staker, amount.String(), now, now)
	if err != nil {
		return fmt.Errorf("failed to record stake: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE forums SET total_staked = total_staked + ?, updated_at = ? WHERE id = ?
	`, amount.String(), now, forumID)
	if err != nil {
		return fmt.Errorf("failed to update forum cumulative stake: %w", err)
	}

	return tx.Commit()
}

// TotalFor sums the unreleased escrow held for a question.
func (r *StakeRepository) TotalFor(ctx context.Context, questionID uint64) (decimal.Decimal, error) {
	var total string
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM stakes
		WHERE question_id = ? AND released_at IS NULL
	`, questionID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum stakes: %w", err)
	}
	return parseDecimal(total), nil
}

// ListByQuestion returns the individual stake records for a question.
func (r *StakeRepository) ListByQuestion(ctx context.Context, questionID uint64) ([]*models.Stake, error) {
	query := `
		SELECT question_id, staker, amount, released_at, created_at, updated_at
		FROM stakes
		WHERE question_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stakes: %w", err)
	}
	defer rows.Close()

	stakes := []*models.Stake{}
	for rows.Next() {
		stake := &models.Stake{}
		var amount string
		if err := rows.Scan(
			&stake.QuestionID, &stake.Staker, &amount,
			&stake.ReleasedAt, &stake.CreatedAt, &stake.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stake: %w", err)
		}
		stake.Amount = parseDecimal(amount)
		stakes = append(stakes, stake)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stakes: %w", err)
	}

	return stakes, nil
}
