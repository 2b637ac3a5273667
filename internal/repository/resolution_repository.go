package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrQuestionAlreadyResolved reports that the status guard rejected the
// close because another resolution already committed.
var ErrQuestionAlreadyResolved = errors.New("question already resolved")

// ResolutionRepository applies the resolution write set — flag the answer,
// close the question, zero the escrow, bump the author's reputation — as a
// single transaction. Either all four mutations commit or none do.
type ResolutionRepository struct {
	db *sql.DB
}

func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Resolve commits the local effects of marking an answer correct. The
// status guard on the question update keeps a concurrent second resolution
// from committing even when both passed the service-level open check.
func (r *ResolutionRepository) Resolve(ctx context.Context, questionID, answerID uint64, answerAuthor string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	res, err := tx.ExecContext(ctx,
		"UPDATE questions SET status = 1, updated_at = ? WHERE id = ? AND status = 0",
		now, questionID)
	if err != nil {
		return fmt.Errorf("failed to close question: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: question %d", ErrQuestionAlreadyResolved, questionID)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE answers SET correct = 1 WHERE id = ?", answerID)
	if err != nil {
		return fmt.Errorf("failed to flag correct answer: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE stakes SET released_at = ?, updated_at = ? WHERE question_id = ? AND released_at IS NULL",
		now, now, questionID)
	if err != nil {
		return fmt.Errorf("failed to release stakes: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (address, reputation, created_at, updated_at)
		VALUES (?, 1, ?, ?)
		ON DUPLICATE KEY UPDATE reputation = reputation + 1, updated_at = VALUES(updated_at)
	`, answerAuthor, now, now)
	if err != nil {
		return fmt.Errorf("failed to increment reputation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit resolution: %w", err)
	}
	return nil
}
