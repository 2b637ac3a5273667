package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
)

type AnswerRepository struct {
	db  *sql.DB
	ids *IDAllocator
}

func NewAnswerRepository(db *sql.DB, ids *IDAllocator) *AnswerRepository {
	return &AnswerRepository{db: db, ids: ids}
}

// Create allocates an answer id and stores the record in one transaction.
func (r *AnswerRepository) Create(ctx context.Context, questionID uint64, author, descriptionCID string) (*models.Answer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := r.ids.NextTx(ctx, tx, EntityAnswer)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO answers (id, question_id, author, description_cid, correct, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`, id, questionID, author, descriptionCID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert answer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit answer creation: %w", err)
	}

	return &models.Answer{
		ID:             id,
		QuestionID:     questionID,
		Author:         author,
		DescriptionCID: descriptionCID,
		CreatedAt:      now,
	}, nil
}

// FindByID retrieves an answer by id. Returns nil when it does not exist.
func (r *AnswerRepository) FindByID(ctx context.Context, id uint64) (*models.Answer, error) {
	query := `
		SELECT id, question_id, author, description_cid, correct, created_at
		FROM answers
		WHERE id = ?
	`

	answer := &models.Answer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&answer.ID, &answer.QuestionID, &answer.Author,
		&answer.DescriptionCID, &answer.Correct, &answer.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find answer: %w", err)
	}
	return answer, nil
}

// FindCorrect returns the answer flagged correct for a question, or nil if
// the question is still open.
func (r *AnswerRepository) FindCorrect(ctx context.Context, questionID uint64) (*models.Answer, error) {
	query := `
		SELECT id, question_id, author, description_cid, correct, created_at
		FROM answers
		WHERE question_id = ? AND correct = 1
	`

	answer := &models.Answer{}
	err := r.db.QueryRowContext(ctx, query, questionID).Scan(
		&answer.ID, &answer.QuestionID, &answer.Author,
		&answer.DescriptionCID, &answer.Correct, &answer.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find correct answer: %w", err)
	}
	return answer, nil
}

// CountByQuestion counts all answers submitted to a question.
func (r *AnswerRepository) CountByQuestion(ctx context.Context, questionID uint64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM answers WHERE question_id = ?", questionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count answers: %w", err)
	}
	return count, nil
}

// ListByQuestion returns a question's answers in insertion order.
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID uint64, limit, offset int) ([]*models.Answer, error) {
	query := `
		SELECT id, question_id, author, description_cid, correct, created_at
		FROM answers
		WHERE question_id = ?
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, questionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	answers := []*models.Answer{}
	for rows.Next() {
		answer := &models.Answer{}
		if err := rows.Scan(
			&answer.ID, &answer.QuestionID, &answer.Author,
			&answer.DescriptionCID, &answer.Correct, &answer.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	return answers, nil
}
