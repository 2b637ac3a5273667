package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
)

type QuestionRepository struct {
	db  *sql.DB
	ids *IDAllocator
}

func NewQuestionRepository(db *sql.DB, ids *IDAllocator) *QuestionRepository {
	return &QuestionRepository{db: db, ids: ids}
}

// Create inserts a question together with its initial stake and the forum
// counter updates in a single transaction. Either the question exists with
// its stake recorded, or nothing was written.
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question, initialStake decimal.Decimal) (*models.Question, error) {
	tagsJSON, err := json.Marshal(q.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := r.ids.NextTx(ctx, tx, EntityQuestion)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO questions (id, forum_id, author, title, description_cid, repository_url, tags, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`, id, q.ForumID, q.Author, q.Title, q.DescriptionCID, q.RepositoryURL, string(tagsJSON), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert question: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stakes (question_id, staker, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, q.Author, initialStake.String(), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert initial stake: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE forums
		SET total_questions = total_questions + 1, total_staked = total_staked + ?, updated_at = ?
		WHERE id = ?
	`, initialStake.String(), now, q.ForumID)
	if err != nil {
		return nil, fmt.Errorf("failed to update forum counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit question creation: %w", err)
	}

	created := *q
	created.ID = id
	created.Status = models.QuestionOpen
	created.Amount = initialStake
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// FindByID retrieves a question by id. Returns nil when it does not exist.
func (r *QuestionRepository) FindByID(ctx context.Context, id uint64) (*models.Question, error) {
	query := `
		SELECT id, forum_id, author, title, description_cid, repository_url, tags, status, created_at, updated_at
		FROM questions
		WHERE id = ?
	`

	question, err := scanQuestion(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	return question, nil
}

// CountByForum counts all questions ever created in a forum.
func (r *QuestionRepository) CountByForum(ctx context.Context, forumID uint64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM questions WHERE forum_id = ?", forumID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// ListByForum returns a forum's questions in insertion order.
func (r *QuestionRepository) ListByForum(ctx context.Context, forumID uint64, limit, offset int) ([]*models.Question, error) {
	query := `
		SELECT id, forum_id, author, title, description_cid, repository_url, tags, status, created_at, updated_at
		FROM questions
		WHERE forum_id = ?
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, forumID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := []*models.Question{}
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}

	return questions, nil
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	question := &models.Question{}
	var tagsJSON string

	err := row.Scan(
		&question.ID, &question.ForumID, &question.Author, &question.Title,
		&question.DescriptionCID, &question.RepositoryURL, &tagsJSON,
		&question.Status, &question.CreatedAt, &question.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	question.Tags = []string{}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &question.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for question %d: %w", question.ID, err)
		}
	}
	return question, nil
}
