package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
)

type ForumRepository struct {
	db  *sql.DB
	ids *IDAllocator
}

func NewForumRepository(db *sql.DB, ids *IDAllocator) *ForumRepository {
	return &ForumRepository{db: db, ids: ids}
}

// Create allocates a forum id and stores the record in one transaction.
func (r *ForumRepository) Create(ctx context.Context, name, iconCID string) (*models.Forum, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := r.ids.NextTx(ctx, tx, EntityForum)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO forums (id, name, icon_cid, deleted, total_questions, total_staked, created_at, updated_at)
		VALUES (?, ?, ?, 0, 0, 0, ?, ?)
	`, id, name, iconCID, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert forum: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit forum creation: %w", err)
	}

	return &models.Forum{
		ID:          id,
		Name:        name,
		IconCID:     iconCID,
		TotalStaked: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// FindByID retrieves a forum by id, including soft-deleted records so that
// historical questions stay resolvable.
func (r *ForumRepository) FindByID(ctx context.Context, id uint64) (*models.Forum, error) {
	query := `
		SELECT id, name, icon_cid, deleted, total_questions, total_staked, created_at, updated_at
		FROM forums
		WHERE id = ?
	`

	forum, err := scanForum(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find forum: %w", err)
	}
	return forum, nil
}

// Update overwrites name and icon in place. Counters are untouched.
func (r *ForumRepository) Update(ctx context.Context, id uint64, name, iconCID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE forums SET name = ?, icon_cid = ?, updated_at = ? WHERE id = ?",
		name, iconCID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update forum: %w", err)
	}
	return nil
}

// SoftDelete marks the forum as deleted. The row is never removed.
func (r *ForumRepository) SoftDelete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE forums SET deleted = 1, updated_at = ? WHERE id = ?",
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to soft delete forum: %w", err)
	}
	return nil
}

// CountActive counts forums that have not been soft-deleted.
func (r *ForumRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM forums WHERE deleted = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count forums: %w", err)
	}
	return count, nil
}

// ListActive returns non-deleted forums in id order.
func (r *ForumRepository) ListActive(ctx context.Context, limit, offset int) ([]*models.Forum, error) {
	query := `
		SELECT id, name, icon_cid, deleted, total_questions, total_staked, created_at, updated_at
		FROM forums
		WHERE deleted = 0
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list forums: %w", err)
	}
	defer rows.Close()

	forums := []*models.Forum{}
	for rows.Next() {
		forum, err := scanForum(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forum: %w", err)
		}
		forums = append(forums, forum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read forums: %w", err)
	}

	return forums, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanForum(row rowScanner) (*models.Forum, error) {
	forum := &models.Forum{}
	var totalStaked string

	err := row.Scan(
		&forum.ID, &forum.Name, &forum.IconCID, &forum.Deleted,
		&forum.TotalQuestions, &totalStaked, &forum.CreatedAt, &forum.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	forum.TotalStaked = parseDecimal(totalStaked)
	return forum, nil
}

// parseDecimal handles empty strings as zero, matching how DECIMAL columns
// come back from the driver.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
