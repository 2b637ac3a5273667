package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Entity classes tracked by the allocator.
const (
	EntityForum    = "forum"
	EntityQuestion = "question"
	EntityAnswer   = "answer"
)

// IDAllocator hands out sequential ids per entity class from the
// entity_counters table. Ids start at 1 and are never reused, even when the
// entity is later soft-deleted.
type IDAllocator struct {
	db *sql.DB
}

func NewIDAllocator(db *sql.DB) *IDAllocator {
	return &IDAllocator{db: db}
}

// NextTx claims the next id for an entity class inside an existing
// transaction, so the counter increment commits or rolls back together with
// the insert that uses it.
func (a *IDAllocator) NextTx(ctx context.Context, tx *sql.Tx, entity string) (uint64, error) {
	// LAST_INSERT_ID(expr) makes the incremented counter readable from the
	// same connection without a second round trip.
	res, err := tx.ExecContext(ctx,
		"UPDATE entity_counters SET last_id = LAST_INSERT_ID(last_id + 1) WHERE entity = ?",
		entity,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to advance id counter for %s: %w", entity, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("unknown entity class %q", entity)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read allocated id for %s: %w", entity, err)
	}
	return uint64(id), nil
}
