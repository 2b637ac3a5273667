package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAllocator_NextTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	allocator := NewIDAllocator(db)
	ctx := context.Background()

	t.Run("Sequential", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE entity_counters").
			WithArgs(EntityQuestion).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("UPDATE entity_counters").
			WithArgs(EntityQuestion).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		first, err := allocator.NextTx(ctx, tx, EntityQuestion)
		require.NoError(t, err)
		second, err := allocator.NextTx(ctx, tx, EntityQuestion)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		assert.Equal(t, uint64(1), first)
		assert.Equal(t, uint64(2), second)
	})

	t.Run("UnknownEntity", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE entity_counters").
			WithArgs("comet").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		defer tx.Rollback()

		_, err = allocator.NextTx(ctx, tx, "comet")
		assert.ErrorContains(t, err, "unknown entity class")
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
